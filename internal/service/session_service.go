package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/examhall/internal/dto"
	"github.com/lshigami/examhall/internal/event"
	"github.com/lshigami/examhall/internal/metrics"
	"github.com/lshigami/examhall/internal/model"
	"github.com/lshigami/examhall/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SessionService owns the exam session record: creation, lookup by token and
// administrative deletion.
type SessionService interface {
	StartSession(ctx context.Context, req dto.StartSessionRequest) (*dto.StartSessionResponse, error)
	GetSessionByToken(ctx context.Context, token string) (*model.ExamSession, error)
	GetSessionStatus(ctx context.Context, token string) (*dto.SessionStatusDTO, error)
	DeleteSession(ctx context.Context, sessionID uint) error
}

type sessionService struct {
	testRepo    repository.TestRepository
	sessionRepo repository.SessionRepository
	publisher   event.Publisher
	newToken    func() (string, error)
}

func NewSessionService(
	testRepo repository.TestRepository,
	sessionRepo repository.SessionRepository,
	publisher event.Publisher,
) SessionService {
	return &sessionService{
		testRepo:    testRepo,
		sessionRepo: sessionRepo,
		publisher:   publisher,
		newToken:    NewSessionToken,
	}
}

func (s *sessionService) StartSession(ctx context.Context, req dto.StartSessionRequest) (*dto.StartSessionResponse, error) {
	name := strings.TrimSpace(req.StudentName)
	email := strings.TrimSpace(req.StudentEmail)
	if req.TestID == 0 || name == "" || email == "" {
		return nil, fmt.Errorf("%w: testId, studentName and studentEmail are required", ErrInvalidInput)
	}

	test, err := s.testRepo.FindByID(ctx, req.TestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: test %d", ErrNotFound, req.TestID)
		}
		log.Error().Err(err).Uint("testID", req.TestID).Msg("StartSession: Failed to load test")
		return nil, fmt.Errorf("error loading test %d: %w", req.TestID, err)
	}
	if !test.IsActive {
		return nil, fmt.Errorf("%w: test %d", ErrNotFound, req.TestID)
	}

	token, err := s.newToken()
	if err != nil {
		log.Error().Err(err).Msg("StartSession: Failed to generate session token")
		return nil, err
	}

	session := model.ExamSession{
		SessionToken: token,
		TestID:       test.ID,
		StudentName:  name,
		StudentEmail: email,
	}
	if err := s.sessionRepo.Create(ctx, &session); err != nil {
		log.Error().Err(err).Uint("testID", test.ID).Msg("StartSession: Failed to persist session")
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	metrics.SessionsStarted.Inc()
	log.Info().Uint("sessionID", session.ID).Uint("testID", test.ID).Msg("Exam session started")

	return &dto.StartSessionResponse{
		SessionID:       session.ID,
		SessionToken:    token,
		DurationMinutes: test.DurationMinutes,
	}, nil
}

func (s *sessionService) GetSessionByToken(ctx context.Context, token string) (*model.ExamSession, error) {
	return findSessionByToken(ctx, s.sessionRepo, token)
}

func (s *sessionService) GetSessionStatus(ctx context.Context, token string) (*dto.SessionStatusDTO, error) {
	session, err := findSessionByToken(ctx, s.sessionRepo, token)
	if err != nil {
		return nil, err
	}

	recorded, err := s.sessionRepo.FindRecordedAnswers(ctx, session.ID)
	if err != nil {
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("GetSessionStatus: Failed to load recorded answers")
		return nil, fmt.Errorf("error loading recorded answers: %w", err)
	}

	status := &dto.SessionStatusDTO{
		SessionID:     session.ID,
		TestID:        session.TestID,
		StudentName:   session.StudentName,
		StudentEmail:  session.StudentEmail,
		CreatedAt:     session.CreatedAt,
		CompletedAt:   session.CompletedAt,
		Completed:     session.IsCompleted(),
		AnsweredCount: len(recorded),
	}

	test, err := s.testRepo.FindByID(ctx, session.TestID)
	if err != nil {
		log.Warn().Err(err).Uint("testID", session.TestID).Msg("GetSessionStatus: Test of session could not be loaded")
	} else {
		status.DurationMinutes = test.DurationMinutes
	}
	return status, nil
}

// DeleteSession removes a session, in progress or completed, together with
// its recorded answers.
func (s *sessionService) DeleteSession(ctx context.Context, sessionID uint) error {
	if sessionID == 0 {
		return fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	if err := s.sessionRepo.DeleteWithAnswers(ctx, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
		}
		log.Error().Err(err).Uint("sessionID", sessionID).Msg("DeleteSession: Transaction failed")
		return fmt.Errorf("error deleting session %d: %w", sessionID, err)
	}

	metrics.SessionsDeleted.Inc()
	log.Info().Uint("sessionID", sessionID).Msg("Exam session deleted")

	if err := s.publisher.PublishSessionDeleted(ctx, event.SessionDeletedEvent{
		SessionID: sessionID,
		DeletedAt: time.Now().UTC(),
	}); err != nil {
		log.Warn().Err(err).Uint("sessionID", sessionID).Msg("DeleteSession: Failed to publish session.deleted")
	}
	return nil
}

func findSessionByToken(ctx context.Context, repo repository.SessionRepository, token string) (*model.ExamSession, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: session", ErrNotFound)
	}
	session, err := repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: session", ErrNotFound)
		}
		log.Error().Err(err).Msg("Failed to look up session by token")
		return nil, fmt.Errorf("error loading session: %w", err)
	}
	return session, nil
}
