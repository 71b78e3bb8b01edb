package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lshigami/examhall/internal/dto"
	"github.com/lshigami/examhall/internal/model"
	"github.com/lshigami/examhall/internal/repository"
	"github.com/lshigami/examhall/internal/scoring"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// adminSessionListLimit caps the admin overview of completed sessions.
const adminSessionListLimit = 100

// HistoryService rebuilds past sessions from stored answers. Scores are
// read back as stamped at finalization, never recomputed.
type HistoryService interface {
	GetHistoryForEmail(ctx context.Context, email string) ([]dto.SessionSummaryDTO, error)
	GetSessionDetail(ctx context.Context, sessionID uint) (*dto.SessionDetailDTO, error)
	ListCompletedSessions(ctx context.Context) ([]dto.SessionSummaryDTO, error)
}

type historyService struct {
	testRepo    repository.TestRepository
	sessionRepo repository.SessionRepository
}

func NewHistoryService(testRepo repository.TestRepository, sessionRepo repository.SessionRepository) HistoryService {
	return &historyService{testRepo: testRepo, sessionRepo: sessionRepo}
}

func (s *historyService) GetHistoryForEmail(ctx context.Context, email string) ([]dto.SessionSummaryDTO, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	sessions, err := s.sessionRepo.FindCompletedByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Msg("GetHistoryForEmail: Failed to load sessions")
		return nil, fmt.Errorf("error fetching history: %w", err)
	}
	return toSessionSummaries(sessions), nil
}

func (s *historyService) ListCompletedSessions(ctx context.Context) ([]dto.SessionSummaryDTO, error) {
	sessions, err := s.sessionRepo.FindCompleted(ctx, adminSessionListLimit)
	if err != nil {
		log.Error().Err(err).Msg("ListCompletedSessions: Failed to load sessions")
		return nil, fmt.Errorf("error fetching sessions: %w", err)
	}
	return toSessionSummaries(sessions), nil
}

// GetSessionDetail works for in-progress sessions too; their review simply
// shows the answers recorded so far.
func (s *historyService) GetSessionDetail(ctx context.Context, sessionID uint) (*dto.SessionDetailDTO, error) {
	session, err := s.sessionRepo.FindByIDWithTest(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
		}
		log.Error().Err(err).Uint("sessionID", sessionID).Msg("GetSessionDetail: Failed to load session")
		return nil, fmt.Errorf("error loading session %d: %w", sessionID, err)
	}

	test, err := s.testRepo.FindByIDWithContent(ctx, session.TestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: test %d", ErrNotFound, session.TestID)
		}
		log.Error().Err(err).Uint("testID", session.TestID).Msg("GetSessionDetail: Failed to load test content")
		return nil, fmt.Errorf("error loading test %d: %w", session.TestID, err)
	}

	recorded, err := s.sessionRepo.FindRecordedAnswers(ctx, session.ID)
	if err != nil {
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("GetSessionDetail: Failed to load recorded answers")
		return nil, fmt.Errorf("error loading recorded answers: %w", err)
	}

	review := scoring.Evaluate(test.Questions, recorded).Review
	if session.Test.ID == 0 {
		session.Test = *test
	}

	return &dto.SessionDetailDTO{
		Session:         toSessionSummary(session),
		DetailedResults: toReviewDTOs(review),
	}, nil
}

func toSessionSummaries(sessions []model.ExamSession) []dto.SessionSummaryDTO {
	summaries := make([]dto.SessionSummaryDTO, 0, len(sessions))
	for i := range sessions {
		summaries = append(summaries, toSessionSummary(&sessions[i]))
	}
	return summaries
}

func toSessionSummary(session *model.ExamSession) dto.SessionSummaryDTO {
	summary := dto.SessionSummaryDTO{
		ID:               session.ID,
		TestID:           session.TestID,
		TestTitle:        session.Test.Title,
		PassingThreshold: session.Test.PassingPercentage,
		StudentName:      session.StudentName,
		StudentEmail:     session.StudentEmail,
		CreatedAt:        session.CreatedAt,
		CompletedAt:      session.CompletedAt,
		CorrectAnswers:   session.CorrectAnswers,
		TotalQuestions:   session.TotalQuestions,
		TimeTakenSeconds: session.TimeTakenSeconds,
	}
	if session.ScorePercentage.Valid {
		score := session.ScorePercentage.Decimal.InexactFloat64()
		passed := scoring.Passed(session.ScorePercentage.Decimal, session.Test.PassingPercentage)
		summary.ScorePercentage = &score
		summary.Passed = &passed
	}
	return summary
}

func toReviewDTOs(review []scoring.QuestionReview) []dto.QuestionReviewDTO {
	out := make([]dto.QuestionReviewDTO, 0, len(review))
	for _, r := range review {
		item := dto.QuestionReviewDTO{
			QuestionID:        r.QuestionID,
			QuestionText:      r.QuestionText,
			QuestionOrder:     r.QuestionOrder,
			UserAnswerID:      r.UserAnswerID,
			UserAnswerCorrect: r.UserAnswerCorrect,
			CorrectAnswerIDs:  r.CorrectAnswerIDs,
			AllAnswers:        make([]dto.ReviewAnswerDTO, 0, len(r.AllAnswers)),
		}
		for _, a := range r.AllAnswers {
			item.AllAnswers = append(item.AllAnswers, dto.ReviewAnswerDTO{
				ID:          a.ID,
				AnswerText:  a.AnswerText,
				IsCorrect:   a.IsCorrect,
				AnswerOrder: a.AnswerOrder,
			})
		}
		out = append(out, item)
	}
	return out
}
