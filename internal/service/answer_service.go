package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/examhall/internal/dto"
	"github.com/lshigami/examhall/internal/metrics"
	"github.com/lshigami/examhall/internal/model"
	"github.com/lshigami/examhall/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AnswerService records a student's current choice per question.
type AnswerService interface {
	RecordAnswer(ctx context.Context, token string, req dto.RecordAnswerRequest) error
}

type answerService struct {
	sessionRepo  repository.SessionRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
}

func NewAnswerService(
	sessionRepo repository.SessionRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
) AnswerService {
	return &answerService{
		sessionRepo:  sessionRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
	}
}

// RecordAnswer upserts the (session, question) choice. The completion check
// and the write share one transaction holding the session row lock, so a
// concurrent finalization either sees this answer or rejects it.
func (s *answerService) RecordAnswer(ctx context.Context, token string, req dto.RecordAnswerRequest) error {
	session, err := findSessionByToken(ctx, s.sessionRepo, token)
	if err != nil {
		return err
	}
	if session.IsCompleted() {
		return fmt.Errorf("%w: session %d", ErrAlreadyCompleted, session.ID)
	}
	if req.QuestionID == 0 || req.AnswerID == 0 {
		return fmt.Errorf("%w: questionId and answerId are required", ErrInvalidInput)
	}

	// membership checks run outside the session lock
	if err := s.validateChoice(ctx, session.TestID, req.QuestionID, req.AnswerID); err != nil {
		return err
	}

	err = s.sessionRepo.Transaction(ctx, func(tx repository.SessionRepository) error {
		locked, err := tx.LockByToken(ctx, token)
		if err != nil {
			return err
		}
		if locked.IsCompleted() {
			return repository.ErrSessionCompleted
		}
		return tx.UpsertAnswer(ctx, &model.RecordedAnswer{
			SessionID:  locked.ID,
			QuestionID: req.QuestionID,
			AnswerID:   req.AnswerID,
			AnsweredAt: time.Now().UTC(),
		})
	})
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrSessionCompleted):
		return fmt.Errorf("%w: session %d", ErrAlreadyCompleted, session.ID)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: session", ErrNotFound)
	default:
		log.Error().Err(err).Uint("sessionID", session.ID).Uint("questionID", req.QuestionID).Msg("RecordAnswer: Failed to store answer")
		return fmt.Errorf("error recording answer: %w", err)
	}

	metrics.AnswersRecorded.Inc()
	log.Debug().Uint("sessionID", session.ID).Uint("questionID", req.QuestionID).Uint("answerID", req.AnswerID).Msg("Answer recorded")
	return nil
}

func (s *answerService) validateChoice(ctx context.Context, testID, questionID, answerID uint) error {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: question %d", ErrNotFound, questionID)
		}
		return fmt.Errorf("error loading question %d: %w", questionID, err)
	}
	if question.TestID != testID {
		return fmt.Errorf("%w: question %d is not part of this test", ErrInvalidInput, questionID)
	}

	answer, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: answer %d does not exist", ErrInvalidInput, answerID)
		}
		return fmt.Errorf("error loading answer %d: %w", answerID, err)
	}
	if answer.QuestionID != questionID {
		return fmt.Errorf("%w: answer %d does not belong to question %d", ErrInvalidInput, answerID, questionID)
	}
	return nil
}
