package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/examhall/internal/dto"
	"github.com/lshigami/examhall/internal/event"
	"github.com/lshigami/examhall/internal/metrics"
	"github.com/lshigami/examhall/internal/model"
	"github.com/lshigami/examhall/internal/repository"
	"github.com/lshigami/examhall/internal/scoring"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ScoringService finalizes exam sessions.
type ScoringService interface {
	FinishSession(ctx context.Context, token string, req dto.FinishSessionRequest) (*dto.FinishSessionResponse, error)
}

type scoringService struct {
	testRepo    repository.TestRepository
	sessionRepo repository.SessionRepository
	publisher   event.Publisher
}

func NewScoringService(
	testRepo repository.TestRepository,
	sessionRepo repository.SessionRepository,
	publisher event.Publisher,
) ScoringService {
	return &scoringService{
		testRepo:    testRepo,
		sessionRepo: sessionRepo,
		publisher:   publisher,
	}
}

// FinishSession closes the session and scores it. Exactly one call per
// session succeeds; later calls return ErrAlreadyCompleted without touching
// the stored result. No deadline is enforced: the reported elapsed time is
// stored as given.
func (s *scoringService) FinishSession(ctx context.Context, token string, req dto.FinishSessionRequest) (*dto.FinishSessionResponse, error) {
	elapsed := req.Seconds()
	if elapsed < 0 {
		return nil, fmt.Errorf("%w: elapsedSeconds must not be negative", ErrInvalidInput)
	}

	session, err := findSessionByToken(ctx, s.sessionRepo, token)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, fmt.Errorf("%w: session %d", ErrAlreadyCompleted, session.ID)
	}

	test, err := s.testRepo.FindByIDWithContent(ctx, session.TestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: test %d", ErrNotFound, session.TestID)
		}
		log.Error().Err(err).Uint("testID", session.TestID).Msg("FinishSession: Failed to load test content")
		return nil, fmt.Errorf("error loading test %d: %w", session.TestID, err)
	}

	var result scoring.Result
	completedAt := time.Now().UTC()

	err = s.sessionRepo.Transaction(ctx, func(tx repository.SessionRepository) error {
		locked, err := tx.LockByToken(ctx, token)
		if err != nil {
			return err
		}
		if locked.IsCompleted() {
			return repository.ErrSessionCompleted
		}

		recorded, err := tx.FindRecordedAnswers(ctx, locked.ID)
		if err != nil {
			return err
		}

		result = scoring.Evaluate(test.Questions, recorded)

		return tx.Complete(ctx, locked.ID, model.SessionResult{
			CompletedAt:      completedAt,
			ScorePercentage:  result.ScorePercentage,
			CorrectAnswers:   result.CorrectAnswers,
			TotalQuestions:   result.TotalQuestions,
			TimeTakenSeconds: elapsed,
		})
	})
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrSessionCompleted):
		return nil, fmt.Errorf("%w: session %d", ErrAlreadyCompleted, session.ID)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("%w: session", ErrNotFound)
	default:
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("FinishSession: Finalization transaction failed")
		return nil, fmt.Errorf("error finishing session %d: %w", session.ID, err)
	}

	score := result.ScorePercentage.InexactFloat64()
	passed := scoring.Passed(result.ScorePercentage, test.PassingPercentage)

	metrics.SessionsCompleted.Inc()
	metrics.ScorePercentage.Observe(score)
	log.Info().
		Uint("sessionID", session.ID).
		Uint("testID", test.ID).
		Int("correctAnswers", result.CorrectAnswers).
		Int("totalQuestions", result.TotalQuestions).
		Str("scorePercentage", result.ScorePercentage.StringFixed(2)).
		Msg("Exam session finalized")

	if err := s.publisher.PublishSessionCompleted(ctx, event.SessionCompletedEvent{
		SessionID:       session.ID,
		TestID:          test.ID,
		StudentEmail:    session.StudentEmail,
		ScorePercentage: score,
		CorrectAnswers:  result.CorrectAnswers,
		TotalQuestions:  result.TotalQuestions,
		Passed:          passed,
		CompletedAt:     completedAt,
	}); err != nil {
		log.Warn().Err(err).Uint("sessionID", session.ID).Msg("FinishSession: Failed to publish session.completed")
	}

	return &dto.FinishSessionResponse{
		Success:         true,
		ScorePercentage: score,
		CorrectAnswers:  result.CorrectAnswers,
		TotalQuestions:  result.TotalQuestions,
		Passed:          passed,
		DetailedResults: toReviewDTOs(result.Review),
	}, nil
}
