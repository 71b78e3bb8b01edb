package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/examhall/internal/dto"
	"github.com/lshigami/examhall/internal/model"
	"github.com/lshigami/examhall/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CatalogService is the student-facing, read-only view of published tests.
type CatalogService interface {
	ListActiveTests(ctx context.Context) ([]dto.TestSummaryDTO, error)
	GetPublicTest(ctx context.Context, testID uint) (*dto.PublicTestDTO, error)
}

type catalogService struct {
	testRepo repository.TestRepository
}

func NewCatalogService(testRepo repository.TestRepository) CatalogService {
	return &catalogService{testRepo: testRepo}
}

func (s *catalogService) ListActiveTests(ctx context.Context) ([]dto.TestSummaryDTO, error) {
	tests, err := s.testRepo.FindActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get active tests from repository")
		return nil, fmt.Errorf("error fetching tests: %w", err)
	}

	summaries := make([]dto.TestSummaryDTO, 0, len(tests))
	for i := range tests {
		var summary dto.TestSummaryDTO
		if err := copier.Copy(&summary, &tests[i]); err != nil {
			return nil, fmt.Errorf("error preparing test summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetPublicTest returns an active test with ordered questions and answers.
// Inactive tests are reported as not found.
func (s *catalogService) GetPublicTest(ctx context.Context, testID uint) (*dto.PublicTestDTO, error) {
	test, err := s.testRepo.FindByIDWithContent(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: test %d", ErrNotFound, testID)
		}
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to get test details from repository")
		return nil, fmt.Errorf("error fetching test %d: %w", testID, err)
	}
	if !test.IsActive {
		return nil, fmt.Errorf("%w: test %d", ErrNotFound, testID)
	}
	return toPublicTest(test), nil
}

// toPublicTest maps field by field so a correctness flag can never leak.
func toPublicTest(test *model.Test) *dto.PublicTestDTO {
	resp := &dto.PublicTestDTO{
		ID:                test.ID,
		Title:             test.Title,
		Description:       test.Description,
		DurationMinutes:   test.DurationMinutes,
		PassingPercentage: test.PassingPercentage,
		Questions:         make([]dto.PublicQuestionDTO, 0, len(test.Questions)),
	}
	for _, q := range test.Questions {
		pq := dto.PublicQuestionDTO{
			ID:            q.ID,
			QuestionText:  q.QuestionText,
			QuestionOrder: q.QuestionOrder,
			Answers:       make([]dto.PublicAnswerDTO, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			pq.Answers = append(pq.Answers, dto.PublicAnswerDTO{
				ID:          a.ID,
				AnswerText:  a.AnswerText,
				AnswerOrder: a.AnswerOrder,
			})
		}
		resp.Questions = append(resp.Questions, pq)
	}
	return resp
}
