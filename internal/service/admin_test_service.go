package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/examhall/internal/dto"
	"github.com/lshigami/examhall/internal/model"
	"github.com/lshigami/examhall/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AdminTestService interface {
	ListTests(ctx context.Context) ([]dto.AdminTestSummaryDTO, error)
	GetTest(ctx context.Context, id uint) (*dto.AdminTestDTO, error)
	CreateTest(ctx context.Context, req dto.TestUpsertDTO) (uint, error)
	UpdateTest(ctx context.Context, id uint, req dto.TestUpsertDTO) error
	DeleteTest(ctx context.Context, id uint) error
	ActivateTest(ctx context.Context, id uint) error
}

type adminTestService struct {
	testRepo repository.TestRepository
}

func NewAdminTestService(testRepo repository.TestRepository) AdminTestService {
	return &adminTestService{testRepo: testRepo}
}

func (s *adminTestService) ListTests(ctx context.Context) ([]dto.AdminTestSummaryDTO, error) {
	rows, err := s.testRepo.FindAllWithCounts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Admin ListTests: Failed to load tests")
		return nil, fmt.Errorf("error fetching tests: %w", err)
	}

	summaries := make([]dto.AdminTestSummaryDTO, 0, len(rows))
	for i := range rows {
		var summary dto.AdminTestSummaryDTO
		if err := copier.Copy(&summary, &rows[i].Test); err != nil {
			return nil, fmt.Errorf("error preparing test summary: %w", err)
		}
		summary.QuestionsCount = rows[i].QuestionsCount
		summary.SessionsCount = rows[i].SessionsCount
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetTest returns a test with full content, correctness flags included.
func (s *adminTestService) GetTest(ctx context.Context, id uint) (*dto.AdminTestDTO, error) {
	test, err := s.testRepo.FindByIDWithContent(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: test %d", ErrNotFound, id)
		}
		log.Error().Err(err).Uint("testID", id).Msg("Admin GetTest: Failed to load test")
		return nil, fmt.Errorf("error fetching test %d: %w", id, err)
	}

	resp := dto.AdminTestDTO{
		ID:                test.ID,
		Title:             test.Title,
		Description:       test.Description,
		DurationMinutes:   test.DurationMinutes,
		PassingPercentage: test.PassingPercentage,
		IsActive:          test.IsActive,
		CreatedAt:         test.CreatedAt,
		UpdatedAt:         test.UpdatedAt,
	}
	resp.Questions = make([]dto.AdminQuestionDTO, 0, len(test.Questions))
	for _, q := range test.Questions {
		aq := dto.AdminQuestionDTO{
			ID:            q.ID,
			TestID:        q.TestID,
			QuestionText:  q.QuestionText,
			QuestionOrder: q.QuestionOrder,
			Answers:       make([]dto.AdminAnswerDTO, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			aq.Answers = append(aq.Answers, toAdminAnswer(&a))
		}
		resp.Questions = append(resp.Questions, aq)
	}
	return &resp, nil
}

func (s *adminTestService) CreateTest(ctx context.Context, req dto.TestUpsertDTO) (uint, error) {
	if err := validateTestUpsert(req); err != nil {
		return 0, err
	}

	test := model.Test{
		Title:             strings.TrimSpace(req.Title),
		Description:       req.Description,
		DurationMinutes:   req.DurationMinutes,
		PassingPercentage: req.PassingPercentage,
	}
	activate := req.IsActive != nil && *req.IsActive
	err := s.testRepo.Transaction(ctx, func(tx repository.TestRepository) error {
		if err := tx.Create(ctx, &test); err != nil {
			log.Error().Err(err).Msg("Admin CreateTest: Failed to create test")
			return err
		}
		if !activate {
			return nil
		}
		if err := tx.Activate(ctx, test.ID); err != nil {
			log.Error().Err(err).Uint("testID", test.ID).Msg("Admin CreateTest: Failed to activate new test")
			return err
		}
		return nil
	})
	if err != nil {
		return 0, translateWriteError(err, "test")
	}

	log.Info().Uint("testID", test.ID).Str("title", test.Title).Msg("Test created")
	return test.ID, nil
}

func (s *adminTestService) UpdateTest(ctx context.Context, id uint, req dto.TestUpsertDTO) error {
	if err := validateTestUpsert(req); err != nil {
		return err
	}

	test, err := s.testRepo.FindByID(ctx, id)
	if err != nil {
		return translateWriteError(err, fmt.Sprintf("test %d", id))
	}
	test.Title = strings.TrimSpace(req.Title)
	test.Description = req.Description
	test.DurationMinutes = req.DurationMinutes
	test.PassingPercentage = req.PassingPercentage

	changeActive := req.IsActive != nil && *req.IsActive != test.IsActive
	err = s.testRepo.Transaction(ctx, func(tx repository.TestRepository) error {
		if err := tx.Update(ctx, test); err != nil {
			log.Error().Err(err).Uint("testID", id).Msg("Admin UpdateTest: Failed to update test")
			return err
		}
		if !changeActive {
			return nil
		}
		var err error
		if *req.IsActive {
			err = tx.Activate(ctx, id)
		} else {
			err = tx.Deactivate(ctx, id)
		}
		if err != nil {
			log.Error().Err(err).Uint("testID", id).Msg("Admin UpdateTest: Failed to change active flag")
		}
		return err
	})
	if err != nil {
		return translateWriteError(err, fmt.Sprintf("test %d", id))
	}
	return nil
}

func (s *adminTestService) DeleteTest(ctx context.Context, id uint) error {
	if err := s.testRepo.Delete(ctx, id); err != nil {
		log.Error().Err(err).Uint("testID", id).Msg("Admin DeleteTest: Failed to delete test")
		return translateWriteError(err, fmt.Sprintf("test %d", id))
	}
	log.Info().Uint("testID", id).Msg("Test deleted")
	return nil
}

// ActivateTest makes id the single active test.
func (s *adminTestService) ActivateTest(ctx context.Context, id uint) error {
	if err := s.testRepo.Activate(ctx, id); err != nil {
		log.Error().Err(err).Uint("testID", id).Msg("Admin ActivateTest: Failed to activate test")
		return translateWriteError(err, fmt.Sprintf("test %d", id))
	}
	log.Info().Uint("testID", id).Msg("Test activated")
	return nil
}

func validateTestUpsert(req dto.TestUpsertDTO) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if req.DurationMinutes < 1 {
		return fmt.Errorf("%w: durationMinutes must be at least 1", ErrInvalidInput)
	}
	if req.PassingPercentage < 0 || req.PassingPercentage > 100 {
		return fmt.Errorf("%w: passingPercentage must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}

func toAdminAnswer(a *model.Answer) dto.AdminAnswerDTO {
	return dto.AdminAnswerDTO{
		ID:          a.ID,
		QuestionID:  a.QuestionID,
		AnswerText:  a.AnswerText,
		IsCorrect:   a.IsCorrect,
		AnswerOrder: a.AnswerOrder,
	}
}
