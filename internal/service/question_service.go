package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lshigami/examhall/internal/dto"
	"github.com/lshigami/examhall/internal/model"
	"github.com/lshigami/examhall/internal/repository"
	"github.com/rs/zerolog/log"
)

// QuestionService authors the questions and answers of a test. Order indexes
// are unique within their parent; collisions come back as ErrInvalidInput.
type QuestionService interface {
	AddQuestion(ctx context.Context, testID uint, req dto.QuestionUpsertDTO) (uint, error)
	UpdateQuestion(ctx context.Context, id uint, req dto.QuestionUpsertDTO) error
	DeleteQuestion(ctx context.Context, id uint) error
	AddAnswer(ctx context.Context, questionID uint, req dto.AnswerUpsertDTO) (uint, error)
	UpdateAnswer(ctx context.Context, id uint, req dto.AnswerUpsertDTO) error
	DeleteAnswer(ctx context.Context, id uint) error
}

type questionService struct {
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
}

func NewQuestionService(
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
) QuestionService {
	return &questionService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
	}
}

func (s *questionService) AddQuestion(ctx context.Context, testID uint, req dto.QuestionUpsertDTO) (uint, error) {
	if err := validateQuestionUpsert(req); err != nil {
		return 0, err
	}
	if _, err := s.testRepo.FindByID(ctx, testID); err != nil {
		return 0, translateWriteError(err, fmt.Sprintf("test %d", testID))
	}

	question := model.Question{
		TestID:        testID,
		QuestionText:  strings.TrimSpace(req.QuestionText),
		QuestionOrder: req.QuestionOrder,
	}
	if err := s.questionRepo.Create(ctx, &question); err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("AddQuestion: Failed to create question")
		return 0, translateWriteError(err, "question")
	}
	log.Info().Uint("testID", testID).Uint("questionID", question.ID).Msg("Question created")
	return question.ID, nil
}

func (s *questionService) UpdateQuestion(ctx context.Context, id uint, req dto.QuestionUpsertDTO) error {
	if err := validateQuestionUpsert(req); err != nil {
		return err
	}
	question, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		return translateWriteError(err, fmt.Sprintf("question %d", id))
	}
	question.QuestionText = strings.TrimSpace(req.QuestionText)
	question.QuestionOrder = req.QuestionOrder

	if err := s.questionRepo.Update(ctx, question); err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("UpdateQuestion: Failed to update question")
		return translateWriteError(err, fmt.Sprintf("question %d", id))
	}
	return nil
}

// DeleteQuestion also drops its answers through the cascade.
func (s *questionService) DeleteQuestion(ctx context.Context, id uint) error {
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("DeleteQuestion: Failed to delete question")
		return translateWriteError(err, fmt.Sprintf("question %d", id))
	}
	log.Info().Uint("questionID", id).Msg("Question deleted")
	return nil
}

func (s *questionService) AddAnswer(ctx context.Context, questionID uint, req dto.AnswerUpsertDTO) (uint, error) {
	if err := validateAnswerUpsert(req); err != nil {
		return 0, err
	}
	if _, err := s.questionRepo.FindByID(ctx, questionID); err != nil {
		return 0, translateWriteError(err, fmt.Sprintf("question %d", questionID))
	}

	answer := model.Answer{
		QuestionID:  questionID,
		AnswerText:  strings.TrimSpace(req.AnswerText),
		IsCorrect:   req.IsCorrect,
		AnswerOrder: req.AnswerOrder,
	}
	if err := s.answerRepo.Create(ctx, &answer); err != nil {
		log.Error().Err(err).Uint("questionID", questionID).Msg("AddAnswer: Failed to create answer")
		return 0, translateWriteError(err, "answer")
	}
	return answer.ID, nil
}

func (s *questionService) UpdateAnswer(ctx context.Context, id uint, req dto.AnswerUpsertDTO) error {
	if err := validateAnswerUpsert(req); err != nil {
		return err
	}
	answer, err := s.answerRepo.FindByID(ctx, id)
	if err != nil {
		return translateWriteError(err, fmt.Sprintf("answer %d", id))
	}
	answer.AnswerText = strings.TrimSpace(req.AnswerText)
	answer.IsCorrect = req.IsCorrect
	answer.AnswerOrder = req.AnswerOrder

	if err := s.answerRepo.Update(ctx, answer); err != nil {
		log.Error().Err(err).Uint("answerID", id).Msg("UpdateAnswer: Failed to update answer")
		return translateWriteError(err, fmt.Sprintf("answer %d", id))
	}
	return nil
}

func (s *questionService) DeleteAnswer(ctx context.Context, id uint) error {
	if err := s.answerRepo.Delete(ctx, id); err != nil {
		log.Error().Err(err).Uint("answerID", id).Msg("DeleteAnswer: Failed to delete answer")
		return translateWriteError(err, fmt.Sprintf("answer %d", id))
	}
	return nil
}

func validateQuestionUpsert(req dto.QuestionUpsertDTO) error {
	if strings.TrimSpace(req.QuestionText) == "" {
		return fmt.Errorf("%w: questionText is required", ErrInvalidInput)
	}
	if req.QuestionOrder < 1 {
		return fmt.Errorf("%w: questionOrder must be at least 1", ErrInvalidInput)
	}
	return nil
}

func validateAnswerUpsert(req dto.AnswerUpsertDTO) error {
	if strings.TrimSpace(req.AnswerText) == "" {
		return fmt.Errorf("%w: answerText is required", ErrInvalidInput)
	}
	if req.AnswerOrder < 1 {
		return fmt.Errorf("%w: answerOrder must be at least 1", ErrInvalidInput)
	}
	return nil
}
