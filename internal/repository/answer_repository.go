package repository

import (
	"context"

	"github.com/lshigami/examhall/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	Create(ctx context.Context, answer *model.Answer) error
	FindByID(ctx context.Context, id uint) (*model.Answer, error)
	Update(ctx context.Context, answer *model.Answer) error
	Delete(ctx context.Context, id uint) error
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(ctx context.Context, answer *model.Answer) error {
	return r.db.WithContext(ctx).Create(answer).Error
}

func (r *answerRepository) FindByID(ctx context.Context, id uint) (*model.Answer, error) {
	var answer model.Answer
	if err := r.db.WithContext(ctx).First(&answer, id).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) Update(ctx context.Context, answer *model.Answer) error {
	// Select forces is_correct=false to be written; Updates skips zero values otherwise
	return r.db.WithContext(ctx).
		Model(answer).
		Select("answer_text", "is_correct", "answer_order").
		Updates(answer).Error
}

func (r *answerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Answer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
