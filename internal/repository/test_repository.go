package repository

import (
	"context"

	"github.com/lshigami/examhall/internal/model"
	"gorm.io/gorm"
)

type TestRepository interface {
	Create(ctx context.Context, test *model.Test) error
	Update(ctx context.Context, test *model.Test) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Test, error)
	FindByIDWithContent(ctx context.Context, id uint) (*model.Test, error)
	FindActive(ctx context.Context) ([]model.Test, error)
	FindAllWithCounts(ctx context.Context) ([]model.TestWithCounts, error)
	Activate(ctx context.Context, id uint) error
	Deactivate(ctx context.Context, id uint) error

	// Transaction runs fn against a repository bound to one database
	// transaction. Activate nests as a savepoint inside it.
	Transaction(ctx context.Context, fn func(tx TestRepository) error) error
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) Create(ctx context.Context, test *model.Test) error {
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *testRepository) Update(ctx context.Context, test *model.Test) error {
	return r.db.WithContext(ctx).
		Model(test).
		Select("title", "description", "duration_minutes", "passing_percentage").
		Updates(test).Error
}

func (r *testRepository) Delete(ctx context.Context, id uint) error {
	// questions, answers, sessions and recorded answers go with it through
	// ON DELETE CASCADE
	res := r.db.WithContext(ctx).Delete(&model.Test{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *testRepository) FindByID(ctx context.Context, id uint) (*model.Test, error) {
	var test model.Test
	if err := r.db.WithContext(ctx).First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

// FindByIDWithContent loads the test with its questions and their answers,
// each ordered by its order index.
func (r *testRepository) FindByIDWithContent(ctx context.Context, id uint) (*model.Test, error) {
	var test model.Test
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.question_order ASC, questions.id ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.answer_order ASC, answers.id ASC")
		}).
		First(&test, id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) FindActive(ctx context.Context) ([]model.Test, error) {
	tests := []model.Test{}
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&tests).Error
	return tests, err
}

func (r *testRepository) FindAllWithCounts(ctx context.Context) ([]model.TestWithCounts, error) {
	results := []model.TestWithCounts{}
	err := r.db.WithContext(ctx).Model(&model.Test{}).
		Select("tests.*, " +
			"(SELECT COUNT(*) FROM questions WHERE questions.test_id = tests.id) AS questions_count, " +
			"(SELECT COUNT(*) FROM exam_sessions WHERE exam_sessions.test_id = tests.id) AS sessions_count").
		Order("tests.created_at DESC").
		Scan(&results).Error
	return results, err
}

// Activate makes id the only active test. Other tests are switched off first
// in the same transaction so the single-active index never sees two rows.
func (r *testRepository) Activate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var test model.Test
		if err := tx.Select("id").First(&test, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Test{}).
			Where("id <> ? AND is_active = ?", id, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.Test{}).Where("id = ?", id).Update("is_active", true).Error
	})
}

func (r *testRepository) Deactivate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&model.Test{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *testRepository) Transaction(ctx context.Context, fn func(tx TestRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&testRepository{db: tx})
	})
}
