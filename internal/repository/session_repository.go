package repository

import (
	"context"

	"github.com/lshigami/examhall/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.ExamSession) error
	FindByToken(ctx context.Context, token string) (*model.ExamSession, error)
	FindByIDWithTest(ctx context.Context, id uint) (*model.ExamSession, error)
	FindCompletedByEmail(ctx context.Context, email string) ([]model.ExamSession, error)
	FindCompleted(ctx context.Context, limit int) ([]model.ExamSession, error)
	FindRecordedAnswers(ctx context.Context, sessionID uint) ([]model.RecordedAnswer, error)

	// LockByToken reads the session with a row lock held until the
	// surrounding transaction ends. Outside Transaction it behaves like
	// FindByToken.
	LockByToken(ctx context.Context, token string) (*model.ExamSession, error)
	UpsertAnswer(ctx context.Context, answer *model.RecordedAnswer) error
	Complete(ctx context.Context, sessionID uint, result model.SessionResult) error
	DeleteWithAnswers(ctx context.Context, id uint) error

	// Transaction runs fn against a repository bound to one database
	// transaction. Returning an error rolls everything back.
	Transaction(ctx context.Context, fn func(tx SessionRepository) error) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.ExamSession) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(session).Error
}

func (r *sessionRepository) FindByToken(ctx context.Context, token string) (*model.ExamSession, error) {
	var session model.ExamSession
	if err := r.db.WithContext(ctx).Where("session_token = ?", token).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindByIDWithTest(ctx context.Context, id uint) (*model.ExamSession, error) {
	var session model.ExamSession
	if err := r.db.WithContext(ctx).Preload("Test").First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindCompletedByEmail(ctx context.Context, email string) ([]model.ExamSession, error) {
	sessions := []model.ExamSession{}
	err := r.db.WithContext(ctx).
		Preload("Test").
		Where("student_email = ? AND completed_at IS NOT NULL", email).
		Order("completed_at DESC, id DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) FindCompleted(ctx context.Context, limit int) ([]model.ExamSession, error) {
	sessions := []model.ExamSession{}
	err := r.db.WithContext(ctx).
		Preload("Test").
		Where("completed_at IS NOT NULL").
		Order("completed_at DESC, id DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) FindRecordedAnswers(ctx context.Context, sessionID uint) ([]model.RecordedAnswer, error) {
	answers := []model.RecordedAnswer{}
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("question_id ASC").
		Find(&answers).Error
	return answers, err
}

func (r *sessionRepository) LockByToken(ctx context.Context, token string) (*model.ExamSession, error) {
	var session model.ExamSession
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("session_token = ?", token).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// UpsertAnswer inserts the (session, question) row or overwrites its answer
// and timestamp when one exists.
func (r *sessionRepository) UpsertAnswer(ctx context.Context, answer *model.RecordedAnswer) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"answer_id", "answered_at"}),
		}).
		Create(answer).Error
}

// Complete stamps the result onto a session that is still open. A session
// that already has completed_at is left untouched and ErrSessionCompleted is
// returned.
func (r *sessionRepository) Complete(ctx context.Context, sessionID uint, result model.SessionResult) error {
	res := r.db.WithContext(ctx).
		Model(&model.ExamSession{}).
		Where("id = ? AND completed_at IS NULL", sessionID).
		Updates(map[string]interface{}{
			"completed_at":       result.CompletedAt,
			"score_percentage":   result.ScorePercentage,
			"correct_answers":    result.CorrectAnswers,
			"total_questions":    result.TotalQuestions,
			"time_taken_seconds": result.TimeTakenSeconds,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionCompleted
	}
	return nil
}

// DeleteWithAnswers removes the session and its recorded answers in one
// transaction. gorm.ErrRecordNotFound is returned, and nothing is deleted, when
// the session does not exist.
func (r *sessionRepository) DeleteWithAnswers(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&model.RecordedAnswer{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.ExamSession{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *sessionRepository) Transaction(ctx context.Context, fn func(tx SessionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&sessionRepository{db: tx})
	})
}
