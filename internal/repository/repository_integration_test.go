package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/lshigami/examhall/database"
	"github.com/lshigami/examhall/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Run with EXAMHALL_INTEGRATION=1 and EXAMHALL_TEST_DSN pointing at a
// disposable postgres database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("EXAMHALL_INTEGRATION") != "1" {
		t.Skip("set EXAMHALL_INTEGRATION=1 to run postgres integration tests")
	}
	dsn := os.Getenv("EXAMHALL_TEST_DSN")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=examhall_test port=5432 sslmode=disable TimeZone=UTC"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	err = db.Migrator().DropTable(&model.RecordedAnswer{}, &model.ExamSession{}, &model.Answer{}, &model.Question{}, &model.Test{}, &model.Admin{})
	if err != nil {
		t.Fatalf("drop tables: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedSession(t *testing.T, db *gorm.DB) (*model.ExamSession, []model.Question) {
	t.Helper()
	test := model.Test{
		Title:           "integration",
		DurationMinutes: 10,
		Questions: []model.Question{
			{QuestionText: "one", QuestionOrder: 1, Answers: []model.Answer{
				{AnswerText: "a", AnswerOrder: 1, IsCorrect: true},
				{AnswerText: "b", AnswerOrder: 2},
			}},
			{QuestionText: "two", QuestionOrder: 2, Answers: []model.Answer{
				{AnswerText: "c", AnswerOrder: 1},
				{AnswerText: "d", AnswerOrder: 2, IsCorrect: true},
			}},
		},
	}
	if err := db.Create(&test).Error; err != nil {
		t.Fatalf("seed test: %v", err)
	}
	session := model.ExamSession{
		SessionToken: "tok-" + time.Now().Format("150405.000000"),
		TestID:       test.ID,
		StudentName:  "Ada",
		StudentEmail: "ada@example.com",
	}
	if err := NewSessionRepository(db).Create(context.Background(), &session); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return &session, test.Questions
}

func TestSessionRepositoryUpsertKeepsOneRow(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(db)
	session, questions := seedSession(t, db)
	q := questions[0]

	for _, a := range q.Answers {
		err := repo.UpsertAnswer(ctx, &model.RecordedAnswer{
			SessionID:  session.ID,
			QuestionID: q.ID,
			AnswerID:   a.ID,
			AnsweredAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("UpsertAnswer: %v", err)
		}
	}

	recorded, err := repo.FindRecordedAnswers(ctx, session.ID)
	if err != nil {
		t.Fatalf("FindRecordedAnswers: %v", err)
	}
	if len(recorded) != 1 || recorded[0].AnswerID != q.Answers[1].ID {
		t.Errorf("recorded = %+v, want one row holding answer %d", recorded, q.Answers[1].ID)
	}
}

func TestSessionRepositoryCompleteOnce(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(db)
	session, _ := seedSession(t, db)

	first := model.SessionResult{
		CompletedAt:     time.Now().UTC(),
		ScorePercentage: decimal.RequireFromString("66.67"),
		CorrectAnswers:  2,
		TotalQuestions:  3,
	}
	if err := repo.Complete(ctx, session.ID, first); err != nil {
		t.Fatalf("first Complete: %v", err)
	}
	second := first
	second.ScorePercentage = decimal.Zero
	if err := repo.Complete(ctx, session.ID, second); !errors.Is(err, ErrSessionCompleted) {
		t.Fatalf("second Complete err = %v, want ErrSessionCompleted", err)
	}

	stored, err := repo.FindByToken(ctx, session.SessionToken)
	if err != nil {
		t.Fatalf("FindByToken: %v", err)
	}
	if !stored.ScorePercentage.Valid || stored.ScorePercentage.Decimal.StringFixed(2) != "66.67" {
		t.Errorf("stored score = %v, want 66.67", stored.ScorePercentage)
	}
}

func TestSessionRepositoryTransactionLock(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(db)
	session, questions := seedSession(t, db)

	err := repo.Transaction(ctx, func(tx SessionRepository) error {
		locked, err := tx.LockByToken(ctx, session.SessionToken)
		if err != nil {
			return err
		}
		if err := tx.UpsertAnswer(ctx, &model.RecordedAnswer{
			SessionID:  locked.ID,
			QuestionID: questions[1].ID,
			AnswerID:   questions[1].Answers[1].ID,
			AnsweredAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return errors.New("roll back")
	})
	if err == nil {
		t.Fatal("expected the transaction error to surface")
	}

	recorded, _ := repo.FindRecordedAnswers(ctx, session.ID)
	if len(recorded) != 0 {
		t.Errorf("rolled back upsert left %d rows", len(recorded))
	}
}

func TestSessionRepositoryDeleteWithAnswers(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(db)
	session, questions := seedSession(t, db)

	for _, q := range questions {
		if err := repo.UpsertAnswer(ctx, &model.RecordedAnswer{
			SessionID: session.ID, QuestionID: q.ID, AnswerID: q.Answers[0].ID, AnsweredAt: time.Now().UTC(),
		}); err != nil {
			t.Fatalf("UpsertAnswer: %v", err)
		}
	}

	if err := repo.DeleteWithAnswers(ctx, session.ID); err != nil {
		t.Fatalf("DeleteWithAnswers: %v", err)
	}
	if _, err := repo.FindByToken(ctx, session.SessionToken); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("FindByToken err = %v, want ErrRecordNotFound", err)
	}
	var count int64
	db.Model(&model.RecordedAnswer{}).Where("session_id = ?", session.ID).Count(&count)
	if count != 0 {
		t.Errorf("recorded answers left = %d", count)
	}
	if err := repo.DeleteWithAnswers(ctx, session.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("second delete err = %v, want ErrRecordNotFound", err)
	}
}

func TestTestRepositoryActivateIsExclusive(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewTestRepository(db)

	a := model.Test{Title: "a", DurationMinutes: 5}
	b := model.Test{Title: "b", DurationMinutes: 5}
	for _, test := range []*model.Test{&a, &b} {
		if err := repo.Create(ctx, test); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.Activate(ctx, a.ID); err != nil {
		t.Fatalf("Activate a: %v", err)
	}
	if err := repo.Activate(ctx, b.ID); err != nil {
		t.Fatalf("Activate b: %v", err)
	}

	active, err := repo.FindActive(ctx)
	if err != nil {
		t.Fatalf("FindActive: %v", err)
	}
	if len(active) != 1 || active[0].ID != b.ID {
		t.Errorf("active = %+v, want only b", active)
	}

	if err := db.Model(&model.Test{}).Where("id = ?", a.ID).Update("is_active", true).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("direct second activation err = %v, want ErrDuplicatedKey", err)
	}

	if err := repo.Activate(ctx, 99999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Activate unknown err = %v, want ErrRecordNotFound", err)
	}
}
