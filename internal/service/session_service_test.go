package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lshigami/examhall/internal/dto"
)

func startRequest(testID uint, email string) dto.StartSessionRequest {
	return dto.StartSessionRequest{TestID: testID, StudentName: "Ada", StudentEmail: email}
}

func TestStartSession(t *testing.T) {
	f := newFixture()
	seeded := f.seedTest(t, "Go basics", 50, true, 2)

	resp, err := f.sessionSvc.StartSession(context.Background(), dto.StartSessionRequest{
		TestID:       seeded.ID,
		StudentName:  "  Ada  ",
		StudentEmail: "ada@example.com ",
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if len(resp.SessionToken) != 64 {
		t.Errorf("token length = %d, want 64", len(resp.SessionToken))
	}
	if resp.DurationMinutes != 30 {
		t.Errorf("durationMinutes = %d, want 30", resp.DurationMinutes)
	}

	session, err := f.sessionSvc.GetSessionByToken(context.Background(), resp.SessionToken)
	if err != nil {
		t.Fatalf("GetSessionByToken: %v", err)
	}
	if session.ID != resp.SessionID || session.StudentName != "Ada" || session.StudentEmail != "ada@example.com" {
		t.Errorf("stored session = %+v", session)
	}
	if session.IsCompleted() {
		t.Error("new session must not be completed")
	}
}

func TestStartSessionRejects(t *testing.T) {
	f := newFixture()
	active := f.seedTest(t, "active", 50, true, 1)
	inactive := f.seedTest(t, "inactive", 50, false, 1)

	cases := []struct {
		name string
		req  dto.StartSessionRequest
		want error
	}{
		{"missing name", dto.StartSessionRequest{TestID: active.ID, StudentEmail: "a@b.c"}, ErrInvalidInput},
		{"blank email", dto.StartSessionRequest{TestID: active.ID, StudentName: "A", StudentEmail: "   "}, ErrInvalidInput},
		{"missing test id", dto.StartSessionRequest{StudentName: "A", StudentEmail: "a@b.c"}, ErrInvalidInput},
		{"unknown test", startRequest(9999, "a@b.c"), ErrNotFound},
		{"inactive test", startRequest(inactive.ID, "a@b.c"), ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.sessionSvc.StartSession(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
	if n := len(f.store.sessions); n != 0 {
		t.Errorf("sessions created = %d, want 0", n)
	}
}

func TestStartSessionTokenFailure(t *testing.T) {
	f := newFixture()
	seeded := f.seedTest(t, "t", 50, true, 1)
	svc := f.sessionSvc.(*sessionService)
	svc.newToken = func() (string, error) { return "", errors.New("entropy exhausted") }

	if _, err := svc.StartSession(context.Background(), startRequest(seeded.ID, "a@b.c")); err == nil {
		t.Fatal("expected error when token generation fails")
	}
	if n := len(f.store.sessions); n != 0 {
		t.Errorf("sessions created = %d, want 0", n)
	}
}

func TestGetSessionByTokenUnknown(t *testing.T) {
	f := newFixture()
	for _, token := range []string{"", "   ", "deadbeef"} {
		if _, err := f.sessionSvc.GetSessionByToken(context.Background(), token); !errors.Is(err, ErrNotFound) {
			t.Errorf("token %q: err = %v, want ErrNotFound", token, err)
		}
	}
}

func TestGetSessionStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seeded := f.seedTest(t, "status", 50, true, 3)
	token := f.startSession(t, seeded.ID, "s@example.com")

	if err := f.answerSvc.RecordAnswer(ctx, token, dto.RecordAnswerRequest{QuestionID: seeded.Questions[0], AnswerID: seeded.Correct[0]}); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	status, err := f.sessionSvc.GetSessionStatus(ctx, token)
	if err != nil {
		t.Fatalf("GetSessionStatus: %v", err)
	}
	if status.AnsweredCount != 1 || status.Completed || status.DurationMinutes != 30 {
		t.Errorf("status = %+v", status)
	}
}

func TestDeleteSessionRemovesAnswers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seeded := f.seedTest(t, "five", 50, true, 5)
	token := f.startSession(t, seeded.ID, "d@example.com")

	for i, qid := range seeded.Questions {
		if err := f.answerSvc.RecordAnswer(ctx, token, dto.RecordAnswerRequest{QuestionID: qid, AnswerID: seeded.Correct[i]}); err != nil {
			t.Fatalf("RecordAnswer: %v", err)
		}
	}
	session, _ := f.sessionSvc.GetSessionByToken(ctx, token)
	if got, _ := f.sessions.FindRecordedAnswers(ctx, session.ID); len(got) != 5 {
		t.Fatalf("recorded answers = %d, want 5", len(got))
	}

	if err := f.sessionSvc.DeleteSession(ctx, session.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	if got, _ := f.sessions.FindRecordedAnswers(ctx, session.ID); len(got) != 0 {
		t.Errorf("recorded answers after delete = %d, want 0", len(got))
	}
	if _, err := f.sessionSvc.GetSessionByToken(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Errorf("token lookup after delete: err = %v, want ErrNotFound", err)
	}
	if len(f.publisher.deleted) != 1 || f.publisher.deleted[0].SessionID != session.ID {
		t.Errorf("deleted events = %+v", f.publisher.deleted)
	}
}

func TestDeleteSessionCompleted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seeded := f.seedTest(t, "done", 50, true, 1)
	token := f.startSession(t, seeded.ID, "x@example.com")
	if _, err := f.scoringSvc.FinishSession(ctx, token, dto.FinishSessionRequest{}); err != nil {
		t.Fatalf("FinishSession: %v", err)
	}
	session, _ := f.sessionSvc.GetSessionByToken(ctx, token)

	if err := f.sessionSvc.DeleteSession(ctx, session.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	history, _ := f.historySvc.GetHistoryForEmail(ctx, "x@example.com")
	if len(history) != 0 {
		t.Errorf("history after delete = %d entries, want 0", len(history))
	}
}

func TestDeleteSessionUnknown(t *testing.T) {
	f := newFixture()
	if err := f.sessionSvc.DeleteSession(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := f.sessionSvc.DeleteSession(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if len(f.publisher.deleted) != 0 {
		t.Errorf("no event expected, got %+v", f.publisher.deleted)
	}
}

func TestDeleteSessionPublishFailureIgnored(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("broker down")
	seeded := f.seedTest(t, "p", 50, true, 1)
	token := f.startSession(t, seeded.ID, "p@example.com")
	session, _ := f.sessionSvc.GetSessionByToken(context.Background(), token)

	if err := f.sessionSvc.DeleteSession(context.Background(), session.ID); err != nil {
		t.Fatalf("publish failure must not fail the delete: %v", err)
	}
}
