package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestListActiveTests(t *testing.T) {
	f := newFixture()
	active := f.seedTest(t, "on", 50, true, 1)
	f.seedTest(t, "off", 50, false, 1)

	tests, err := f.catalogSvc.ListActiveTests(context.Background())
	if err != nil {
		t.Fatalf("ListActiveTests: %v", err)
	}
	if len(tests) != 1 || tests[0].ID != active.ID || tests[0].Title != "on" {
		t.Errorf("tests = %+v", tests)
	}
}

func TestGetPublicTestHidesCorrectness(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seeded := f.seedTest(t, "public", 50, true, 2)

	first, err := f.catalogSvc.GetPublicTest(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetPublicTest: %v", err)
	}
	second, err := f.catalogSvc.GetPublicTest(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetPublicTest: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated reads differ")
	}

	if len(first.Questions) != 2 || first.Questions[0].QuestionOrder != 1 || first.Questions[1].QuestionOrder != 2 {
		t.Fatalf("questions not ordered: %+v", first.Questions)
	}
	if a := first.Questions[0].Answers; len(a) != 2 || a[0].AnswerOrder != 1 {
		t.Errorf("answers not ordered: %+v", a)
	}

	body, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(body), "isCorrect") {
		t.Errorf("public test leaks correctness: %s", body)
	}
}

func TestGetPublicTestNotFound(t *testing.T) {
	f := newFixture()
	inactive := f.seedTest(t, "hidden", 50, false, 1)

	for _, id := range []uint{inactive.ID, 777} {
		if _, err := f.catalogSvc.GetPublicTest(context.Background(), id); !errors.Is(err, ErrNotFound) {
			t.Errorf("test %d: err = %v, want ErrNotFound", id, err)
		}
	}
}
