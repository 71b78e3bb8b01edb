package service

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lshigami/examhall/config"
	"github.com/lshigami/examhall/internal/event"
	"github.com/lshigami/examhall/internal/model"
	"github.com/lshigami/examhall/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// memStore backs the fake repositories. Every method takes the lock on its
// own, so Complete and UpsertAnswer are atomic the way the SQL statements are.
type memStore struct {
	mu        sync.Mutex
	nextID    uint
	tests     map[uint]model.Test
	questions map[uint]model.Question
	answers   map[uint]model.Answer
	sessions  map[uint]model.ExamSession
	recorded  map[uint]model.RecordedAnswer
	admins    map[uint]model.Admin

	// activateErr makes fakeTestRepo.Activate fail.
	activateErr error
}

func newMemStore() *memStore {
	return &memStore{
		tests:     map[uint]model.Test{},
		questions: map[uint]model.Question{},
		answers:   map[uint]model.Answer{},
		sessions:  map[uint]model.ExamSession{},
		recorded:  map[uint]model.RecordedAnswer{},
		admins:    map[uint]model.Admin{},
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memStore) recordedFor(sessionID uint) []model.RecordedAnswer {
	out := []model.RecordedAnswer{}
	for _, ra := range s.recorded {
		if ra.SessionID == sessionID {
			out = append(out, ra)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}

func (s *memStore) deleteSessionLocked(id uint) {
	for rid, ra := range s.recorded {
		if ra.SessionID == id {
			delete(s.recorded, rid)
		}
	}
	delete(s.sessions, id)
}

func (s *memStore) deleteQuestionLocked(id uint) {
	for aid, a := range s.answers {
		if a.QuestionID == id {
			delete(s.answers, aid)
		}
	}
	delete(s.questions, id)
}

// --- tests ---

type fakeTestRepo struct{ s *memStore }

var _ repository.TestRepository = fakeTestRepo{}

func (r fakeTestRepo) Create(_ context.Context, test *model.Test) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	test.ID = r.s.id()
	test.CreatedAt = time.Now()
	test.UpdatedAt = test.CreatedAt
	stored := *test
	stored.Questions = nil
	r.s.tests[test.ID] = stored
	return nil
}

func (r fakeTestRepo) Update(_ context.Context, test *model.Test) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.tests[test.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Title = test.Title
	stored.Description = test.Description
	stored.DurationMinutes = test.DurationMinutes
	stored.PassingPercentage = test.PassingPercentage
	stored.UpdatedAt = time.Now()
	r.s.tests[test.ID] = stored
	return nil
}

func (r fakeTestRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tests[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for qid, q := range r.s.questions {
		if q.TestID == id {
			r.s.deleteQuestionLocked(qid)
		}
	}
	for sid, sess := range r.s.sessions {
		if sess.TestID == id {
			r.s.deleteSessionLocked(sid)
		}
	}
	delete(r.s.tests, id)
	return nil
}

func (r fakeTestRepo) FindByID(_ context.Context, id uint) (*model.Test, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	test, ok := r.s.tests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &test, nil
}

func (r fakeTestRepo) FindByIDWithContent(_ context.Context, id uint) (*model.Test, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	test, ok := r.s.tests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	test.Questions = []model.Question{}
	for _, q := range r.s.questions {
		if q.TestID != id {
			continue
		}
		q.Answers = []model.Answer{}
		for _, a := range r.s.answers {
			if a.QuestionID == q.ID {
				q.Answers = append(q.Answers, a)
			}
		}
		sort.Slice(q.Answers, func(i, j int) bool { return q.Answers[i].AnswerOrder < q.Answers[j].AnswerOrder })
		test.Questions = append(test.Questions, q)
	}
	sort.Slice(test.Questions, func(i, j int) bool {
		return test.Questions[i].QuestionOrder < test.Questions[j].QuestionOrder
	})
	return &test, nil
}

func (r fakeTestRepo) FindActive(_ context.Context) ([]model.Test, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Test{}
	for _, t := range r.s.tests {
		if t.IsActive {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeTestRepo) FindAllWithCounts(_ context.Context) ([]model.TestWithCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.TestWithCounts{}
	for _, t := range r.s.tests {
		row := model.TestWithCounts{Test: t}
		for _, q := range r.s.questions {
			if q.TestID == t.ID {
				row.QuestionsCount++
			}
		}
		for _, sess := range r.s.sessions {
			if sess.TestID == t.ID {
				row.SessionsCount++
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r fakeTestRepo) Activate(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.activateErr != nil {
		return r.s.activateErr
	}
	if _, ok := r.s.tests[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for tid, t := range r.s.tests {
		t.IsActive = tid == id
		r.s.tests[tid] = t
	}
	return nil
}

func (r fakeTestRepo) Deactivate(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.IsActive = false
	r.s.tests[id] = t
	return nil
}

// Transaction restores the tests table when fn fails.
func (r fakeTestRepo) Transaction(_ context.Context, fn func(tx repository.TestRepository) error) error {
	r.s.mu.Lock()
	snapshot := maps.Clone(r.s.tests)
	r.s.mu.Unlock()
	if err := fn(r); err != nil {
		r.s.mu.Lock()
		r.s.tests = snapshot
		r.s.mu.Unlock()
		return err
	}
	return nil
}

// --- questions ---

type fakeQuestionRepo struct{ s *memStore }

func (r fakeQuestionRepo) orderTaken(testID uint, order int, except uint) bool {
	for _, q := range r.s.questions {
		if q.TestID == testID && q.QuestionOrder == order && q.ID != except {
			return true
		}
	}
	return false
}

func (r fakeQuestionRepo) Create(_ context.Context, question *model.Question) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tests[question.TestID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if r.orderTaken(question.TestID, question.QuestionOrder, 0) {
		return gorm.ErrDuplicatedKey
	}
	question.ID = r.s.id()
	stored := *question
	stored.Answers = nil
	r.s.questions[question.ID] = stored
	return nil
}

func (r fakeQuestionRepo) FindByID(_ context.Context, id uint) (*model.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &q, nil
}

func (r fakeQuestionRepo) FindByTestID(_ context.Context, testID uint) ([]model.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Question{}
	for _, q := range r.s.questions {
		if q.TestID == testID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionOrder < out[j].QuestionOrder })
	return out, nil
}

func (r fakeQuestionRepo) Update(_ context.Context, question *model.Question) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.questions[question.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if r.orderTaken(stored.TestID, question.QuestionOrder, question.ID) {
		return gorm.ErrDuplicatedKey
	}
	stored.QuestionText = question.QuestionText
	stored.QuestionOrder = question.QuestionOrder
	r.s.questions[question.ID] = stored
	return nil
}

func (r fakeQuestionRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.questions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.deleteQuestionLocked(id)
	return nil
}

// --- answers ---

type fakeAnswerRepo struct{ s *memStore }

func (r fakeAnswerRepo) orderTaken(questionID uint, order int, except uint) bool {
	for _, a := range r.s.answers {
		if a.QuestionID == questionID && a.AnswerOrder == order && a.ID != except {
			return true
		}
	}
	return false
}

func (r fakeAnswerRepo) Create(_ context.Context, answer *model.Answer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.questions[answer.QuestionID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if r.orderTaken(answer.QuestionID, answer.AnswerOrder, 0) {
		return gorm.ErrDuplicatedKey
	}
	answer.ID = r.s.id()
	r.s.answers[answer.ID] = *answer
	return nil
}

func (r fakeAnswerRepo) FindByID(_ context.Context, id uint) (*model.Answer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.answers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r fakeAnswerRepo) Update(_ context.Context, answer *model.Answer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.answers[answer.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if r.orderTaken(stored.QuestionID, answer.AnswerOrder, answer.ID) {
		return gorm.ErrDuplicatedKey
	}
	stored.AnswerText = answer.AnswerText
	stored.IsCorrect = answer.IsCorrect
	stored.AnswerOrder = answer.AnswerOrder
	r.s.answers[answer.ID] = stored
	return nil
}

func (r fakeAnswerRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.answers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.answers, id)
	return nil
}

// --- sessions ---

type fakeSessionRepo struct{ s *memStore }

var _ repository.SessionRepository = fakeSessionRepo{}

func (r fakeSessionRepo) Create(_ context.Context, session *model.ExamSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tests[session.TestID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	for _, existing := range r.s.sessions {
		if existing.SessionToken == session.SessionToken {
			return gorm.ErrDuplicatedKey
		}
	}
	session.ID = r.s.id()
	session.CreatedAt = time.Now().UTC()
	stored := *session
	stored.Test = model.Test{}
	r.s.sessions[session.ID] = stored
	return nil
}

func (r fakeSessionRepo) FindByToken(_ context.Context, token string) (*model.ExamSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sess := range r.s.sessions {
		if sess.SessionToken == token {
			return &sess, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r fakeSessionRepo) FindByIDWithTest(_ context.Context, id uint) (*model.ExamSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	sess.Test = r.s.tests[sess.TestID]
	return &sess, nil
}

func (r fakeSessionRepo) completed(match func(model.ExamSession) bool, limit int) []model.ExamSession {
	out := []model.ExamSession{}
	for _, sess := range r.s.sessions {
		if sess.CompletedAt != nil && match(sess) {
			sess.Test = r.s.tests[sess.TestID]
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CompletedAt.Equal(*out[j].CompletedAt) {
			return out[i].CompletedAt.After(*out[j].CompletedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r fakeSessionRepo) FindCompletedByEmail(_ context.Context, email string) ([]model.ExamSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.completed(func(sess model.ExamSession) bool { return sess.StudentEmail == email }, 0), nil
}

func (r fakeSessionRepo) FindCompleted(_ context.Context, limit int) ([]model.ExamSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.completed(func(model.ExamSession) bool { return true }, limit), nil
}

func (r fakeSessionRepo) FindRecordedAnswers(_ context.Context, sessionID uint) ([]model.RecordedAnswer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.recordedFor(sessionID), nil
}

func (r fakeSessionRepo) LockByToken(ctx context.Context, token string) (*model.ExamSession, error) {
	return r.FindByToken(ctx, token)
}

func (r fakeSessionRepo) UpsertAnswer(_ context.Context, answer *model.RecordedAnswer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sessions[answer.SessionID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	for id, ra := range r.s.recorded {
		if ra.SessionID == answer.SessionID && ra.QuestionID == answer.QuestionID {
			ra.AnswerID = answer.AnswerID
			ra.AnsweredAt = answer.AnsweredAt
			r.s.recorded[id] = ra
			answer.ID = id
			return nil
		}
	}
	answer.ID = r.s.id()
	r.s.recorded[answer.ID] = *answer
	return nil
}

func (r fakeSessionRepo) Complete(_ context.Context, sessionID uint, result model.SessionResult) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[sessionID]
	if !ok || sess.CompletedAt != nil {
		return repository.ErrSessionCompleted
	}
	completedAt := result.CompletedAt
	correct, total, taken := result.CorrectAnswers, result.TotalQuestions, result.TimeTakenSeconds
	sess.CompletedAt = &completedAt
	sess.ScorePercentage = decimal.NewNullDecimal(result.ScorePercentage)
	sess.CorrectAnswers = &correct
	sess.TotalQuestions = &total
	sess.TimeTakenSeconds = &taken
	r.s.sessions[sessionID] = sess
	return nil
}

func (r fakeSessionRepo) DeleteWithAnswers(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sessions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.deleteSessionLocked(id)
	return nil
}

func (r fakeSessionRepo) Transaction(_ context.Context, fn func(tx repository.SessionRepository) error) error {
	return fn(r)
}

// --- admins ---

type fakeAdminRepo struct {
	s       *memStore
	touched []uint
}

func (r *fakeAdminRepo) Create(_ context.Context, admin *model.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	admin.ID = r.s.id()
	r.s.admins[admin.ID] = *admin
	return nil
}

func (r *fakeAdminRepo) FindByUsername(_ context.Context, username string) (*model.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.admins {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAdminRepo) FindByUsernameFold(_ context.Context, username string) ([]model.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Admin{}
	for _, a := range r.s.admins {
		if strings.EqualFold(a.Username, username) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAdminRepo) UpdateUsername(_ context.Context, id uint, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a := r.s.admins[id]
	a.Username = username
	r.s.admins[id] = a
	return nil
}

func (r *fakeAdminRepo) UpdatePasswordHash(_ context.Context, id uint, hash *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a := r.s.admins[id]
	a.PasswordHash = hash
	r.s.admins[id] = a
	return nil
}

func (r *fakeAdminRepo) TouchLastLogin(_ context.Context, id uint, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a := r.s.admins[id]
	a.LastLogin = &at
	r.s.admins[id] = a
	r.touched = append(r.touched, id)
	return nil
}

// --- events ---

type fakePublisher struct {
	mu        sync.Mutex
	completed []event.SessionCompletedEvent
	deleted   []event.SessionDeletedEvent
	err       error
}

func (p *fakePublisher) PublishSessionCompleted(_ context.Context, evt event.SessionCompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed = append(p.completed, evt)
	return p.err
}

func (p *fakePublisher) PublishSessionDeleted(_ context.Context, evt event.SessionDeletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, evt)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

// --- fixtures ---

type fixture struct {
	store     *memStore
	tests     fakeTestRepo
	questions fakeQuestionRepo
	answers   fakeAnswerRepo
	sessions  fakeSessionRepo
	publisher *fakePublisher

	sessionSvc SessionService
	answerSvc  AnswerService
	scoringSvc ScoringService
	historySvc HistoryService
	catalogSvc CatalogService
}

func newFixture() *fixture {
	store := newMemStore()
	f := &fixture{
		store:     store,
		tests:     fakeTestRepo{store},
		questions: fakeQuestionRepo{store},
		answers:   fakeAnswerRepo{store},
		sessions:  fakeSessionRepo{store},
		publisher: &fakePublisher{},
	}
	f.sessionSvc = NewSessionService(f.tests, f.sessions, f.publisher)
	f.answerSvc = NewAnswerService(f.sessions, f.questions, f.answers)
	f.scoringSvc = NewScoringService(f.tests, f.sessions, f.publisher)
	f.historySvc = NewHistoryService(f.tests, f.sessions)
	f.catalogSvc = NewCatalogService(f.tests)
	return f
}

// seededTest is a test with two questions of two answers each. The first
// answer of every question is the correct one.
type seededTest struct {
	ID        uint
	Questions []uint
	Correct   []uint
	Wrong     []uint
}

func (f *fixture) seedTest(t *testing.T, title string, passing int, active bool, questionCount int) seededTest {
	t.Helper()
	ctx := context.Background()

	test := model.Test{Title: title, DurationMinutes: 30, PassingPercentage: passing, IsActive: active}
	if err := f.tests.Create(ctx, &test); err != nil {
		t.Fatalf("seed test: %v", err)
	}
	seeded := seededTest{ID: test.ID}

	// inserted in reverse order so ordering comes from the order index
	for i := questionCount; i >= 1; i-- {
		q := model.Question{TestID: test.ID, QuestionText: title + " q", QuestionOrder: i}
		if err := f.questions.Create(ctx, &q); err != nil {
			t.Fatalf("seed question: %v", err)
		}
		wrong := model.Answer{QuestionID: q.ID, AnswerText: "wrong", AnswerOrder: 2}
		right := model.Answer{QuestionID: q.ID, AnswerText: "right", AnswerOrder: 1, IsCorrect: true}
		if err := f.answers.Create(ctx, &wrong); err != nil {
			t.Fatalf("seed answer: %v", err)
		}
		if err := f.answers.Create(ctx, &right); err != nil {
			t.Fatalf("seed answer: %v", err)
		}
		seeded.Questions = append([]uint{q.ID}, seeded.Questions...)
		seeded.Correct = append([]uint{right.ID}, seeded.Correct...)
		seeded.Wrong = append([]uint{wrong.ID}, seeded.Wrong...)
	}
	return seeded
}

func (f *fixture) startSession(t *testing.T, testID uint, email string) string {
	t.Helper()
	resp, err := f.sessionSvc.StartSession(context.Background(), startRequest(testID, email))
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	return resp.SessionToken
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.Auth{
			JWTSecret:            "test-secret",
			JWTTTL:               time.Hour,
			AdminDefaultPassword: "admin123",
		},
	}
}
