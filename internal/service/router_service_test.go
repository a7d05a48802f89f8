package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/desk-support/internal/answerer"
	"github.com/spec-kit/desk-support/internal/domain"
	"github.com/spec-kit/desk-support/internal/observability"
)

// memQuestionRepo is an in-memory QuestionRepository for tests.
type memQuestionRepo struct {
	mu         sync.Mutex
	seq        int64
	items      map[int64]*domain.Question
	failCreate bool
}

func newMemQuestionRepo() *memQuestionRepo {
	return &memQuestionRepo{items: make(map[int64]*domain.Question)}
}

func (r *memQuestionRepo) Create(_ context.Context, q *domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("store unavailable")
	}
	r.seq++
	q.ID = r.seq
	q.CreatedAt = time.Now()
	q.UpdatedAt = q.CreatedAt
	copied := *q
	r.items[q.ID] = &copied
	return nil
}

func (r *memQuestionRepo) GetByID(_ context.Context, id int64) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.items[id]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	copied := *q
	return &copied, nil
}

func (r *memQuestionRepo) ListPending(_ context.Context) ([]domain.Question, error) {
	return r.listWhere(func(q *domain.Question) bool {
		return q.Status == domain.QuestionStatusPending
	}, true), nil
}

func (r *memQuestionRepo) SetAnswer(_ context.Context, id int64, answer, operator string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.items[id]
	if !ok {
		return errors.New("no rows in result set")
	}
	q.Answer = &answer
	q.Operator = &operator
	q.Status = domain.QuestionStatusAnswered
	q.UpdatedAt = time.Now()
	return nil
}

func (r *memQuestionRepo) ListByUser(_ context.Context, user string, limit int) ([]domain.Question, error) {
	items := r.listWhere(func(q *domain.Question) bool { return q.User == user }, false)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *memQuestionRepo) ListByStatus(_ context.Context, status domain.QuestionStatus) ([]domain.Question, error) {
	return r.listWhere(func(q *domain.Question) bool { return q.Status == status }, false), nil
}

func (r *memQuestionRepo) ListAll(_ context.Context) ([]domain.Question, error) {
	return r.listWhere(func(*domain.Question) bool { return true }, false), nil
}

func (r *memQuestionRepo) ListFAQ(_ context.Context) ([]domain.Question, error) {
	return r.listWhere(func(q *domain.Question) bool { return q.User == domain.FAQIdentity }, true), nil
}

func (r *memQuestionRepo) CountByStatus(_ context.Context) (map[domain.QuestionStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[domain.QuestionStatus]int64{
		domain.QuestionStatusPending:  0,
		domain.QuestionStatusAnswered: 0,
	}
	for _, q := range r.items {
		counts[q.Status]++
	}
	return counts, nil
}

func (r *memQuestionRepo) listWhere(match func(*domain.Question) bool, ascending bool) []domain.Question {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Question
	for _, q := range r.items {
		if match(q) {
			result = append(result, *q)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if ascending {
			return result[i].ID < result[j].ID
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func (r *memQuestionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// scriptedClient returns a fixed answer or error.
type scriptedClient struct {
	answer string
	err    error
}

func (c scriptedClient) Ask(context.Context, string) (string, error) {
	return c.answer, c.err
}

func newTestRouter(repo *memQuestionRepo, client AnswerClient) *RouterService {
	return NewRouterService(RouterDependencies{
		QuestionRepo: repo,
		Client:       client,
		Logger:       zap.NewNop(),
		Metrics:      observability.NewMetrics(),
	})
}

func TestRouteStoresAnswer(t *testing.T) {
	repo := newMemQuestionRepo()
	router := newTestRouter(repo, scriptedClient{answer: "Go to settings and click reset."})

	outcome, err := router.Route(context.Background(), "alice", "How do I reset my password?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Escalated {
		t.Fatal("expected answered outcome")
	}
	if outcome.Reply != "Go to settings and click reset." {
		t.Fatalf("unexpected reply: %q", outcome.Reply)
	}

	q := outcome.Question
	if q.Status != domain.QuestionStatusAnswered {
		t.Fatalf("expected answered status, got %s", q.Status)
	}
	if q.Answer == nil || *q.Answer != "Go to settings and click reset." {
		t.Fatalf("unexpected stored answer: %v", q.Answer)
	}
	if q.Operator == nil || *q.Operator != domain.OperatorAutomated {
		t.Fatalf("expected automated operator sentinel, got %v", q.Operator)
	}
	if repo.count() != 1 {
		t.Fatalf("expected exactly one record, got %d", repo.count())
	}
}

func TestRouteEscalatesOnMarker(t *testing.T) {
	repo := newMemQuestionRepo()
	router := newTestRouter(repo, scriptedClient{answer: "Не знаю, обратитесь к специалисту"})

	outcome, err := router.Route(context.Background(), "bob", "foo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Escalated {
		t.Fatal("expected escalation")
	}
	if outcome.Reason != ReasonMarkerMatched {
		t.Fatalf("expected marker reason, got %s", outcome.Reason)
	}
	if outcome.Reply != EscalationNotice {
		t.Fatalf("submitter must only see the generic notice, got %q", outcome.Reply)
	}

	q := outcome.Question
	if q.Status != domain.QuestionStatusPending {
		t.Fatalf("expected pending status, got %s", q.Status)
	}
	if q.Answer != nil || q.Operator != nil {
		t.Fatal("pending record must carry no answer or operator")
	}
}

func TestRouteEscalatesOnEmptyAnswer(t *testing.T) {
	repo := newMemQuestionRepo()
	router := newTestRouter(repo, scriptedClient{answer: "  \n\t "})

	outcome, err := router.Route(context.Background(), "bob", "foo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Escalated || outcome.Reason != ReasonEmptyAnswer {
		t.Fatalf("expected empty-answer escalation, got %+v", outcome)
	}
}

func TestRouteEscalatesOnTransportError(t *testing.T) {
	repo := newMemQuestionRepo()
	router := newTestRouter(repo, scriptedClient{err: errors.New("connection refused")})

	outcome, err := router.Route(context.Background(), "bob", "bar")
	if err != nil {
		t.Fatalf("transport failures must not surface: %v", err)
	}
	if !outcome.Escalated || outcome.Reason != ReasonTransport {
		t.Fatalf("expected transport escalation, got %+v", outcome)
	}
	if outcome.Question.Status != domain.QuestionStatusPending {
		t.Fatalf("expected pending, got %s", outcome.Question.Status)
	}
	if repo.count() != 1 {
		t.Fatalf("expected exactly one record, got %d", repo.count())
	}
}

func TestRouteEscalatesOnTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"answer":"too late"}`))
	}))
	defer server.Close()

	repo := newMemQuestionRepo()
	client := answerer.NewWithHTTPClient(server.URL, &http.Client{Timeout: 20 * time.Millisecond})
	router := newTestRouter(repo, client)

	outcome, err := router.Route(context.Background(), "bob", "bar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Escalated || outcome.Reason != ReasonTransport {
		t.Fatalf("expected transport escalation, got %+v", outcome)
	}
	if outcome.Question.Answer != nil {
		t.Fatal("timed-out route must not store an answer")
	}
}

func TestRouteRejectsEmptyQuestion(t *testing.T) {
	repo := newMemQuestionRepo()
	router := newTestRouter(repo, scriptedClient{answer: "irrelevant"})

	if _, err := router.Route(context.Background(), "bob", "   "); err == nil {
		t.Fatal("expected validation error")
	}
	if repo.count() != 0 {
		t.Fatal("rejected submission must not create a record")
	}
}

func TestRoutePropagatesStoreFailure(t *testing.T) {
	repo := newMemQuestionRepo()
	repo.failCreate = true
	router := newTestRouter(repo, scriptedClient{answer: "fine answer"})

	if _, err := router.Route(context.Background(), "bob", "q"); err == nil {
		t.Fatal("store failure must be fatal to the call")
	}
}

func TestRouteAsyncDeliversOutcome(t *testing.T) {
	repo := newMemQuestionRepo()
	router := newTestRouter(repo, scriptedClient{answer: "async answer"})

	reply := <-router.RouteAsync(context.Background(), "alice", "q")
	if reply.Err != nil {
		t.Fatalf("unexpected error: %v", reply.Err)
	}
	if reply.Outcome.Reply != "async answer" {
		t.Fatalf("unexpected reply: %q", reply.Outcome.Reply)
	}
}

func TestNormalizeAnswer(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  hello   world ", "hello world"},
		{"a&nbsp;b", "a b"},
		{"a b", "a b"},
		{"line\none\t\ttwo", "line one two"},
		{"", ""},
		{"&nbsp;&nbsp;", ""},
	}
	for _, tc := range cases {
		if got := NormalizeAnswer(tc.in); got != tc.want {
			t.Errorf("NormalizeAnswer(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeAnswerIdempotent(t *testing.T) {
	once := NormalizeAnswer("  mixed   content&nbsp;here  ")
	if twice := NormalizeAnswer(once); twice != once {
		t.Fatalf("normalization not idempotent: %q vs %q", once, twice)
	}
}

func TestClassifyAnswerMarkers(t *testing.T) {
	escalating := []string{
		"не знаю",
		"НЕ ЗНАЮ, что сказать",
		"ответ не найден в базе",
		"я не могу ответить на это",
		"Перевожу на оператора.",
		"пожалуйста, обратитесь к специалисту",
	}
	for _, text := range escalating {
		if escalate, _ := classifyAnswer(text); !escalate {
			t.Errorf("expected escalation for %q", text)
		}
	}

	if escalate, _ := classifyAnswer("Сбросьте пароль в настройках."); escalate {
		t.Error("genuine answer must not escalate")
	}
	if escalate, reason := classifyAnswer(""); !escalate || reason != ReasonEmptyAnswer {
		t.Error("empty text must escalate with empty_answer reason")
	}
}
