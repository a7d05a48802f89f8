package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/desk-support/internal/domain"
)

func newTestQuestionService(repo *memQuestionRepo) *QuestionService {
	return NewQuestionService(QuestionDependencies{
		QuestionRepo: repo,
		Logger:       zap.NewNop(),
	})
}

func seedPending(t *testing.T, repo *memQuestionRepo, user, text string) int64 {
	t.Helper()
	q := &domain.Question{User: user, Question: text, Status: domain.QuestionStatusPending}
	if err := repo.Create(context.Background(), q); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return q.ID
}

func TestResolveWritesAnswerOperatorStatus(t *testing.T) {
	repo := newMemQuestionRepo()
	svc := newTestQuestionService(repo)
	id := seedPending(t, repo, "alice", "how?")

	q, err := svc.Resolve(context.Background(), id, "like this", "op1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Status != domain.QuestionStatusAnswered {
		t.Fatalf("expected answered, got %s", q.Status)
	}
	if q.Answer == nil || *q.Answer != "like this" {
		t.Fatalf("unexpected answer: %v", q.Answer)
	}
	if q.Operator == nil || *q.Operator != "op1" {
		t.Fatalf("unexpected operator: %v", q.Operator)
	}
}

func TestResolveLastWriterWins(t *testing.T) {
	repo := newMemQuestionRepo()
	svc := newTestQuestionService(repo)
	id := seedPending(t, repo, "alice", "how?")

	if _, err := svc.Resolve(context.Background(), id, "first answer", "op1"); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	q, err := svc.Resolve(context.Background(), id, "second answer", "op2")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if *q.Answer != "second answer" || *q.Operator != "op2" {
		t.Fatalf("expected second writer to win, got answer=%q operator=%q", *q.Answer, *q.Operator)
	}
}

func TestResolveRejectsBlankAnswer(t *testing.T) {
	repo := newMemQuestionRepo()
	svc := newTestQuestionService(repo)
	id := seedPending(t, repo, "alice", "how?")

	if _, err := svc.Resolve(context.Background(), id, "   ", "op1"); err == nil {
		t.Fatal("expected validation error for blank answer")
	}
	q, _ := repo.GetByID(context.Background(), id)
	if q.Status != domain.QuestionStatusPending {
		t.Fatal("rejected resolve must not touch the record")
	}
}

func TestResolveUnknownQuestion(t *testing.T) {
	repo := newMemQuestionRepo()
	svc := newTestQuestionService(repo)

	if _, err := svc.Resolve(context.Background(), 42, "answer", "op1"); err == nil {
		t.Fatal("expected error for unknown question")
	}
}

func TestListPendingOldestFirst(t *testing.T) {
	repo := newMemQuestionRepo()
	svc := newTestQuestionService(repo)
	first := seedPending(t, repo, "alice", "q1")
	second := seedPending(t, repo, "bob", "q2")

	queue, err := svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queue) != 2 || queue[0].ID != first || queue[1].ID != second {
		t.Fatalf("expected oldest-first queue [%d %d], got %+v", first, second, queue)
	}
}

func TestListByStatusValidation(t *testing.T) {
	repo := newMemQuestionRepo()
	svc := newTestQuestionService(repo)

	if _, err := svc.ListByStatus(context.Background(), "archived"); err == nil {
		t.Fatal("expected validation error for unknown status")
	}
	if _, err := svc.ListByStatus(context.Background(), ""); err != nil {
		t.Fatalf("empty status lists everything: %v", err)
	}
}

func TestStatsCountsByStatus(t *testing.T) {
	repo := newMemQuestionRepo()
	svc := newTestQuestionService(repo)
	seedPending(t, repo, "alice", "q1")
	id := seedPending(t, repo, "bob", "q2")
	if _, err := svc.Resolve(context.Background(), id, "a", "op1"); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats[domain.QuestionStatusPending] != 1 || stats[domain.QuestionStatusAnswered] != 1 {
		t.Fatalf("unexpected stats: %v", stats)
	}
}
