package service

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/desk-support/internal/domain"
)

func TestParseFAQLineFormats(t *testing.T) {
	cases := []struct {
		line     string
		question string
		answer   string // "" means nil
	}{
		{"How to login?;Use your corporate account.", "How to login?", "Use your corporate account."},
		{"How to login?|Use your corporate account.", "How to login?", "Use your corporate account."},
		{"a;b;c", "a", "b;c"},
		{"a|b;c", "a|b", "c"},
		{"  spaced question  ;  spaced answer  ", "spaced question", "spaced answer"},
		{"just a question", "just a question", ""},
		{"dangling;", "dangling", ""},
		{"dangling;   ", "dangling", ""},
	}
	for _, tc := range cases {
		entry := parseFAQLine(tc.line)
		if entry.Question != tc.question {
			t.Errorf("parseFAQLine(%q) question = %q, want %q", tc.line, entry.Question, tc.question)
		}
		if tc.answer == "" {
			if entry.Answer != nil {
				t.Errorf("parseFAQLine(%q) answer = %q, want nil", tc.line, *entry.Answer)
			}
		} else if entry.Answer == nil || *entry.Answer != tc.answer {
			t.Errorf("parseFAQLine(%q) answer = %v, want %q", tc.line, entry.Answer, tc.answer)
		}
	}
}

func TestParseFAQSkipsBlankLines(t *testing.T) {
	source := "q1;a1\n\n   \nq2\n"
	entries, err := ParseFAQ(strings.NewReader(source))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestImportPersistsEntries(t *testing.T) {
	repo := newMemQuestionRepo()
	svc := NewFAQService(repo, nil, zap.NewNop())

	source := "How to login?;Use your corporate account.\nUnanswered question\n"
	result, err := svc.Import(context.Background(), strings.NewReader(source))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Answered != 1 || result.Pending != 1 || result.Total() != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	faq, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(faq) != 2 {
		t.Fatalf("expected 2 FAQ records, got %d", len(faq))
	}

	answered := faq[0]
	if answered.User != domain.FAQIdentity {
		t.Fatalf("FAQ records must be owned by the FAQ identity, got %q", answered.User)
	}
	if answered.Status != domain.QuestionStatusAnswered {
		t.Fatalf("paired line must be answered, got %s", answered.Status)
	}
	if answered.Operator == nil || *answered.Operator != domain.FAQIdentity {
		t.Fatalf("paired line must carry the FAQ operator sentinel, got %v", answered.Operator)
	}

	pending := faq[1]
	if pending.Status != domain.QuestionStatusPending || pending.Answer != nil {
		t.Fatalf("question-only line must stay pending with no answer, got %+v", pending)
	}
}

func TestImportEmptySource(t *testing.T) {
	repo := newMemQuestionRepo()
	svc := NewFAQService(repo, nil, zap.NewNop())

	result, err := svc.Import(context.Background(), strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total() != 0 || repo.count() != 0 {
		t.Fatalf("empty source must import nothing, got %+v", result)
	}
}

func TestImportStopsOnStoreFailure(t *testing.T) {
	repo := newMemQuestionRepo()
	repo.failCreate = true
	svc := NewFAQService(repo, nil, zap.NewNop())

	if _, err := svc.Import(context.Background(), strings.NewReader("q;a\n")); err == nil {
		t.Fatal("store failure must abort the import")
	}
}
