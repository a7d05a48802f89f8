package service

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/desk-support/internal/domain"
	"github.com/spec-kit/desk-support/internal/events"
	"github.com/spec-kit/desk-support/internal/repository"
)

// FAQEntry is one parsed line of an import source.
type FAQEntry struct {
	Question string
	Answer   *string
}

// FAQImportResult summarizes a bulk import.
type FAQImportResult struct {
	Answered int
	Pending  int
}

// Total returns the number of imported records.
func (r FAQImportResult) Total() int {
	return r.Answered + r.Pending
}

// FAQService handles FAQ listing and bulk import of question/answer pairs.
type FAQService struct {
	questions  repository.QuestionRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewFAQService constructs the service.
func NewFAQService(questions repository.QuestionRepository, dispatcher events.Dispatcher, logger *zap.Logger) *FAQService {
	return &FAQService{questions: questions, dispatcher: dispatcher, logger: logger}
}

// ParseFAQ reads a line-oriented UTF-8 source. Each non-empty line splits on
// the first ';', else the first '|', else the whole line is a question with
// no answer. Both parts are trimmed.
func ParseFAQ(r io.Reader) ([]FAQEntry, error) {
	var entries []FAQEntry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, parseFAQLine(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseFAQLine(line string) FAQEntry {
	sep := ""
	if strings.Contains(line, ";") {
		sep = ";"
	} else if strings.Contains(line, "|") {
		sep = "|"
	}
	if sep == "" {
		return FAQEntry{Question: line}
	}

	parts := strings.SplitN(line, sep, 2)
	entry := FAQEntry{Question: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		if answer := strings.TrimSpace(parts[1]); answer != "" {
			entry.Answer = &answer
		}
	}
	return entry
}

// Import parses the source and persists every entry. Pairs become
// immediately-answered records with the FAQ operator sentinel; question-only
// lines become pending records submitted under the FAQ identity.
func (s *FAQService) Import(ctx context.Context, source io.Reader) (FAQImportResult, error) {
	entries, err := ParseFAQ(source)
	if err != nil {
		return FAQImportResult{}, err
	}

	var result FAQImportResult
	for _, entry := range entries {
		question := &domain.Question{
			User:     domain.FAQIdentity,
			Question: entry.Question,
			Status:   domain.QuestionStatusPending,
		}
		if entry.Answer != nil {
			operator := domain.FAQIdentity
			question.Answer = entry.Answer
			question.Status = domain.QuestionStatusAnswered
			question.Operator = &operator
		}
		if err := s.questions.Create(ctx, question); err != nil {
			return result, err
		}
		if question.Status == domain.QuestionStatusAnswered {
			result.Answered++
		} else {
			result.Pending++
		}
	}

	s.logger.Info("faq imported",
		zap.Int("answered", result.Answered),
		zap.Int("pending", result.Pending))
	s.publishEvent(ctx, events.Event{
		Type: events.EventFAQImported,
		Payload: events.FAQImportedPayload{
			Answered: result.Answered,
			Pending:  result.Pending,
		},
	})
	return result, nil
}

// List returns all FAQ entries, oldest first.
func (s *FAQService) List(ctx context.Context) ([]domain.Question, error) {
	return s.questions.ListFAQ(ctx)
}

func (s *FAQService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
