package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/desk-support/internal/domain"
	"github.com/spec-kit/desk-support/internal/events"
	"github.com/spec-kit/desk-support/internal/repository"
	apperrors "github.com/spec-kit/desk-support/pkg/util"
)

// QuestionService covers the operator side of the question lifecycle:
// working the pending queue and resolving questions.
type QuestionService struct {
	questions  repository.QuestionRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// QuestionDependencies bundles collaborators for the question service.
type QuestionDependencies struct {
	QuestionRepo repository.QuestionRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewQuestionService constructs the service.
func NewQuestionService(deps QuestionDependencies) *QuestionService {
	return &QuestionService{
		questions:  deps.QuestionRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Resolve answers a question on behalf of an operator. The write sets
// answer, operator and status in one atomic statement. Resolving an
// already-answered question overwrites the previous answer; the last
// writer wins.
func (s *QuestionService) Resolve(ctx context.Context, questionID int64, answerText, operatorLogin string) (*domain.Question, error) {
	answerText = strings.TrimSpace(answerText)
	if answerText == "" {
		return nil, apperrors.NewValidationError("answer text required", nil)
	}
	if operatorLogin == "" {
		return nil, apperrors.NewValidationError("operator required", nil)
	}

	if err := s.questions.SetAnswer(ctx, questionID, answerText, operatorLogin); err != nil {
		return nil, err
	}
	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventQuestionResolved,
		QuestionID: questionID,
		Actor:      operatorLogin,
		Payload: events.QuestionResolvedPayload{
			Operator: operatorLogin,
			Preview:  preview(answerText, 120),
		},
	})
	return question, nil
}

// ListPending returns the operator queue, oldest first.
func (s *QuestionService) ListPending(ctx context.Context) ([]domain.Question, error) {
	return s.questions.ListPending(ctx)
}

// GetQuestion fetches one record.
func (s *QuestionService) GetQuestion(ctx context.Context, id int64) (*domain.Question, error) {
	return s.questions.GetByID(ctx, id)
}

// ListForUser returns a submitter's own questions, newest first.
// limit <= 0 returns the full history.
func (s *QuestionService) ListForUser(ctx context.Context, userLogin string, limit int) ([]domain.Question, error) {
	return s.questions.ListByUser(ctx, userLogin, limit)
}

// ListByStatus returns questions filtered by lifecycle state, newest first.
func (s *QuestionService) ListByStatus(ctx context.Context, status domain.QuestionStatus) ([]domain.Question, error) {
	if status == "" {
		return s.questions.ListAll(ctx)
	}
	if status != domain.QuestionStatusPending && status != domain.QuestionStatusAnswered {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(status)})
	}
	return s.questions.ListByStatus(ctx, status)
}

// Stats returns question counts grouped by status.
func (s *QuestionService) Stats(ctx context.Context) (map[domain.QuestionStatus]int64, error) {
	return s.questions.CountByStatus(ctx)
}

func (s *QuestionService) publishEvent(ctx context.Context, event events.Event) {
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
