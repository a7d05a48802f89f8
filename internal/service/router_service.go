package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/desk-support/internal/domain"
	"github.com/spec-kit/desk-support/internal/events"
	"github.com/spec-kit/desk-support/internal/observability"
	"github.com/spec-kit/desk-support/internal/repository"
	apperrors "github.com/spec-kit/desk-support/pkg/util"
)

// EscalationNotice is the only message a submitter sees when a question is
// forwarded to an operator. Internal failure reasons stay internal.
const EscalationNotice = "Ваш запрос передан оператору."

// escalationMarkers are phrases the answer service emits when it cannot
// answer. Matched case-insensitively as substrings. Kept verbatim for
// behavioral compatibility with the deployed answer service.
var escalationMarkers = []string{
	"не знаю",
	"не найден",
	"не могу ответить",
	"перевожу на оператора",
	"обратитесь к специалисту",
}

// EscalationReason names the internal cause of an escalation.
type EscalationReason string

const (
	ReasonEmptyAnswer   EscalationReason = "empty_answer"
	ReasonMarkerMatched EscalationReason = "marker_matched"
	ReasonTransport     EscalationReason = "transport_failure"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeAnswer collapses whitespace runs to a single space, strips the
// non-breaking-space artifacts the answer service leaks, and trims the ends.
// Idempotent: normalizing normalized text returns it unchanged.
func NormalizeAnswer(text string) string {
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// classifyAnswer decides whether normalized answer text counts as a genuine
// answer. Empty text or any escalation marker means the question must go to
// a human.
func classifyAnswer(normalized string) (escalate bool, reason EscalationReason) {
	if normalized == "" {
		return true, ReasonEmptyAnswer
	}
	lower := strings.ToLower(normalized)
	for _, marker := range escalationMarkers {
		if strings.Contains(lower, marker) {
			return true, ReasonMarkerMatched
		}
	}
	return false, ""
}

// AnswerClient is the outbound contract to the answer-generation service.
type AnswerClient interface {
	Ask(ctx context.Context, question string) (string, error)
}

// RoutingOutcome describes the terminal state of one routed question.
type RoutingOutcome struct {
	Question  *domain.Question
	Reply     string
	Escalated bool
	Reason    EscalationReason
}

// RouteReply carries an async routing result or the error that aborted it.
type RouteReply struct {
	Outcome *RoutingOutcome
	Err     error
}

// RouterService decides, per submitted question, whether the automated
// answer is acceptable or must be escalated, and persists the outcome
// exactly once.
type RouterService struct {
	questions  repository.QuestionRepository
	client     AnswerClient
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// RouterDependencies bundles collaborators for the router.
type RouterDependencies struct {
	QuestionRepo repository.QuestionRepository
	Client       AnswerClient
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Metrics      *observability.Metrics
}

// NewRouterService constructs the service.
func NewRouterService(deps RouterDependencies) *RouterService {
	return &RouterService{
		questions:  deps.QuestionRepo,
		client:     deps.Client,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

// Route submits the question to the answer service, classifies the response
// and persists exactly one question record. Transport failures, timeouts and
// unusable answers all resolve to the escalation branch; only a store failure
// is returned as an error, since dropping the record would lose the question.
func (s *RouterService) Route(ctx context.Context, userLogin, questionText string) (*RoutingOutcome, error) {
	questionText = strings.TrimSpace(questionText)
	if questionText == "" {
		return nil, apperrors.NewValidationError("question text required", nil)
	}

	raw, askErr := s.client.Ask(ctx, questionText)
	if askErr != nil {
		s.logger.Warn("answer service call failed",
			zap.String("user", userLogin),
			zap.Error(askErr))
		return s.escalate(ctx, userLogin, questionText, ReasonTransport)
	}

	normalized := NormalizeAnswer(raw)
	if escalate, reason := classifyAnswer(normalized); escalate {
		return s.escalate(ctx, userLogin, questionText, reason)
	}

	operator := domain.OperatorAutomated
	question := &domain.Question{
		User:     userLogin,
		Question: questionText,
		Answer:   &normalized,
		Status:   domain.QuestionStatusAnswered,
		Operator: &operator,
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, err
	}

	s.metrics.RecordRoutingOutcome("answered")
	s.publishEvent(ctx, events.Event{
		Type:       events.EventQuestionAnswered,
		QuestionID: question.ID,
		Actor:      userLogin,
		Payload: events.QuestionAnsweredPayload{
			User:     userLogin,
			Operator: operator,
			Preview:  preview(normalized, 120),
		},
	})

	return &RoutingOutcome{
		Question: question,
		Reply:    normalized,
	}, nil
}

// RouteAsync dispatches Route off the caller's goroutine and delivers the
// outcome on a buffered channel. A caller that no longer needs the result
// may simply discard the channel; the record is still written.
func (s *RouterService) RouteAsync(ctx context.Context, userLogin, questionText string) <-chan RouteReply {
	replies := make(chan RouteReply, 1)
	go func() {
		outcome, err := s.Route(ctx, userLogin, questionText)
		replies <- RouteReply{Outcome: outcome, Err: err}
	}()
	return replies
}

func (s *RouterService) escalate(ctx context.Context, userLogin, questionText string, reason EscalationReason) (*RoutingOutcome, error) {
	question := &domain.Question{
		User:     userLogin,
		Question: questionText,
		Status:   domain.QuestionStatusPending,
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, err
	}

	s.metrics.RecordRoutingOutcome("escalated")
	s.logger.Info("question escalated",
		zap.Int64("question_id", question.ID),
		zap.String("user", userLogin),
		zap.String("reason", string(reason)))
	s.publishEvent(ctx, events.Event{
		Type:       events.EventQuestionEscalated,
		QuestionID: question.ID,
		Actor:      userLogin,
		Payload: events.QuestionEscalatedPayload{
			User:   userLogin,
			Reason: string(reason),
		},
	})

	return &RoutingOutcome{
		Question:  question,
		Reply:     EscalationNotice,
		Escalated: true,
		Reason:    reason,
	}, nil
}

func (s *RouterService) publishEvent(ctx context.Context, event events.Event) {
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

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
