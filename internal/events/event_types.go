package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventQuestionAnswered  EventType = "question_answered"
	EventQuestionEscalated EventType = "question_escalated"
	EventQuestionResolved  EventType = "question_resolved"
	EventFAQImported       EventType = "faq_imported"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	QuestionID int64       `json:"question_id,omitempty"`
	Actor      string      `json:"actor,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// QuestionAnsweredPayload payload for automated answers.
type QuestionAnsweredPayload struct {
	User     string `json:"user"`
	Operator string `json:"operator"`
	Preview  string `json:"preview"`
}

// QuestionEscalatedPayload payload for questions left pending.
// Reason names the internal cause; it is published for operators and
// never shown to the submitter.
type QuestionEscalatedPayload struct {
	User   string `json:"user"`
	Reason string `json:"reason"`
}

// QuestionResolvedPayload payload for operator resolutions.
type QuestionResolvedPayload struct {
	Operator string `json:"operator"`
	Preview  string `json:"preview"`
}

// FAQImportedPayload payload for bulk imports.
type FAQImportedPayload struct {
	Answered int `json:"answered"`
	Pending  int `json:"pending"`
}
