package domain

import "time"

// QuestionStatus enumerates lifecycle states for support questions.
// The lifecycle is two-state: a question is created pending (or already
// answered, for automated and imported answers) and the only transition is
// pending -> answered. Answered is terminal.
type QuestionStatus string

const (
	QuestionStatusPending  QuestionStatus = "pending"
	QuestionStatusAnswered QuestionStatus = "answered"
)

// Reserved identifiers used in place of a human login.
const (
	// OperatorAutomated marks answers produced by the answer-generation service.
	OperatorAutomated = "RAG"
	// FAQIdentity is both the submitter and operator sentinel for imported FAQ entries.
	FAQIdentity = "FAQ"
)

// Question is the aggregate for one support request.
// Answer and Operator are non-nil if and only if Status is answered.
type Question struct {
	ID        int64
	User      string
	Question  string
	Answer    *string
	Status    QuestionStatus
	Operator  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Answered reports whether the question reached its terminal state.
func (q *Question) Answered() bool {
	return q.Status == QuestionStatusAnswered
}
