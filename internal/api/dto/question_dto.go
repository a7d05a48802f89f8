package dto

import (
	"time"

	"github.com/spec-kit/desk-support/internal/domain"
)

// AskQuestionRequest payload for submitting a question.
type AskQuestionRequest struct {
	Question string `json:"question"`
}

// AskQuestionResponse is what the submitter sees: either the answer text or
// the generic escalation notice, never an internal failure reason.
type AskQuestionResponse struct {
	QuestionID int64                 `json:"question_id"`
	Status     domain.QuestionStatus `json:"status"`
	Reply      string                `json:"reply"`
}

// ResolveRequest payload for answering a pending question.
type ResolveRequest struct {
	Answer string `json:"answer"`
}

// QuestionResponse represents one question record.
type QuestionResponse struct {
	ID        int64                 `json:"id"`
	User      string                `json:"user"`
	Question  string                `json:"question"`
	Answer    *string               `json:"answer,omitempty"`
	Status    domain.QuestionStatus `json:"status"`
	Operator  *string               `json:"operator,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// StatsResponse holds question counts grouped by status.
type StatsResponse struct {
	Pending  int64 `json:"pending"`
	Answered int64 `json:"answered"`
}

// FAQImportResponse summarizes a bulk import.
type FAQImportResponse struct {
	Imported int `json:"imported"`
	Answered int `json:"answered"`
	Pending  int `json:"pending"`
}
