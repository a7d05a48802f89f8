package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/desk-support/internal/api/dto"
	"github.com/spec-kit/desk-support/internal/auth"
	"github.com/spec-kit/desk-support/internal/domain"
	"github.com/spec-kit/desk-support/internal/service"
	apperrors "github.com/spec-kit/desk-support/pkg/util"
)

// OperatorHandler exposes the pending queue and resolution endpoints.
type OperatorHandler struct {
	questions *service.QuestionService
}

// NewOperatorHandler constructs handler.
func NewOperatorHandler(questions *service.QuestionService) *OperatorHandler {
	return &OperatorHandler{questions: questions}
}

// Pending GET /operator/pending. Oldest first.
func (h *OperatorHandler) Pending(c *fiber.Ctx) error {
	questions, err := h.questions.ListPending(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": questionResponses(questions)})
}

// Resolve POST /operator/questions/:id/answer.
func (h *OperatorHandler) Resolve(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("operator required")
	}
	id, err := parseQuestionID(c)
	if err != nil {
		return err
	}
	var req dto.ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Answer) == "" {
		return apperrors.NewValidationError("answer required", nil)
	}

	question, err := h.questions.Resolve(c.Context(), id, req.Answer, principal.User.Login)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": questionResponse(question)})
}

// List GET /operator/questions. Supports ?status=pending|answered.
func (h *OperatorHandler) List(c *fiber.Ctx) error {
	status := domain.QuestionStatus(strings.TrimSpace(c.Query("status")))
	questions, err := h.questions.ListByStatus(c.Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": questionResponses(questions)})
}

// Stats GET /stats. Question counts grouped by status.
func (h *OperatorHandler) Stats(c *fiber.Ctx) error {
	counts, err := h.questions.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{
		Pending:  counts[domain.QuestionStatusPending],
		Answered: counts[domain.QuestionStatusAnswered],
	}})
}
