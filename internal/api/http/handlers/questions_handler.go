package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/desk-support/internal/api/dto"
	"github.com/spec-kit/desk-support/internal/auth"
	"github.com/spec-kit/desk-support/internal/domain"
	"github.com/spec-kit/desk-support/internal/service"
	apperrors "github.com/spec-kit/desk-support/pkg/util"
)

// QuestionsHandler manages end-user question endpoints.
type QuestionsHandler struct {
	router    *service.RouterService
	questions *service.QuestionService
}

// NewQuestionsHandler constructs handler.
func NewQuestionsHandler(router *service.RouterService, questions *service.QuestionService) *QuestionsHandler {
	return &QuestionsHandler{router: router, questions: questions}
}

// Ask POST /questions. Routes the question through the answer service and
// returns either the answer or the escalation notice.
func (h *QuestionsHandler) Ask(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AskQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Question) == "" {
		return apperrors.NewValidationError("question required", nil)
	}

	outcome, err := h.router.Route(c.Context(), principal.User.Login, req.Question)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.AskQuestionResponse{
		QuestionID: outcome.Question.ID,
		Status:     outcome.Question.Status,
		Reply:      outcome.Reply,
	}})
}

// ListMine GET /questions. Supports ?limit=N for the recent subset.
func (h *QuestionsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return apperrors.NewValidationError("invalid limit", nil)
		}
		limit = parsed
	}

	questions, err := h.questions.ListForUser(c.Context(), principal.User.Login, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": questionResponses(questions)})
}

// Get GET /questions/:id. Owner or staff only.
func (h *QuestionsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	id, err := parseQuestionID(c)
	if err != nil {
		return err
	}

	question, err := h.questions.GetQuestion(c.Context(), id)
	if err != nil {
		return err
	}
	if question.User != principal.User.Login && !principal.User.IsStaff() {
		return apperrors.NewForbidden("not your question")
	}
	return c.JSON(fiber.Map{"data": questionResponse(question)})
}

func parseQuestionID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid question id", nil)
	}
	return id, nil
}

func questionResponse(q *domain.Question) dto.QuestionResponse {
	return dto.QuestionResponse{
		ID:        q.ID,
		User:      q.User,
		Question:  q.Question,
		Answer:    q.Answer,
		Status:    q.Status,
		Operator:  q.Operator,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

func questionResponses(questions []domain.Question) []dto.QuestionResponse {
	items := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		items = append(items, questionResponse(&questions[i]))
	}
	return items
}
