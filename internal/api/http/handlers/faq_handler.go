package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/desk-support/internal/api/dto"
	"github.com/spec-kit/desk-support/internal/service"
	apperrors "github.com/spec-kit/desk-support/pkg/util"
)

// FAQHandler serves FAQ listing and bulk import.
type FAQHandler struct {
	faq *service.FAQService
}

// NewFAQHandler constructs handler.
func NewFAQHandler(faq *service.FAQService) *FAQHandler {
	return &FAQHandler{faq: faq}
}

// List GET /faq.
func (h *FAQHandler) List(c *fiber.Ctx) error {
	items, err := h.faq.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": questionResponses(items)})
}

// Import POST /faq/import. The body is the raw line-oriented FAQ file.
func (h *FAQHandler) Import(c *fiber.Ctx) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return apperrors.NewValidationError("empty import file", nil)
	}

	result, err := h.faq.Import(c.Context(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FAQImportResponse{
		Imported: result.Total(),
		Answered: result.Answered,
		Pending:  result.Pending,
	}})
}
