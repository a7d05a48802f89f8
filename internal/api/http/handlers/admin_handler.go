package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/desk-support/internal/api/dto"
	"github.com/spec-kit/desk-support/internal/domain"
	"github.com/spec-kit/desk-support/internal/service"
	apperrors "github.com/spec-kit/desk-support/pkg/util"
)

// AdminHandler exposes account administration endpoints.
type AdminHandler struct {
	auth *service.AuthService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService) *AdminHandler {
	return &AdminHandler{auth: authService}
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.auth.ListAccounts(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, dto.UserResponse{Login: user.Login, Role: user.Role, Name: user.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateUser POST /admin/users.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Login == "" || req.Password == "" || req.Name == "" {
		return apperrors.NewValidationError("login, password, name required", nil)
	}
	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleAdmin && role != domain.RoleOperator && role != domain.RoleUser {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}

	user, err := h.auth.CreateAccount(c.Context(), req.Login, req.Password, req.Name, role)
	if err != nil {
		return apperrors.NewConflict(err.Error(), nil)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": dto.UserResponse{Login: user.Login, Role: user.Role, Name: user.Name},
	})
}

// DeleteUser DELETE /admin/users/:login.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	login := c.Params("login")
	if login == "" {
		return apperrors.NewValidationError("login required", nil)
	}
	if err := h.auth.DeleteAccount(c.Context(), login); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RenameUser PUT /admin/users/:login/name.
func (h *AdminHandler) RenameUser(c *fiber.Ctx) error {
	var req dto.RenameUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	if err := h.auth.RenameAccount(c.Context(), c.Params("login"), req.Name); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ChangePassword PUT /admin/users/:login/password.
func (h *AdminHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Password == "" {
		return apperrors.NewValidationError("password required", nil)
	}
	if err := h.auth.ChangePassword(c.Context(), c.Params("login"), req.Password); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
