package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/desk-support/internal/api/dto"
	"github.com/spec-kit/desk-support/internal/auth"
	"github.com/spec-kit/desk-support/internal/service"
	apperrors "github.com/spec-kit/desk-support/pkg/util"
)

// UsersHandler exposes auth endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Login == "" || req.Password == "" || req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "login, password, name required")
	}

	user, token, exp, err := h.auth.Register(c.Context(), req.Login, req.Password, req.Name)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.UserResponse{Login: user.Login, Role: user.Role, Name: user.Name},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Login == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "login and password required")
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Login, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.UserResponse{Login: user.Login, Role: user.Role, Name: user.Name, Theme: user.Theme},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Me handles GET /me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	user := principal.User
	return c.JSON(fiber.Map{
		"data": dto.UserResponse{Login: user.Login, Role: user.Role, Name: user.Name, Theme: user.Theme},
	})
}

// UpdateTheme handles PUT /me/theme.
func (h *UsersHandler) UpdateTheme(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateThemeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.auth.ChangeTheme(c.Context(), principal.User.Login, req.Theme); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
