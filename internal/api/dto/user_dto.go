package dto

import (
	"time"

	"github.com/spec-kit/desk-support/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse represents an account without credentials.
type UserResponse struct {
	Login string      `json:"login"`
	Role  domain.Role `json:"role"`
	Name  string      `json:"name"`
	Theme string      `json:"theme,omitempty"`
}

// UpdateThemeRequest payload for UI theme changes.
type UpdateThemeRequest struct {
	Theme string `json:"theme"`
}

// CreateUserRequest payload for admin account creation.
type CreateUserRequest struct {
	Login    string      `json:"login"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role"`
}

// RenameUserRequest payload for display-name changes.
type RenameUserRequest struct {
	Name string `json:"name"`
}

// ChangePasswordRequest payload for password changes.
type ChangePasswordRequest struct {
	Password string `json:"password"`
}
