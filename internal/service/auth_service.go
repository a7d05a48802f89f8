package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/desk-support/internal/auth"
	"github.com/spec-kit/desk-support/internal/config"
	"github.com/spec-kit/desk-support/internal/domain"
	"github.com/spec-kit/desk-support/internal/repository"
)

// AuthService coordinates registration, login and account administration.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// EnsureDefaultAdmin creates the bootstrap administrator account when no
// account with that login exists yet. The default password must be changed
// after first login.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, login, password string) error {
	if login == "" {
		return nil
	}
	_, err := s.users.GetByLogin(ctx, login)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	_, err = s.CreateAccount(ctx, login, password, "Administrator", domain.RoleAdmin)
	return err
}

// Register creates a new end-user account. Self-registration always gets the
// user role; privileged accounts are created by an administrator.
func (s *AuthService) Register(ctx context.Context, login, password, name string) (*domain.User, string, time.Time, error) {
	return s.createAccount(ctx, login, password, name, domain.RoleUser)
}

// CreateAccount lets an administrator create an account with any role.
func (s *AuthService) CreateAccount(ctx context.Context, login, password, name string, role domain.Role) (*domain.User, error) {
	user, _, _, err := s.createAccount(ctx, login, password, name, role)
	return user, err
}

func (s *AuthService) createAccount(ctx context.Context, login, password, name string, role domain.Role) (*domain.User, string, time.Time, error) {
	if _, err := s.users.GetByLogin(ctx, login); err == nil {
		return nil, "", time.Time{}, errors.New("login already taken")
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Login:        login,
		PasswordHash: hash,
		Role:         role,
		Name:         name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.Login, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates an account by login and password.
func (s *AuthService) Login(ctx context.Context, login, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.Login, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// ListAccounts returns all accounts ordered by login.
func (s *AuthService) ListAccounts(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// DeleteAccount removes an account.
func (s *AuthService) DeleteAccount(ctx context.Context, login string) error {
	return s.users.Delete(ctx, login)
}

// RenameAccount updates the display name.
func (s *AuthService) RenameAccount(ctx context.Context, login, name string) error {
	return s.users.UpdateName(ctx, login, name)
}

// ChangeTheme stores the account's UI theme preference.
func (s *AuthService) ChangeTheme(ctx context.Context, login, theme string) error {
	if theme != "light" && theme != "dark" {
		return errors.New("unknown theme")
	}
	return s.users.UpdateTheme(ctx, login, theme)
}

// ChangePassword replaces the stored password hash.
func (s *AuthService) ChangePassword(ctx context.Context, login, password string) error {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, login, hash)
}
