package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/desk-support/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, login string) error
	UpdateName(ctx context.Context, login, name string) error
	UpdatePassword(ctx context.Context, login, passwordHash string) error
	UpdateTheme(ctx context.Context, login, theme string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (login, password_hash, role, name, theme)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at`
	theme := user.Theme
	if theme == "" {
		theme = "light"
	}
	return r.pool.QueryRow(ctx, query,
		user.Login,
		user.PasswordHash,
		user.Role,
		user.Name,
		theme,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	const query = `
        SELECT login, password_hash, role, name, theme, created_at, updated_at
        FROM users WHERE login=$1`
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, login).Scan(
		&user.Login,
		&user.PasswordHash,
		&user.Role,
		&user.Name,
		&user.Theme,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
        SELECT login, password_hash, role, name, theme, created_at, updated_at
        FROM users ORDER BY login ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.Login,
			&user.PasswordHash,
			&user.Role,
			&user.Name,
			&user.Theme,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func (r *userRepository) Delete(ctx context.Context, login string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE login=$1`, login)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) UpdateName(ctx context.Context, login, name string) error {
	return r.updateColumn(ctx, `UPDATE users SET name=$1, updated_at=NOW() WHERE login=$2`, name, login)
}

func (r *userRepository) UpdatePassword(ctx context.Context, login, passwordHash string) error {
	return r.updateColumn(ctx, `UPDATE users SET password_hash=$1, updated_at=NOW() WHERE login=$2`, passwordHash, login)
}

func (r *userRepository) UpdateTheme(ctx context.Context, login, theme string) error {
	return r.updateColumn(ctx, `UPDATE users SET theme=$1, updated_at=NOW() WHERE login=$2`, theme, login)
}

func (r *userRepository) updateColumn(ctx context.Context, query, value, login string) error {
	cmd, err := r.pool.Exec(ctx, query, value, login)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
