package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/desk-support/internal/domain"
)

// QuestionRepository encapsulates question persistence. Every method maps to
// a single SQL statement; the database is the serialization point for
// concurrent routing and resolution.
type QuestionRepository interface {
	Create(ctx context.Context, question *domain.Question) error
	GetByID(ctx context.Context, id int64) (*domain.Question, error)
	ListPending(ctx context.Context) ([]domain.Question, error)
	SetAnswer(ctx context.Context, id int64, answer, operator string) error
	ListByUser(ctx context.Context, user string, limit int) ([]domain.Question, error)
	ListByStatus(ctx context.Context, status domain.QuestionStatus) ([]domain.Question, error)
	ListAll(ctx context.Context) ([]domain.Question, error)
	ListFAQ(ctx context.Context) ([]domain.Question, error)
	CountByStatus(ctx context.Context) (map[domain.QuestionStatus]int64, error)
}

type questionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository instantiates repository.
func NewQuestionRepository(pool *pgxpool.Pool) QuestionRepository {
	return &questionRepository{pool: pool}
}

const questionColumns = `id, "user", question, answer, status, operator, created_at, updated_at`

func (r *questionRepository) Create(ctx context.Context, question *domain.Question) error {
	const query = `
        INSERT INTO questions ("user", question, answer, status, operator)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		question.User,
		question.Question,
		question.Answer,
		question.Status,
		question.Operator,
	).Scan(&question.ID, &question.CreatedAt, &question.UpdatedAt)
}

func (r *questionRepository) GetByID(ctx context.Context, id int64) (*domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id=$1`
	var q domain.Question
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID,
		&q.User,
		&q.Question,
		&q.Answer,
		&q.Status,
		&q.Operator,
		&q.CreatedAt,
		&q.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &q, nil
}

// ListPending returns unanswered questions oldest first, the order the
// operator queue is worked in.
func (r *questionRepository) ListPending(ctx context.Context) ([]domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE status=$1 ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query, domain.QuestionStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuestions(rows)
}

// SetAnswer performs the single pending->answered transition: answer,
// operator and status are written in one atomic statement. A second call
// overwrites the first (last writer wins).
func (r *questionRepository) SetAnswer(ctx context.Context, id int64, answer, operator string) error {
	const query = `
        UPDATE questions SET answer=$1, operator=$2, status=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, answer, operator, domain.QuestionStatusAnswered, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *questionRepository) ListByUser(ctx context.Context, user string, limit int) ([]domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE "user"=$1 ORDER BY id DESC`
	args := []any{user}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuestions(rows)
}

func (r *questionRepository) ListByStatus(ctx context.Context, status domain.QuestionStatus) ([]domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE status=$1 ORDER BY id DESC`
	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuestions(rows)
}

func (r *questionRepository) ListAll(ctx context.Context) ([]domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions ORDER BY id DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuestions(rows)
}

func (r *questionRepository) ListFAQ(ctx context.Context) ([]domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE "user"=$1 ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query, domain.FAQIdentity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuestions(rows)
}

func (r *questionRepository) CountByStatus(ctx context.Context) (map[domain.QuestionStatus]int64, error) {
	const query = `SELECT status, COUNT(1) FROM questions GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[domain.QuestionStatus]int64{
		domain.QuestionStatusPending:  0,
		domain.QuestionStatusAnswered: 0,
	}
	for rows.Next() {
		var status domain.QuestionStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanQuestions(rows pgx.Rows) ([]domain.Question, error) {
	var result []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(
			&q.ID,
			&q.User,
			&q.Question,
			&q.Answer,
			&q.Status,
			&q.Operator,
			&q.CreatedAt,
			&q.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, q)
	}
	return result, rows.Err()
}
