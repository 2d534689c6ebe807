package roleupgrade

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository provides upgrade-request persistence. Review runs through Tx
// variants so the terminal transition and the role change commit together.
type Repository interface {
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Request, error)
	ReviewTx(ctx context.Context, tx *sqlx.Tx, id, reviewerID uuid.UUID, status Status, note string) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Request, error)
	ListPending(ctx context.Context, limit, offset int) ([]Request, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

// Create relies on the partial unique index over (user_id) WHERE
// status = 'pending' to reject concurrent duplicates; no check-then-act.
func (r *repository) Create(ctx context.Context, req *Request) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO role_upgrade_requests (id, user_id, requested_role, motivation, status, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
	`, req.ID, req.UserID, req.RequestedRole, req.Motivation, req.Status)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateRequest
		}
		return fmt.Errorf("create upgrade request: %w", err)
	}
	return nil
}

const requestColumns = `
	id, user_id, requested_role, motivation, status,
	reviewer_id, review_note, created_at, reviewed_at
`

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	var req Request
	err := r.db.GetContext(ctx, &req, `
		SELECT `+requestColumns+` FROM role_upgrade_requests WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get upgrade request: %w", err)
	}
	return &req, nil
}

// GetForUpdateTx locks the request row so two concurrent reviews serialize;
// the loser sees the terminal status, not stale pending.
func (r *repository) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Request, error) {
	var req Request
	err := tx.GetContext(ctx, &req, `
		SELECT `+requestColumns+` FROM role_upgrade_requests WHERE id = $1 FOR UPDATE
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock upgrade request: %w", err)
	}
	return &req, nil
}

func (r *repository) ReviewTx(ctx context.Context, tx *sqlx.Tx, id, reviewerID uuid.UUID, status Status, note string) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE role_upgrade_requests
		SET status = $2, reviewer_id = $3, review_note = $4, reviewed_at = now()
		WHERE id = $1 AND status = 'pending'
	`, id, status, reviewerID, note)
	if err != nil {
		return fmt.Errorf("review upgrade request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("review upgrade request: rows affected: %w", err)
	}
	if rows == 0 {
		return ErrAlreadyReviewed
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Request, error) {
	requests := make([]Request, 0)
	err := r.db.SelectContext(ctx, &requests, `
		SELECT `+requestColumns+` FROM role_upgrade_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list upgrade requests: %w", err)
	}
	return requests, nil
}

func (r *repository) ListPending(ctx context.Context, limit, offset int) ([]Request, error) {
	if limit <= 0 {
		limit = 20
	}

	requests := make([]Request, 0)
	err := r.db.SelectContext(ctx, &requests, `
		SELECT `+requestColumns+` FROM role_upgrade_requests
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pending upgrade requests: %w", err)
	}
	return requests, nil
}
