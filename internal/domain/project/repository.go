package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository provides project catalog persistence
type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	ListPublished(ctx context.Context, limit, offset int) ([]Project, error)
	SetArchiveKey(ctx context.Context, id uuid.UUID, key string) error
	Publish(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Project) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, seller_id, title, slug, description, price, status, dockerized, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
	`, p.ID, p.SellerID, p.Title, p.Slug, p.Description, p.Price, p.Status, p.Dockerized)
	if err != nil {
		// Slug uniqueness is a DB constraint, not an advisory pre-check,
		// so concurrent creates cannot slip past it.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrSlugTaken
		}
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	var p Project
	err := r.db.GetContext(ctx, &p, `
		SELECT id, seller_id, title, slug, description, price, status, dockerized, archive_key, created_at, updated_at
		FROM projects
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (r *repository) ListPublished(ctx context.Context, limit, offset int) ([]Project, error) {
	if limit <= 0 {
		limit = 20
	}

	projects := make([]Project, 0)
	err := r.db.SelectContext(ctx, &projects, `
		SELECT id, seller_id, title, slug, description, price, status, dockerized, archive_key, created_at, updated_at
		FROM projects
		WHERE status = 'published'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list published projects: %w", err)
	}
	return projects, nil
}

func (r *repository) SetArchiveKey(ctx context.Context, id uuid.UUID, key string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE projects SET archive_key = $2, updated_at = now() WHERE id = $1
	`, id, key)
	if err != nil {
		return fmt.Errorf("set archive key: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set archive key: rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Publish transitions draft -> published with a conditional update so a
// double submit cannot publish twice.
func (r *repository) Publish(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE projects SET status = 'published', updated_at = now()
		WHERE id = $1 AND status = 'draft'
	`, id)
	if err != nil {
		return fmt.Errorf("publish project: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("publish project: rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotDraft
	}
	return nil
}
