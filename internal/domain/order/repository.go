package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository provides order persistence. Settlement-critical reads and
// writes come in Tx variants so the service can compose them with ledger
// operations inside one all-or-nothing transaction.
type Repository interface {
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Order, error)
	MarkCompletedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID, reason string) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]Order, error)
	GetCompletedByBuyerAndProject(ctx context.Context, buyerID, projectID uuid.UUID) (*Order, error)
	RecordDownload(ctx context.Context, d *Download) error
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

func (r *repository) Create(ctx context.Context, o *Order) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, buyer_id, project_id, seller_id, amount, payment_method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
	`, o.ID, o.OrderNumber, o.BuyerID, o.ProjectID, o.SellerID, o.Amount, o.PaymentMethod, o.Status)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

const orderColumns = `
	id, order_number, buyer_id, project_id, seller_id, amount,
	payment_method, status, cancel_reason, created_at, completed_at
`

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o, `
		SELECT `+orderColumns+` FROM orders WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// GetForUpdateTx locks the order row for the duration of the settlement
// transaction so a concurrent retry observes the committed status, never
// a stale pending.
func (r *repository) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Order, error) {
	var o Order
	err := tx.GetContext(ctx, &o, `
		SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock order: %w", err)
	}
	return &o, nil
}

func (r *repository) MarkCompletedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = 'completed', completed_at = now()
		WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return fmt.Errorf("complete order: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete order: rows affected: %w", err)
	}
	if rows == 0 {
		return ErrOrderNotPending
	}
	return nil
}

// Cancel transitions pending -> cancelled via a conditional update; zero
// rows affected means the order already reached a terminal state.
func (r *repository) Cancel(ctx context.Context, id uuid.UUID, reason string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = 'cancelled', cancel_reason = $2
		WHERE id = $1 AND status = 'pending'
	`, id, reason)
	if err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("cancel order: rows affected: %w", err)
	}
	if rows == 0 {
		return ErrOrderNotPending
	}
	return nil
}

func (r *repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]Order, error) {
	if limit <= 0 {
		limit = 20
	}

	orders := make([]Order, 0)
	err := r.db.SelectContext(ctx, &orders, `
		SELECT `+orderColumns+` FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, buyerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetCompletedByBuyerAndProject is the authoritative entitlement lookup
func (r *repository) GetCompletedByBuyerAndProject(ctx context.Context, buyerID, projectID uuid.UUID) (*Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o, `
		SELECT `+orderColumns+` FROM orders
		WHERE buyer_id = $1 AND project_id = $2 AND status = 'completed'
		ORDER BY completed_at DESC
		LIMIT 1
	`, buyerID, projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get completed order: %w", err)
	}
	return &o, nil
}

func (r *repository) RecordDownload(ctx context.Context, d *Download) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_downloads (order_id, user_id, project_id, downloaded_at)
		VALUES ($1, $2, $3, now())
	`, d.OrderID, d.UserID, d.ProjectID)
	if err != nil {
		return fmt.Errorf("record download: %w", err)
	}
	return nil
}
