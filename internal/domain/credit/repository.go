package credit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Repository provides the ledger's atomic primitives. Balance mutations
// always pair with a ledger insert inside one transaction so the
// reconciliation invariant (sum of transactions == available balance)
// holds at every commit point.
type Repository interface {
	Grant(ctx context.Context, userID uuid.UUID, amount int, txType TxType, meta TxMeta, dailyCap *int) error
	GrantTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int, txType TxType, meta TxMeta, dailyCap *int) error
	Spend(ctx context.Context, userID uuid.UUID, amount int, txType TxType, meta TxMeta) error
	SpendTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int, txType TxType, meta TxMeta) error
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
	HasTransaction(ctx context.Context, userID uuid.UUID, txType TxType, relatedEntityID uuid.UUID) (bool, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, pagination Pagination) ([]CreditTransaction, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Grant(ctx context.Context, userID uuid.UUID, amount int, txType TxType, meta TxMeta, dailyCap *int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := r.GrantTx(ctx2, tx, userID, amount, txType, meta, dailyCap); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GrantTx grants credits within a caller-owned transaction. The account row
// is locked FOR UPDATE so concurrent grants for the same user serialize,
// which makes the daily-cap check race-free. Does NOT commit or rollback.
func (r *repository) GrantTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int, txType TxType, meta TxMeta, dailyCap *int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if err := r.ensureAccount(ctx, tx, userID); err != nil {
		return err
	}

	var balance int
	if err := tx.GetContext(ctx, &balance, `
		SELECT available_credits FROM user_credits WHERE user_id = $1 FOR UPDATE
	`, userID); err != nil {
		return fmt.Errorf("lock credit account: %w", err)
	}

	if dailyCap != nil {
		earned, err := r.earnedToday(ctx, tx, userID)
		if err != nil {
			return err
		}
		if earned+amount > *dailyCap {
			return ErrDailyCapExceeded
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE user_credits
		SET available_credits = available_credits + $2, updated_at = now()
		WHERE user_id = $1
	`, userID, amount); err != nil {
		return fmt.Errorf("increment balance: %w", err)
	}

	return r.insertLedger(ctx, tx, userID, amount, txType, meta)
}

func (r *repository) Spend(ctx context.Context, userID uuid.UUID, amount int, txType TxType, meta TxMeta) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := r.SpendTx(ctx2, tx, userID, amount, txType, meta); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SpendTx deducts credits within a caller-owned transaction using an atomic
// conditional update. Insufficient balance is detected via zero rows affected,
// so two concurrent spends can never both pass a stale balance check.
// Does NOT commit or rollback.
func (r *repository) SpendTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int, txType TxType, meta TxMeta) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if err := r.ensureAccount(ctx, tx, userID); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE user_credits
		SET available_credits = available_credits - $2, updated_at = now()
		WHERE user_id = $1 AND available_credits >= $2
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("decrement balance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement balance: rows affected: %w", err)
	}
	if rows == 0 {
		return ErrInsufficientCredits
	}

	return r.insertLedger(ctx, tx, userID, -amount, txType, meta)
}

func (r *repository) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var balance int
	err := r.db.GetContext(ctx2, &balance, `
		SELECT available_credits FROM user_credits WHERE user_id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		// Account rows are created lazily on first earn
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// HasTransaction reports whether a transaction of the given type exists,
// optionally scoped to a related entity. Idempotency guard for one-shot
// bonuses: the registration bonus is granted once per user, the upload
// bonus once per project.
func (r *repository) HasTransaction(ctx context.Context, userID uuid.UUID, txType TxType, relatedEntityID uuid.UUID) (bool, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT EXISTS (
			SELECT 1 FROM credit_transactions
			WHERE user_id = $1 AND tx_type = $2
	`
	args := []interface{}{userID, string(txType)}
	if relatedEntityID != uuid.Nil {
		query += ` AND related_entity_id = $3`
		args = append(args, relatedEntityID.String())
	}
	query += `)`

	var exists bool
	if err := r.db.GetContext(ctx2, &exists, query, args...); err != nil {
		return false, fmt.Errorf("check transaction existence: %w", err)
	}
	return exists, nil
}

func (r *repository) ListTransactions(ctx context.Context, userID uuid.UUID, pagination Pagination) ([]CreditTransaction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	limit := pagination.Limit
	if limit <= 0 {
		limit = 20
	}

	transactions := make([]CreditTransaction, 0)
	err := r.db.SelectContext(ctx2, &transactions, `
		SELECT id, user_id, amount, tx_type, related_entity_type, related_entity_id, description, created_at
		FROM credit_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, pagination.Offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

// ensureAccount creates the balance row lazily on first credit event
func (r *repository) ensureAccount(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_credits (user_id, available_credits)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		return fmt.Errorf("ensure credit account: %w", err)
	}
	return nil
}

// earnedToday sums reward-type earnings since local midnight
func (r *repository) earnedToday(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (int, error) {
	var earned int
	err := tx.GetContext(ctx, &earned, `
		SELECT COALESCE(SUM(amount), 0)
		FROM credit_transactions
		WHERE user_id = $1
		  AND amount > 0
		  AND tx_type IN ('register_bonus', 'upload_bonus')
		  AND created_at >= date_trunc('day', now())
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("sum daily earnings: %w", err)
	}
	return earned, nil
}

func (r *repository) insertLedger(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int, txType TxType, meta TxMeta) error {
	description := meta.Description
	if description == "" {
		description = "credit balance adjustment"
	}

	var entityType, entityID interface{}
	if meta.RelatedEntityType != "" {
		entityType = meta.RelatedEntityType
	}
	if meta.RelatedEntityID != uuid.Nil {
		entityID = meta.RelatedEntityID.String()
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO credit_transactions (
			id, user_id, amount, tx_type, related_entity_type, related_entity_id, description
		)
		VALUES (
			gen_random_uuid(), $1, $2, $3, $4, $5, $6
		)
	`, userID, amount, string(txType), entityType, entityID, description); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}
