package credit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Notifier receives a signal after a successful ledger mutation so the UI
// can refresh balances. Purely advisory: ledger correctness never depends
// on delivery, and a nil notifier is a no-op.
type Notifier interface {
	NotifyBalanceChanged(ctx context.Context, userID uuid.UUID, balance int)
}

// Service exposes the credit ledger and config resolution to the rest of
// the system.
type Service struct {
	repo     Repository
	configs  ConfigStore
	notifier Notifier
}

func NewService(repo Repository, configs ConfigStore, notifier Notifier) *Service {
	return &Service{repo: repo, configs: configs, notifier: notifier}
}

// GetConfig resolves an admin-configured rule value. Unknown keys return
// ErrConfigNotFound: reward computations fail loud, never silently default.
func (s *Service) GetConfig(ctx context.Context, key string) (int, error) {
	return s.configs.Get(ctx, key)
}

// SetConfig updates a rule value (admin only, enforced at the route level)
func (s *Service) SetConfig(ctx context.Context, key string, value int) error {
	return s.configs.Set(ctx, key, value)
}

// ListConfigs returns all configured rules
func (s *Service) ListConfigs(ctx context.Context) ([]CreditConfig, error) {
	return s.configs.List(ctx)
}

// Grant atomically adds credits and appends a ledger entry. Reward-type
// grants are checked against max_daily_earn and rejected outright when the
// cap would be exceeded; rejection keeps the audit trail unambiguous
// compared to clipping.
func (s *Service) Grant(ctx context.Context, userID uuid.UUID, amount int, txType TxType, meta TxMeta) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	var dailyCap *int
	if txType.IsReward() {
		limit, err := s.configs.Get(ctx, ConfigMaxDailyEarn)
		if err != nil {
			return fmt.Errorf("resolve daily cap: %w", err)
		}
		dailyCap = &limit
	}

	if err := s.repo.Grant(ctx, userID, amount, txType, meta, dailyCap); err != nil {
		return err
	}

	s.notifyBalance(ctx, userID)
	return nil
}

// Spend atomically deducts credits, failing with ErrInsufficientCredits
// before any write lands when the balance does not cover the amount.
func (s *Service) Spend(ctx context.Context, userID uuid.UUID, amount int, txType TxType, meta TxMeta) error {
	if err := s.repo.Spend(ctx, userID, amount, txType, meta); err != nil {
		return err
	}

	s.notifyBalance(ctx, userID)
	return nil
}

// SpendTx deducts credits within a caller-owned transaction. Used by order
// settlement so the debit commits atomically with the credit and the order
// status transition. The caller notifies after commit.
func (s *Service) SpendTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int, txType TxType, meta TxMeta) error {
	return s.repo.SpendTx(ctx, tx, userID, amount, txType, meta)
}

// GrantTx adds credits within a caller-owned transaction. Settlement
// proceeds (tx type sale) are not subject to the daily earn cap.
func (s *Service) GrantTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int, txType TxType, meta TxMeta) error {
	return s.repo.GrantTx(ctx, tx, userID, amount, txType, meta, nil)
}

// GrantRegisterBonus grants the one-time registration bonus. Safe to call
// repeatedly: an existing register_bonus transaction makes it a no-op.
func (s *Service) GrantRegisterBonus(ctx context.Context, userID uuid.UUID) error {
	granted, err := s.repo.HasTransaction(ctx, userID, TxTypeRegisterBonus, uuid.Nil)
	if err != nil {
		return err
	}
	if granted {
		return nil
	}

	amount, err := s.configs.Get(ctx, ConfigRegisterBonus)
	if err != nil {
		return fmt.Errorf("resolve register bonus: %w", err)
	}
	if amount == 0 {
		return nil
	}

	return s.Grant(ctx, userID, amount, TxTypeRegisterBonus, TxMeta{
		RelatedEntityType: "user",
		RelatedEntityID:   userID,
		Description:       "registration bonus",
	})
}

// GrantUploadBonus grants the project publication bonus, multiplied by
// docker_multiplier for Docker-ized projects. Granted at most once per
// project.
func (s *Service) GrantUploadBonus(ctx context.Context, userID, projectID uuid.UUID, dockerized bool) error {
	granted, err := s.repo.HasTransaction(ctx, userID, TxTypeUploadBonus, projectID)
	if err != nil {
		return err
	}
	if granted {
		return nil
	}

	amount, err := s.configs.Get(ctx, ConfigUploadBonus)
	if err != nil {
		return fmt.Errorf("resolve upload bonus: %w", err)
	}

	description := "project publication bonus"
	if dockerized {
		multiplier, err := s.configs.Get(ctx, ConfigDockerMultiplier)
		if err != nil {
			return fmt.Errorf("resolve docker multiplier: %w", err)
		}
		amount *= multiplier
		description = "project publication bonus (docker)"
	}
	if amount == 0 {
		return nil
	}

	return s.Grant(ctx, userID, amount, TxTypeUploadBonus, TxMeta{
		RelatedEntityType: "project",
		RelatedEntityID:   projectID,
		Description:       description,
	})
}

// AdminGrant credits a user by admin action
func (s *Service) AdminGrant(ctx context.Context, adminID, userID uuid.UUID, amount int, reason string) error {
	return s.Grant(ctx, userID, amount, TxTypeAdminGrant, TxMeta{
		RelatedEntityType: "admin",
		RelatedEntityID:   adminID,
		Description:       fmt.Sprintf("admin grant by %s: %s", adminID, reason),
	})
}

// GetBalance returns the current available credits for a user
func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.GetBalance(ctx, userID)
}

// HasTransaction reports whether a matching ledger entry exists
func (s *Service) HasTransaction(ctx context.Context, userID uuid.UUID, txType TxType, relatedEntityID uuid.UUID) (bool, error) {
	return s.repo.HasTransaction(ctx, userID, txType, relatedEntityID)
}

// ListTransactions returns paginated transaction history for a user
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]CreditTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListTransactions(ctx, userID, Pagination{Limit: limit, Offset: offset})
}

// NotifyBalance publishes the user's current balance to the notifier.
// Exposed so order settlement can signal both parties after its own commit.
func (s *Service) NotifyBalance(ctx context.Context, userID uuid.UUID) {
	s.notifyBalance(ctx, userID)
}

func (s *Service) notifyBalance(ctx context.Context, userID uuid.UUID) {
	if s.notifier == nil {
		return
	}

	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		log.Debug().Err(err).Str("user_id", userID.String()).Msg("Balance read for notify failed")
		return
	}
	s.notifier.NotifyBalanceChanged(ctx, userID, balance)
}
