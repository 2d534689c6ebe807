package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/codemart/codemart-api/internal/domain/credit"
	"github.com/codemart/codemart-api/internal/pkg/storage"
)

// ProjectInfo is the slice of the catalog record settlement needs
type ProjectInfo struct {
	ID          uuid.UUID
	SellerID    uuid.UUID
	Price       int
	Purchasable bool
	ArchiveKey  string
}

// ProjectProvider resolves project facts for order creation and downloads.
// Implementations return ErrNotFound for a missing project.
type ProjectProvider interface {
	GetProject(ctx context.Context, id uuid.UUID) (*ProjectInfo, error)
}

// Ledger is the slice of the credit service settlement composes with.
// The Tx variants run inside the settlement transaction.
type Ledger interface {
	SpendTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int, txType credit.TxType, meta credit.TxMeta) error
	GrantTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int, txType credit.TxType, meta credit.TxMeta) error
	NotifyBalance(ctx context.Context, userID uuid.UUID)
}

// Service drives the order state machine and the atomic settlement
type Service struct {
	repo           Repository
	projects       ProjectProvider
	ledger         Ledger
	archive        storage.ArchiveStorage
	downloadURLTTL time.Duration
}

func NewService(repo Repository, projects ProjectProvider, ledger Ledger, archive storage.ArchiveStorage, downloadURLTTL time.Duration) *Service {
	if downloadURLTTL <= 0 {
		downloadURLTTL = 15 * time.Minute
	}
	return &Service{
		repo:           repo,
		projects:       projects,
		ledger:         ledger,
		archive:        archive,
		downloadURLTTL: downloadURLTTL,
	}
}

// Create validates the purchase and inserts a pending order. No funds move
// here; credits only change hands at settlement, which is why cancelling a
// pending order never needs a compensating transaction.
func (s *Service) Create(ctx context.Context, buyerID, projectID uuid.UUID, method PaymentMethod) (*Order, error) {
	if method != PaymentMethodCredits {
		return nil, ErrUnsupportedPaymentMethod
	}

	p, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !p.Purchasable {
		return nil, ErrProjectNotPurchasable
	}
	if p.SellerID == buyerID {
		return nil, ErrSelfPurchase
	}

	o := &Order{
		ID:            uuid.New(),
		OrderNumber:   newOrderNumber(time.Now()),
		BuyerID:       buyerID,
		ProjectID:     projectID,
		SellerID:      p.SellerID,
		Amount:        p.Price,
		PaymentMethod: PaymentMethodCredits,
		Status:        StatusPending,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Complete is the atomic settlement step. In one database transaction it
// re-validates the order is still pending, debits the buyer, credits the
// seller (100% passthrough, no platform fee) and marks the order
// completed. Any failure after the debit rolls the whole thing back, so
// the buyer is never debited against a pending order.
//
// Retry-safe: an already-completed order is a no-op, not a double spend,
// and ErrInsufficientCredits leaves the order pending for a later retry.
func (s *Service) Complete(ctx context.Context, callerID, orderID uuid.UUID, asAdmin bool) (*Order, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin settlement: %w", err)
	}
	defer tx.Rollback()

	o, err := s.repo.GetForUpdateTx(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if o.BuyerID != callerID && !asAdmin {
		return nil, ErrNotYourOrder
	}

	switch o.Status {
	case StatusCompleted:
		return o, nil
	case StatusCancelled:
		return nil, ErrOrderNotPending
	}

	if err := s.ledger.SpendTx(ctx, tx, o.BuyerID, o.Amount, credit.TxTypePurchase, credit.TxMeta{
		RelatedEntityType: "order",
		RelatedEntityID:   o.ID,
		Description:       fmt.Sprintf("purchase %s", o.OrderNumber),
	}); err != nil {
		return nil, err
	}

	if err := s.ledger.GrantTx(ctx, tx, o.SellerID, o.Amount, credit.TxTypeSale, credit.TxMeta{
		RelatedEntityType: "order",
		RelatedEntityID:   o.ID,
		Description:       fmt.Sprintf("sale %s", o.OrderNumber),
	}); err != nil {
		return nil, err
	}

	if err := s.repo.MarkCompletedTx(ctx, tx, o.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit settlement: %w", err)
	}

	log.Info().
		Str("order_id", o.ID.String()).
		Str("order_number", o.OrderNumber).
		Int("amount", o.Amount).
		Msg("Order settled")

	s.ledger.NotifyBalance(ctx, o.BuyerID)
	s.ledger.NotifyBalance(ctx, o.SellerID)

	settled, err := s.repo.GetByID(ctx, o.ID)
	if err != nil {
		// Settlement already committed; return the locked snapshot
		o.Status = StatusCompleted
		return o, nil
	}
	return settled, nil
}

// Cancel aborts a pending order. Legal only from pending; no ledger effect
// to unwind since funds move at settlement.
func (s *Service) Cancel(ctx context.Context, callerID, orderID uuid.UUID, reason string, asAdmin bool) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.BuyerID != callerID && !asAdmin {
		return ErrNotYourOrder
	}

	return s.repo.Cancel(ctx, orderID, reason)
}

// Get returns an order visible to its buyer, seller, or an admin
func (s *Service) Get(ctx context.Context, callerID, orderID uuid.UUID, asAdmin bool) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.BuyerID != callerID && o.SellerID != callerID && !asAdmin {
		return nil, ErrNotYourOrder
	}
	return o, nil
}

// ListMine returns the caller's purchase history
func (s *Service) ListMine(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]Order, error) {
	return s.repo.ListByBuyer(ctx, buyerID, limit, offset)
}

// HasUserPurchased answers the entitlement question: a completed order
// exists for (user, project), or the user is the project's seller.
func (s *Service) HasUserPurchased(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	p, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return false, err
	}
	if p.SellerID == userID {
		return true, nil
	}

	_, err = s.repo.GetCompletedByBuyerAndProject(ctx, userID, projectID)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Download gates presigned URL issuance behind the entitlement check and
// records the download for buyers. Always re-checks entitlement against
// the store, so a purchase settled a moment ago is immediately visible.
func (s *Service) Download(ctx context.Context, userID, projectID uuid.UUID) (string, error) {
	p, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return "", err
	}
	if p.ArchiveKey == "" {
		return "", ErrNotFound
	}

	if p.SellerID != userID {
		o, err := s.repo.GetCompletedByBuyerAndProject(ctx, userID, projectID)
		if err == ErrNotFound {
			return "", ErrNotEntitled
		}
		if err != nil {
			return "", err
		}

		if err := s.repo.RecordDownload(ctx, &Download{
			OrderID:   o.ID,
			UserID:    userID,
			ProjectID: projectID,
		}); err != nil {
			// The audit row is best-effort; the entitlement already held
			log.Warn().Err(err).Str("order_id", o.ID.String()).Msg("Download record failed")
		}
	}

	url, err := s.archive.PresignDownload(ctx, p.ArchiveKey, s.downloadURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}
