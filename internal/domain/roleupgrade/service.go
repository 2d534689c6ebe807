package roleupgrade

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/codemart/codemart-api/internal/domain/user"
)

// UserStore is the slice of the user domain the review needs
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	UpdateRoleTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, role user.Role) error
}

// Service drives the seller-upgrade workflow
type Service struct {
	repo  Repository
	users UserStore
}

func NewService(repo Repository, users UserStore) *Service {
	return &Service{repo: repo, users: users}
}

// Submit files a pending upgrade request. At most one pending request per
// user; a duplicate surfaces as ErrDuplicateRequest from the unique index.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, motivation string) (*Request, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.IsSeller() || u.IsAdmin() {
		return nil, ErrAlreadySeller
	}

	req := &Request{
		ID:            uuid.New(),
		UserID:        userID,
		RequestedRole: string(user.RoleSeller),
		Status:        StatusPending,
	}
	if motivation != "" {
		req.Motivation = sql.NullString{String: motivation, Valid: true}
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Review resolves a pending request exactly once. Approval updates the
// user's role in the same transaction as the terminal transition, so
// there is never an approved request without the role or vice versa.
func (s *Service) Review(ctx context.Context, reviewerID, requestID uuid.UUID, approve bool, note string) (*Request, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin review: %w", err)
	}
	defer tx.Rollback()

	req, err := s.repo.GetForUpdateTx(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}
	if req.IsReviewed() {
		return nil, ErrAlreadyReviewed
	}

	status := StatusRejected
	if approve {
		status = StatusApproved
	}

	if err := s.repo.ReviewTx(ctx, tx, requestID, reviewerID, status, note); err != nil {
		return nil, err
	}

	if approve {
		if err := s.users.UpdateRoleTx(ctx, tx, req.UserID, user.Role(req.RequestedRole)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit review: %w", err)
	}

	log.Info().
		Str("request_id", requestID.String()).
		Str("user_id", req.UserID.String()).
		Str("status", string(status)).
		Msg("Upgrade request reviewed")

	return s.repo.GetByID(ctx, requestID)
}

// ListMine returns the caller's request history
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]Request, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListPending returns the admin review queue, oldest first
func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]Request, error) {
	return s.repo.ListPending(ctx, limit, offset)
}
