package project

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codemart/codemart-api/internal/pkg/storage"
)

const (
	uploadURLTTL       = 30 * time.Minute
	archiveContentType = "application/zip"
)

// BonusGranter is the slice of the credit service the catalog needs:
// the one-shot publication bonus.
type BonusGranter interface {
	GrantUploadBonus(ctx context.Context, userID, projectID uuid.UUID, dockerized bool) error
}

// Service handles catalog business logic
type Service struct {
	repo    Repository
	archive storage.ArchiveStorage
	bonuses BonusGranter
}

func NewService(repo Repository, archive storage.ArchiveStorage, bonuses BonusGranter) *Service {
	return &Service{repo: repo, archive: archive, bonuses: bonuses}
}

// Create inserts a draft listing for the seller
func (s *Service) Create(ctx context.Context, sellerID uuid.UUID, title, description string, price int, dockerized bool) (*Project, error) {
	p := &Project{
		ID:         uuid.New(),
		SellerID:   sellerID,
		Title:      title,
		Slug:       slugify(title),
		Price:      price,
		Status:     StatusDraft,
		Dockerized: dockerized,
	}
	if description != "" {
		p.Description = sql.NullString{String: description, Valid: true}
	}

	err := s.repo.Create(ctx, p)
	if err == ErrSlugTaken {
		// Retry once with a random suffix; the constraint still backs us up
		p.Slug = fmt.Sprintf("%s-%s", p.Slug, uuid.New().String()[:8])
		err = s.repo.Create(ctx, p)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a project by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPublished returns the public catalog page
func (s *Service) ListPublished(ctx context.Context, limit, offset int) ([]Project, error) {
	return s.repo.ListPublished(ctx, limit, offset)
}

// InitArchiveUpload issues a presigned PUT URL for the project archive.
// Bytes go straight to object storage; the service never proxies them.
func (s *Service) InitArchiveUpload(ctx context.Context, sellerID, projectID uuid.UUID) (string, error) {
	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return "", err
	}
	if p.SellerID != sellerID {
		return "", ErrNotOwner
	}

	key := fmt.Sprintf("archives/%s/%s.zip", p.SellerID, p.ID)
	url, err := s.archive.PresignUpload(ctx, key, archiveContentType, uploadURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign archive upload: %w", err)
	}

	if err := s.repo.SetArchiveKey(ctx, p.ID, key); err != nil {
		return "", err
	}
	return url, nil
}

// Publish makes a draft purchasable and triggers the publication bonus.
// The bonus is advisory for the publish itself: a failed grant (daily cap,
// missing config) is logged, not rolled back into the listing.
func (s *Service) Publish(ctx context.Context, sellerID, projectID uuid.UUID) (*Project, error) {
	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, ErrNotOwner
	}
	if p.Status != StatusDraft {
		return nil, ErrNotDraft
	}
	if !p.ArchiveKey.Valid {
		return nil, ErrArchiveMissing
	}

	uploaded, err := s.archive.Exists(ctx, p.ArchiveKey.String)
	if err != nil {
		return nil, fmt.Errorf("check archive: %w", err)
	}
	if !uploaded {
		return nil, ErrArchiveMissing
	}

	if err := s.repo.Publish(ctx, p.ID); err != nil {
		return nil, err
	}
	p.Status = StatusPublished

	if s.bonuses != nil {
		if err := s.bonuses.GrantUploadBonus(ctx, sellerID, p.ID, p.Dockerized); err != nil {
			log.Warn().Err(err).
				Str("project_id", p.ID.String()).
				Str("seller_id", sellerID.String()).
				Msg("Upload bonus grant failed")
		}
	}

	return p, nil
}

func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, c := range strings.ToLower(title) {
		switch {
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9':
			b.WriteRune(c)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
