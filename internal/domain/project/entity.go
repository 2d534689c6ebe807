package project

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents project lifecycle status (matches project_status enum)
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusSuspended Status = "suspended"
)

// Project is a source-code listing. Settlement only depends on SellerID,
// Price and Status; the rest is catalog metadata.
type Project struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	SellerID    uuid.UUID      `db:"seller_id" json:"seller_id"`
	Title       string         `db:"title" json:"title"`
	Slug        string         `db:"slug" json:"slug"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	Price       int            `db:"price" json:"price"`
	Status      Status         `db:"status" json:"status"`
	Dockerized  bool           `db:"dockerized" json:"dockerized"`
	ArchiveKey  sql.NullString `db:"archive_key" json:"-"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// IsPurchasable returns true if orders may be created against the project
func (p *Project) IsPurchasable() bool {
	return p.Status == StatusPublished
}
