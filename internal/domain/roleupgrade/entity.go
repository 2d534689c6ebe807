package roleupgrade

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents the review state machine (matches upgrade_status enum).
// pending -> approved | rejected; a request is reviewed exactly once.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is a user's application to become a seller
type Request struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	UserID        uuid.UUID      `db:"user_id" json:"user_id"`
	RequestedRole string         `db:"requested_role" json:"requested_role"`
	Motivation    sql.NullString `db:"motivation" json:"motivation,omitempty"`
	Status        Status         `db:"status" json:"status"`
	ReviewerID    uuid.NullUUID  `db:"reviewer_id" json:"reviewer_id,omitempty"`
	ReviewNote    sql.NullString `db:"review_note" json:"review_note,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	ReviewedAt    sql.NullTime   `db:"reviewed_at" json:"reviewed_at,omitempty"`
}

// IsReviewed returns true once the request reached a terminal state
func (r *Request) IsReviewed() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}
