package order

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentMethod enumerates how an order is paid. Credits is the only
// supported method.
type PaymentMethod string

const PaymentMethodCredits PaymentMethod = "credits"

// Status represents the order state machine (matches order_status enum).
// pending -> completed | cancelled; terminal states are final.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Order represents a purchase of a project by a buyer
type Order struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	OrderNumber   string         `db:"order_number" json:"order_number"`
	BuyerID       uuid.UUID      `db:"buyer_id" json:"buyer_id"`
	ProjectID     uuid.UUID      `db:"project_id" json:"project_id"`
	SellerID      uuid.UUID      `db:"seller_id" json:"seller_id"`
	Amount        int            `db:"amount" json:"amount"`
	PaymentMethod PaymentMethod  `db:"payment_method" json:"payment_method"`
	Status        Status         `db:"status" json:"status"`
	CancelReason  sql.NullString `db:"cancel_reason" json:"cancel_reason,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	CompletedAt   sql.NullTime   `db:"completed_at" json:"completed_at,omitempty"`
}

// IsTerminal returns true once no further transitions are legal
func (o *Order) IsTerminal() bool {
	return o.Status == StatusCompleted || o.Status == StatusCancelled
}

// Download is the entitlement audit record written on successful download.
// The authoritative entitlement check is the completed order, not this row.
type Download struct {
	OrderID      uuid.UUID `db:"order_id" json:"order_id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	ProjectID    uuid.UUID `db:"project_id" json:"project_id"`
	DownloadedAt time.Time `db:"downloaded_at" json:"downloaded_at"`
}

// newOrderNumber generates a unique human-readable order number, e.g.
// CM-20260827-1A2B3C4D. Uniqueness is additionally backed by a DB
// constraint.
func newOrderNumber(now time.Time) string {
	entropy := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("CM-%s-%s", now.Format("20060102"), entropy)
}
