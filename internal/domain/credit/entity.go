package credit

import (
	"time"

	"github.com/google/uuid"
)

// TxType defines supported credit transaction types.
type TxType string

const (
	TxTypeRegisterBonus TxType = "register_bonus"
	TxTypeUploadBonus   TxType = "upload_bonus"
	TxTypePurchase      TxType = "purchase"
	TxTypeSale          TxType = "sale"
	TxTypeAdminGrant    TxType = "admin_grant"
)

// rewardTypes are the earn types the daily cap applies to.
// Sale proceeds and admin grants are not capped: capping a sale would
// make a buyer's settlement fail because of the seller's earn history.
var rewardTypes = map[TxType]bool{
	TxTypeRegisterBonus: true,
	TxTypeUploadBonus:   true,
}

// IsReward reports whether the daily earn cap applies to this type.
func (t TxType) IsReward() bool {
	return rewardTypes[t]
}

// Config keys for tunable reward amounts.
const (
	ConfigRegisterBonus    = "register_bonus"
	ConfigUploadBonus      = "upload_bonus"
	ConfigDockerMultiplier = "docker_multiplier"
	ConfigMaxDailyEarn     = "max_daily_earn"
)

// CreditConfig is an admin-tunable platform rule.
type CreditConfig struct {
	ConfigKey   string    `db:"config_key" json:"config_key"`
	ConfigValue int       `db:"config_value" json:"config_value"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TxMeta represents optional metadata attached to a credit transaction.
type TxMeta struct {
	RelatedEntityType string
	RelatedEntityID   uuid.UUID
	Description       string
}

// CreditTransaction is a ledger row. Amount sign indicates credit (+) or debit (-).
type CreditTransaction struct {
	ID                uuid.UUID `db:"id" json:"id"`
	UserID            uuid.UUID `db:"user_id" json:"user_id"`
	Amount            int       `db:"amount" json:"amount"`
	TxType            string    `db:"tx_type" json:"tx_type"`
	RelatedEntityType *string   `db:"related_entity_type" json:"related_entity_type,omitempty"`
	RelatedEntityID   *string   `db:"related_entity_id" json:"related_entity_id,omitempty"`
	Description       string    `db:"description" json:"description"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// Pagination controls simple list pagination.
type Pagination struct {
	Limit  int
	Offset int
}
