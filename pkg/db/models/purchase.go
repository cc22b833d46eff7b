package models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is the per-account ledger row. The checkout session id is the
// idempotency key: webhook redelivery overwrites instead of duplicating.
type Purchase struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID        uuid.UUID `gorm:"column:account_id;type:uuid;not null;index"`
	SessionID        string    `gorm:"column:session_id;not null;uniqueIndex"`
	StripeCustomerID string    `gorm:"column:stripe_customer_id;not null"`
	AmountTotal      int64     `gorm:"column:amount_total;not null"`
	Currency         string    `gorm:"column:currency;not null"`
	PaymentStatus    string    `gorm:"column:payment_status;not null"`
	Quantity         int       `gorm:"column:quantity;not null;default:1"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// PurchaseEvent is the global append-only ledger. Writes are not deduplicated,
// so a redelivered webhook may append a second row for the same session.
type PurchaseEvent struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID        uuid.UUID `gorm:"column:account_id;type:uuid;not null;index"`
	SessionID        string    `gorm:"column:session_id;not null;index"`
	StripeCustomerID string    `gorm:"column:stripe_customer_id;not null"`
	AmountTotal      int64     `gorm:"column:amount_total;not null"`
	Currency         string    `gorm:"column:currency;not null"`
	PaymentStatus    string    `gorm:"column:payment_status;not null"`
	Quantity         int       `gorm:"column:quantity;not null;default:1"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}
