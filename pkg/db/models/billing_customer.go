package models

import (
	"time"

	"github.com/google/uuid"
)

// BillingCustomer maps an account to its Stripe customer. At most one row per
// account; created lazily on the first checkout and immutable afterwards.
type BillingCustomer struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID        uuid.UUID `gorm:"column:account_id;type:uuid;not null;uniqueIndex"`
	StripeCustomerID string    `gorm:"column:stripe_customer_id;not null;unique"`
	Email            string    `gorm:"column:email;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}
