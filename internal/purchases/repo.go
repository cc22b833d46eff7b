package purchases

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/slopwear/storefront-backend/pkg/db/models"
)

// Repository handles purchase ledger persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, purchase *models.Purchase) error
	AppendEvent(ctx context.Context, event *models.PurchaseEvent) error
	ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]models.Purchase, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a purchase repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Upsert writes the per-account row keyed by session id. Webhook redelivery
// lands on the conflict branch and overwrites in place.
func (r *repository) Upsert(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"stripe_customer_id",
				"amount_total",
				"currency",
				"payment_status",
				"quantity",
				"updated_at",
			}),
		}).
		Create(purchase).Error
}

// AppendEvent writes the global ledger row. No conflict handling: redelivery
// appends a second row for the same session.
func (r *repository) AppendEvent(ctx context.Context, event *models.PurchaseEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]models.Purchase, error) {
	var rows []models.Purchase
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
