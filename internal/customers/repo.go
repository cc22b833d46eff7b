package customers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slopwear/storefront-backend/pkg/db/models"
)

// Repository handles billing customer persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByAccountID(ctx context.Context, accountID uuid.UUID) (*models.BillingCustomer, error)
	Create(ctx context.Context, customer *models.BillingCustomer) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a customer repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindByAccountID returns nil, nil when no mapping exists yet.
func (r *repository) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*models.BillingCustomer, error) {
	var customer models.BillingCustomer
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&customer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (r *repository) Create(ctx context.Context, customer *models.BillingCustomer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}
