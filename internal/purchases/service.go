package purchases

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/slopwear/storefront-backend/pkg/db/models"
	"github.com/slopwear/storefront-backend/pkg/errors"
	"github.com/slopwear/storefront-backend/pkg/logger"
	"github.com/slopwear/storefront-backend/pkg/metrics"
)

// Record captures everything the webhook path learns about a completed
// checkout session.
type Record struct {
	AccountID        uuid.UUID
	SessionID        string
	StripeCustomerID string
	AmountTotal      int64
	Currency         string
	PaymentStatus    string
	Quantity         int
}

// Service exposes the purchase ledger.
type Service interface {
	Record(ctx context.Context, rec Record) error
	List(ctx context.Context, accountID uuid.UUID) ([]models.Purchase, error)
}

type service struct {
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.PaymentMetrics
}

// NewService wires the ledger service.
func NewService(repo Repository, logg *logger.Logger, payments *metrics.PaymentMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchase repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, logg: logg, metrics: payments}, nil
}

// Record writes the global event row first, then upserts the per-account row.
// The per-account write keyed by session id is the idempotent anchor; the
// global ledger intentionally stays an undeduplicated event log, so a
// redelivered event appends there again.
func (s *service) Record(ctx context.Context, rec Record) error {
	if rec.SessionID == "" {
		return errors.New(errors.CodeValidation, "session id is required")
	}
	if rec.AccountID == uuid.Nil {
		return errors.New(errors.CodeValidation, "account id is required")
	}
	if rec.Quantity < 1 {
		rec.Quantity = 1
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"session_id": rec.SessionID,
		"account_id": rec.AccountID.String(),
	})

	event := &models.PurchaseEvent{
		AccountID:        rec.AccountID,
		SessionID:        rec.SessionID,
		StripeCustomerID: rec.StripeCustomerID,
		AmountTotal:      rec.AmountTotal,
		Currency:         rec.Currency,
		PaymentStatus:    rec.PaymentStatus,
		Quantity:         rec.Quantity,
	}
	if err := s.repo.AppendEvent(ctx, event); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "appending purchase event")
	}

	purchase := &models.Purchase{
		AccountID:        rec.AccountID,
		SessionID:        rec.SessionID,
		StripeCustomerID: rec.StripeCustomerID,
		AmountTotal:      rec.AmountTotal,
		Currency:         rec.Currency,
		PaymentStatus:    rec.PaymentStatus,
		Quantity:         rec.Quantity,
	}
	if err := s.repo.Upsert(ctx, purchase); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "upserting purchase")
	}

	s.metrics.IncPurchaseRecorded()
	s.logg.Info(ctx, "purchase recorded")
	return nil
}

func (s *service) List(ctx context.Context, accountID uuid.UUID) ([]models.Purchase, error) {
	if accountID == uuid.Nil {
		return nil, errors.New(errors.CodeUnauthorized, "account id is required")
	}
	rows, err := s.repo.ListByAccountID(ctx, accountID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing purchases")
	}
	if rows == nil {
		rows = []models.Purchase{}
	}
	return rows, nil
}
