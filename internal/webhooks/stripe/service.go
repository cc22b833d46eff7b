package stripewebhook

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/slopwear/storefront-backend/internal/purchases"
	pkgerrors "github.com/slopwear/storefront-backend/pkg/errors"
	"github.com/slopwear/storefront-backend/pkg/logger"
)

// Metadata keys the checkout service stamps on sessions.
const (
	metadataAccountID = "account_id"
	metadataQuantity  = "quantity"
)

type ServiceParams struct {
	Purchases purchases.Service
	Logger    *logger.Logger
}

// Service dispatches verified Stripe events.
type Service struct {
	purchases purchases.Service
	logg      *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Purchases == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "purchases service required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		purchases: params.Purchases,
		logg:      params.Logger,
	}, nil
}

// HandleEvent processes a signature-verified event. Unrecognized kinds return
// nil so the caller acks and the provider stops redelivering them.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"event_id":   event.ID,
		"event_type": string(event.Type),
	})

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
		}
		return s.handleSessionCompleted(ctx, &session)
	case stripe.EventTypePaymentIntentSucceeded:
		s.logg.Info(ctx, "payment intent succeeded")
		return nil
	case stripe.EventTypePaymentIntentPaymentFailed:
		s.logg.Warn(ctx, "payment intent failed")
		return nil
	default:
		return nil
	}
}

// handleSessionCompleted records a purchase for completed one-time-payment
// sessions carrying an account tag. Untagged or subscription-mode sessions
// are acked without writing anything.
func (s *Service) handleSessionCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	if session.Mode != stripe.CheckoutSessionModePayment {
		s.logg.Info(ctx, "ignoring non-payment checkout session")
		return nil
	}

	rawAccountID := session.Metadata[metadataAccountID]
	if rawAccountID == "" {
		s.logg.Info(ctx, "ignoring untagged checkout session")
		return nil
	}
	accountID, err := uuid.Parse(rawAccountID)
	if err != nil {
		// A malformed tag cannot map to an account, and failing here would
		// only make Stripe redeliver the same payload. Ack and move on.
		s.logg.Warn(ctx, "ignoring checkout session with malformed account tag")
		return nil
	}

	rec := purchases.Record{
		AccountID:     accountID,
		SessionID:     session.ID,
		AmountTotal:   session.AmountTotal,
		Currency:      string(session.Currency),
		PaymentStatus: string(session.PaymentStatus),
		Quantity:      quantityFromMetadata(session.Metadata),
	}
	if session.Customer != nil {
		rec.StripeCustomerID = session.Customer.ID
	}

	return s.purchases.Record(ctx, rec)
}

// quantityFromMetadata parses the string quantity tag, defaulting to 1 when
// absent or unparseable.
func quantityFromMetadata(meta map[string]string) int {
	raw, ok := meta[metadataQuantity]
	if !ok {
		return 1
	}
	qty, err := strconv.Atoi(raw)
	if err != nil || qty < 1 {
		return 1
	}
	return qty
}
