package webhooks

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"

	"github.com/slopwear/storefront-backend/api/responses"
	pkgerrors "github.com/slopwear/storefront-backend/pkg/errors"
	"github.com/slopwear/storefront-backend/pkg/logger"
	"github.com/slopwear/storefront-backend/pkg/metrics"
)

type StripeWebhookService interface {
	HandleEvent(ctx context.Context, event *stripe.Event) error
}

type stripeWebhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

type stripeClient interface {
	SigningSecret() string
}

// webhookAck is the exact body Stripe's retry machinery expects.
var webhookAck = map[string]bool{"received": true}

// StripeWebhook receives payment lifecycle events. Trust failures get a 400
// and the provider moves on; processing failures get a 500 so the provider
// redelivers, which the ledger write tolerates.
func StripeWebhook(svc StripeWebhookService, client stripeClient, guard stripeWebhookGuard, payments *metrics.PaymentMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}
		if client == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stripe client unavailable"))
			return
		}
		if guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		sigHeader := r.Header.Get("Stripe-Signature")
		if sigHeader == "" {
			payments.ObserveWebhookEvent("invalid_signature")
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "stripe signature missing"))
			return
		}

		event, err := webhook.ConstructEvent(payload, sigHeader, client.SigningSecret())
		if err != nil {
			payments.ObserveWebhookEvent("invalid_signature")
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stripe signature"))
			return
		}

		alreadyProcessed, err := guard.CheckAndMark(ctx, event.ID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
			return
		}
		if alreadyProcessed {
			payments.ObserveWebhookEvent("duplicate")
			responses.WriteRaw(w, http.StatusOK, webhookAck)
			return
		}

		if err := svc.HandleEvent(ctx, &event); err != nil {
			// release the mark so the provider's retry reprocesses
			_ = guard.Delete(ctx, event.ID)
			payments.ObserveWebhookEvent("failed")
			responses.WriteError(ctx, logg, w, err)
			return
		}

		payments.ObserveWebhookEvent("processed")
		if logg != nil {
			logg.Info(ctx, fmt.Sprintf("stripe event %s processed", event.ID))
		}
		responses.WriteRaw(w, http.StatusOK, webhookAck)
	}
}
