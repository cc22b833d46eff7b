package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/slopwear/storefront-backend/api/middleware"
	"github.com/slopwear/storefront-backend/api/responses"
	"github.com/slopwear/storefront-backend/api/validators"
	checkoutsvc "github.com/slopwear/storefront-backend/internal/checkout"
	pkgerrors "github.com/slopwear/storefront-backend/pkg/errors"
	"github.com/slopwear/storefront-backend/pkg/logger"
)

type checkoutSessionRequest struct {
	PriceID    string `json:"price_id" validate:"required"`
	Mode       string `json:"mode" validate:"required,oneof=payment subscription"`
	SuccessURL string `json:"success_url" validate:"required,url"`
	CancelURL  string `json:"cancel_url" validate:"required,url"`
	// Pointer so an omitted quantity (defaults to 1) is distinguishable from
	// an explicit zero, which is rejected.
	Quantity *int64 `json:"quantity,omitempty" validate:"omitempty,min=1"`
}

type checkoutSessionResponse struct {
	URL string `json:"url"`
}

// CheckoutSession mints a hosted checkout session for the authenticated caller.
func CheckoutSession(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		accountID, err := uuid.Parse(middleware.AccountIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity"))
			return
		}

		var payload checkoutSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quantity := int64(1)
		if payload.Quantity != nil {
			quantity = *payload.Quantity
		}

		caller := checkoutsvc.Caller{
			AccountID: accountID,
			Email:     middleware.EmailFromContext(r.Context()),
		}
		url, err := svc.CreateSession(r.Context(), caller, checkoutsvc.SessionRequest{
			PriceID:    payload.PriceID,
			Mode:       payload.Mode,
			SuccessURL: payload.SuccessURL,
			CancelURL:  payload.CancelURL,
			Quantity:   quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutSessionResponse{URL: url})
	}
}
