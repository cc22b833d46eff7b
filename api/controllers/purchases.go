package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/slopwear/storefront-backend/api/middleware"
	"github.com/slopwear/storefront-backend/api/responses"
	purchasesvc "github.com/slopwear/storefront-backend/internal/purchases"
	"github.com/slopwear/storefront-backend/pkg/db/models"
	pkgerrors "github.com/slopwear/storefront-backend/pkg/errors"
	"github.com/slopwear/storefront-backend/pkg/logger"
)

type purchaseResponse struct {
	ID            uuid.UUID `json:"id"`
	SessionID     string    `json:"session_id"`
	AmountTotal   int64     `json:"amount_total"`
	Currency      string    `json:"currency"`
	PaymentStatus string    `json:"payment_status"`
	Quantity      int       `json:"quantity"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListPurchases returns the caller's purchase history, newest first.
func ListPurchases(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}

		accountID, err := uuid.Parse(middleware.AccountIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity"))
			return
		}

		rows, err := svc.List(r.Context(), accountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"purchases": newPurchaseResponses(rows)})
	}
}

func newPurchaseResponses(rows []models.Purchase) []purchaseResponse {
	out := make([]purchaseResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, purchaseResponse{
			ID:            row.ID,
			SessionID:     row.SessionID,
			AmountTotal:   row.AmountTotal,
			Currency:      row.Currency,
			PaymentStatus: row.PaymentStatus,
			Quantity:      row.Quantity,
			CreatedAt:     row.CreatedAt,
		})
	}
	return out
}
