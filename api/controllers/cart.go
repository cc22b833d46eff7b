package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/slopwear/storefront-backend/api/responses"
	"github.com/slopwear/storefront-backend/api/validators"
	"github.com/slopwear/storefront-backend/internal/cart"
	"github.com/slopwear/storefront-backend/pkg/logger"
)

type cartQuoteRequest struct {
	Items []cart.Item `json:"items" validate:"dive"`
}

type cartQuoteResponse struct {
	Items      []cart.Item     `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Currency   string          `json:"currency"`
}

// CartQuote re-derives totals for a client-held cart. The server never stores
// the cart; this endpoint exists so displayed totals always come from the
// catalog price rather than client arithmetic.
func CartQuote(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state := cart.Cart{Items: payload.Items}
		if state.Items == nil {
			state.Items = []cart.Item{}
		}

		responses.WriteSuccess(w, cartQuoteResponse{
			Items:      state.Items,
			TotalItems: state.TotalItems(),
			TotalPrice: state.TotalPrice(),
			Currency:   "usd",
		})
	}
}
