package controllers

import (
	"net/http"

	"github.com/slopwear/storefront-backend/api/responses"
	"github.com/slopwear/storefront-backend/internal/catalog"
)

// Products returns the static catalog.
func Products() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"products": catalog.All()})
	}
}
