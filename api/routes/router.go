package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slopwear/storefront-backend/api/controllers"
	webhookcontrollers "github.com/slopwear/storefront-backend/api/controllers/webhooks"
	"github.com/slopwear/storefront-backend/api/middleware"
	checkoutsvc "github.com/slopwear/storefront-backend/internal/checkout"
	purchasesvc "github.com/slopwear/storefront-backend/internal/purchases"
	stripewebhook "github.com/slopwear/storefront-backend/internal/webhooks/stripe"
	"github.com/slopwear/storefront-backend/pkg/config"
	"github.com/slopwear/storefront-backend/pkg/db"
	"github.com/slopwear/storefront-backend/pkg/logger"
	"github.com/slopwear/storefront-backend/pkg/metrics"
	"github.com/slopwear/storefront-backend/pkg/redis"
	"github.com/slopwear/storefront-backend/pkg/stripe"
)

type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           redis.Pinger
	StripeClient    *stripe.Client
	CheckoutService checkoutsvc.Service
	PurchaseService purchasesvc.Service
	WebhookService  *stripewebhook.Service
	WebhookGuard    *stripewebhook.IdempotencyGuard
	PaymentMetrics  *metrics.PaymentMetrics
	MetricsRegistry *prometheus.Registry
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		cors.Handler(cors.Options{
			AllowedOrigins:   p.Config.App.AllowedOrigins(),
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Live())
		r.Get("/ready", controllers.Ready(p.DB, p.Redis, p.Logger))
	})

	if p.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(p.WebhookService, p.StripeClient, p.WebhookGuard, p.PaymentMetrics, p.Logger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.Products())
		r.Post("/cart/quote", controllers.CartQuote(p.Logger))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(p.Config.JWT, p.Logger))
			r.Post("/checkout/session", controllers.CheckoutSession(p.CheckoutService, p.Logger))
			r.Get("/purchases", controllers.ListPurchases(p.PurchaseService, p.Logger))
		})
	})

	return r
}
