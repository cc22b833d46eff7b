package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics tracks the checkout and webhook paths.
type PaymentMetrics struct {
	checkoutSessions *prometheus.CounterVec
	webhookEvents    *prometheus.CounterVec
	purchaseRecords  prometheus.Counter
}

// NewPaymentMetrics registers payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	checkoutSessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_sessions_total",
		Help: "Checkout session creation attempts by outcome.",
	}, []string{"outcome"})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stripe_webhook_events_total",
		Help: "Stripe webhook deliveries by disposition.",
	}, []string{"disposition"})
	purchaseRecords := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "purchases_recorded_total",
		Help: "Purchases recorded from completed checkout sessions.",
	})
	reg.MustRegister(checkoutSessions, webhookEvents, purchaseRecords)
	return &PaymentMetrics{
		checkoutSessions: checkoutSessions,
		webhookEvents:    webhookEvents,
		purchaseRecords:  purchaseRecords,
	}
}

// ObserveCheckoutSession counts a checkout session attempt.
func (m *PaymentMetrics) ObserveCheckoutSession(outcome string) {
	if m == nil || m.checkoutSessions == nil {
		return
	}
	m.checkoutSessions.WithLabelValues(outcome).Inc()
}

// ObserveWebhookEvent counts a webhook delivery.
func (m *PaymentMetrics) ObserveWebhookEvent(disposition string) {
	if m == nil || m.webhookEvents == nil {
		return
	}
	m.webhookEvents.WithLabelValues(disposition).Inc()
}

// IncPurchaseRecorded counts a recorded purchase.
func (m *PaymentMetrics) IncPurchaseRecorded() {
	if m == nil || m.purchaseRecords == nil {
		return
	}
	m.purchaseRecords.Inc()
}
