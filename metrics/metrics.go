package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Payment Metrics
var (
	// CheckoutSessionsTotal tracks checkout sessions created by result
	CheckoutSessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lms_checkout_sessions_total",
			Help: "Total Stripe checkout sessions requested by result",
		},
		[]string{"result"},
	)

	// CheckoutSessionsExpired tracks pending checkout sessions marked expired
	CheckoutSessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lms_checkout_sessions_expired_total",
			Help: "Total pending checkout sessions marked expired by the scheduler",
		},
	)

	// PurchasesTotal tracks purchases recorded from webhooks
	PurchasesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lms_purchases_total",
			Help: "Total course purchases recorded",
		},
	)

	// WebhookEventsTotal tracks webhook deliveries by event type and result
	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lms_webhook_events_total",
			Help: "Total payment webhook events by type and result",
		},
		[]string{"type", "result"},
	)
)

// Video Metrics
var (
	// VideoAssetOpsTotal tracks Mux asset operations by operation and status
	VideoAssetOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lms_video_asset_operations_total",
			Help: "Total video asset operations by operation and status",
		},
		[]string{"operation", "status"},
	)
)
