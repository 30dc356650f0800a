package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Delivery pipeline metrics
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsync_webhook_deliveries_total",
			Help: "Total number of webhook deliveries processed",
		},
		[]string{"resource", "action", "status"},
	)

	DeliveryBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shopsync_webhook_delivery_bytes_total",
			Help: "Total bytes of webhook payload data received",
		},
	)

	VerificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shopsync_webhook_verification_failures_total",
			Help: "Total number of signature verification failures",
		},
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shopsync_webhook_pipeline_duration_seconds",
			Help:    "Duration of full pipeline processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Store metrics
	StoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopsync_store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsync_store_errors_total",
			Help: "Total number of document store operation failures",
		},
		[]string{"operation"},
	)

	// Rate limiting metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsync_webhook_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
		[]string{"shop"},
	)
)
