package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "configurator_sessions_created_total",
		Help: "Total number of configurator sessions created",
	})

	SessionsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "configurator_sessions_expired_total",
		Help: "Total number of idle sessions swept",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "configurator_active_sessions",
		Help: "Number of sessions currently held in memory",
	})

	CommandsAppliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "configurator_commands_total",
		Help: "Total number of selection commands by type and result",
	}, []string{"type", "result"})

	CatalogLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "configurator_catalog_loads_total",
		Help: "Total number of catalog loads by source",
	}, []string{"source"})

	CheckoutsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "configurator_checkouts_submitted_total",
		Help: "Total number of configurations added to cart",
	})

	CheckoutsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "configurator_checkouts_failed_total",
		Help: "Total number of failed checkouts",
	}, []string{"reason"})

	CheckoutsRecordedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "configurator_checkouts_recorded_total",
		Help: "Total number of checkout events written to the checkout log",
	}, []string{"status"})

	CheckoutTotalAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "configurator_checkout_total_amount",
		Help:    "Configuration totals at checkout, in minor units",
		Buckets: prometheus.ExponentialBuckets(100000, 2, 8),
	})

	CartAddLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_add_latency_seconds",
		Help:    "Latency of storefront cart-add requests",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
