// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backoffice_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_events_published_total",
			Help: "Total number of domain events published",
		},
		[]string{"type", "publisher"},
	)

	EventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_events_dropped_total",
			Help: "Total number of domain events dropped before delivery",
		},
		[]string{"type", "reason"},
	)

	EventHandlerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_event_handler_failures_total",
			Help: "Total number of domain events whose handler returned an error",
		},
		[]string{"type"},
	)

	NotificationsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_notifications_delivered_total",
			Help: "Total number of notifications delivered per channel",
		},
		[]string{"channel", "outcome"},
	)

	RoyaltiesGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backoffice_royalties_generated_total",
			Help: "Total number of royalty statements generated",
		},
	)

	UniqueCodeRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_unique_code_retries_total",
			Help: "Total number of generated codes that collided and were retried",
		},
		[]string{"table"},
	)
)
