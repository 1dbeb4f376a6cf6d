package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DashboardDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kamishop_dashboard_compute_seconds",
		Help:    "Time spent computing one dashboard snapshot.",
		Buckets: prometheus.DefBuckets,
	})

	DashboardFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kamishop_dashboard_failures_total",
		Help: "Dashboard snapshots aborted by a database error.",
	})

	CardsDeduplicated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kamishop_cards_deduplicated_total",
		Help: "Card rows removed by the duplicate reconciler.",
	})

	CardsImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kamishop_cards_imported_total",
		Help: "Card rows created from bulk imports.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kamishop_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kamishop_events_published_total",
		Help: "Domain events handed to the broker, by topic and result.",
	}, []string{"topic", "result"})

	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kamishop_job_runs_total",
		Help: "Scheduled maintenance runs by job and result.",
	}, []string{"job", "result"})
)
