// Package telemetry exposes Prometheus metrics and the HTTP middleware
// that records them.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"net/http"
)

var (
	// HTTPRequestsTotal counts handled HTTP requests.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mood_classifier_http_requests_total",
		Help: "Total HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration observes request latency per route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mood_classifier_http_request_duration_seconds",
		Help:    "HTTP request duration by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AnalysesTotal counts analysis invocations by result status.
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mood_classifier_analyses_total",
		Help: "Playlist analyses by result status.",
	}, []string{"status"})

	// PlaylistsCreatedTotal counts successful playlist materializations.
	PlaylistsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mood_classifier_playlists_created_total",
		Help: "Playlists successfully created from clusters.",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
