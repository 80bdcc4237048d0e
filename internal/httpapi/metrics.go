package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var requestCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gitlite_api_requests_total",
		Help: "Number of API requests by status code and method.",
	},
	[]string{"code", "method"},
)

var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "gitlite_api_request_duration_seconds",
		Help:    "API request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route"},
)

// instrument counts requests by status and observes latency by route pattern.
func instrument(next http.Handler) http.Handler {
	counted := promhttp.InstrumentHandlerCounter(requestCounter, next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			requestDuration.WithLabelValues(route).Observe(v)
		}))
		defer timer.ObserveDuration()
		counted.ServeHTTP(w, r)
	})
}
