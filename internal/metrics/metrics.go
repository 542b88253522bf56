package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teagram_api_requests_total",
			Help: "Total number of backend API requests sent, by response code.",
		},
		[]string{"code", "method"},
	)
	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "teagram_api_request_duration_seconds",
			Help:    "Duration of backend API round trips in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	apiRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "teagram_api_requests_in_flight",
			Help: "Current number of backend API requests awaiting a response.",
		},
	)

	apiRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "teagram_api_retries_total",
			Help: "Number of backend API attempts that were retried after a transient failure.",
		},
	)

	tokenRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teagram_token_refresh_total",
			Help: "Token refresh calls sent to the backend, by result.",
		},
		[]string{"result"},
	)

	cartMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teagram_cart_mutations_total",
			Help: "Cart mutations issued by the cart store, by operation and result.",
		},
		[]string{"operation", "result"},
	)
)

// InstrumentRoundTripper wraps the transport used for backend calls.
func InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return promhttp.InstrumentRoundTripperInFlight(apiRequestsInFlight,
		promhttp.InstrumentRoundTripperCounter(apiRequestsTotal,
			promhttp.InstrumentRoundTripperDuration(apiRequestDuration, next),
		),
	)
}

func RecordRetry() {
	apiRetriesTotal.Inc()
}

func RecordTokenRefresh(result string) {
	tokenRefreshTotal.WithLabelValues(result).Inc()
}

func RecordCartMutation(operation, result string) {
	cartMutationsTotal.WithLabelValues(operation, result).Inc()
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {

	return promhttp.Handler()
}
