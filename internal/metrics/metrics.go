package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal  *prometheus.CounterVec
	authRejectedTotal  *prometheus.CounterVec
	accountEventsTotal *prometheus.CounterVec
	registerOnce       sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accounts",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the account API.",
		}, []string{"method", "path", "status"})
		authRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accounts",
			Name:      "auth_rejected_total",
			Help:      "Requests rejected by the auth middleware, by reason.",
		}, []string{"reason"})
		accountEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accounts",
			Name:      "events_total",
			Help:      "Account lifecycle events processed by the audit worker.",
		}, []string{"type"})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// IncAuthRejected increments the auth_rejected_total counter for a reason.
func IncAuthRejected(reason string) {
	if authRejectedTotal == nil {
		return
	}
	authRejectedTotal.WithLabelValues(reason).Inc()
}

// IncAccountEvent increments the events_total counter for an event type.
func IncAccountEvent(eventType string) {
	if accountEventsTotal == nil {
		return
	}
	accountEventsTotal.WithLabelValues(eventType).Inc()
}
