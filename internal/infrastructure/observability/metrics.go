package observability

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Счётчик вызовов методов репозитория
	RepositoryCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repository_calls_total",
			Help: "Total number of repository method calls",
		},
		[]string{"method", "status"},
	)

	// Гистограмма времени выполнения запросов
	RepositoryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repository_duration_seconds",
			Help:    "Duration of repository method calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Provider webhook events by outcome",
		},
		[]string{"provider", "event", "outcome"},
	)

	LedgerOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "User-initiated ledger operations by result",
		},
		[]string{"operation", "status"},
	)
)

func InitMetrics() {
	prometheus.MustRegister(RepositoryCalls, RepositoryDuration, WebhookEvents, LedgerOperations)
}

// ServeMetrics exposes /metrics on its own listener and returns the server so
// the caller can shut it down.
func ServeMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	return srv
}
