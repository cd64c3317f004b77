package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/honeynil/KeecashLedger/internal/handler"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/auth"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/redis"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

func init() {
	prometheus.MustRegister(RequestCounter, RequestDuration)
}

// SetupRouter mounts the webhook routes unauthenticated and every user route
// behind the JWT middleware, all under /api/v1.
func SetupRouter(h *handler.Handler, redisClient redis.RedisClient, jwtSecret string) *mux.Router {
	r := mux.NewRouter()

	// Middleware для метрик
	r.Use(metricsMiddleware)

	// Роуты
	h.RegisterPublicRoutes(r.PathPrefix("/api/v1").Subrouter())

	// Защищённые роуты с JWT
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(auth.AuthMiddleware(redisClient, jwtSecret))
	h.RegisterProtectedRoutes(protected)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	return r
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		// The route template keeps card ids out of the label values.
		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tpl
			}
		}

		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)

		if recorder.status == 0 {
			recorder.status = http.StatusOK
		}
		status := fmt.Sprintf("%d", recorder.status)
		RequestCounter.WithLabelValues(r.Method, endpoint, status).Inc()
		RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

// statusRecorder для захвата статуса ответа
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}
