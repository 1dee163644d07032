package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

const requestIDHeader = "X-Request-ID"

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trivia",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "code", "method"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trivia",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// instrumentRoute records request counts and latency under the route pattern.
func instrumentRoute(pattern string, h http.Handler) http.Handler {
	labels := prometheus.Labels{"route": pattern}
	return promhttp.InstrumentHandlerDuration(
		httpRequestDuration.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(httpRequestsTotal.MustCurryWith(labels), h),
	)
}

// instrumentedMux mounts every route through instrumentRoute.
type instrumentedMux struct {
	*http.ServeMux
}

func (m instrumentedMux) Handle(pattern string, h http.Handler) {
	m.ServeMux.Handle(pattern, instrumentRoute(pattern, h))
}

func (m instrumentedMux) HandleFunc(pattern string, h func(http.ResponseWriter, *http.Request)) {
	m.Handle(pattern, http.HandlerFunc(h))
}

// recoverMiddleware turns a handler panic into a 500 envelope.
func recoverMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
					httperrors.RespondInternalError(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestIDMiddleware tags each request with an id and stores a request-scoped logger in its context.
func requestIDMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			reqLogger := logger.With().
				Str("request_id", id).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()
			next.ServeHTTP(w, r.WithContext(logging.IntoContext(r.Context(), reqLogger)))
		})
	}
}

var accessLogMiddleware = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
	logger := logging.FromContext(r.Context())
	logger.Info().
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request completed")
})

func corsMiddleware(cfg config.CORS) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: cfg.AllowedMethods,
		AllowedHeaders: cfg.AllowedHeaders,
		MaxAge:         cfg.MaxAge,
	}).Handler
}
