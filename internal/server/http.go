package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/question"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHTTPServer wires base routes (health, metrics, ping) and the trivia API.
// redisClient may be nil when event publishing is disabled.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, db Pinger, redisClient *redis.Client, trivia *question.HTTPHandler) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: NewHandler(cfg, logger, db, redisClient, trivia),
	}
}

// NewHandler builds the routed, middleware-wrapped handler.
func NewHandler(cfg *config.App, logger zerolog.Logger, db Pinger, redisClient *redis.Client, trivia *question.HTTPHandler) http.Handler {
	mux := http.NewServeMux()
	routes := instrumentedMux{mux}

	routes.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	routes.Handle("/metrics", promhttp.Handler())

	routes.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), db, redisClient); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			httperrors.RespondError(w, http.StatusBadGateway, "upstream error")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	if trivia != nil {
		trivia.Register(routes)
	}

	routes.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondNotFound(w)
	})

	var h http.Handler = mux
	h = corsMiddleware(cfg.CORS)(h)
	h = accessLogMiddleware(h)
	h = requestIDMiddleware(logger)(h)
	h = recoverMiddleware(logger)(h)
	return h
}

func pingDependencies(ctx context.Context, db Pinger, redisClient *redis.Client) error {
	if db != nil {
		if err := db.Ping(ctx); err != nil {
			return err
		}
	}
	if redisClient != nil {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
