package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	server "bank_reviews/internal/adapters/http_server"
	"bank_reviews/internal/adapters/observability"
	redisad "bank_reviews/internal/adapters/redis"
	"bank_reviews/internal/app"
	"bank_reviews/internal/shared"
	"bank_reviews/internal/storage"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api", cfg.LogLevel)

	observability.Serve(cfg.MetricsAddr)

	// db
	repo, db, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("create tables failed")
	}

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, serving uncached")
	}
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
