package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"bank_reviews/internal/adapters/csvstore"
	"bank_reviews/internal/adapters/observability"
	redisad "bank_reviews/internal/adapters/redis"
	"bank_reviews/internal/app"
	"bank_reviews/internal/domain"
	"bank_reviews/internal/shared"
	"bank_reviews/internal/storage"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "dbinsert", cfg.LogLevel)
	observability.Serve(cfg.MetricsAddr)

	input := cfg.Pipeline.Paths.Sentiment
	rs, err := csvstore.New().ReadScored(input)
	if err != nil {
		log.Fatal().Err(err).Str("path", input).Msg("load sentiment results failed")
	}
	log.Info().Int("rows", len(rs)).Str("path", input).Msg("sentiment results loaded")

	repo, db, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	// a stale API cache is the only thing Redis is needed for here
	var cache domain.Cache
	rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := rc.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, API cache not invalidated")
	} else {
		cache = rc
		defer rc.Close()
	}

	n, err := app.NewPersistService(repo, cache).Persist(ctx, rs)
	if err != nil {
		log.Fatal().Err(err).Msg("database insert failed")
	}
	log.Info().Int("reviews", n).Str("driver", repo.Dialect()).Msg("database insert completed")
}
