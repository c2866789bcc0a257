package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"bank_reviews/internal/adapters/csvstore"
	"bank_reviews/internal/adapters/inference"
	"bank_reviews/internal/adapters/observability"
	"bank_reviews/internal/adapters/vader"
	"bank_reviews/internal/app"
	"bank_reviews/internal/domain"
	"bank_reviews/internal/language"
	"bank_reviews/internal/shared"
)

func model(cfg shared.Config) domain.SentimentClassifier {
	switch cfg.SentimentBackend {
	case "remote":
		c, err := inference.New(cfg.InferenceURL, cfg.InferenceToken, cfg.FeedRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize inference client")
		}
		return c
	case "vader", "":
		return vader.New()
	default:
		log.Fatal().Str("backend", cfg.SentimentBackend).Msg("unknown SENTIMENT_BACKEND")
		return nil
	}
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "sentiment", cfg.LogLevel)
	observability.Serve(cfg.MetricsAddr)

	paths := cfg.Pipeline.Paths
	svc := app.NewSentimentService(model(cfg), cfg.SentimentBackend, language.NewClassifier(language.NewWhatlang()))
	store := csvstore.New()

	log.Info().Str("backend", cfg.SentimentBackend).Str("input", paths.Cleaned).Msg("sentiment analysis starting")
	agg, err := svc.Run(ctx, store, store, paths.Cleaned, paths.Sentiment, paths.LanguageDist)
	if err != nil {
		log.Fatal().Err(err).Msg("sentiment analysis failed")
	}
	for _, a := range agg {
		log.Info().Str("bank", a.Bank).Int("rating", a.Rating).
			Float64("mean_sentiment_score", a.MeanScore).Int("review_count", a.Count).Msg("aggregate")
	}
	log.Info().Str("detailed", paths.Sentiment).Str("aggregated", app.AggregatePath(paths.Sentiment)).
		Str("languages", paths.LanguageDist).Msg("results saved")
}
