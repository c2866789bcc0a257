package main

import (
	"github.com/rs/zerolog/log"

	"bank_reviews/internal/adapters/csvstore"
	"bank_reviews/internal/adapters/observability"
	"bank_reviews/internal/app"
	"bank_reviews/internal/language"
	"bank_reviews/internal/shared"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "preprocess", cfg.LogLevel)
	observability.Serve(cfg.MetricsAddr)

	store := csvstore.New()
	p := app.NewPreprocessor(app.NewLoader(store), language.NewClassifier(language.NewWhatlang()), store)

	inputs := cfg.Pipeline.RawFiles()
	out := cfg.Pipeline.Paths.Cleaned
	log.Info().Strs("inputs", inputs).Str("output", out).Msg("preprocessing starting")

	rep, err := p.Run(inputs, out)
	if err != nil {
		log.Fatal().Err(err).Msg("preprocessing failed")
	}
	log.Info().Int("reviews", rep.Output).Str("path", out).Msg("cleaned data saved")
}
