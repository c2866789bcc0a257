package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"bank_reviews/internal/adapters/csvstore"
	"bank_reviews/internal/adapters/observability"
	"bank_reviews/internal/adapters/report"
	"bank_reviews/internal/app"
	"bank_reviews/internal/shared"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "visualize", cfg.LogLevel)

	p := cfg.Pipeline
	store := csvstore.New()

	rs, err := store.ReadScored(p.Paths.Sentiment)
	if err != nil {
		log.Fatal().Err(err).Str("path", p.Paths.Sentiment).Msg("load sentiment results failed")
	}
	if len(rs) == 0 {
		log.Fatal().Err(app.ErrNoInput).Msg("nothing to plot")
	}

	in := app.BuildInsights(rs)

	// keyword files are optional; banks without one get no keyword chart
	var kws []app.BankKeywords
	for _, b := range in.Banks {
		path := app.ThemeFile(p.Paths.AnalysisDir, b)
		if _, err := os.Stat(path); err != nil {
			log.Warn().Str("bank", b).Str("path", path).Msg("no keyword file")
			continue
		}
		ks, err := store.ReadKeywords(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("keyword file unreadable")
			continue
		}
		kws = append(kws, app.BankKeywords{Bank: b, Keywords: ks})
	}

	paths, err := report.New(p.Paths.PlotsDir).Render(in, kws)
	if err != nil {
		log.Fatal().Err(err).Msg("render plots failed")
	}
	log.Info().Int("plots", len(paths)).Str("dir", p.Paths.PlotsDir).Msg("visualization completed")
}
