package main

import (
	"github.com/rs/zerolog/log"

	"bank_reviews/internal/adapters/csvstore"
	"bank_reviews/internal/adapters/observability"
	"bank_reviews/internal/app"
	"bank_reviews/internal/shared"
	"bank_reviews/internal/tfidf"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "themes", cfg.LogLevel)
	observability.Serve(cfg.MetricsAddr)

	p := cfg.Pipeline
	opts := tfidf.DefaultOptions()
	opts.MaxFeatures = p.Themes.MaxFeatures
	svc := app.NewThemeService(opts, p.Themes.TopN)
	store := csvstore.New()

	res, err := svc.Run(store, store, p.Paths.Cleaned, p.Paths.AnalysisDir)
	if err != nil {
		log.Fatal().Err(err).Msg("theme extraction failed")
	}
	for _, bk := range res {
		for _, k := range bk.Keywords {
			log.Debug().Str("bank", bk.Bank).Str("theme", k.Theme).Str("keyword", k.Term).Float64("score", k.Score).Msg("keyword")
		}
		log.Info().Str("bank", bk.Bank).Str("path", app.ThemeFile(p.Paths.AnalysisDir, bk.Bank)).Msg("themes saved")
	}
}
