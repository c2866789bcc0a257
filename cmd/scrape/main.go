package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"bank_reviews/internal/adapters/csvstore"
	"bank_reviews/internal/adapters/observability"
	"bank_reviews/internal/adapters/playstore"
	"bank_reviews/internal/app"
	"bank_reviews/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "scrape", cfg.LogLevel)
	observability.Serve(cfg.MetricsAddr)

	p := cfg.Pipeline
	log.Info().
		Str("feed", cfg.FeedBase).
		Int("apps", len(p.Banks)).
		Int("workers", cfg.ScrapeWorkers).
		Int("count", p.Scrape.Count).
		Strs("languages", p.Scrape.Languages).
		Msg("scraper starting")

	client, err := playstore.New(cfg.FeedBase, cfg.FeedKey, p.Scrape.Country, cfg.FeedRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize review feed client")
	}
	ing := app.NewIngestionService(client, p.Scrape.Languages, p.Scrape.Count)

	rs := ing.ScrapeAll(ctx, p.Banks, cfg.ScrapeWorkers)
	if len(rs) == 0 {
		log.Fatal().Msg("no reviews scraped")
	}
	for _, b := range app.ShortBanks(p.Banks, rs, p.Scrape.Count) {
		log.Warn().Str("bank", b).Int("want", p.Scrape.Count).Msg("fewer reviews than requested")
	}

	combined := ""
	if p.Paths.SaveCombined {
		combined = p.Paths.CombinedRawCSV
	}
	paths, err := app.SaveRaw(csvstore.New(), p.Paths.RawDir, rs, combined)
	if err != nil {
		log.Fatal().Err(err).Msg("save raw reviews failed")
	}
	for _, path := range paths {
		log.Info().Str("path", path).Msg("raw reviews saved")
	}
	log.Info().Int("reviews", len(rs)).Msg("scraping completed")
}
