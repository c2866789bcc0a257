package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"bank_reviews/internal/adapters/observability"
	"bank_reviews/internal/domain"
	"bank_reviews/internal/shared"
)

type RawWriter interface {
	WriteRaw(path string, rs []domain.RawReview) error
}

type IngestionService struct {
	feed  domain.ReviewFeed
	langs []string
	count int
}

func NewIngestionService(feed domain.ReviewFeed, langs []string, count int) *IngestionService {
	if len(langs) == 0 {
		langs = []string{"en", "am"}
	}
	return &IngestionService{feed: feed, langs: langs, count: count}
}

// ScrapeApp fetches every configured language for one app, drops empty
// content and de-duplicates on (review, date, bank).
func (s *IngestionService) ScrapeApp(ctx context.Context, app shared.BankApp) ([]domain.RawReview, error) {
	var all []domain.RawReview
	for _, lang := range s.langs {
		items, err := s.feed.GetReviews(ctx, app.AppID, lang, s.count)
		if err != nil {
			// a language the store has no listing for is not fatal
			if errors.Is(err, domain.ErrNotFound) {
				log.Warn().Str("bank", app.Name).Str("lang", lang).Msg("no reviews for language")
				continue
			}
			return nil, fmt.Errorf("scrape %s (%s): %w", app.Name, lang, err)
		}
		got := mapFeedReviews(app.Name, items)
		log.Info().Str("bank", app.Name).Str("lang", lang).Int("fetched", len(items)).Int("kept", len(got)).Msg("reviews fetched")
		all = append(all, got...)
	}

	type key struct{ text, date, bank string }
	out, removed := Dedupe(all, func(r domain.RawReview) key {
		return key{valueOr(r.Text, ""), valueOr(r.Date, ""), valueOr(r.Bank, "")}
	})
	observability.ObserveDropped("scrape", "duplicate", removed)
	log.Info().Str("bank", app.Name).Int("reviews", len(out)).Int("duplicates", removed).Msg("after deduplication")
	return out, nil
}

// ScrapeAll scrapes apps with at most workers in flight. Failed apps are
// logged and skipped; the result keeps app order.
func (s *IngestionService) ScrapeAll(ctx context.Context, apps []shared.BankApp, workers int) []domain.RawReview {
	if workers <= 0 {
		workers = 1
	}
	results := make([][]domain.RawReview, len(apps))
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for i, a := range apps {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Error().Err(err).Msg("semaphore acquire failed")
			break
		}
		wg.Add(1)
		go func(i int, a shared.BankApp) {
			defer wg.Done()
			defer sem.Release(1)

			rs, err := s.ScrapeApp(ctx, a)
			if err != nil {
				log.Warn().Err(err).Str("bank", a.Name).Msg("scrape failed")
				return
			}
			results[i] = rs
		}(i, a)
	}
	wg.Wait()

	var out []domain.RawReview
	for _, rs := range results {
		out = append(out, rs...)
	}
	observability.ObserveStage("scrape", len(out), len(out))
	return out
}

// SaveRaw writes one CSV per bank (in first-seen order) and, when combined
// is non-empty, the merged file. It returns the paths written.
func SaveRaw(w RawWriter, dir string, rs []domain.RawReview, combined string) ([]string, error) {
	if len(rs) == 0 {
		return nil, ErrNoInput
	}
	var order []string
	byBank := map[string][]domain.RawReview{}
	for _, r := range rs {
		b := valueOr(r.Bank, domain.DefaultBank)
		if _, ok := byBank[b]; !ok {
			order = append(order, b)
		}
		byBank[b] = append(byBank[b], r)
	}

	var paths []string
	for _, b := range order {
		p := filepath.Join(dir, shared.Slug(b)+"_reviews_raw.csv")
		if err := w.WriteRaw(p, byBank[b]); err != nil {
			return paths, fmt.Errorf("save raw reviews for %s: %w", b, err)
		}
		paths = append(paths, p)
	}
	if combined != "" {
		p := filepath.Join(dir, combined)
		if err := w.WriteRaw(p, rs); err != nil {
			return paths, fmt.Errorf("save combined raw reviews: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// ShortBanks lists configured banks that collected fewer than want reviews.
func ShortBanks(apps []shared.BankApp, rs []domain.RawReview, want int) []string {
	counts := map[string]int{}
	for _, r := range rs {
		counts[valueOr(r.Bank, "")]++
	}
	var out []string
	for _, a := range apps {
		if counts[a.Name] < want {
			out = append(out, a.Name)
		}
	}
	return out
}
