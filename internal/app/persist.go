package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"bank_reviews/internal/domain"
)

type PersistService struct {
	repo  domain.ReviewRepository
	cache domain.Cache
}

func NewPersistService(r domain.ReviewRepository, cache domain.Cache) *PersistService {
	return &PersistService{repo: r, cache: cache}
}

// Persist creates the tables if needed, upserts every bank by name and
// inserts the reviews. Reviews are not de-duplicated at this layer.
func (s *PersistService) Persist(ctx context.Context, rs []domain.ScoredReview) (int, error) {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return 0, fmt.Errorf("create tables: %w", err)
	}

	var names []string
	seen := map[string]struct{}{}
	for _, r := range rs {
		if _, ok := seen[r.Bank]; ok {
			continue
		}
		seen[r.Bank] = struct{}{}
		names = append(names, r.Bank)
	}
	ids, err := s.repo.UpsertBanks(ctx, names)
	if err != nil {
		return 0, fmt.Errorf("upsert banks: %w", err)
	}
	log.Info().Int("banks", len(ids)).Msg("banks inserted/verified")

	n, err := s.repo.InsertReviews(ctx, ids, rs)
	if err != nil {
		// the insert transaction rolled back, nothing was committed
		return n, fmt.Errorf("insert reviews: %w", err)
	}
	log.Info().Int("reviews", n).Msg("reviews inserted")

	if s.cache != nil {
		s.invalidate(ctx, names)
	}
	return n, nil
}

// invalidate drops the read caches touched by a load.
func (s *PersistService) invalidate(ctx context.Context, banks []string) {
	_ = s.cache.Del(ctx, banksKey)
	_ = s.cache.Del(ctx, summaryKey)
	for _, b := range banks {
		if err := s.cache.DelPrefix(ctx, reviewsPrefix(b)); err != nil {
			log.Warn().Err(err).Str("bank", b).Msg("review pages not invalidated")
		}
	}
}
