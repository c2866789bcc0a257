package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bank_reviews/internal/domain"
)

const (
	banksKey           = "banks"
	summaryKey         = "sentiment:summary"
	defaultReviewLimit = 50
	defaultReviewSort  = "-review_date"
)

func reviewsKey(bank string, limit int, sort string) string {
	return fmt.Sprintf("%s%d:%s", reviewsPrefix(bank), limit, sort)
}

// reviewsPrefix covers every cached page of one bank.
func reviewsPrefix(bank string) string { return "reviews:" + bank + ":" }

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	var out []domain.Bank
	if ok, _ := s.cache.Get(ctx, banksKey, &out); ok {
		return out, nil
	}
	bs, err := s.repo.ListBanks(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, banksKey, bs, int(s.cacheTTL.Seconds()))
	return bs, nil
}

func (s *QueryService) ListReviews(ctx context.Context, bank string, pg domain.PageQuery) (domain.ReviewsPage, error) {
	if pg.Sort == "" {
		pg.Sort = defaultReviewSort
	}
	key := reviewsKey(bank, pg.Limit, pg.Sort)
	var out domain.ReviewsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rs, err := s.repo.ListReviews(ctx, bank, pg)
	if err != nil {
		return domain.ReviewsPage{}, err
	}

	// copy slice to avoid aliasing the repo's backing array
	copyRS := deepCopyReviewsPage(rs)

	// optional size guard
	if b, _ := json.Marshal(copyRS); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, copyRS, int(s.cacheTTL.Seconds()))
	}
	return copyRS, nil
}

func (s *QueryService) SentimentSummary(ctx context.Context) ([]domain.SentimentAggregate, error) {
	var out []domain.SentimentAggregate
	if ok, _ := s.cache.Get(ctx, summaryKey, &out); ok {
		return out, nil
	}
	as, err := s.repo.SentimentSummary(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, summaryKey, as, int(s.cacheTTL.Seconds()))
	return as, nil
}

func deepCopyReviewsPage(in domain.ReviewsPage) domain.ReviewsPage {
	var out domain.ReviewsPage
	if n := len(in.Items); n > 0 {
		out.Items = make([]domain.StoredReview, n)
		copy(out.Items, in.Items)
	}
	return out
}
