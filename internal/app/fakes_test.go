package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"bank_reviews/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func raw(text string, rating int, date, bank string) domain.RawReview {
	return domain.RawReview{Text: ptr(text), Rating: ptr(rating), Date: ptr(date), Bank: ptr(bank)}
}

// stubDetector says "en" for anything latin and fails on empty input.
type stubDetector struct{}

func (stubDetector) Detect(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", errors.New("empty")
	}
	return "en", nil
}

type fakeSource struct {
	files map[string][]domain.RawReview
}

func (f *fakeSource) ReadRaw(path string) ([]domain.RawReview, error) {
	rs, ok := f.files[path]
	if !ok {
		return nil, errors.New("open " + path + ": no such file")
	}
	return rs, nil
}

// memStore captures everything the services write.
type memStore struct {
	cleaned  map[string][]domain.Review
	scored   map[string][]domain.ScoredReview
	aggs     map[string][]domain.SentimentAggregate
	langs    map[string][]domain.LanguageCount
	keywords map[string][]domain.Keyword
	raw      map[string][]domain.RawReview
}

func newMemStore() *memStore {
	return &memStore{
		cleaned:  map[string][]domain.Review{},
		scored:   map[string][]domain.ScoredReview{},
		aggs:     map[string][]domain.SentimentAggregate{},
		langs:    map[string][]domain.LanguageCount{},
		keywords: map[string][]domain.Keyword{},
		raw:      map[string][]domain.RawReview{},
	}
}

func (m *memStore) WriteCleaned(p string, rs []domain.Review) error { m.cleaned[p] = rs; return nil }
func (m *memStore) ReadCleaned(p string) ([]domain.Review, error) {
	rs, ok := m.cleaned[p]
	if !ok {
		return nil, errors.New("missing " + p)
	}
	return rs, nil
}
func (m *memStore) WriteScored(p string, rs []domain.ScoredReview) error { m.scored[p] = rs; return nil }
func (m *memStore) WriteAggregates(p string, as []domain.SentimentAggregate) error {
	m.aggs[p] = as
	return nil
}
func (m *memStore) WriteLanguageDistribution(p string, ls []domain.LanguageCount) error {
	m.langs[p] = ls
	return nil
}
func (m *memStore) WriteKeywords(p string, ks []domain.Keyword) error { m.keywords[p] = ks; return nil }
func (m *memStore) WriteRaw(p string, rs []domain.RawReview) error   { m.raw[p] = rs; return nil }

// fakeModel returns fixed predictions keyed by text; unknown text errors.
type fakeModel struct {
	preds map[string]domain.Prediction
	calls int
}

func (f *fakeModel) Classify(ctx context.Context, text string) (domain.Prediction, error) {
	f.calls++
	p, ok := f.preds[text]
	if !ok {
		return domain.Prediction{}, errors.New("model unavailable")
	}
	return p, nil
}

type fakeRepo struct {
	banks   []domain.Bank
	rp      domain.ReviewsPage
	summary []domain.SentimentAggregate

	schemaCalls int
	upserted    []string
	inserted    []domain.ScoredReview
	insertErr   error
	reads       int
}

func (f *fakeRepo) EnsureSchema(ctx context.Context) error { f.schemaCalls++; return nil }
func (f *fakeRepo) UpsertBanks(ctx context.Context, names []string) (map[string]int64, error) {
	f.upserted = append(f.upserted, names...)
	out := map[string]int64{}
	for i, n := range names {
		out[n] = int64(i + 1)
	}
	return out, nil
}
func (f *fakeRepo) InsertReviews(ctx context.Context, ids map[string]int64, rs []domain.ScoredReview) (int, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserted = append(f.inserted, rs...)
	return len(rs), nil
}
func (f *fakeRepo) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	f.reads++
	return f.banks, nil
}
func (f *fakeRepo) ListReviews(ctx context.Context, bank string, pg domain.PageQuery) (domain.ReviewsPage, error) {
	f.reads++
	if bank == "missing" {
		return domain.ReviewsPage{}, domain.ErrNotFound
	}
	return f.rp, nil
}
func (f *fakeRepo) SentimentSummary(ctx context.Context) ([]domain.SentimentAggregate, error) {
	f.reads++
	return f.summary, nil
}

// fakeCache stores JSON like the redis adapter does.
type fakeCache struct {
	store   map[string][]byte
	deleted []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.deleted = append(c.deleted, key)
	delete(c.store, key)
	return nil
}
func (c *fakeCache) DelPrefix(ctx context.Context, prefix string) error {
	for k := range c.store {
		if strings.HasPrefix(k, prefix) {
			_ = c.Del(ctx, k)
		}
	}
	return nil
}

// fakeFeed serves canned payloads per (app, lang).
type fakeFeed struct {
	items map[string][]map[string]any
	errs  map[string]error
}

func (f *fakeFeed) GetReviews(ctx context.Context, appID, lang string, count int) ([]map[string]any, error) {
	k := appID + "/" + lang
	if err := f.errs[k]; err != nil {
		return nil, err
	}
	return f.items[k], nil
}
