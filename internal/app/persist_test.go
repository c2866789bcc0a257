package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank_reviews/internal/app"
	"bank_reviews/internal/domain"
)

func TestPersist_UpsertsBanksInOrderAndInvalidatesCache(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{}
	_ = cache.Set(context.Background(), "banks", []domain.Bank{{ID: 1, Name: "stale"}}, 60)

	rs := []domain.ScoredReview{
		{Review: review("a", 5, "cbe", domain.LangEnglish)},
		{Review: review("b", 4, "boa", domain.LangEnglish)},
		{Review: review("c", 3, "cbe", domain.LangEnglish)},
	}
	n, err := app.NewPersistService(repo, cache).Persist(context.Background(), rs)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, repo.schemaCalls)
	assert.Equal(t, []string{"cbe", "boa"}, repo.upserted)
	assert.Len(t, repo.inserted, 3)
	assert.Contains(t, cache.deleted, "banks")
	assert.Contains(t, cache.deleted, "sentiment:summary")
	assert.NotContains(t, cache.store, "banks")
}

func TestPersist_SurfacesInsertErrors(t *testing.T) {
	repo := &fakeRepo{insertErr: errors.New("disk full")}
	_, err := app.NewPersistService(repo, nil).Persist(context.Background(), []domain.ScoredReview{
		{Review: review("a", 5, "cbe", domain.LangEnglish)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert reviews")
	assert.ErrorIs(t, err, repo.insertErr)
}

func TestPersist_DropsEveryCachedReviewPageOfTheLoadedBanks(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{rp: domain.ReviewsPage{Items: []domain.StoredReview{{ID: 1, Bank: "cbe", Text: "before"}}}}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, time.Minute)

	pg := domain.PageQuery{Limit: 10, Sort: "rating"}
	_, err := q.ListReviews(ctx, "cbe", pg)
	require.NoError(t, err)
	_, err = q.ListReviews(ctx, "cbe2", pg)
	require.NoError(t, err)
	require.Len(t, cache.store, 2)

	_, err = app.NewPersistService(repo, cache).Persist(ctx, []domain.ScoredReview{
		{Review: review("after", 5, "cbe", domain.LangEnglish)},
	})
	require.NoError(t, err)

	repo.rp.Items[0].Text = "after"
	got, err := q.ListReviews(ctx, "cbe", pg)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Items[0].Text)

	// pages of banks outside the load stay cached
	stale, err := q.ListReviews(ctx, "cbe2", pg)
	require.NoError(t, err)
	assert.Equal(t, "before", stale.Items[0].Text)
}
