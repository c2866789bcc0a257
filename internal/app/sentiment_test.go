package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank_reviews/internal/app"
	"bank_reviews/internal/domain"
	"bank_reviews/internal/language"
)

func review(text string, rating int, bank string, lang domain.Language) domain.Review {
	return domain.Review{
		Text: text, Rating: rating, Bank: bank, Language: lang,
		Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Source: domain.DefaultSource,
	}
}

func TestAggregateSentiment_MeanPerBankAndRating(t *testing.T) {
	rs := []domain.ScoredReview{
		{Review: review("a", 5, "CBE", domain.LangEnglish), SentimentScore: 0.8},
		{Review: review("b", 5, "CBE", domain.LangEnglish), SentimentScore: -0.2},
		{Review: review("c", 1, "BOA", domain.LangEnglish), SentimentScore: -0.9},
	}
	got := app.AggregateSentiment(rs)
	require.Len(t, got, 2)
	assert.Equal(t, "BOA", got[0].Bank)
	assert.Equal(t, "CBE", got[1].Bank)
	assert.Equal(t, 5, got[1].Rating)
	assert.InDelta(t, 0.3, got[1].MeanScore, 1e-9)
	assert.Equal(t, 2, got[1].Count)
}

func TestLexiconSentiment(t *testing.T) {
	label, score := app.LexiconSentiment("በጣም ጥሩ ነው")
	assert.Equal(t, domain.Positive, label)
	assert.Equal(t, app.LexiconPositiveScore, score)

	label, score = app.LexiconSentiment("app አይሰራም")
	assert.Equal(t, domain.Negative, label)
	assert.Equal(t, app.LexiconNegativeScore, score)

	label, score = app.LexiconSentiment("ጥሩ ግን ችግር")
	assert.Equal(t, domain.Neutral, label)
	assert.Zero(t, score)
}

func TestScoreOne_RoutesByLanguage(t *testing.T) {
	model := &fakeModel{preds: map[string]domain.Prediction{
		"great app":   {Label: domain.Positive, Score: 0.8},
		"app crashes": {Label: domain.Negative, Score: 0.6},
	}}
	s := app.NewSentimentService(model, "test", nil)
	ctx := context.Background()

	label, score := s.ScoreOne(ctx, review("great app", 5, "CBE", domain.LangEnglish))
	assert.Equal(t, domain.Positive, label)
	assert.InDelta(t, 0.8, score, 1e-9)

	label, score = s.ScoreOne(ctx, review("app crashes", 1, "CBE", domain.LangEnglish))
	assert.Equal(t, domain.Negative, label)
	assert.InDelta(t, -0.6, score, 1e-9)

	// model failure falls back to neutral
	label, score = s.ScoreOne(ctx, review("unseen text", 3, "CBE", domain.LangEnglish))
	assert.Equal(t, domain.Neutral, label)
	assert.Zero(t, score)

	calls := model.calls
	label, _ = s.ScoreOne(ctx, review("በጣም ጥሩ ነው", 5, "CBE", domain.LangAmharic))
	assert.Equal(t, domain.Positive, label)
	label, _ = s.ScoreOne(ctx, review("ok ግን ችግር", 2, "CBE", domain.LangBilingual))
	assert.Equal(t, domain.Negative, label)
	label, _ = s.ScoreOne(ctx, review("", 3, "CBE", domain.LangEnglish))
	assert.Equal(t, domain.Neutral, label)
	assert.Equal(t, calls, model.calls, "lexicon and empty rows must not reach the model")
}

func TestScore_TagsMissingLanguageAndTheme(t *testing.T) {
	model := &fakeModel{preds: map[string]domain.Prediction{"login fails every time": {Label: domain.Negative, Score: 0.9}}}
	s := app.NewSentimentService(model, "test", language.NewClassifier(stubDetector{}))

	out := s.Score(context.Background(), []domain.Review{review("login fails every time", 1, "CBE", "")})
	require.Len(t, out, 1)
	assert.Equal(t, domain.LangEnglish, out[0].Language)
	assert.Equal(t, domain.Negative, out[0].SentimentLabel)
	assert.Equal(t, "Account Access Issues", out[0].Theme)
}

func TestAggregatePath(t *testing.T) {
	assert.Equal(t, "data/sentiment_results_aggregated.csv", app.AggregatePath("data/sentiment_results.csv"))
	assert.Equal(t, "out_aggregated.csv", app.AggregatePath("out"))
}

func TestSentimentRun_WritesAllOutputs(t *testing.T) {
	store := newMemStore()
	store.cleaned["clean.csv"] = []domain.Review{
		review("great app", 5, "CBE", domain.LangEnglish),
		review("ok app", 5, "CBE", domain.LangEnglish),
		review("በጣም ጥሩ ነው", 4, "BOA", domain.LangAmharic),
	}
	model := &fakeModel{preds: map[string]domain.Prediction{
		"great app": {Label: domain.Positive, Score: 0.8},
		"ok app":    {Label: domain.Negative, Score: 0.2},
	}}
	s := app.NewSentimentService(model, "test", nil)

	agg, err := s.Run(context.Background(), store, store, "clean.csv", "out/sent.csv", "out/lang.csv")
	require.NoError(t, err)
	require.Len(t, store.scored["out/sent.csv"], 3)
	assert.Equal(t, agg, store.aggs["out/sent_aggregated.csv"])
	require.Len(t, agg, 2)
	assert.InDelta(t, 0.3, agg[1].MeanScore, 1e-9)
	assert.Equal(t, []domain.LanguageCount{
		{Language: domain.LangEnglish, Count: 2},
		{Language: domain.LangAmharic, Count: 1},
	}, store.langs["out/lang.csv"])

	store.cleaned["empty.csv"] = nil
	_, err = s.Run(context.Background(), store, store, "empty.csv", "o.csv", "l.csv")
	assert.ErrorIs(t, err, app.ErrNoInput)

	_, err = s.Run(context.Background(), store, store, "missing.csv", "o.csv", "l.csv")
	assert.Error(t, err)
}
