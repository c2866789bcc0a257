package app_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank_reviews/internal/app"
	"bank_reviews/internal/domain"
	"bank_reviews/internal/language"
)

func newPreprocessor(src *fakeSource, out *memStore) *app.Preprocessor {
	return app.NewPreprocessor(app.NewLoader(src), language.NewClassifier(stubDetector{}), out)
}

func TestDedupe_KeepsFirstInInputOrder(t *testing.T) {
	type row struct {
		key string
		pos int
	}
	in := []row{{"a", 0}, {"b", 1}, {"a", 2}, {"c", 3}, {"b", 4}}
	out, removed := app.Dedupe(in, func(r row) string { return r.key })
	assert.Equal(t, 2, removed)
	assert.Equal(t, []row{{"a", 0}, {"b", 1}, {"c", 3}}, out)
}

func TestLoader_SkipsMissingAndEmptySources(t *testing.T) {
	src := &fakeSource{files: map[string][]domain.RawReview{
		"a.csv":     {raw("one", 5, "2024-01-01", "CBE")},
		"empty.csv": nil,
		"b.csv":     {raw("two", 4, "2024-01-02", "BOA")},
	}}
	got := app.NewLoader(src).Load([]string{"a.csv", "missing.csv", "empty.csv", "b.csv"})
	require.Len(t, got, 2)
	assert.Equal(t, "one", *got[0].Text)
	assert.Equal(t, "two", *got[1].Text)

	none := app.NewLoader(src).Load([]string{"missing.csv"})
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestParseDate(t *testing.T) {
	cases := map[string]string{
		"2025-06-01":                "2025-06-01",
		"2025-06-01T13:45:00Z":      "2025-06-01",
		"2025-06-01 13:45:00":       "2025-06-01",
		"06/01/2025":                "2025-06-01",
		"Jun 1, 2025":               "2025-06-01",
		"2025-06-01T23:59:59+03:00": "2025-06-01",
	}
	for in, want := range cases {
		d, ok := app.ParseDate(in)
		require.True(t, ok, in)
		assert.Equal(t, want, d.Format(domain.DateLayout), in)
		assert.Equal(t, time.UTC, d.Location())
	}
	for _, bad := range []string{"", "yesterday", "2025-13-45"} {
		_, ok := app.ParseDate(bad)
		assert.False(t, ok, bad)
	}
}

func TestClean_DuplicateRowsCollapseToOne(t *testing.T) {
	p := newPreprocessor(&fakeSource{}, newMemStore())
	out, rep := p.Clean([]domain.RawReview{
		raw("Great app!!", 5, "2025-06-01", "CBE"),
		raw("Great app!!", 5, "2025-06-01", "CBE"),
	})
	require.Len(t, out, 1)
	assert.Equal(t, "great app", out[0].Text)
	assert.Equal(t, domain.LangEnglish, out[0].Language)
	assert.Equal(t, 1, rep.Duplicates)
	assert.Equal(t, 1, rep.Output)
}

func TestClean_DedupIgnoresCasingAndKeepsFirst(t *testing.T) {
	p := newPreprocessor(&fakeSource{}, newMemStore())
	out, _ := p.Clean([]domain.RawReview{
		raw("Slow APP", 2, "2025-06-01", "CBE"),
		raw("slow app", 4, "2025-06-01", "cbe"),
	})
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Rating)
}

func TestClean_RatingBounds(t *testing.T) {
	p := newPreprocessor(&fakeSource{}, newMemStore())
	out, rep := p.Clean([]domain.RawReview{
		raw("rating zero here", 0, "2025-06-01", "CBE"),
		raw("rating six here", 6, "2025-06-01", "CBE"),
		raw("rating one here", 1, "2025-06-01", "CBE"),
		raw("rating five here", 5, "2025-06-01", "CBE"),
	})
	assert.Equal(t, 2, rep.InvalidRating)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Rating)
	assert.Equal(t, 5, out[1].Rating)
}

func TestClean_LanguagesAndDrops(t *testing.T) {
	p := newPreprocessor(&fakeSource{}, newMemStore())
	out, rep := p.Clean([]domain.RawReview{
		raw("በጣም ጥሩ ነው", 5, "2025-06-01", "CBE"),
		raw("This is በጣም good.", 4, "2025-06-01", "CBE"),
		raw("Hi", 3, "2025-06-01", "CBE"),
		raw("no date at all", 3, "not a date", "CBE"),
	})
	require.Len(t, out, 2)
	assert.Equal(t, domain.LangAmharic, out[0].Language)
	assert.Equal(t, domain.LangBilingual, out[1].Language)
	assert.Equal(t, 1, rep.UnsupportedLanguage)
	assert.Equal(t, 1, rep.InvalidDate)
	assert.Equal(t, map[domain.Language]int{domain.LangAmharic: 1, domain.LangBilingual: 1}, rep.Languages)
}

func TestClean_FillsDefaults(t *testing.T) {
	p := newPreprocessor(&fakeSource{}, newMemStore())
	out, _ := p.Clean([]domain.RawReview{{Text: ptr("works fine"), Rating: ptr(4), Date: ptr("2025-06-01")}})
	require.Len(t, out, 1)
	assert.Equal(t, "unknown", out[0].Bank)
	assert.Equal(t, domain.DefaultSource, out[0].Source)
}

func TestPreprocessorRun(t *testing.T) {
	src := &fakeSource{files: map[string][]domain.RawReview{
		"cbe.csv": {raw("Great app!!", 5, "2025-06-01", "CBE"), raw("Great app!!", 5, "2025-06-01", "CBE")},
		"bad.csv": {raw("Hi", 5, "2025-06-01", "CBE")},
	}}
	store := newMemStore()
	p := newPreprocessor(src, store)

	rep, err := p.Run([]string{"cbe.csv", "nope.csv"}, "clean.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Input)
	require.Len(t, store.cleaned["clean.csv"], 1)

	_, err = p.Run([]string{"nope.csv"}, "x.csv")
	assert.ErrorIs(t, err, app.ErrNoInput)

	_, err = p.Run([]string{"bad.csv"}, "y.csv")
	assert.ErrorIs(t, err, app.ErrNoRowsAfterCleaning)
	assert.NotContains(t, store.cleaned, "y.csv")
}

func TestSortedLanguageCounts(t *testing.T) {
	got := app.SortedLanguageCounts(map[domain.Language]int{
		domain.LangEnglish: 3, domain.LangAmharic: 5, domain.LangBilingual: 3,
	})
	assert.Equal(t, []domain.LanguageCount{
		{Language: domain.LangAmharic, Count: 5},
		{Language: domain.LangBilingual, Count: 3},
		{Language: domain.LangEnglish, Count: 3},
	}, got)
}

func TestClean_WithWhatlangDetector(t *testing.T) {
	p := app.NewPreprocessor(app.NewLoader(&fakeSource{}), language.NewClassifier(language.NewWhatlang()), newMemStore())
	out, rep := p.Clean([]domain.RawReview{
		raw("Great app!!", 5, "2025-06-01", "CBE"),
		raw("Great app!!", 5, "2025-06-01", "CBE"),
		raw("በጣም ጥሩ ነው", 5, "2025-06-02", "BOA"),
		raw("This is በጣም good.", 4, "2025-06-03", "BOA"),
		raw("Hi", 3, "2025-06-04", "Dashen"),
		raw("Good", 4, "2025-06-05", "Dashen"),
	})
	require.Len(t, out, 4)
	assert.Equal(t, "great app", out[0].Text)
	assert.Equal(t, domain.LangEnglish, out[0].Language)
	assert.Equal(t, domain.LangAmharic, out[1].Language)
	assert.Equal(t, domain.LangBilingual, out[2].Language)
	assert.Equal(t, "good", out[3].Text)
	assert.Equal(t, domain.LangEnglish, out[3].Language)
	assert.Equal(t, 1, rep.Duplicates)
}
