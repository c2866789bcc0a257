package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"bank_reviews/internal/adapters/observability"
	"bank_reviews/internal/domain"
	"bank_reviews/internal/language"
	"bank_reviews/internal/text"
)

var (
	ErrNoInput             = errors.New("no data loaded from input files")
	ErrNoRowsAfterCleaning = errors.New("no rows left after cleaning")
)

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = []string{
	domain.DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"02 Jan 2006",
}

// ParseDate returns the calendar day of s. ok is false when no layout fits.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// CleanReport counts what each cleaning step removed.
type CleanReport struct {
	Input               int
	Duplicates          int
	InvalidDate         int
	InvalidRating       int
	UnsupportedLanguage int
	Output              int
	Languages           map[domain.Language]int
}

type CleanedWriter interface {
	WriteCleaned(path string, rs []domain.Review) error
}

type Preprocessor struct {
	loader *Loader
	clf    *language.Classifier
	out    CleanedWriter
}

func NewPreprocessor(l *Loader, clf *language.Classifier, out CleanedWriter) *Preprocessor {
	return &Preprocessor{loader: l, clf: clf, out: out}
}

// working row between steps
type pending struct {
	text, date, bank, source string
	rating                   int
}

// Clean runs the cleaning steps over raw rows. Row-level problems drop the
// row and are counted in the report; they never fail the batch.
func (p *Preprocessor) Clean(raw []domain.RawReview) ([]domain.Review, CleanReport) {
	rep := CleanReport{Input: len(raw), Languages: map[domain.Language]int{}}

	// 1-2) default fill, normalize text and bank
	rows := make([]pending, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, pending{
			text:   text.Normalize(valueOr(r.Text, "")),
			rating: intOr(r.Rating, 0),
			date:   valueOr(r.Date, ""),
			bank:   text.NormalizeOrigin(valueOr(r.Bank, domain.DefaultBank)),
			source: valueOr(r.Source, domain.DefaultSource),
		})
	}

	// 3-4) keep-first on (normalized text, raw date, bank); the normalized
	// text is what is stored from here on
	type key struct{ text, date, bank string }
	rows, rep.Duplicates = Dedupe(rows, func(r pending) key { return key{r.text, r.date, r.bank} })

	out := make([]domain.Review, 0, len(rows))
	for _, r := range rows {
		// 5-6) unparsable dates are dropped
		d, ok := ParseDate(r.date)
		if !ok {
			rep.InvalidDate++
			continue
		}
		// 7) rating must be 1..5
		if r.rating < 1 || r.rating > 5 {
			rep.InvalidRating++
			continue
		}
		// 8-9) language, supported tags only
		lang := p.clf.Classify(r.text)
		if !lang.Supported() {
			rep.UnsupportedLanguage++
			continue
		}
		rep.Languages[lang]++
		out = append(out, domain.Review{
			Text:     r.text,
			Rating:   r.rating,
			Date:     d,
			Bank:     r.bank,
			Source:   r.source,
			Language: lang,
		})
	}
	rep.Output = len(out)

	observability.ObserveStage("preprocess", rep.Input, rep.Output)
	observability.ObserveDropped("preprocess", "duplicate", rep.Duplicates)
	observability.ObserveDropped("preprocess", "invalid_date", rep.InvalidDate)
	observability.ObserveDropped("preprocess", "invalid_rating", rep.InvalidRating)
	observability.ObserveDropped("preprocess", "unsupported_language", rep.UnsupportedLanguage)
	return out, rep
}

// Run loads inputs, cleans them and writes the cleaned file. An empty load
// or an empty result is returned as ErrNoInput / ErrNoRowsAfterCleaning.
func (p *Preprocessor) Run(inputs []string, output string) (CleanReport, error) {
	raw := p.loader.Load(inputs)
	if len(raw) == 0 {
		return CleanReport{}, ErrNoInput
	}
	log.Info().Int("rows", len(raw)).Int("sources", len(inputs)).Msg("raw reviews loaded")

	cleaned, rep := p.Clean(raw)
	log.Info().
		Int("input", rep.Input).
		Int("duplicates", rep.Duplicates).
		Int("invalid_date", rep.InvalidDate).
		Int("invalid_rating", rep.InvalidRating).
		Int("unsupported_language", rep.UnsupportedLanguage).
		Int("output", rep.Output).
		Msg("cleaning done")
	for _, lc := range SortedLanguageCounts(rep.Languages) {
		log.Info().Str("language", string(lc.Language)).Int("count", lc.Count).Msg("language distribution")
	}
	if len(cleaned) == 0 {
		return rep, ErrNoRowsAfterCleaning
	}

	if err := p.out.WriteCleaned(output, cleaned); err != nil {
		return rep, fmt.Errorf("save cleaned reviews: %w", err)
	}
	return rep, nil
}

// SortedLanguageCounts orders counts descending, ties by tag.
func SortedLanguageCounts(m map[domain.Language]int) []domain.LanguageCount {
	out := make([]domain.LanguageCount, 0, len(m))
	for l, n := range m {
		out = append(out, domain.LanguageCount{Language: l, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Language < out[j].Language
	})
	return out
}

func valueOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
