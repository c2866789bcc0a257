package domain

import "time"

// Language is the canonical language tag attached to a cleaned review.
// Values other than the constants below are ISO 639-1 codes passed through
// from the statistical detector.
type Language string

const (
	LangEnglish   Language = "english"
	LangAmharic   Language = "amharic"
	LangBilingual Language = "bilingual"
	LangUnknown   Language = "unknown"
)

// Supported reports whether reviews in l survive cleaning.
func (l Language) Supported() bool {
	return l == LangEnglish || l == LangAmharic || l == LangBilingual
}

// Default fill values for missing raw fields.
const (
	DefaultBank   = "Unknown"
	DefaultSource = "Google Play"
)

// DateLayout is the calendar-date format used in every CSV and in the reviews table.
const DateLayout = "2006-01-02"

// RawReview is one row as read from a raw source. Every field is optional;
// nil means the cell was missing.
type RawReview struct {
	Text   *string
	Rating *int
	Date   *string
	Bank   *string
	Source *string
}

// Review is a cleaned record. It is not mutated after the cleaning stage.
type Review struct {
	Text     string
	Rating   int
	Date     time.Time
	Bank     string
	Source   string
	Language Language
}

// DateString returns the review date in DateLayout.
func (r Review) DateString() string { return r.Date.Format(DateLayout) }

// ScoredReview is a cleaned review with the fields appended by the
// sentiment and theme stages.
type ScoredReview struct {
	Review
	SentimentLabel SentimentLabel
	SentimentScore float64
	Theme          string
}

// LanguageCount is one row of the language distribution report.
type LanguageCount struct {
	Language Language
	Count    int
}
