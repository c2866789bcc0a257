package domain

import "context"

// RawSource reads one raw review file. A missing or unreadable source is an
// error; a source with a header and no rows returns (nil, nil).
type RawSource interface {
	ReadRaw(path string) ([]RawReview, error)
}

type ReviewRepository interface {
	// Write paths
	EnsureSchema(ctx context.Context) error
	UpsertBanks(ctx context.Context, names []string) (map[string]int64, error)
	InsertReviews(ctx context.Context, bankIDs map[string]int64, rs []ScoredReview) (int, error)

	// Read paths
	ListBanks(ctx context.Context) ([]Bank, error)
	ListReviews(ctx context.Context, bank string, pg PageQuery) (ReviewsPage, error)
	SentimentSummary(ctx context.Context) ([]SentimentAggregate, error)
}

// SentimentClassifier is the pretrained English model. Errors are returned,
// never panicked; the caller decides the default.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (Prediction, error)
}

// ReviewFeed is the app-store review source used by the scraper.
type ReviewFeed interface {
	GetReviews(ctx context.Context, appID, lang string, count int) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	// DelPrefix drops every key starting with prefix.
	DelPrefix(ctx context.Context, prefix string) error
}

// Read models & queries
type Bank struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ReviewCount int    `json:"review_count"`
}

type StoredReview struct {
	ID             int64    `json:"id"`
	Bank           string   `json:"bank"`
	Text           string   `json:"review"`
	Rating         int      `json:"rating"`
	Date           string   `json:"date"`
	Source         string   `json:"source"`
	SentimentLabel *string  `json:"sentiment_label,omitempty"`
	SentimentScore *float64 `json:"sentiment_score,omitempty"`
	Theme          *string  `json:"theme,omitempty"`
}

type PageQuery struct {
	Limit int
	Sort  string
}

type ReviewsPage struct {
	Items []StoredReview `json:"items"`
}

// reviewSorts are the accepted PageQuery.Sort keys; a leading "-" means
// descending.
var reviewSorts = []string{"review_date", "-review_date", "rating", "-rating", "sentiment_score", "-sentiment_score"}

func ValidReviewSort(s string) bool {
	for _, k := range reviewSorts {
		if k == s {
			return true
		}
	}
	return false
}

// ReviewSorts returns a copy of the accepted sort keys.
func ReviewSorts() []string { return append([]string(nil), reviewSorts...) }
