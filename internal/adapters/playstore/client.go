// Package playstore reads app-store reviews from a review feed service that
// wraps the store's public listing (google-play-scraper compatible payloads).
package playstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"bank_reviews/internal/adapters/httpclient"
)

type Client struct {
	base    string
	country string
	http    *httpclient.Client
}

func New(base, key, country string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("review feed base URL is required")
	}
	if country == "" {
		country = "et"
	}
	return &Client{
		base:    base,
		country: country,
		http:    httpclient.New("playstore", rps, httpclient.WithHeader("X-API-Key", key)),
	}, nil
}

// GetReviews returns up to count newest reviews of appID in lang. The feed
// may answer with a bare array or with {"reviews": [...]}.
func (c *Client) GetReviews(ctx context.Context, appID, lang string, count int) ([]map[string]any, error) {
	q := url.Values{}
	q.Set("lang", lang)
	q.Set("country", c.country)
	q.Set("sort", "newest")
	q.Set("count", fmt.Sprint(count))

	candidates := []string{
		fmt.Sprintf("%s/apps/%s/reviews?%s", c.base, url.PathEscape(appID), q.Encode()), // preferred
		fmt.Sprintf("%s/reviews?appId=%s&%s", c.base, url.QueryEscape(appID), q.Encode()), // legacy
	}
	var last error
	for _, u := range candidates {
		var payload any
		if err := c.http.GetJSON(ctx, "reviews", u, &payload); err != nil {
			if errors.Is(err, httpclient.ErrNotFound) {
				last = err
				continue // try next pattern
			}
			return nil, err
		}
		return unwrap(payload), nil
	}
	return nil, last
}

func unwrap(payload any) []map[string]any {
	var items []any
	switch v := payload.(type) {
	case []any:
		items = v
	case map[string]any:
		for _, k := range []string{"reviews", "data", "results"} {
			if arr, ok := v[k].([]any); ok {
				items = arr
				break
			}
		}
	}
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
