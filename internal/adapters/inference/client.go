// Package inference calls a hosted text-classification model
// (distilbert-base-uncased-finetuned-sst-2-english by default).
package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bank_reviews/internal/adapters/httpclient"
	"bank_reviews/internal/domain"
)

var ErrEmptyResponse = errors.New("inference: empty response")

type Client struct {
	url  string
	http *httpclient.Client
}

func New(url, token string, rps int) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("inference URL is required")
	}
	var opts []httpclient.Option
	if token != "" {
		opts = append(opts, httpclient.WithHeader("Authorization", "Bearer "+token))
	}
	return &Client{url: url, http: httpclient.New("inference", rps, opts...)}, nil
}

type candidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns the highest-scoring label for text.
func (c *Client) Classify(ctx context.Context, text string) (domain.Prediction, error) {
	var raw json.RawMessage
	if err := c.http.PostJSON(ctx, "classify", c.url, map[string]string{"inputs": text}, &raw); err != nil {
		return domain.Prediction{}, err
	}
	cands, err := decode(raw)
	if err != nil {
		return domain.Prediction{}, err
	}
	best := cands[0]
	for _, cd := range cands[1:] {
		if cd.Score > best.Score {
			best = cd
		}
	}
	return domain.Prediction{Label: domain.ParseSentimentLabel(best.Label), Score: best.Score}, nil
}

// decode accepts [[{label,score}...]] (batched) and [{label,score}...].
func decode(raw json.RawMessage) ([]candidate, error) {
	var nested [][]candidate
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 || len(nested[0]) == 0 {
			return nil, ErrEmptyResponse
		}
		return nested[0], nil
	}
	var flat []candidate
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode inference response: %w", err)
	}
	if len(flat) == 0 {
		return nil, ErrEmptyResponse
	}
	return flat, nil
}
