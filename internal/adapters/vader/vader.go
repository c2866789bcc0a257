// Package vader scores English text with the VADER lexicon model.
package vader

import (
	"context"

	"github.com/jonreiter/govader"

	"bank_reviews/internal/domain"
)

// Compound thresholds recommended by the VADER authors.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

type Classifier struct {
	an *govader.SentimentIntensityAnalyzer
}

func New() *Classifier {
	return &Classifier{an: govader.NewSentimentIntensityAnalyzer()}
}

func (c *Classifier) Classify(ctx context.Context, text string) (domain.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Prediction{}, err
	}
	compound := c.an.PolarityScores(text).Compound
	switch {
	case compound >= PositiveThreshold:
		return domain.Prediction{Label: domain.Positive, Score: compound}, nil
	case compound <= NegativeThreshold:
		return domain.Prediction{Label: domain.Negative, Score: -compound}, nil
	default:
		return domain.NeutralPrediction, nil
	}
}
