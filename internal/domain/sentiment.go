package domain

import "strings"

type SentimentLabel string

const (
	Positive SentimentLabel = "POSITIVE"
	Negative SentimentLabel = "NEGATIVE"
	Neutral  SentimentLabel = "NEUTRAL"
)

// ParseSentimentLabel accepts the label spellings used by common
// text-classification models. Anything unrecognised is neutral.
func ParseSentimentLabel(s string) SentimentLabel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "POSITIVE", "POS", "LABEL_1", "LABEL_2":
		return Positive
	case "NEGATIVE", "NEG", "LABEL_0":
		return Negative
	default:
		return Neutral
	}
}

// Prediction is what a sentiment classifier returns for one text. Score is
// the classifier's confidence in Label, in [0, 1].
type Prediction struct {
	Label SentimentLabel
	Score float64
}

// Signed maps the prediction onto [-1, 1]: negative labels negate the
// confidence and neutral is always 0.
func (p Prediction) Signed() float64 {
	s := p.Score
	if s < 0 {
		s = -s
	}
	if s > 1 {
		s = 1
	}
	switch p.Label {
	case Positive:
		return s
	case Negative:
		return -s
	default:
		return 0
	}
}

// NeutralPrediction is the default for empty text and classifier failures.
var NeutralPrediction = Prediction{Label: Neutral, Score: 0}

// SentimentAggregate is the mean sentiment of one (bank, rating) group.
type SentimentAggregate struct {
	Bank      string  `json:"bank"`
	Rating    int     `json:"rating"`
	MeanScore float64 `json:"mean_sentiment_score"`
	Count     int     `json:"review_count"`
}

// Keyword is a TF-IDF term assigned to a theme bucket.
type Keyword struct {
	Term  string
	Score float64
	Theme string
}
