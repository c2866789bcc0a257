package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"bank_reviews/internal/adapters/observability"
	"bank_reviews/internal/domain"
	"bank_reviews/internal/language"
	"bank_reviews/internal/text"
)

// MaxClassifierRunes is the longest input handed to the English model.
const MaxClassifierRunes = 512

// Fixed lexicon scores: the word lists carry no confidence.
const (
	LexiconPositiveScore = 0.7
	LexiconNegativeScore = -0.7
)

var (
	amharicPositive = []string{"ጥሩ", "አሪፍ", "በጣም ጥሩ", "ተደሰትኩ", "አመሰግናለሁ"}
	amharicNegative = []string{"መጥፎ", "አይሰራም", "ችግር", "ተስፋ ቆሟል", "ቅሬታ"}
)

// LexiconSentiment scores Amharic and bilingual text by counting which
// lexicon entries occur in it as substrings.
func LexiconSentiment(s string) (domain.SentimentLabel, float64) {
	pos, neg := 0, 0
	for _, w := range amharicPositive {
		if strings.Contains(s, w) {
			pos++
		}
	}
	for _, w := range amharicNegative {
		if strings.Contains(s, w) {
			neg++
		}
	}
	switch {
	case pos > neg:
		return domain.Positive, LexiconPositiveScore
	case neg > pos:
		return domain.Negative, LexiconNegativeScore
	default:
		return domain.Neutral, 0
	}
}

type ScoredWriter interface {
	WriteScored(path string, rs []domain.ScoredReview) error
	WriteAggregates(path string, as []domain.SentimentAggregate) error
	WriteLanguageDistribution(path string, ls []domain.LanguageCount) error
}

type CleanedReader interface {
	ReadCleaned(path string) ([]domain.Review, error)
}

type SentimentService struct {
	model   domain.SentimentClassifier
	backend string
	clf     *language.Classifier
}

// NewSentimentService scores English rows with model; backend labels the
// fallback metric. clf tags rows whose language column is empty.
func NewSentimentService(model domain.SentimentClassifier, backend string, clf *language.Classifier) *SentimentService {
	return &SentimentService{model: model, backend: backend, clf: clf}
}

// ScoreOne returns the label and signed score for one review. Model errors
// and empty text map to neutral.
func (s *SentimentService) ScoreOne(ctx context.Context, r domain.Review) (domain.SentimentLabel, float64) {
	switch r.Language {
	case domain.LangEnglish:
		if strings.TrimSpace(r.Text) == "" {
			return domain.Neutral, 0
		}
		p, err := s.model.Classify(ctx, text.Truncate(r.Text, MaxClassifierRunes))
		if err != nil {
			log.Warn().Err(err).Str("backend", s.backend).Msg("sentiment inference failed, using neutral")
			observability.ObserveSentimentFallback(s.backend)
			p = domain.NeutralPrediction
		}
		return p.Label, p.Signed()
	case domain.LangAmharic, domain.LangBilingual:
		return LexiconSentiment(r.Text)
	default:
		return domain.Neutral, 0
	}
}

// Score appends sentiment and theme to every review, in input order.
func (s *SentimentService) Score(ctx context.Context, rs []domain.Review) []domain.ScoredReview {
	out := make([]domain.ScoredReview, 0, len(rs))
	var english, lexicon int
	for _, r := range rs {
		if r.Language == "" && s.clf != nil {
			r.Language = s.clf.Classify(r.Text)
		}
		switch r.Language {
		case domain.LangEnglish:
			english++
		case domain.LangAmharic, domain.LangBilingual:
			lexicon++
		}
		label, score := s.ScoreOne(ctx, r)
		out = append(out, domain.ScoredReview{
			Review:         r,
			SentimentLabel: label,
			SentimentScore: score,
			Theme:          ThemeFor(r.Text),
		})
	}
	log.Info().Int("english", english).Int("amharic_bilingual", lexicon).Msg("sentiment scored")
	observability.ObserveStage("sentiment", len(rs), len(out))
	return out
}

// AggregateSentiment groups by (bank, rating) and returns the mean score and
// row count per group, ordered by bank then rating.
func AggregateSentiment(rs []domain.ScoredReview) []domain.SentimentAggregate {
	type key struct {
		bank   string
		rating int
	}
	sums := map[key]float64{}
	counts := map[key]int{}
	for _, r := range rs {
		k := key{r.Bank, r.Rating}
		sums[k] += r.SentimentScore
		counts[k]++
	}
	out := make([]domain.SentimentAggregate, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.SentimentAggregate{Bank: k.bank, Rating: k.rating, MeanScore: sums[k] / float64(n), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bank != out[j].Bank {
			return out[i].Bank < out[j].Bank
		}
		return out[i].Rating < out[j].Rating
	})
	return out
}

// LanguageDistribution counts reviews per language tag.
func LanguageDistribution(rs []domain.Review) []domain.LanguageCount {
	m := map[domain.Language]int{}
	for _, r := range rs {
		m[r.Language]++
	}
	return SortedLanguageCounts(m)
}

// AggregatePath derives the aggregate file name from the detailed one.
func AggregatePath(output string) string {
	if strings.HasSuffix(output, ".csv") {
		return strings.TrimSuffix(output, ".csv") + "_aggregated.csv"
	}
	return output + "_aggregated.csv"
}

// Run reads the cleaned file, scores it and writes the detailed, aggregate
// and language-distribution files.
func (s *SentimentService) Run(ctx context.Context, in CleanedReader, out ScoredWriter, input, output, langDist string) ([]domain.SentimentAggregate, error) {
	rs, err := in.ReadCleaned(input)
	if err != nil {
		return nil, fmt.Errorf("load cleaned reviews: %w", err)
	}
	if len(rs) == 0 {
		return nil, ErrNoInput
	}

	dist := LanguageDistribution(rs)
	if err := out.WriteLanguageDistribution(langDist, dist); err != nil {
		return nil, fmt.Errorf("save language distribution: %w", err)
	}

	scored := s.Score(ctx, rs)
	for i := 0; i < len(scored) && i < 10; i++ {
		r := scored[i]
		log.Debug().Str("review", text.Truncate(r.Text, 60)).Str("bank", r.Bank).Int("rating", r.Rating).
			Str("language", string(r.Language)).Str("label", string(r.SentimentLabel)).
			Float64("score", r.SentimentScore).Msg("sample")
	}

	agg := AggregateSentiment(scored)
	if err := out.WriteScored(output, scored); err != nil {
		return nil, fmt.Errorf("save sentiment results: %w", err)
	}
	if err := out.WriteAggregates(AggregatePath(output), agg); err != nil {
		return nil, fmt.Errorf("save aggregated sentiment: %w", err)
	}
	log.Info().Int("reviews", len(scored)).Int("groups", len(agg)).Msg("sentiment analysis complete")
	return agg, nil
}
