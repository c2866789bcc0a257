// Package language assigns the canonical language tag to normalized review text.
package language

import (
	"strings"

	"bank_reviews/internal/domain"
	"bank_reviews/internal/text"
)

// MinLength is the shortest text handed to script or statistical detection.
// Shorter texts are kept only when they are a known sentiment word.
const MinLength = 5

// Detector is the statistical fallback. It returns an ISO 639-1 code.
type Detector interface {
	Detect(s string) (string, error)
}

type Classifier struct {
	det Detector
}

func NewClassifier(d Detector) *Classifier {
	return &Classifier{det: d}
}

// Classify evaluates, in order: empty text, the short-word allow-list, the
// short-text rule, Ethiopic script share, then the detector. A detector
// failure yields unknown.
func (c *Classifier) Classify(s string) domain.Language {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.LangUnknown
	}
	if l, ok := KnownSentimentWord(s); ok {
		return l
	}
	if text.RuneLen(s) < MinLength {
		return domain.LangUnknown
	}
	if text.ContainsEthiopic(s) {
		if text.EthiopicFraction(s) > 0.5 {
			return domain.LangAmharic
		}
		return domain.LangBilingual
	}
	if c.det == nil {
		return domain.LangUnknown
	}
	code, err := c.det.Detect(s)
	if err != nil || code == "" {
		return domain.LangUnknown
	}
	if code == "en" {
		return domain.LangEnglish
	}
	return domain.Language(code)
}
