package app

import (
	"github.com/rs/zerolog/log"

	"bank_reviews/internal/domain"
)

// Loader merges raw review files into one working set.
type Loader struct {
	src domain.RawSource
}

func NewLoader(src domain.RawSource) *Loader {
	return &Loader{src: src}
}

// Load reads every path in order and concatenates their rows. Sources that
// fail to read or hold no rows contribute nothing; the result is never nil.
func (l *Loader) Load(paths []string) []domain.RawReview {
	out := []domain.RawReview{}
	for _, p := range paths {
		rs, err := l.src.ReadRaw(p)
		if err != nil {
			log.Warn().Err(err).Str("path", p).Msg("raw source unavailable, skipping")
			continue
		}
		if len(rs) == 0 {
			log.Warn().Str("path", p).Msg("raw source is empty, skipping")
			continue
		}
		out = append(out, rs...)
	}
	return out
}
