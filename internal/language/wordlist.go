package language

import (
	"strings"

	"bank_reviews/internal/domain"
)

// Short tokens that carry signal despite their length, per language.
// Stored lower-cased.
var (
	englishWords = []string{
		"good", "bad", "great", "nice", "love", "hate", "ok", "perfect", "poor",
		"worst", "top", "best", "cool", "sweet", "fast", "week", "slow", "buggy",
		"fake", "messy", "fine", "fair", "basic",
	}
	amharicWords = []string{
		"አሪፍ", "ጥሩ", "በጣም ጥሩ", "መልካም", "መጥፎ", "በጣም መጥፎ", "ከፍተኛ", "ምርጥ",
		"ቀርፋፋ", "ደካማ", "የውሸት", "እሺ", "ፍትሃዊ", "መሠረታዊ",
	}
)

var knownSentimentWords = func() map[string]domain.Language {
	m := make(map[string]domain.Language, len(englishWords)+len(amharicWords))
	for _, w := range englishWords {
		m[w] = domain.LangEnglish
	}
	for _, w := range amharicWords {
		m[w] = domain.LangAmharic
	}
	return m
}()

// KnownSentimentWord returns the language of s when s, ignoring case and
// surrounding space, is on a short-word allow-list.
func KnownSentimentWord(s string) (domain.Language, bool) {
	l, ok := knownSentimentWords[strings.ToLower(strings.TrimSpace(s))]
	return l, ok
}

func IsKnownSentimentWord(s string) bool {
	_, ok := KnownSentimentWord(s)
	return ok
}
