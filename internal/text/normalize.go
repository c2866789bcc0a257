// Package text holds the pure string helpers shared by every pipeline stage.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Ethiopic block bounds.
const (
	EthiopicFirst rune = 0x1200
	EthiopicLast  rune = 0x137F
)

// IsEthiopic reports whether r lies in the Ethiopic block.
func IsEthiopic(r rune) bool { return r >= EthiopicFirst && r <= EthiopicLast }

// Normalize lower-cases and trims s and removes every rune that is not a word
// character, whitespace or Ethiopic. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	// cases.Caser keeps state, so it is not shared between calls
	s = cases.Lower(language.Und).String(norm.NFC.String(s))
	s = strings.Map(func(r rune) rune {
		if keep(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(s))
	return strings.TrimSpace(norm.NFC.String(s))
}

func keep(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || IsEthiopic(r)
}

// NormalizeOrigin lower-cases and trims a bank/app label.
func NormalizeOrigin(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RuneLen is the length used by every threshold in the pipeline.
func RuneLen(s string) int { return len([]rune(s)) }

// EthiopicCount returns the number of Ethiopic runes in s.
func EthiopicCount(s string) int {
	n := 0
	for _, r := range s {
		if IsEthiopic(r) {
			n++
		}
	}
	return n
}

func ContainsEthiopic(s string) bool {
	return strings.IndexFunc(s, IsEthiopic) >= 0
}

// EthiopicFraction is EthiopicCount over the rune length of s, 0 for "".
func EthiopicFraction(s string) float64 {
	total := RuneLen(s)
	if total == 0 {
		return 0
	}
	return float64(EthiopicCount(s)) / float64(total)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
