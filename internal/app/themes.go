package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"bank_reviews/internal/adapters/observability"
	"bank_reviews/internal/domain"
	"bank_reviews/internal/shared"
	"bank_reviews/internal/tfidf"
)

const OtherTheme = "Other"

// ThemeBucket is a named group of keywords. A term belongs to the first
// bucket with a keyword contained in it.
type ThemeBucket struct {
	Name     string
	Keywords []string
}

var themeBuckets = []ThemeBucket{
	{"Account Access Issues", []string{"login", "log in", "sign in", "password", "access", "cannot login", "login failed", "authentication"}},
	{"Transaction Performance", []string{"transfer", "transaction", "delay", "processing", "send money", "receive", "failed transfer", "deposit", "withdraw"}},
	{"User Interface & Experience", []string{"app", "interface", "easy to use", "navigation", "crash", "bug", "slow", "responsive", "design"}},
	{"Customer Support", []string{"support", "help", "customer service", "no response", "call center", "contact", "agent", "feedback"}},
	{"Feature Requests", []string{"add feature", "would like", "suggestion", "need", "wish", "option", "upgrade", "additional"}},
}

// ThemeNames lists the buckets in declared order followed by OtherTheme.
func ThemeNames() []string {
	out := make([]string, 0, len(themeBuckets)+1)
	for _, b := range themeBuckets {
		out = append(out, b.Name)
	}
	return append(out, OtherTheme)
}

// ThemeOf maps a term to its bucket, OtherTheme when nothing matches.
func ThemeOf(term string) string {
	t := strings.ToLower(term)
	for _, b := range themeBuckets {
		for _, k := range b.Keywords {
			if strings.Contains(t, k) {
				return b.Name
			}
		}
	}
	return OtherTheme
}

// ThemeFor tags a whole review with the bucket of its first matching keyword.
func ThemeFor(reviewText string) string { return ThemeOf(reviewText) }

// GroupByTheme assigns every term a bucket and orders the result by bucket
// (declared order, Other last), keeping term order inside a bucket.
func GroupByTheme(terms []tfidf.Term) []domain.Keyword {
	byTheme := map[string][]domain.Keyword{}
	for _, t := range terms {
		th := ThemeOf(t.Text)
		byTheme[th] = append(byTheme[th], domain.Keyword{Term: t.Text, Score: t.Score, Theme: th})
	}
	out := make([]domain.Keyword, 0, len(terms))
	for _, name := range ThemeNames() {
		out = append(out, byTheme[name]...)
	}
	return out
}

type KeywordWriter interface {
	WriteKeywords(path string, ks []domain.Keyword) error
}

type ThemeService struct {
	vec  *tfidf.Vectorizer
	topN int
}

func NewThemeService(opts tfidf.Options, topN int) *ThemeService {
	if topN <= 0 {
		topN = 20
	}
	return &ThemeService{vec: tfidf.New(opts), topN: topN}
}

// BankKeywords is the grouped keyword list of one bank.
type BankKeywords struct {
	Bank     string
	Keywords []domain.Keyword
}

// ExtractPerBank runs TF-IDF over each bank's english and bilingual reviews.
// Banks appear in order of first occurrence.
func (s *ThemeService) ExtractPerBank(rs []domain.Review) []BankKeywords {
	var order []string
	docs := map[string][]string{}
	for _, r := range rs {
		if r.Language != domain.LangEnglish && r.Language != domain.LangBilingual {
			continue
		}
		if _, ok := docs[r.Bank]; !ok {
			order = append(order, r.Bank)
		}
		docs[r.Bank] = append(docs[r.Bank], r.Text)
	}

	out := make([]BankKeywords, 0, len(order))
	for _, bank := range order {
		top := s.vec.Top(docs[bank], s.topN)
		ks := GroupByTheme(top)
		log.Info().Str("bank", bank).Int("documents", len(docs[bank])).Int("keywords", len(ks)).Msg("keywords extracted")
		out = append(out, BankKeywords{Bank: bank, Keywords: ks})
	}
	observability.ObserveStage("themes", len(rs), len(out))
	return out
}

// ThemeFile is the per-bank output path inside dir.
func ThemeFile(dir, bank string) string {
	return filepath.Join(dir, shared.Slug(bank)+"_themes_grouped.csv")
}

// Run extracts keywords from the cleaned file and writes one CSV per bank.
func (s *ThemeService) Run(in CleanedReader, out KeywordWriter, input, outDir string) ([]BankKeywords, error) {
	rs, err := in.ReadCleaned(input)
	if err != nil {
		return nil, fmt.Errorf("load cleaned reviews: %w", err)
	}
	res := s.ExtractPerBank(rs)
	if len(res) == 0 {
		return nil, ErrNoInput
	}
	for _, bk := range res {
		if err := out.WriteKeywords(ThemeFile(outDir, bk.Bank), bk.Keywords); err != nil {
			return nil, fmt.Errorf("save themes for %s: %w", bk.Bank, err)
		}
	}
	return res, nil
}
