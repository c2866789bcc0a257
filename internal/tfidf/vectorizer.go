// Package tfidf scores terms and n-grams of a small corpus by TF-IDF.
//
// Tokens are runs of two or more word characters, lower-cased. English stop
// words are removed before n-grams are formed. IDF is smoothed,
// idf(t) = ln((1+n)/(1+df(t))) + 1, and every document vector is L2
// normalised before scores are summed.
package tfidf

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

type Options struct {
	MinN, MaxN  int  // n-gram range, inclusive
	MaxFeatures int  // 0 keeps the whole vocabulary
	StopWords   bool // drop English stop words
}

// DefaultOptions matches the theme extractor: 1..3-grams, 100 features.
func DefaultOptions() Options {
	return Options{MinN: 1, MaxN: 3, MaxFeatures: 100, StopWords: true}
}

// Term is one vocabulary entry with its corpus-wide summed weight.
type Term struct {
	Text  string
	Score float64
}

type Vectorizer struct {
	opts Options
}

func New(opts Options) *Vectorizer {
	if opts.MinN < 1 {
		opts.MinN = 1
	}
	if opts.MaxN < opts.MinN {
		opts.MaxN = opts.MinN
	}
	return &Vectorizer{opts: opts}
}

// Analyze returns the n-grams of doc in order of appearance.
func (v *Vectorizer) Analyze(doc string) []string {
	toks := tokenize(doc)
	if v.opts.StopWords {
		kept := toks[:0]
		for _, t := range toks {
			if !IsStopWord(t) {
				kept = append(kept, t)
			}
		}
		toks = kept
	}
	var grams []string
	for n := v.opts.MinN; n <= v.opts.MaxN; n++ {
		for i := 0; i+n <= len(toks); i++ {
			grams = append(grams, strings.Join(toks[i:i+n], " "))
		}
	}
	return grams
}

// Fit computes per-document weights and returns every retained term with its
// summed score, sorted by score descending then term descending.
func (v *Vectorizer) Fit(docs []string) []Term {
	if len(docs) == 0 {
		return nil
	}
	counts := make([]map[string]int, len(docs))
	freq := map[string]int{}
	df := map[string]int{}
	for i, d := range docs {
		c := map[string]int{}
		for _, g := range v.Analyze(d) {
			c[g]++
			freq[g]++
		}
		for g := range c {
			df[g]++
		}
		counts[i] = c
	}
	vocab := v.limit(freq)
	if len(vocab) == 0 {
		return nil
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(vocab))
	for t := range vocab {
		idf[t] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	sums := make(map[string]float64, len(vocab))
	for _, c := range counts {
		row := map[string]float64{}
		var norm float64
		for g, k := range c {
			if _, ok := vocab[g]; !ok {
				continue
			}
			w := float64(k) * idf[g]
			row[g] = w
			norm += w * w
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for g, w := range row {
			sums[g] += w / norm
		}
	}

	out := make([]Term, 0, len(vocab))
	for t := range vocab {
		out = append(out, Term{Text: t, Score: sums[t]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Text > out[j].Text
	})
	return out
}

// Top returns the k best terms of docs with scores rounded to two decimals.
func (v *Vectorizer) Top(docs []string, k int) []Term {
	terms := v.Fit(docs)
	if k > 0 && len(terms) > k {
		terms = terms[:k]
	}
	for i := range terms {
		terms[i].Score = math.Round(terms[i].Score*100) / 100
	}
	return terms
}

// limit keeps the MaxFeatures most frequent terms across the corpus.
func (v *Vectorizer) limit(freq map[string]int) map[string]struct{} {
	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	if v.opts.MaxFeatures > 0 && len(terms) > v.opts.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if freq[terms[i]] != freq[terms[j]] {
				return freq[terms[i]] > freq[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.opts.MaxFeatures]
	}
	out := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		out[t] = struct{}{}
	}
	return out
}

func tokenize(doc string) []string {
	words := strings.FieldsFunc(strings.ToLower(doc), func(r rune) bool {
		return !(r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r))
	})
	out := words[:0]
	for _, w := range words {
		if len([]rune(w)) >= 2 {
			out = append(out, w)
		}
	}
	return out
}
