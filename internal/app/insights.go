package app

import (
	"sort"
	"strconv"

	"bank_reviews/internal/domain"
)

// Count is a labelled tally used by the reports.
type Count struct {
	Label string
	N     int
}

// Mean is a labelled average with the number of rows behind it.
type Mean struct {
	Label string
	Value float64
	N     int
}

// Series is one bank's monthly mean sentiment, months ascending ("2006-01").
type Series struct {
	Bank   string
	Months []string
	Values []float64
}

// Insights are the figures behind the visualize command.
type Insights struct {
	Sentiment     []Count
	Ratings       []Count
	Languages     []Count
	ScoreByRating []Mean
	ScoreByBank   []Mean
	Trend         []Series
	ThemesByBank  map[string][]Count
	RatingsByBank map[string][]Count
	Banks         []string
}

func BuildInsights(rs []domain.ScoredReview) Insights {
	in := Insights{ThemesByBank: map[string][]Count{}, RatingsByBank: map[string][]Count{}}

	labels := map[domain.SentimentLabel]int{}
	ratings := map[int]int{}
	langs := map[domain.Language]int{}
	byRating := map[int][]float64{}
	byBank := map[string][]float64{}
	monthly := map[string]map[string][]float64{}
	themes := map[string]map[string]int{}
	bankRatings := map[string]map[int]int{}

	for _, r := range rs {
		labels[r.SentimentLabel]++
		ratings[r.Rating]++
		langs[r.Language]++
		byRating[r.Rating] = append(byRating[r.Rating], r.SentimentScore)
		if _, ok := byBank[r.Bank]; !ok {
			in.Banks = append(in.Banks, r.Bank)
			monthly[r.Bank] = map[string][]float64{}
			themes[r.Bank] = map[string]int{}
			bankRatings[r.Bank] = map[int]int{}
		}
		byBank[r.Bank] = append(byBank[r.Bank], r.SentimentScore)
		m := r.Date.Format("2006-01")
		monthly[r.Bank][m] = append(monthly[r.Bank][m], r.SentimentScore)
		th := r.Theme
		if th == "" {
			th = OtherTheme
		}
		themes[r.Bank][th]++
		bankRatings[r.Bank][r.Rating]++
	}

	for _, l := range []domain.SentimentLabel{domain.Positive, domain.Neutral, domain.Negative} {
		in.Sentiment = append(in.Sentiment, Count{string(l), labels[l]})
	}
	for rating := 1; rating <= 5; rating++ {
		in.Ratings = append(in.Ratings, Count{strconv.Itoa(rating), ratings[rating]})
		if vs := byRating[rating]; len(vs) > 0 {
			in.ScoreByRating = append(in.ScoreByRating, Mean{strconv.Itoa(rating), mean(vs), len(vs)})
		}
	}
	for _, lc := range SortedLanguageCounts(langs) {
		in.Languages = append(in.Languages, Count{string(lc.Language), lc.Count})
	}

	for _, b := range in.Banks {
		in.ScoreByBank = append(in.ScoreByBank, Mean{b, mean(byBank[b]), len(byBank[b])})

		months := make([]string, 0, len(monthly[b]))
		for m := range monthly[b] {
			months = append(months, m)
		}
		sort.Strings(months)
		s := Series{Bank: b, Months: months}
		for _, m := range months {
			s.Values = append(s.Values, mean(monthly[b][m]))
		}
		in.Trend = append(in.Trend, s)

		for _, name := range ThemeNames() {
			if n := themes[b][name]; n > 0 {
				in.ThemesByBank[b] = append(in.ThemesByBank[b], Count{name, n})
			}
		}
		for rating := 1; rating <= 5; rating++ {
			in.RatingsByBank[b] = append(in.RatingsByBank[b], Count{strconv.Itoa(rating), bankRatings[b][rating]})
		}
	}
	sort.SliceStable(in.ScoreByBank, func(i, j int) bool { return in.ScoreByBank[i].Value > in.ScoreByBank[j].Value })
	return in
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var s float64
	for _, v := range vs {
		s += v
	}
	return s / float64(len(vs))
}
