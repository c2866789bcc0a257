// Package report renders the insight figures as plain-text charts: tables
// with bar columns via tablewriter and line charts via asciigraph.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"

	"bank_reviews/internal/app"
	"bank_reviews/internal/domain"
	"bank_reviews/internal/shared"
)

const barWidth = 40

type Reporter struct {
	dir string
}

func New(dir string) *Reporter { return &Reporter{dir: dir} }

// Render writes every chart into the output directory and returns the file
// paths in write order.
func (r *Reporter) Render(in app.Insights, keywords []app.BankKeywords) ([]string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", r.dir, err)
	}
	charts := []struct {
		name string
		body string
	}{
		{"sentiment_distribution.txt", CountChart("Sentiment Distribution", "Sentiment", in.Sentiment)},
		{"rating_distribution.txt", CountChart("Rating Distribution", "Rating", in.Ratings)},
		{"language_distribution.txt", CountChart("Language Distribution of Reviews", "Language", in.Languages)},
		{"sentiment_vs_rating.txt", MeanChart("Sentiment Score by Rating", "Rating", in.ScoreByRating)},
		{"sentiment_comparison_by_bank.txt", MeanChart("Average Sentiment Score by Bank", "Bank", in.ScoreByBank)},
		{"sentiment_trend_by_bank.txt", TrendChart("Monthly Sentiment Score Trend by Bank", in.Trend)},
		{"theme_distribution_per_bank.txt", perBank("Theme Distribution per Bank", "Theme", in.Banks, in.ThemesByBank)},
		{"rating_distribution_per_bank.txt", perBank("Rating Distribution per Bank", "Rating", in.Banks, in.RatingsByBank)},
	}
	for _, bk := range keywords {
		charts = append(charts, struct {
			name string
			body string
		}{"themes_" + shared.Slug(bk.Bank) + ".txt", KeywordChart("Top Keywords - "+bk.Bank, bk.Keywords, 10)})
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		p := filepath.Join(r.dir, c.name)
		if err := os.WriteFile(p, []byte(c.body), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		log.Info().Str("path", p).Msg("plot saved")
		paths = append(paths, p)
	}
	return paths, nil
}

func bar(v, max float64) string {
	if max <= 0 || v <= 0 {
		return ""
	}
	n := int(v / max * barWidth)
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func table(title string, header []string, rows [][]string) string {
	var buf bytes.Buffer
	buf.WriteString(title + "\n\n")
	t := tablewriter.NewWriter(&buf)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.AppendBulk(rows)
	t.Render()
	return buf.String()
}

// CountChart is a horizontal bar chart of tallies.
func CountChart(title, label string, cs []app.Count) string {
	var max float64
	for _, c := range cs {
		if float64(c.N) > max {
			max = float64(c.N)
		}
	}
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		rows = append(rows, []string{c.Label, strconv.Itoa(c.N), bar(float64(c.N), max)})
	}
	return table(title, []string{label, "Count", ""}, rows)
}

// MeanChart shows averages in [-1, 1] as bars growing left (negative) or
// right (positive) of a centre line.
func MeanChart(title, label string, ms []app.Mean) string {
	half := barWidth / 2
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		n := int(absf(m.Value) * float64(half))
		if n > half {
			n = half
		}
		left := strings.Repeat(" ", half)
		right := ""
		if m.Value < 0 {
			left = strings.Repeat(" ", half-n) + strings.Repeat("█", n)
		} else {
			right = strings.Repeat("█", n)
		}
		rows = append(rows, []string{m.Label, strconv.FormatFloat(m.Value, 'f', 3, 64), strconv.Itoa(m.N), left + "|" + right})
	}
	return table(title, []string{label, "Mean", "Reviews", "-1 .. 0 .. +1"}, rows)
}

// TrendChart draws one line chart per bank.
func TrendChart(title string, ss []app.Series) string {
	var b strings.Builder
	b.WriteString(title + "\n")
	for _, s := range ss {
		b.WriteString("\n")
		if len(s.Values) == 0 {
			b.WriteString(s.Bank + ": no data\n")
			continue
		}
		vals := s.Values
		if len(vals) == 1 {
			vals = []float64{vals[0], vals[0]}
		}
		caption := fmt.Sprintf("%s (%s .. %s)", s.Bank, s.Months[0], s.Months[len(s.Months)-1])
		b.WriteString(asciigraph.Plot(vals, asciigraph.Height(8), asciigraph.Caption(caption)))
		b.WriteString("\n")
	}
	return b.String()
}

// KeywordChart lists the n best-scoring keywords.
func KeywordChart(title string, ks []domain.Keyword, n int) string {
	best := append([]domain.Keyword(nil), ks...)
	sort.SliceStable(best, func(i, j int) bool { return best[i].Score > best[j].Score })
	if len(best) > n {
		best = best[:n]
	}
	var max float64
	if len(best) > 0 {
		max = best[0].Score
	}
	rows := make([][]string, 0, len(best))
	for _, k := range best {
		rows = append(rows, []string{k.Term, k.Theme, strconv.FormatFloat(k.Score, 'f', 2, 64), bar(k.Score, max)})
	}
	return table(title, []string{"Keyword", "Theme", "TF-IDF", ""}, rows)
}

func perBank(title, label string, banks []string, m map[string][]app.Count) string {
	var b strings.Builder
	for _, bank := range banks {
		b.WriteString(CountChart(title+" - "+bank, label, m[bank]))
		b.WriteString("\n")
	}
	return b.String()
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
