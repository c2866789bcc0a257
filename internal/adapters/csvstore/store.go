// Package csvstore reads and writes the pipeline's CSV files through gota
// data frames. Column names are the on-disk contract between commands.
package csvstore

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog/log"

	"bank_reviews/internal/domain"
)

var (
	RawColumns       = []string{"review", "rating", "date", "bank", "source"}
	CleanedColumns   = append(append([]string{}, RawColumns...), "language")
	ScoredColumns    = append(append([]string{}, CleanedColumns...), "sentiment_label", "sentiment_score", "theme")
	AggregateColumns = []string{"bank", "rating", "mean_sentiment_score", "review_count"}
	KeywordColumns   = []string{"theme", "keyword", "score"}
	LanguageColumns  = []string{"language", "count"}
)

// cells that mean "missing"
var naValues = []string{"", "NA", "NaN", "<nil>", "nan", "None"}

type Store struct{}

func New() *Store { return &Store{} }

// frame is a decoded CSV: column name -> cell, nil for missing cells.
type frame []map[string]*string

func (f frame) str(i int, col string) string {
	if p := f[i][col]; p != nil {
		return *p
	}
	return ""
}

func readFrame(path string) (frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	df := dataframe.ReadCSV(fh,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		// header-only and zero-byte files are empty sources, not failures
		if strings.Contains(df.Err.Error(), "empty DataFrame") {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, df.Err)
	}

	names := df.Names()
	recs := df.Records()
	out := make(frame, 0, len(recs)-1)
	for _, rec := range recs[1:] {
		row := make(map[string]*string, len(names))
		for j, name := range names {
			if rec[j] == "NaN" {
				continue
			}
			v := rec[j]
			row[strings.TrimSpace(name)] = &v
		}
		out = append(out, row)
	}
	return out, nil
}

func writeFrame(path string, header []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer fh.Close()

	if err := encode(fh, header, rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("rows", len(rows)).Msg("saved csv")
	return fh.Close()
}

func encode(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		// gota refuses frames without rows; keep the schema on disk anyway
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}
	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	records = append(records, rows...)
	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	return df.WriteCSV(w)
}

func parseRating(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	// pandas writes integer columns that held NaN as floats ("5.0")
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// ReadRaw loads a raw review file. Unparsable ratings are treated as missing.
func (s *Store) ReadRaw(path string) ([]domain.RawReview, error) {
	f, err := readFrame(path)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RawReview, 0, len(f))
	for i, row := range f {
		r := domain.RawReview{
			Text:   row["review"],
			Date:   row["date"],
			Bank:   row["bank"],
			Source: row["source"],
		}
		if p := row["rating"]; p != nil {
			if n, ok := parseRating(*p); ok {
				r.Rating = &n
			} else {
				log.Debug().Str("path", path).Int("row", i+1).Str("rating", *p).Msg("unparsable rating")
			}
		}
		out = append(out, r)
	}
	log.Info().Str("path", path).Int("rows", len(out)).Msg("loaded csv")
	return out, nil
}

func (s *Store) WriteRaw(path string, rs []domain.RawReview) error {
	opt := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		rating := ""
		if r.Rating != nil {
			rating = strconv.Itoa(*r.Rating)
		}
		rows = append(rows, []string{opt(r.Text), rating, opt(r.Date), opt(r.Bank), opt(r.Source)})
	}
	return writeFrame(path, RawColumns, rows)
}

func cleanedRow(r domain.Review) []string {
	return []string{r.Text, strconv.Itoa(r.Rating), r.DateString(), r.Bank, r.Source, string(r.Language)}
}

func (s *Store) WriteCleaned(path string, rs []domain.Review) error {
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, cleanedRow(r))
	}
	return writeFrame(path, CleanedColumns, rows)
}

// ReadCleaned loads a cleaned file. Rows whose rating or date no longer
// parse are skipped with a warning.
func (s *Store) ReadCleaned(path string) ([]domain.Review, error) {
	f, err := readFrame(path)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(f))
	for i := range f {
		r, ok := reviewAt(f, i)
		if !ok {
			log.Warn().Str("path", path).Int("row", i+1).Msg("skipping malformed cleaned row")
			continue
		}
		out = append(out, r)
	}
	log.Info().Str("path", path).Int("rows", len(out)).Msg("loaded csv")
	return out, nil
}

func reviewAt(f frame, i int) (domain.Review, bool) {
	rating, ok := parseRating(f.str(i, "rating"))
	if !ok {
		return domain.Review{}, false
	}
	d, err := time.Parse(domain.DateLayout, f.str(i, "date"))
	if err != nil {
		return domain.Review{}, false
	}
	return domain.Review{
		Text:     f.str(i, "review"),
		Rating:   rating,
		Date:     d,
		Bank:     f.str(i, "bank"),
		Source:   f.str(i, "source"),
		Language: domain.Language(f.str(i, "language")),
	}, true
}

func (s *Store) WriteScored(path string, rs []domain.ScoredReview) error {
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, append(cleanedRow(r.Review),
			string(r.SentimentLabel), formatFloat(r.SentimentScore), r.Theme))
	}
	return writeFrame(path, ScoredColumns, rows)
}

func (s *Store) ReadScored(path string) ([]domain.ScoredReview, error) {
	f, err := readFrame(path)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ScoredReview, 0, len(f))
	for i := range f {
		r, ok := reviewAt(f, i)
		if !ok {
			log.Warn().Str("path", path).Int("row", i+1).Msg("skipping malformed scored row")
			continue
		}
		sr := domain.ScoredReview{Review: r, Theme: f.str(i, "theme")}
		sr.SentimentLabel = domain.ParseSentimentLabel(f.str(i, "sentiment_label"))
		if v, err := strconv.ParseFloat(f.str(i, "sentiment_score"), 64); err == nil {
			sr.SentimentScore = v
		}
		out = append(out, sr)
	}
	log.Info().Str("path", path).Int("rows", len(out)).Msg("loaded csv")
	return out, nil
}

func (s *Store) WriteAggregates(path string, as []domain.SentimentAggregate) error {
	rows := make([][]string, 0, len(as))
	for _, a := range as {
		rows = append(rows, []string{a.Bank, strconv.Itoa(a.Rating), formatFloat(a.MeanScore), strconv.Itoa(a.Count)})
	}
	return writeFrame(path, AggregateColumns, rows)
}

func (s *Store) WriteLanguageDistribution(path string, ls []domain.LanguageCount) error {
	rows := make([][]string, 0, len(ls))
	for _, l := range ls {
		rows = append(rows, []string{string(l.Language), strconv.Itoa(l.Count)})
	}
	return writeFrame(path, LanguageColumns, rows)
}

func (s *Store) WriteKeywords(path string, ks []domain.Keyword) error {
	rows := make([][]string, 0, len(ks))
	for _, k := range ks {
		rows = append(rows, []string{k.Theme, k.Term, formatFloat(k.Score)})
	}
	return writeFrame(path, KeywordColumns, rows)
}

func (s *Store) ReadKeywords(path string) ([]domain.Keyword, error) {
	f, err := readFrame(path)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Keyword, 0, len(f))
	for i := range f {
		score, _ := strconv.ParseFloat(f.str(i, "score"), 64)
		out = append(out, domain.Keyword{Theme: f.str(i, "theme"), Term: f.str(i, "keyword"), Score: score})
	}
	return out, nil
}
