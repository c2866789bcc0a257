// Package storage persists scored reviews in a relational database. MySQL is
// the production engine; SQLite serves local runs and tests.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bank_reviews/internal/domain"
)

const (
	insertBatch  = 500
	defaultLimit = 50
	defaultSort  = "-review_date"
)

type Repo struct {
	db *sql.DB
	d  dialect
}

func NewMySQL(db *sql.DB) *Repo  { return &Repo{db: db, d: mysqlDialect} }
func NewSQLite(db *sql.DB) *Repo { return &Repo{db: db, d: sqliteDialect} }

func (r *Repo) Dialect() string { return r.d.name }

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range r.d.schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// UpsertBanks inserts unknown names and returns the id of every name.
func (r *Repo) UpsertBanks(ctx context.Context, names []string) (map[string]int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	ids := make(map[string]int64, len(names))
	for _, n := range names {
		if _, ok := ids[n]; ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, r.d.insertBank, n); err != nil {
			return nil, fmt.Errorf("bank %q: %w", n, err)
		}
		var id int64
		if err := tx.QueryRowContext(ctx, selectBankIDSQL, n).Scan(&id); err != nil {
			return nil, fmt.Errorf("bank %q: %w", n, err)
		}
		ids[n] = id
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertReviews appends every review in multi-row batches inside one
// transaction. A review whose bank has no id fails the whole load.
func (r *Repo) InsertReviews(ctx context.Context, bankIDs map[string]int64, rs []domain.ScoredReview) (int, error) {
	if len(rs) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	for start := 0; start < len(rs); start += insertBatch {
		end := start + insertBatch
		if end > len(rs) {
			end = len(rs)
		}
		values := make([]string, 0, end-start)
		args := make([]any, 0, (end-start)*8)
		for _, rv := range rs[start:end] {
			id, ok := bankIDs[rv.Bank]
			if !ok {
				return 0, fmt.Errorf("no bank id for %q", rv.Bank)
			}
			var score any
			if rv.SentimentLabel != "" {
				score = rv.SentimentScore
			}
			values = append(values, "(?,?,?,?,?,?,?,?)")
			args = append(args,
				id,
				rv.Text,
				rv.Rating,
				rv.DateString(),
				valStr(rv.Source),
				valStr(string(rv.SentimentLabel)),
				score,
				valStr(rv.Theme),
			)
		}
		if _, err := tx.ExecContext(ctx, insertReviewsPrefix+strings.Join(values, ","), args...); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(rs), nil
}

func (r *Repo) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	rows, err := r.db.QueryContext(ctx, listBanksSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Bank{}
	for rows.Next() {
		var b domain.Bank
		if err := rows.Scan(&b.ID, &b.Name, &b.ReviewCount); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListReviews returns the newest reviews of one bank by default. An unknown
// bank is domain.ErrNotFound; an unknown sort key falls back to the default.
func (r *Repo) ListReviews(ctx context.Context, bank string, pg domain.PageQuery) (domain.ReviewsPage, error) {
	var bankID int64
	if err := r.db.QueryRowContext(ctx, selectBankIDSQL, bank).Scan(&bankID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ReviewsPage{}, domain.ErrNotFound
		}
		return domain.ReviewsPage{}, err
	}

	limit := pg.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	order, ok := reviewOrders[pg.Sort]
	if !ok {
		order = reviewOrders[defaultSort]
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(listReviewsSQL, order), bank, limit)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	defer rows.Close()

	out := []domain.StoredReview{}
	for rows.Next() {
		var (
			rv     domain.StoredReview
			text   sql.NullString
			rating sql.NullInt64
			date   dateValue
			source sql.NullString
			label  sql.NullString
			score  sql.NullFloat64
			theme  sql.NullString
		)
		if err := rows.Scan(&rv.ID, &rv.Bank, &text, &rating, &date, &source, &label, &score, &theme); err != nil {
			return domain.ReviewsPage{}, err
		}
		rv.Text = text.String
		rv.Rating = int(rating.Int64)
		rv.Date = string(date)
		rv.Source = source.String
		if label.Valid {
			s := label.String
			rv.SentimentLabel = &s
		}
		if score.Valid {
			f := score.Float64
			rv.SentimentScore = &f
		}
		if theme.Valid {
			s := theme.String
			rv.Theme = &s
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return domain.ReviewsPage{}, err
	}
	return domain.ReviewsPage{Items: out}, nil
}

// SentimentSummary is the (bank, rating) mean of stored sentiment scores.
func (r *Repo) SentimentSummary(ctx context.Context) ([]domain.SentimentAggregate, error) {
	rows, err := r.db.QueryContext(ctx, sentimentSummarySQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.SentimentAggregate{}
	for rows.Next() {
		var a domain.SentimentAggregate
		var rating sql.NullInt64
		if err := rows.Scan(&a.Bank, &rating, &a.MeanScore, &a.Count); err != nil {
			return nil, err
		}
		a.Rating = int(rating.Int64)
		out = append(out, a)
	}
	return out, rows.Err()
}

// dateValue scans a DATE column whichever way the driver returns it.
type dateValue string

func (d *dateValue) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = dateValue(v.UTC().Format(domain.DateLayout))
	case []byte:
		*d = dateValue(trimDate(string(v)))
	case string:
		*d = dateValue(trimDate(v))
	default:
		return fmt.Errorf("unsupported date type %T", src)
	}
	return nil
}

func trimDate(s string) string {
	if len(s) > len(domain.DateLayout) {
		return s[:len(domain.DateLayout)]
	}
	return s
}
