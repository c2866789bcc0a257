package storage

// dialect carries the statements that differ between engines. Everything
// else uses `?` placeholders understood by both drivers.
type dialect struct {
	name       string
	schema     []string
	insertBank string // must not fail on an existing bank_name
}

var mysqlDialect = dialect{
	name: "mysql",
	schema: []string{`
CREATE TABLE IF NOT EXISTS banks (
  bank_id   BIGINT AUTO_INCREMENT PRIMARY KEY,
  bank_name VARCHAR(255) NOT NULL,
  UNIQUE KEY uq_banks_name (bank_name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`, `
CREATE TABLE IF NOT EXISTS reviews (
  review_id       BIGINT AUTO_INCREMENT PRIMARY KEY,
  bank_id         BIGINT NOT NULL,
  review          TEXT,
  rating          INT,
  review_date     DATE,
  source          VARCHAR(100),
  sentiment_label VARCHAR(50),
  sentiment_score DOUBLE,
  theme           VARCHAR(100),
  KEY idx_reviews_bank_date (bank_id, review_date),
  CONSTRAINT fk_reviews_bank FOREIGN KEY (bank_id) REFERENCES banks (bank_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
	insertBank: `INSERT INTO banks (bank_name) VALUES (?) ON DUPLICATE KEY UPDATE bank_name = bank_name`,
}

// review_date is TEXT on SQLite so the driver hands it back verbatim.
var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{`
CREATE TABLE IF NOT EXISTS banks (
  bank_id   INTEGER PRIMARY KEY AUTOINCREMENT,
  bank_name TEXT NOT NULL UNIQUE
)`, `
CREATE TABLE IF NOT EXISTS reviews (
  review_id       INTEGER PRIMARY KEY AUTOINCREMENT,
  bank_id         INTEGER NOT NULL REFERENCES banks (bank_id),
  review          TEXT,
  rating          INTEGER,
  review_date     TEXT,
  source          TEXT,
  sentiment_label TEXT,
  sentiment_score REAL,
  theme           TEXT
)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_bank_date ON reviews (bank_id, review_date)`,
	},
	insertBank: `INSERT INTO banks (bank_name) VALUES (?) ON CONFLICT (bank_name) DO NOTHING`,
}

const selectBankIDSQL = `SELECT bank_id FROM banks WHERE bank_name = ?`

const insertReviewsPrefix = "INSERT INTO reviews\n  (bank_id, review, rating, review_date, source, sentiment_label, sentiment_score, theme)\nVALUES "

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const listBanksSQL = `
SELECT b.bank_id, b.bank_name, COUNT(r.review_id)
FROM banks b
LEFT JOIN reviews r ON r.bank_id = b.bank_id
GROUP BY b.bank_id, b.bank_name
ORDER BY b.bank_name
`

// %s is replaced by a whitelisted ORDER BY clause.
const listReviewsSQL = `
SELECT r.review_id, b.bank_name, r.review, r.rating, r.review_date, r.source,
       r.sentiment_label, r.sentiment_score, r.theme
FROM reviews r
JOIN banks b ON b.bank_id = r.bank_id
WHERE b.bank_name = ?
ORDER BY %s
LIMIT ?
`

const sentimentSummarySQL = `
SELECT b.bank_name, r.rating, AVG(r.sentiment_score), COUNT(*)
FROM reviews r
JOIN banks b ON b.bank_id = r.bank_id
WHERE r.sentiment_score IS NOT NULL
GROUP BY b.bank_name, r.rating
ORDER BY b.bank_name, r.rating
`

var reviewOrders = map[string]string{
	"review_date":      "r.review_date ASC, r.review_id ASC",
	"-review_date":     "r.review_date DESC, r.review_id DESC",
	"rating":           "r.rating ASC, r.review_id ASC",
	"-rating":          "r.rating DESC, r.review_id DESC",
	"sentiment_score":  "r.sentiment_score ASC, r.review_id ASC",
	"-sentiment_score": "r.sentiment_score DESC, r.review_id DESC",
}
