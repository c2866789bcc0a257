package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"bank_reviews/internal/shared"
)

// Open connects to the engine named by cfg.DBDriver and pings it.
func Open(ctx context.Context, cfg shared.Config) (*Repo, *sql.DB, error) {
	switch cfg.DBDriver {
	case "mysql", "":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
		if err := ping(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("mysql: %w", err)
		}
		log.Info().Str("driver", "mysql").Msg("database connected")
		return NewMySQL(db), db, nil
	case "sqlite":
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := ping(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		log.Info().Str("driver", "sqlite").Str("path", cfg.SQLitePath).Msg("database connected")
		return NewSQLite(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

// OpenSQLite opens a database file (":memory:" for a private in-memory one)
// with foreign keys on and a single connection, which SQLite needs for
// in-memory databases and serialised writes.
func OpenSQLite(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
