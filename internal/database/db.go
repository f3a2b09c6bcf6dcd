package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"todolist/internal/config"
	"todolist/pkg/logger"
)

// Dialect names the SQL flavour behind a DB.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// DB is a connection pool plus the dialect needed to phrase queries for it.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the store named by cfg.DatabaseURL. A postgres:// URL selects
// lib/pq; anything else is a SQLite file path, created if absent.
func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	dialect, dsn := parseURL(cfg.DatabaseURL)
	switch dialect {
	case Postgres:
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		db.SetMaxOpenConns(cfg.DBPoolSize)
		db.SetMaxIdleConns(max(cfg.DBPoolSize/2, 1))
		logger.Info(ctx, "Database pool initialized", "driver", "postgres", "max_open", cfg.DBPoolSize)
		return &DB{DB: db, Dialect: Postgres}, nil
	default:
		return OpenSQLite(ctx, dsn)
	}
}

// OpenSQLite opens (creating if needed) a SQLite database file.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite doesn't handle multiple writers well
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)
	logger.Info(ctx, "Database opened", "driver", "sqlite", "path", path)
	return &DB{DB: db, Dialect: SQLite}, nil
}

func parseURL(raw string) (Dialect, string) {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return Postgres, raw
	}
	path := raw
	switch {
	case strings.HasPrefix(path, "sqlite:///"):
		path = strings.TrimPrefix(path, "sqlite:///")
	case strings.HasPrefix(path, "sqlite://"):
		path = strings.TrimPrefix(path, "sqlite://")
	case strings.HasPrefix(path, "sqlite:"):
		path = strings.TrimPrefix(path, "sqlite:")
	}
	if path == "" {
		path = "sql_app.db"
	}
	return SQLite, path
}

var schema = map[Dialect]string{
	SQLite: `CREATE TABLE IF NOT EXISTS todoitem (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		completed BOOLEAN NOT NULL DEFAULT 0,
		priority VARCHAR(50),
		due_date TEXT
	)`,
	Postgres: `CREATE TABLE IF NOT EXISTS todoitem (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		priority VARCHAR(50),
		due_date DATE
	)`,
}

// MigrateOrCreateSchema creates the todoitem table if it does not exist.
func (db *DB) MigrateOrCreateSchema(ctx context.Context) error {
	logger.Debug(ctx, "Creating database tables if missing")
	if _, err := db.ExecContext(ctx, schema[db.Dialect]); err != nil {
		return fmt.Errorf("creating todoitem table: %w", err)
	}
	return nil
}

// Rebind rewrites `?` placeholders into the dialect's form.
func (db *DB) Rebind(query string) string {
	if db.Dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
