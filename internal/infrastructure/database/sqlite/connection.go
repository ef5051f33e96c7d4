// Package sqlite provides read-only SQLite-backed repository implementations
// over the patent and CORDIS project stores. Every exported store opens its
// own connection pool against an existing, externally populated database
// file. The only writes this package makes to the patent or project
// schemas come from Migrate, which applies the embedded schema.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/KingdaKilla/ti-radar/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Constants for connection configuration
// ─────────────────────────────────────────────────────────────────────────────

const (
	// defaultMaxOpenConns bounds concurrent readers against one file; SQLite
	// serializes writers but tolerates many concurrent readers in WAL mode.
	defaultMaxOpenConns = 10

	// defaultConnMaxLifetime recycles connections periodically so a long-lived
	// process picks up external VACUUM/checkpoint changes to the file.
	defaultConnMaxLifetime = 30 * time.Minute

	pingTimeout = 5 * time.Second
)

// Open opens a read-only connection pool against the SQLite file at path.
// The DSN forces WAL-friendly read-only mode and a busy timeout so readers
// never block on an in-progress bulk import.
func Open(path string, logger logging.Logger) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000&cache=shared", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", path, err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database %q: %w", path, err)
	}

	logger.Info("sqlite store opened", logging.String("path", path))
	return db, nil
}

// HealthCheck verifies the database is reachable with a trivial query.
func HealthCheck(ctx context.Context, db *sql.DB) error {
	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("health check query failed: %w", err)
	}
	if result != 1 {
		return fmt.Errorf("health check returned unexpected value: %d", result)
	}
	return nil
}

// TableExists reports whether a table with the given name is present in the
// database's schema, used to select between a normalized join path and a
// denormalized fallback.
func TableExists(ctx context.Context, db *sql.DB, name string) bool {
	var found string
	err := db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name = ?`, name,
	).Scan(&found)
	return err == nil
}

// sanitizeFTSQuery wraps a free-text keyword in double quotes, doubling any
// embedded quote characters, so that hyphens, slashes, and colons in the
// technology term are treated as literal text rather than FTS5 query syntax.
func sanitizeFTSQuery(keyword string) string {
	escaped := strings.ReplaceAll(keyword, `"`, `""`)
	return fmt.Sprintf(`"%s"`, escaped)
}

// sanitizeFTSPrefixQuery quotes keyword the same way as sanitizeFTSQuery and
// appends FTS5's "*" prefix operator, so a partial term like "quant" matches
// "quantum computing" rather than requiring an exact token.
func sanitizeFTSPrefixQuery(keyword string) string {
	escaped := strings.ReplaceAll(keyword, `"`, `""`)
	return fmt.Sprintf(`"%s"*`, escaped)
}

// queryExecutor abstracts *sql.DB and *sql.Tx for helpers shared across
// stores.
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}
