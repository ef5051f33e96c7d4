package sqlite

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/patents/*.sql
var patentMigrations embed.FS

//go:embed migrations/cordis/*.sql
var cordisMigrations embed.FS

//go:embed migrations/gleif/*.sql
var gleifMigrations embed.FS

// StoreKind identifies which of the three local SQLite stores a migration
// targets; each carries its own embedded schema under migrations/.
type StoreKind string

const (
	StorePatents    StoreKind = "patents"
	StoreCordis     StoreKind = "cordis"
	StoreGleifCache StoreKind = "gleif"
)

func (k StoreKind) migrationSource() (embed.FS, string, error) {
	switch k {
	case StorePatents:
		return patentMigrations, "migrations/patents", nil
	case StoreCordis:
		return cordisMigrations, "migrations/cordis", nil
	case StoreGleifCache:
		return gleifMigrations, "migrations/gleif", nil
	default:
		return embed.FS{}, "", fmt.Errorf("sqlite: unknown store kind %q", k)
	}
}

// Migrate applies the embedded schema for kind to the SQLite file at path,
// creating the file if it does not already exist. It is idempotent: running
// it again against an already-migrated file is a no-op.
func Migrate(kind StoreKind, path string) error {
	fsys, sub, err := kind.migrationSource()
	if err != nil {
		return err
	}

	src, err := iofs.New(fsys, sub)
	if err != nil {
		return fmt.Errorf("sqlite: load embedded migrations for %q: %w", kind, err)
	}

	dsn := fmt.Sprintf("sqlite3://%s?_busy_timeout=5000", path)
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("sqlite: open migration runner for %q: %w", kind, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("sqlite: apply migrations for %q: %w", kind, err)
	}
	return nil
}
