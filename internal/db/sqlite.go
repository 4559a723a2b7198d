package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/udisondev/smartregions/internal/db/migrations"
	"github.com/udisondev/smartregions/internal/model"
)

// SQLiteStore реализует Store поверх одного файла SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database file and runs migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// Один writer: SQLite сериализует записи, лишние соединения дают SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000;",
		"PRAGMA journal_mode = WAL;",
	}
	for _, pragma := range pragmas {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	if err := migrate(ctx, sqlDB, "sqlite3", migrations.SQLiteDir); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &SQLiteStore{db: sqlDB}, nil
}

// ListAll loads every definition.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]model.Definition, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, command, cooldown FROM regions`)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()

	var result []model.Definition
	for rows.Next() {
		var def model.Definition
		if err := rows.Scan(&def.Name, &def.Command, &def.Cooldown); err != nil {
			return nil, fmt.Errorf("scan regions: %w", err)
		}
		result = append(result, def)
	}
	return result, rows.Err()
}

// Upsert inserts or replaces a definition.
func (s *SQLiteStore) Upsert(ctx context.Context, def model.Definition) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO regions (name, command, cooldown)
		 VALUES (?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET
		   command  = excluded.command,
		   cooldown = excluded.cooldown`,
		def.Name, def.Command, def.Cooldown)
	if err != nil {
		return fmt.Errorf("upsert region %q: %w", def.Name, err)
	}
	return nil
}

// Delete removes a definition by name.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM regions WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete region %q: %w", name, err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
