package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/smartregions/internal/model"
)

// PostgresStore реализует Store для PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to PostgreSQL, runs migrations and returns a store.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := RunMigrations(ctx, dsn); err != nil {
		pool.Close()
		return nil, err
	}

	return NewPostgresStore(pool), nil
}

// NewPostgresStore wraps an already migrated pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ListAll loads every definition.
func (s *PostgresStore) ListAll(ctx context.Context) ([]model.Definition, error) {
	rows, err := s.pool.Query(ctx, `SELECT name, command, cooldown FROM regions`)
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
func (s *PostgresStore) Upsert(ctx context.Context, def model.Definition) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO regions (name, command, cooldown)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET
		   command  = EXCLUDED.command,
		   cooldown = EXCLUDED.cooldown`,
		def.Name, def.Command, def.Cooldown)
	if err != nil {
		return fmt.Errorf("upsert region %q: %w", def.Name, err)
	}
	return nil
}

// Delete removes a definition by name.
func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM regions WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete region %q: %w", name, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
