package db

import (
	"context"
	"fmt"

	"github.com/udisondev/smartregions/internal/config"
	"github.com/udisondev/smartregions/internal/model"
)

// Store is the durable keyed store of trigger definitions.
// Upsert and Delete are keyed by Definition.Name; deleting a missing name
// is not an error.
type Store interface {
	ListAll(ctx context.Context) ([]model.Definition, error)
	Upsert(ctx context.Context, def model.Definition) error
	Delete(ctx context.Context, name string) error
	Close() error
}

// Open connects to the configured backend and applies migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig, savePath string) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN())
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath(savePath))
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
