package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/udisondev/smartregions/internal/config"
	"github.com/udisondev/smartregions/internal/db"
	"github.com/udisondev/smartregions/internal/trigger"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Import the legacy config.txt into the definition store and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runMigrate(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}

func runMigrate(ctx context.Context, cfg config.Server, out io.Writer) error {
	if _, err := os.Stat(cfg.LegacyFile()); err != nil {
		fmt.Fprintf(out, "nothing to migrate: %s not found\n", cfg.LegacyFile())
		return nil
	}

	store, err := db.Open(ctx, cfg.Database, cfg.SavePath)
	if err != nil {
		return fmt.Errorf("opening definition store: %w", err)
	}
	defer store.Close()

	n, err := trigger.MigrateLegacy(ctx, store, cfg.LegacyFile(), cfg.MigrationConcurrency)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "migrated %d definitions from %s\n", n, cfg.LegacyFile())
	return nil
}
