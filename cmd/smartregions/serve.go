package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/smartregions/internal/admin"
	"github.com/udisondev/smartregions/internal/admin/commands"
	"github.com/udisondev/smartregions/internal/config"
	"github.com/udisondev/smartregions/internal/db"
	"github.com/udisondev/smartregions/internal/script"
	"github.com/udisondev/smartregions/internal/session"
	"github.com/udisondev/smartregions/internal/trigger"
	"github.com/udisondev/smartregions/internal/zone"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the trigger engine with an operator console on stdin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, os.Stdin, os.Stdout)
		},
	}
}

func runServe(ctx context.Context, cfg config.Server, in io.Reader, out io.Writer) error {
	// Миграция только для существующей установки.
	_, statErr := os.Stat(cfg.SavePath)
	existed := statErr == nil
	if err := os.MkdirAll(cfg.SavePath, 0o755); err != nil {
		return fmt.Errorf("creating save path: %w", err)
	}

	store, err := db.Open(ctx, cfg.Database, cfg.SavePath)
	if err != nil {
		return fmt.Errorf("opening definition store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("closing definition store", "err", err)
		}
	}()

	if existed {
		if _, err := trigger.MigrateLegacy(ctx, store, cfg.LegacyFile(), cfg.MigrationConcurrency); err != nil {
			slog.Error("legacy migration failed, will retry on next start", "err", err)
		}
	}

	regions, err := zone.LoadFile(cfg.RegionsFile)
	if err != nil {
		return fmt.Errorf("loading regions: %w", err)
	}
	geo := zone.NewManager(regions...)

	sessions := session.NewManager(cfg.MaxPlayers)
	handler := admin.NewHandler()
	table := script.NewTable(cfg.ScriptsDir(), cfg.LegacyFile())

	engine := trigger.NewEngine(trigger.Options{
		Geometry:     geo,
		Store:        store,
		Scripts:      table,
		Dispatcher:   handler,
		Permissions:  handler,
		Players:      sessions,
		MaxPlayers:   cfg.MaxPlayers,
		ListPageSize: cfg.ListPageSize,
		TickInterval: cfg.TickInterval(),
	})
	sessions.OnConnect(engine.OnConnect)
	sessions.OnDisconnect(engine.OnDisconnect)

	// gctx отменяется и по сигналу, и при падении любой горутины группы.
	g, gctx := errgroup.WithContext(ctx)
	commands.RegisterAll(gctx, handler, sessions, engine, geo)
	slog.Info("commands registered", "aliases", handler.CommandCount())

	if err := engine.Load(ctx); err != nil {
		return err
	}

	g.Go(func() error { return table.Run(gctx) })
	g.Go(func() error { return script.NewWatcher(table).Run(gctx) })
	g.Go(func() error { return engine.Run(gctx) })
	g.Go(func() error { return runConsole(gctx, handler, admin.NewConsole(out), in) })

	slog.Info("smartregions started",
		"regions", geo.Len(),
		"triggers", engine.Len(),
		"max_players", cfg.MaxPlayers)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Info("smartregions stopped")
	return nil
}
