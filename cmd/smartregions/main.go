package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/udisondev/smartregions/internal/config"
)

// DefaultConfigPath is used when neither --config nor SMARTREGIONS_CONFIG is set.
const DefaultConfigPath = "config/smartregions.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var configPath string
	root := &cobra.Command{
		Use:          "smartregions",
		Short:        "Runs commands when players enter trigger regions",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config (env SMARTREGIONS_CONFIG)")
	root.AddCommand(serveCmd(&configPath))
	root.AddCommand(migrateCmd(&configPath))

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

// loadConfig resolves the config path, loads it and configures slog.
func loadConfig(flagPath string) (config.Server, error) {
	path := flagPath
	if path == "" {
		path = DefaultConfigPath
		if p := os.Getenv("SMARTREGIONS_CONFIG"); p != "" {
			path = p
		}
	}

	cfg, err := config.LoadServer(path)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("config loaded",
		"path", path,
		"save_path", cfg.SavePath,
		"driver", cfg.Database.Driver,
		"tick_rate", cfg.TickRate)
	return cfg, nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
