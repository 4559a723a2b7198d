package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Database drivers supported by the definition store.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Server holds all configuration for the smartregions server.
type Server struct {
	LogLevel string `yaml:"log_level"`

	// SavePath holds trigger scripts, the sqlite database and the legacy config.txt.
	SavePath    string `yaml:"save_path"`
	RegionsFile string `yaml:"regions_file"`

	// Simulation
	TickRate   int `yaml:"tick_rate"` // ticks per second
	MaxPlayers int `yaml:"max_players"`

	// Admin surface
	ListPageSize int `yaml:"list_page_size"`

	// Legacy migration
	MigrationConcurrency int `yaml:"migration_concurrency"`

	// Database
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig selects and parameterizes the definition store backend.
type DatabaseConfig struct {
	Driver     string `yaml:"driver"`      // "sqlite" or "postgres"
	SQLiteFile string `yaml:"sqlite_file"` // relative to SavePath unless absolute

	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// SQLitePath resolves the sqlite database file against savePath.
func (d DatabaseConfig) SQLitePath(savePath string) string {
	if filepath.IsAbs(d.SQLiteFile) {
		return d.SQLiteFile
	}
	return filepath.Join(savePath, d.SQLiteFile)
}

// TickInterval returns the duration of one simulation tick.
func (s Server) TickInterval() time.Duration {
	if s.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(s.TickRate)
}

// ScriptsDir is the directory watched for <trigger>.txt scripts.
func (s Server) ScriptsDir() string { return s.SavePath }

// LegacyFile is the flat-file definition store replaced by the database.
func (s Server) LegacyFile() string { return filepath.Join(s.SavePath, "config.txt") }

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		LogLevel:             "info",
		SavePath:             "./data/SmartRegions",
		RegionsFile:          "./config/regions.yaml",
		TickRate:             60,
		MaxPlayers:           255,
		ListPageSize:         10,
		MigrationConcurrency: 4,
		Database: DatabaseConfig{
			Driver:     DriverSQLite,
			SQLiteFile: "SmartRegions.sqlite",
			Host:       "127.0.0.1",
			Port:       5432,
			User:       "smartregions",
			Password:   "smartregions",
			DBName:     "smartregions",
			SSLMode:    "disable",
		},
	}
}

// Validate checks values that cannot be defaulted silently.
func (s Server) Validate() error {
	switch s.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver %q", s.Database.Driver)
	}
	if s.MaxPlayers <= 0 {
		return fmt.Errorf("max_players must be positive, got %d", s.MaxPlayers)
	}
	if s.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %d", s.TickRate)
	}
	if s.ListPageSize <= 0 {
		return fmt.Errorf("list_page_size must be positive, got %d", s.ListPageSize)
	}
	if s.MigrationConcurrency <= 0 {
		return fmt.Errorf("migration_concurrency must be positive, got %d", s.MigrationConcurrency)
	}
	return nil
}

// LoadServer loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
