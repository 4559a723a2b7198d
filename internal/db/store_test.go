package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/smartregions/internal/config"
	"github.com/udisondev/smartregions/internal/model"
	"github.com/udisondev/smartregions/internal/testutil"
)

// exerciseStore checks the keyed CRUD contract shared by all backends.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	defs, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, defs)

	spawn := model.Definition{Name: "spawn", Command: "/heal [PLAYERNAME]", Cooldown: 5}
	require.NoError(t, s.Upsert(ctx, spawn))

	defs, err = s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, spawn, defs[0])

	// Upsert по тому же ключу заменяет запись.
	spawn.Command = "/announce welcome"
	spawn.Cooldown = 2.5
	require.NoError(t, s.Upsert(ctx, spawn))

	defs, err = s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, spawn, defs[0])

	arena := model.Definition{Name: "~arena", Command: "/kick [PLAYERNAME]", Cooldown: 0}
	require.NoError(t, s.Upsert(ctx, arena))

	require.NoError(t, s.Delete(ctx, "spawn"))
	defs, err = s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, arena, defs[0])

	assert.NoError(t, s.Delete(ctx, "missing"), "deleting an unknown name is not an error")
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "nested", "SmartRegions.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "SmartRegions.sqlite")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Upsert(ctx, model.Definition{Name: "spawn", Command: "/heal", Cooldown: 1}))
	require.NoError(t, s.Close())

	// Migrations are idempotent on an existing file.
	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	defs, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Definition{{Name: "spawn", Command: "/heal", Cooldown: 1}}, defs)
}

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultServer()
	cfg.SavePath = t.TempDir()

	s, err := Open(ctx, cfg.Database, cfg.SavePath)
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &SQLiteStore{}, s)

	cfg.Database.Driver = "mysql"
	_, err = Open(ctx, cfg.Database, cfg.SavePath)
	assert.Error(t, err)
}

func TestPostgresStore(t *testing.T) {
	dsn := testutil.SetupPostgres(t)

	s, err := OpenPostgres(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)
}
