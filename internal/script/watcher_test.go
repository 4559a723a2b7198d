package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/smartregions/internal/testutil"
)

func startWatcher(t *testing.T, tbl *Table) {
	t.Helper()
	testutil.RunBackground(t, NewWatcher(tbl).Run)
	// fsnotify регистрирует каталог асинхронно относительно горутины.
	time.Sleep(50 * time.Millisecond)
}

func eventuallyLines(t *testing.T, tbl *Table, name string, want []string) {
	t.Helper()
	require.Eventually(t, func() bool {
		got, ok := tbl.Lines(name)
		return ok && assert.ObjectsAreEqual(want, got)
	}, 3*time.Second, 10*time.Millisecond, "script %q never became %v", name, want)
}

func TestWatcher_CreateModifyDelete(t *testing.T) {
	dir := t.TempDir()
	tbl := startTable(t, dir)
	startWatcher(t, tbl)

	path := filepath.Join(dir, "foo"+Ext)

	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o644))
	eventuallyLines(t, tbl, "foo", []string{"a", "b"})

	require.NoError(t, os.WriteFile(path, []byte("c\n"), 0o644))
	eventuallyLines(t, tbl, "foo", []string{"c"})

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		_, ok := tbl.Lines("foo")
		return !ok
	}, 3*time.Second, 10*time.Millisecond)
}

func TestWatcher_Rename(t *testing.T) {
	dir := t.TempDir()
	tbl := startTable(t, dir)
	startWatcher(t, tbl)

	oldPath := filepath.Join(dir, "old"+Ext)
	require.NoError(t, os.WriteFile(oldPath, []byte("/heal\n"), 0o644))
	eventuallyLines(t, tbl, "old", []string{"/heal"})

	require.NoError(t, os.Rename(oldPath, filepath.Join(dir, "new"+Ext)))
	eventuallyLines(t, tbl, "new", []string{"/heal"})
	require.Eventually(t, func() bool {
		_, ok := tbl.Lines("old")
		return !ok
	}, 3*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	tbl := startTable(t, dir)
	startWatcher(t, tbl)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo.bak"), []byte("x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bar"+Ext), []byte("y\n"), 0o644))
	eventuallyLines(t, tbl, "bar", []string{"y"})

	_, ok := tbl.Lines("foo")
	assert.False(t, ok)
}

func TestScriptName(t *testing.T) {
	name, ok := scriptName("/srv/SmartRegions/spawn.txt")
	assert.True(t, ok)
	assert.Equal(t, "spawn", name)

	_, ok = scriptName("/srv/SmartRegions/spawn.sqlite")
	assert.False(t, ok)
	_, ok = scriptName("/srv/SmartRegions/.txt")
	assert.False(t, ok)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	tbl := NewTable(filepath.Join(t.TempDir(), "missing"))
	err := NewWatcher(tbl).Run(context.Background())
	assert.Error(t, err)
}

func TestWatcher_IgnoresLegacyFile(t *testing.T) {
	dir := t.TempDir()
	tbl := NewTable(dir, "config"+Ext)
	testutil.RunBackground(t, tbl.Run)
	startWatcher(t, tbl)

	writeScript(t, dir, "config", "spawn\n/heal\n0\n")
	writeScript(t, dir, "bar", "y\n")
	eventuallyLines(t, tbl, "bar", []string{"y"})

	_, ok := tbl.Lines("config")
	assert.False(t, ok)
}
