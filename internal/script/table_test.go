package script

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/smartregions/internal/testutil"
)

// startTable runs the table owner goroutine for the duration of the test.
func startTable(t *testing.T, dir string) *Table {
	t.Helper()
	tbl := NewTable(dir)
	testutil.RunBackground(t, tbl.Run)
	return tbl
}

func writeScript(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+Ext), []byte(content), 0o644))
}

func TestParseLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseLines("a\r\nb\r\n"))
	assert.Equal(t, []string{"/heal [PLAYERNAME]", "  /announce hi"}, ParseLines("/heal [PLAYERNAME]\n\n   \n  /announce hi"))
	assert.Nil(t, ParseLines(""))
}

func TestTable_InitialScan(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "spawn", "/heal [PLAYERNAME]\n/announce welcome\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0o644))

	tbl := startTable(t, dir)
	require.NoError(t, tbl.Flush(testutil.ContextWithTimeout(t, 5*time.Second)))

	lines, ok := tbl.Lines("spawn")
	require.True(t, ok)
	assert.Equal(t, []string{"/heal [PLAYERNAME]", "/announce welcome"}, lines)
	assert.Equal(t, 1, tbl.Len())
}

func TestTable_ReloadTracksFileContent(t *testing.T) {
	dir := t.TempDir()
	tbl := startTable(t, dir)
	ctx := testutil.ContextWithTimeout(t, 5*time.Second)

	writeScript(t, dir, "foo", "a\nb\n")
	require.NoError(t, tbl.Reload(ctx, "foo"))
	require.NoError(t, tbl.Flush(ctx))
	lines, ok := tbl.Lines("foo")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, lines)

	writeScript(t, dir, "foo", "c\n")
	require.NoError(t, tbl.Reload(ctx, "foo"))
	require.NoError(t, tbl.Flush(ctx))
	lines, _ = tbl.Lines("foo")
	assert.Equal(t, []string{"c"}, lines)

	require.NoError(t, os.Remove(filepath.Join(dir, "foo"+Ext)))
	require.NoError(t, tbl.Reload(ctx, "foo"))
	require.NoError(t, tbl.Flush(ctx))
	_, ok = tbl.Lines("foo")
	assert.False(t, ok)
}

func TestTable_SeedPrefersFile(t *testing.T) {
	dir := t.TempDir()
	tbl := startTable(t, dir)
	ctx := testutil.ContextWithTimeout(t, 5*time.Second)

	require.NoError(t, tbl.Seed(ctx, "inline", "/heal [PLAYERNAME]"))
	lines, ok := tbl.Lines("inline")
	require.True(t, ok)
	assert.Equal(t, []string{"/heal [PLAYERNAME]"}, lines)

	writeScript(t, dir, "scripted", "/a\n/b\n")
	require.NoError(t, tbl.Seed(ctx, "scripted", "/ignored"))
	lines, _ = tbl.Lines("scripted")
	assert.Equal(t, []string{"/a", "/b"}, lines)

	require.NoError(t, tbl.Seed(ctx, "../escape", "/inline"))
	lines, _ = tbl.Lines("../escape")
	assert.Equal(t, []string{"/inline"}, lines, "names with path separators never touch the filesystem")
}

func TestTable_SnapshotsAreImmutable(t *testing.T) {
	dir := t.TempDir()
	tbl := startTable(t, dir)
	ctx := testutil.ContextWithTimeout(t, 5*time.Second)

	require.NoError(t, tbl.Seed(ctx, "a", "/one"))
	before, _ := tbl.Lines("a")

	require.NoError(t, tbl.Seed(ctx, "a", "/two"))
	after, _ := tbl.Lines("a")

	assert.Equal(t, []string{"/one"}, before, "reader keeps the entry it loaded")
	assert.Equal(t, []string{"/two"}, after)
}

func TestTable_SendRespectsContext(t *testing.T) {
	tbl := NewTable(t.TempDir()) // owner goroutine not running
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, tbl.Seed(ctx, "a", "/x"), context.DeadlineExceeded)
}

func TestTable_IgnoredFilesAreNotScripts(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "config", "spawn\n/heal\n0\n")
	writeScript(t, dir, "spawn", "/heal\n")

	tbl := NewTable(dir, filepath.Join(dir, "config"+Ext))
	testutil.RunBackground(t, tbl.Run)
	ctx := testutil.ContextWithTimeout(t, 5*time.Second)
	require.NoError(t, tbl.Flush(ctx))

	_, ok := tbl.Lines("config")
	assert.False(t, ok)
	assert.False(t, tbl.HasFile("config"))
	assert.True(t, tbl.HasFile("spawn"))

	require.NoError(t, tbl.Seed(ctx, "config", "/announce hi"))
	lines, _ := tbl.Lines("config")
	assert.Equal(t, []string{"/announce hi"}, lines)
}

// Run with -race: readers only ever observe a whole entry while the owner
// alternates it between the inline and the file version.
func TestTable_ConcurrentReadersSeeWholeEntries(t *testing.T) {
	dir := t.TempDir()
	tbl := startTable(t, dir)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	inline := []string{"/inline"}
	file := []string{"/a1", "/a2"}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for range 4 {
		wg.Go(func() {
			for {
				select {
				case <-stop:
					return
				default:
				}
				lines, ok := tbl.Lines("x")
				if !ok {
					continue
				}
				if !assert.ObjectsAreEqual(inline, lines) && !assert.ObjectsAreEqual(file, lines) {
					assert.Fail(t, "torn entry", "%v", lines)
					return
				}
			}
		})
	}

	stopAll := sync.OnceFunc(func() {
		close(stop)
		wg.Wait()
	})
	defer stopAll()

	path := filepath.Join(dir, "x"+Ext)
	for range 200 {
		require.NoError(t, tbl.Seed(ctx, "x", "/inline"))
		require.NoError(t, os.WriteFile(path, []byte("/a1\n/a2\n"), 0o644))
		require.NoError(t, tbl.Reload(ctx, "x"))
		require.NoError(t, tbl.Flush(ctx))
		require.NoError(t, os.Remove(path))
	}
}
