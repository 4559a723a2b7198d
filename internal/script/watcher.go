package script

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher feeds filesystem changes in the script directory into a Table.
type Watcher struct {
	dir   string
	table *Table
}

// NewWatcher creates a watcher for table's directory.
func NewWatcher(table *Table) *Watcher {
	return &Watcher{dir: table.dir, table: table}
}

// Run watches the directory until ctx is canceled. Watch errors are logged
// and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating script watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	slog.Info("script watcher started", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			slog.Info("script watcher stopping")
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if err := w.handle(ctx, ev); err != nil {
				return err
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("script watcher error", "dir", w.dir, "error", err)
		}
	}
}

// handle maps one fsnotify event to a table reload.
// Create/Write re-read the file; Remove drops the entry; Rename reports the
// old name (dropped) and the new name arrives as a separate Create.
func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) error {
	name, ok := scriptName(ev.Name)
	if !ok || !w.table.scriptFile(name) {
		return nil
	}

	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return nil
	}

	slog.Debug("script file event", "name", name, "op", ev.Op.String())
	return w.table.Reload(ctx, name)
}

// scriptName returns the trigger name for a script path.
func scriptName(path string) (string, bool) {
	base := filepath.Base(path)
	if filepath.Ext(base) != Ext {
		return "", false
	}
	name := strings.TrimSuffix(base, Ext)
	if name == "" {
		return "", false
	}
	return name, true
}
