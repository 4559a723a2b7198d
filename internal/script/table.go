// Package script keeps trigger command scripts in memory and in sync with
// <trigger>.txt files on disk.
package script

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// Ext is the extension of script files.
const Ext = ".txt"

type eventKind uint8

const (
	eventReload eventKind = iota // re-read <name>.txt, drop the entry if missing
	eventSeed                    // file content if present, otherwise inline
	eventFlush                   // no-op barrier, used by tests
)

type event struct {
	kind   eventKind
	name   string
	inline string
	done   chan struct{}
}

// Table maps trigger name → ordered command lines.
//
// All mutations are applied by the single goroutine running Run; readers
// load an immutable snapshot without locking. A reader always sees a whole
// entry, old or new, but two entries read in sequence may come from
// different snapshots.
type Table struct {
	dir    string
	ignore map[string]bool
	snap   atomic.Pointer[map[string][]string]
	events chan event
}

// NewTable creates an empty table for scripts stored in dir. Files named in
// ignore (e.g. "config.txt") share the directory but are never scripts.
func NewTable(dir string, ignore ...string) *Table {
	t := &Table{
		dir:    dir,
		ignore: make(map[string]bool, len(ignore)),
		events: make(chan event, 256),
	}
	for _, file := range ignore {
		t.ignore[filepath.Base(file)] = true
	}
	empty := make(map[string][]string)
	t.snap.Store(&empty)
	return t
}

// Lines returns the command lines for a trigger. The slice must not be modified.
func (t *Table) Lines(name string) ([]string, bool) {
	lines, ok := (*t.snap.Load())[name]
	return lines, ok
}

// Len returns the number of entries in the current snapshot.
func (t *Table) Len() int {
	return len(*t.snap.Load())
}

// Reload schedules a re-read of <name>.txt. A missing file removes the entry.
func (t *Table) Reload(ctx context.Context, name string) error {
	return t.send(ctx, event{kind: eventReload, name: name})
}

// Seed sets the entry for name to the content of <name>.txt when that file
// exists, otherwise to the single inline line. Returns once applied.
func (t *Table) Seed(ctx context.Context, name, inline string) error {
	return t.sendWait(ctx, event{kind: eventSeed, name: name, inline: inline})
}

func (t *Table) send(ctx context.Context, ev event) error {
	select {
	case t.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Table) sendWait(ctx context.Context, ev event) error {
	ev.done = make(chan struct{})
	if err := t.send(ctx, ev); err != nil {
		return err
	}
	select {
	case <-ev.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run loads every existing script, then applies events until ctx is canceled.
func (t *Table) Run(ctx context.Context) error {
	if err := t.scan(); err != nil {
		slog.Warn("initial script scan failed", "dir", t.dir, "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-t.events:
			t.apply(ev)
			if ev.done != nil {
				close(ev.done)
			}
		}
	}
}

func (t *Table) scan() error {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return fmt.Errorf("reading script dir: %w", err)
	}

	next := make(map[string][]string, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext || t.ignore[e.Name()] {
			continue
		}
		name := strings.TrimSuffix(e.Name(), Ext)
		lines, err := t.read(name)
		if err != nil {
			slog.Warn("skip unreadable script", "name", name, "error", err)
			continue
		}
		next[name] = lines
	}
	t.snap.Store(&next)

	slog.Info("scripts loaded", "dir", t.dir, "scripts", len(next))
	return nil
}

func (t *Table) apply(ev event) {
	switch ev.kind {
	case eventFlush:
		return

	case eventReload:
		lines, err := t.read(ev.name)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			t.remove(ev.name)
		case err != nil:
			slog.Warn("script reload failed", "name", ev.name, "error", err)
		default:
			t.set(ev.name, lines)
			slog.Info("script reloaded", "name", ev.name, "lines", len(lines))
		}

	case eventSeed:
		lines, err := t.read(ev.name)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("script read failed, using inline command", "name", ev.name, "error", err)
			}
			lines = []string{ev.inline}
		}
		t.set(ev.name, lines)
	}
}

// set и remove публикуют новую копию карты; старые снимки не меняются.
func (t *Table) set(name string, lines []string) {
	cur := *t.snap.Load()
	next := make(map[string][]string, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	next[name] = lines
	t.snap.Store(&next)
}

func (t *Table) remove(name string) {
	cur := *t.snap.Load()
	if _, ok := cur[name]; !ok {
		return
	}
	next := make(map[string][]string, len(cur))
	for k, v := range cur {
		if k != name {
			next[k] = v
		}
	}
	t.snap.Store(&next)
	slog.Info("script removed", "name", name)
}

// HasFile reports whether <name>.txt exists in the script directory.
func (t *Table) HasFile(name string) bool {
	if !t.scriptFile(name) {
		return false
	}
	fi, err := os.Stat(filepath.Join(t.dir, name+Ext))
	return err == nil && !fi.IsDir()
}

// scriptFile reports whether <name>.txt may hold a script.
func (t *Table) scriptFile(name string) bool {
	return name != "" && filepath.Base(name) == name && !t.ignore[name+Ext]
}

func (t *Table) read(name string) ([]string, error) {
	if !t.scriptFile(name) {
		return nil, fmt.Errorf("invalid script name %q: %w", name, fs.ErrNotExist)
	}
	data, err := os.ReadFile(filepath.Join(t.dir, name+Ext))
	if err != nil {
		return nil, err
	}
	return ParseLines(string(data)), nil
}

// ParseLines splits script content into command lines, dropping blank lines.
func ParseLines(content string) []string {
	var lines []string
	for line := range strings.SplitSeq(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
