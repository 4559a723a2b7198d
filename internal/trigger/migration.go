package trigger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/smartregions/internal/model"
)

// MigrateLegacy moves definitions from the legacy flat file at path into
// store and deletes the file.
//
// The file holds records of three lines: region name, command, cooldown in
// seconds. Upserts run with at most concurrency in flight. Issuing stops at
// the first malformed or truncated record or failed save; in-flight saves
// are always joined. The file is deleted only when every record was parsed
// and saved, otherwise ErrMigrationPartial is returned and the file is kept
// for the next run. A missing file is not an error.
//
// Returns the number of records saved.
func MigrateLegacy(ctx context.Context, store Store, path string, concurrency int) (int, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading legacy file: %w", err)
	}

	lines := legacyLines(string(data))

	var saved atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	var stopErr error
	for i := 0; i < len(lines); i += 3 {
		if err := gctx.Err(); err != nil {
			stopErr = err
			break
		}
		rec := i/3 + 1
		if i+3 > len(lines) {
			stopErr = fmt.Errorf("record %d: truncated, %d of 3 lines", rec, len(lines)-i)
			break
		}
		def, err := parseLegacyRecord(lines[i : i+3])
		if err != nil {
			stopErr = fmt.Errorf("record %d: %w", rec, err)
			break
		}

		g.Go(func() error {
			if err := store.Upsert(gctx, def); err != nil {
				return fmt.Errorf("saving %s: %w", def.Name, err)
			}
			saved.Add(1)
			return nil
		})
	}

	saveErr := g.Wait()
	n := int(saved.Load())

	if saveErr != nil {
		// причина остановки уже в saveErr
		stopErr = saveErr
	}
	if stopErr != nil {
		slog.Warn("legacy migration incomplete, file kept", "path", path, "saved", n, "error", stopErr)
		return n, fmt.Errorf("%w: %s: %w", ErrMigrationPartial, path, stopErr)
	}

	if err := os.Remove(path); err != nil {
		return n, fmt.Errorf("removing legacy file: %w", err)
	}

	slog.Info("legacy definitions migrated", "path", path, "count", n)
	return n, nil
}

// legacyLines splits the file into lines, dropping \r and the empty element
// after a final newline.
func legacyLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}

func parseLegacyRecord(rec []string) (model.Definition, error) {
	name, command := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
	if name == "" {
		return model.Definition{}, errors.New("empty region name")
	}
	if command == "" {
		return model.Definition{}, fmt.Errorf("%s: %w", name, ErrEmptyCommand)
	}
	cooldown, err := ParseCooldown(strings.TrimSpace(rec[2]))
	if err != nil {
		return model.Definition{}, fmt.Errorf("%s: %w", name, err)
	}
	return model.Definition{Name: name, Command: command, Cooldown: cooldown}, nil
}
