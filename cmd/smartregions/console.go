package main

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/udisondev/smartregions/internal/admin"
)

// runConsole feeds lines from in to the command handler as the operator
// console until ctx is canceled. EOF on in only stops reading.
func runConsole(ctx context.Context, h *admin.Handler, console *admin.Console, in io.Reader) error {
	lines := make(chan string)

	// Чтение из stdin не отменяется контекстом, поэтому в отдельной горутине.
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			slog.Warn("console read failed", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				slog.Info("console input closed")
				<-ctx.Done()
				return ctx.Err()
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			h.HandleText(console, line)
		}
	}
}
