package testutil

import (
	"context"
	"errors"
	"testing"
	"time"
)

// ContextWithTimeout создаёт context с timeout и автоматически отменяет его при завершении теста.
func ContextWithTimeout(t testing.TB, duration time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	t.Cleanup(cancel)

	return ctx
}

// RunBackground запускает run в отдельной горутине. При завершении теста
// context отменяется, и cleanup ждёт возврата run. Ошибка, отличная от
// context.Canceled, проваливает тест.
func RunBackground(t testing.TB, run func(ctx context.Context) error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				t.Errorf("background run: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Errorf("background run did not stop")
		}
	})
}
