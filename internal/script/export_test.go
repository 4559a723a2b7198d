package script

import "context"

// Flush returns once every event queued before it has been applied.
func (t *Table) Flush(ctx context.Context) error {
	return t.sendWait(ctx, event{kind: eventFlush})
}
