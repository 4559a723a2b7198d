package trigger

import (
	"sync"
	"time"

	"github.com/udisondev/smartregions/internal/model"
)

// slotState is the runtime state of one connection slot.
type slotState struct {
	mu       sync.Mutex
	eligible map[string]time.Time // region name → not eligible again until
	pending  *model.Definition
}

// Cooldowns is the per-slot admission cache plus the pending-replace slot.
//
// State is keyed by connection slot and region name, so replacing a
// definition keeps its running cooldown, and a reconnect (Reset) starts
// from a clean slate. Negative slots (console, server actor) share one
// extra state.
type Cooldowns struct {
	slots   []slotState
	console slotState
}

// NewCooldowns creates state for maxSlots connection slots.
func NewCooldowns(maxSlots int) *Cooldowns {
	return &Cooldowns{slots: make([]slotState, maxSlots)}
}

func (c *Cooldowns) state(slot int) *slotState {
	switch {
	case slot < 0:
		return &c.console
	case slot < len(c.slots):
		return &c.slots[slot]
	default:
		return nil
	}
}

// Admit reports whether name may fire for slot at now: true if it never
// fired, or if now is strictly after its eligible-again time.
// Out-of-range slots are never admitted.
func (c *Cooldowns) Admit(slot int, name string, now time.Time) bool {
	s := c.state(slot)
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.eligible[name]
	return !ok || now.After(until)
}

// Record sets the eligible-again time of name for slot to now+cooldown,
// overwriting the previous value.
func (c *Cooldowns) Record(slot int, name string, now time.Time, cooldown time.Duration) {
	s := c.state(slot)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.eligible == nil {
		s.eligible = make(map[string]time.Time, 4)
	}
	s.eligible[name] = now.Add(cooldown)
}

// Remaining returns how long name stays on cooldown for slot, 0 if admissible.
func (c *Cooldowns) Remaining(slot int, name string, now time.Time) time.Duration {
	s := c.state(slot)
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.eligible[name]
	if !ok || !until.After(now) {
		return 0
	}
	return until.Sub(now)
}

// Reset clears cooldowns and the pending replace of slot.
func (c *Cooldowns) Reset(slot int) {
	s := c.state(slot)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.eligible)
	s.pending = nil
}

// SetPending stores def as the definition awaiting replace confirmation
// for slot, overwriting any earlier one.
func (c *Cooldowns) SetPending(slot int, def model.Definition) {
	s := c.state(slot)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &def
}

// TakePending returns and clears the pending definition of slot.
func (c *Cooldowns) TakePending(slot int) (model.Definition, bool) {
	s := c.state(slot)
	if s == nil {
		return model.Definition{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return model.Definition{}, false
	}
	def := *s.pending
	s.pending = nil
	return def, true
}
