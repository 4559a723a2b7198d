package trigger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/smartregions/internal/model"
)

func TestCooldowns_ColdStartAdmits(t *testing.T) {
	c := NewCooldowns(4)
	now := time.Now()

	for slot := range 4 {
		assert.True(t, c.Admit(slot, "spawn", now))
	}
	assert.True(t, c.Admit(-1, "spawn", now), "console state")
	assert.False(t, c.Admit(4, "spawn", now), "out-of-range slot")
}

func TestCooldowns_Window(t *testing.T) {
	const eps = time.Millisecond
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for _, cd := range []time.Duration{0, 10 * time.Millisecond, 5 * time.Second, 90 * time.Minute} {
		c := NewCooldowns(1)
		c.Record(0, "r", t0, cd)

		if cd > 0 {
			assert.False(t, c.Admit(0, "r", t0.Add(cd-eps)), "cooldown %v: before expiry", cd)
		}
		assert.False(t, c.Admit(0, "r", t0.Add(cd)), "cooldown %v: exactly at expiry", cd)
		assert.True(t, c.Admit(0, "r", t0.Add(cd+eps)), "cooldown %v: after expiry", cd)
	}
}

func TestCooldowns_LastWriteWins(t *testing.T) {
	c := NewCooldowns(1)
	t0 := time.Now()

	c.Record(0, "r", t0, time.Hour)
	c.Record(0, "r", t0, time.Second)
	assert.True(t, c.Admit(0, "r", t0.Add(2*time.Second)))
	assert.Equal(t, time.Duration(0), c.Remaining(0, "r", t0.Add(2*time.Second)))
	assert.Equal(t, 500*time.Millisecond, c.Remaining(0, "r", t0.Add(500*time.Millisecond)))
}

func TestCooldowns_IndependentSlotsAndNames(t *testing.T) {
	c := NewCooldowns(2)
	t0 := time.Now()

	c.Record(0, "a", t0, time.Minute)
	assert.False(t, c.Admit(0, "a", t0.Add(time.Second)))
	assert.True(t, c.Admit(0, "b", t0.Add(time.Second)))
	assert.True(t, c.Admit(1, "a", t0.Add(time.Second)))
}

func TestCooldowns_ResetClearsEverything(t *testing.T) {
	c := NewCooldowns(1)
	t0 := time.Now()

	c.Record(0, "a", t0, time.Hour)
	c.SetPending(0, model.Definition{Name: "a", Command: "/heal", Cooldown: 1})

	c.Reset(0)

	assert.True(t, c.Admit(0, "a", t0.Add(time.Second)))
	_, ok := c.TakePending(0)
	assert.False(t, ok)
}

func TestCooldowns_Pending(t *testing.T) {
	c := NewCooldowns(1)

	_, ok := c.TakePending(0)
	assert.False(t, ok)

	c.SetPending(0, model.Definition{Name: "a", Command: "/one"})
	c.SetPending(0, model.Definition{Name: "a", Command: "/two"})

	def, ok := c.TakePending(0)
	assert.True(t, ok)
	assert.Equal(t, "/two", def.Command)

	_, ok = c.TakePending(0)
	assert.False(t, ok, "taking clears the slot")
}
