package model

import (
	"math"
	"time"
)

// Definition binds a trigger region to a command and a cooldown.
// Name matches the region of the same name in the region store.
// Command is either a single command line or is superseded by <name>.txt
// in the scripts directory.
type Definition struct {
	Name     string
	Command  string
	Cooldown float64 // seconds, fractional allowed
}

// CooldownDuration converts the fractional cooldown seconds to a Duration.
func (d Definition) CooldownDuration() time.Duration {
	return time.Duration(math.Round(d.Cooldown * float64(time.Second)))
}
