package trigger

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrDuplicateName    = errors.New("smart region already exists")
	ErrUnknownRegion    = errors.New("region does not exist")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("no such smart region")
	ErrNothingPending   = errors.New("nothing to replace")
	ErrInvalidCooldown  = errors.New("invalid cooldown")
	ErrEmptyCommand     = errors.New("empty trigger command")
	ErrStorage          = errors.New("storage failure")
	ErrMigrationPartial = errors.New("legacy migration incomplete")
)

// ParseCooldown parses a non-negative, finite number of seconds.
func ParseCooldown(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCooldown, s)
	}
	if err := validCooldown(v); err != nil {
		return 0, err
	}
	return v, nil
}

func validCooldown(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidCooldown, v)
	}
	return nil
}
