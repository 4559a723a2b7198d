package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/udisondev/smartregions/internal/admin"
	"github.com/udisondev/smartregions/internal/model"
)

// Teleport handles /teleport <player> <x> <y>: moves a player to a tile.
type Teleport struct {
	sessions Sessions
}

// NewTeleport creates the teleport command handler.
func NewTeleport(sessions Sessions) *Teleport {
	return &Teleport{sessions: sessions}
}

func (c *Teleport) Names() []string           { return []string{"teleport", "tp"} }
func (c *Teleport) RequiredAccessLevel() int32 { return 1 }
func (c *Teleport) AllowServer() bool          { return true }

func (c *Teleport) Handle(caller admin.Caller, args []string) error {
	if len(args) < 4 {
		return errors.New("usage: /teleport <player> <x> <y>")
	}

	target := c.sessions.FindPlayerByName(args[1])
	if target == nil {
		return fmt.Errorf("player %q not found", args[1])
	}

	x, err := strconv.ParseInt(args[2], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid x coordinate %q: %w", args[2], err)
	}
	y, err := strconv.ParseInt(args[3], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid y coordinate %q: %w", args[3], err)
	}

	target.SetLocation(model.NewLocation(int32(x), int32(y)))
	caller.SendMessage(model.MessageSuccess, fmt.Sprintf("Teleported %s to (%d, %d)", target.Name(), x, y))
	return nil
}
