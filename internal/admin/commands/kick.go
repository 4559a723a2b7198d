package commands

import (
	"errors"
	"fmt"

	"github.com/udisondev/smartregions/internal/admin"
	"github.com/udisondev/smartregions/internal/model"
)

// Kick handles /kick <player>: disconnects a player.
type Kick struct {
	sessions Sessions
}

// NewKick creates the kick command handler.
func NewKick(sessions Sessions) *Kick {
	return &Kick{sessions: sessions}
}

func (c *Kick) Names() []string           { return []string{"kick"} }
func (c *Kick) RequiredAccessLevel() int32 { return 1 }
func (c *Kick) AllowServer() bool          { return true }

func (c *Kick) Handle(caller admin.Caller, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: /kick <player>")
	}

	if !c.sessions.Kick(args[1]) {
		return fmt.Errorf("player %q not found or already disconnected", args[1])
	}
	caller.SendMessage(model.MessageSuccess, fmt.Sprintf("Kicked player %s", args[1]))
	return nil
}
