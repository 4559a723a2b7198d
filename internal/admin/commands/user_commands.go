package commands

import (
	"errors"
	"fmt"

	"github.com/udisondev/smartregions/internal/admin"
	"github.com/udisondev/smartregions/internal/model"
)

// Online handles /online: shows the number of connected players.
type Online struct {
	sessions Sessions
}

// NewOnline creates the online command handler.
func NewOnline(sessions Sessions) *Online {
	return &Online{sessions: sessions}
}

func (c *Online) Names() []string           { return []string{"online"} }
func (c *Online) RequiredAccessLevel() int32 { return 0 }
func (c *Online) AllowServer() bool          { return true }

func (c *Online) Handle(caller admin.Caller, _ []string) error {
	caller.SendMessage(model.MessageInfo,
		fmt.Sprintf("Players online: %d/%d", c.sessions.PlayerCount(), c.sessions.MaxPlayers()))
	return nil
}

// Loc handles /loc: shows the caller's current tile.
type Loc struct{}

func (c *Loc) Names() []string           { return []string{"loc"} }
func (c *Loc) RequiredAccessLevel() int32 { return 0 }
func (c *Loc) AllowServer() bool          { return false }

func (c *Loc) Handle(caller admin.Caller, _ []string) error {
	pos, ok := caller.Position()
	if !ok {
		return errors.New("you have no location")
	}
	caller.SendMessage(model.MessageInfo, fmt.Sprintf("Location: %d, %d", pos.X, pos.Y))
	return nil
}
