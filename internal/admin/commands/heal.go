package commands

import (
	"errors"
	"fmt"

	"github.com/udisondev/smartregions/internal/admin"
	"github.com/udisondev/smartregions/internal/model"
)

// Heal handles /heal [player]: restores the target's hit points.
// Without an argument it heals the calling player.
type Heal struct {
	sessions Sessions
}

// NewHeal creates the heal command handler.
func NewHeal(sessions Sessions) *Heal {
	return &Heal{sessions: sessions}
}

func (c *Heal) Names() []string           { return []string{"heal"} }
func (c *Heal) RequiredAccessLevel() int32 { return 1 }
func (c *Heal) AllowServer() bool          { return true }

func (c *Heal) Handle(caller admin.Caller, args []string) error {
	var target *model.Player
	if len(args) >= 2 {
		target = c.sessions.FindPlayerByName(args[1])
		if target == nil {
			return fmt.Errorf("player %q not found", args[1])
		}
	} else {
		self, ok := caller.(*model.Player)
		if !ok {
			return errors.New("usage: /heal <player>")
		}
		target = self
	}

	target.SetCurrentHP(target.MaxHP())
	if target != caller {
		caller.SendMessage(model.MessageSuccess, fmt.Sprintf("Healed player %s", target.Name()))
	}
	target.SendMessage(model.MessageSuccess, "You have been healed.")
	return nil
}
