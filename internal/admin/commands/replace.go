package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/udisondev/smartregions/internal/admin"
	"github.com/udisondev/smartregions/internal/model"
	"github.com/udisondev/smartregions/internal/trigger"
)

// Replace handles /replace: confirms the definition left pending by a
// colliding /smartregion add from the same caller.
type Replace struct {
	ctx      context.Context
	triggers Triggers
}

// NewReplace creates the replace command handler. ctx bounds the storage
// and script waits of every invocation; it is canceled on shutdown.
func NewReplace(ctx context.Context, triggers Triggers) *Replace {
	return &Replace{ctx: ctx, triggers: triggers}
}

func (c *Replace) Names() []string           { return []string{"replace"} }
func (c *Replace) RequiredAccessLevel() int32 { return 2 }
func (c *Replace) AllowServer() bool          { return false }
func (c *Replace) ManagesTriggers() bool      { return true }

func (c *Replace) Handle(caller admin.Caller, _ []string) error {
	def, err := c.triggers.ConfirmReplace(c.ctx, caller)
	switch {
	case err == nil:
		caller.SendMessage(model.MessageSuccess, fmt.Sprintf("Smart region %s successfully replaced!", def.Name))
		return nil
	case errors.Is(err, trigger.ErrNothingPending):
		return errors.New("you can't do that right now")
	case errors.Is(err, trigger.ErrStorage):
		return fmt.Errorf("smart region %s replaced but could not be saved: %w", def.Name, err)
	default:
		return err
	}
}
