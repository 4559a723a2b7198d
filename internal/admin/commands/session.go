package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/udisondev/smartregions/internal/admin"
	"github.com/udisondev/smartregions/internal/model"
)

// Login handles /login <name> [access level] [x y]: connects a player from
// the operator console.
type Login struct {
	sessions Sessions
}

// NewLogin creates the login command handler.
func NewLogin(sessions Sessions) *Login {
	return &Login{sessions: sessions}
}

func (c *Login) Names() []string           { return []string{"login"} }
func (c *Login) RequiredAccessLevel() int32 { return 100 }
func (c *Login) AllowServer() bool          { return false }

func (c *Login) Handle(caller admin.Caller, args []string) error {
	const usage = "usage: /login <name> [access level] [x y]"
	if len(args) != 2 && len(args) != 3 && len(args) != 5 {
		return errors.New(usage)
	}

	var level int64
	if len(args) >= 3 {
		var err error
		if level, err = strconv.ParseInt(args[2], 10, 32); err != nil {
			return fmt.Errorf("invalid access level %q: %w", args[2], err)
		}
	}
	var loc model.Location
	if len(args) == 5 {
		x, errX := strconv.ParseInt(args[3], 10, 32)
		y, errY := strconv.ParseInt(args[4], 10, 32)
		if errX != nil || errY != nil {
			return errors.New(usage)
		}
		loc = model.NewLocation(int32(x), int32(y))
	}

	player, err := model.NewPlayer(args[1], int32(level), loc)
	if err != nil {
		return err
	}
	slot, err := c.sessions.Connect(player)
	if err != nil {
		return err
	}

	caller.SendMessage(model.MessageSuccess, fmt.Sprintf("%s connected in slot %d", player.Name(), slot))
	return nil
}

// Logout handles /logout <name>: disconnects a player from the console.
type Logout struct {
	sessions Sessions
}

// NewLogout creates the logout command handler.
func NewLogout(sessions Sessions) *Logout {
	return &Logout{sessions: sessions}
}

func (c *Logout) Names() []string           { return []string{"logout"} }
func (c *Logout) RequiredAccessLevel() int32 { return 100 }
func (c *Logout) AllowServer() bool          { return false }

func (c *Logout) Handle(caller admin.Caller, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: /logout <name>")
	}
	if !c.sessions.Kick(args[1]) {
		return fmt.Errorf("player %q is not online", args[1])
	}
	caller.SendMessage(model.MessageSuccess, fmt.Sprintf("%s disconnected", args[1]))
	return nil
}

// As handles /as <player> <command…>: runs a command line on behalf of a
// connected player. The player's queued messages, including the replies,
// are echoed back to the caller.
type As struct {
	sessions Sessions
	runner   Runner
}

// NewAs creates the as command handler.
func NewAs(sessions Sessions, runner Runner) *As {
	return &As{sessions: sessions, runner: runner}
}

func (c *As) Names() []string           { return []string{"as"} }
func (c *As) RequiredAccessLevel() int32 { return 100 }
func (c *As) AllowServer() bool          { return false }

func (c *As) Handle(caller admin.Caller, args []string) error {
	if len(args) < 3 {
		return errors.New("usage: /as <player> <command…>")
	}

	player := c.sessions.FindPlayerByName(args[1])
	if player == nil {
		return fmt.Errorf("player %q is not online", args[1])
	}

	c.runner.HandleText(player, joinArgs(args[2:]))

	for _, msg := range player.DrainMessages() {
		for line := range strings.SplitSeq(msg.Text, "\n") {
			caller.SendMessage(msg.Kind, fmt.Sprintf("[%s] %s", player.Name(), line))
		}
	}
	return nil
}
