package commands

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/udisondev/smartregions/internal/admin"
	"github.com/udisondev/smartregions/internal/model"
)

// Announce handles /announce <text>: broadcasts text to every player.
type Announce struct {
	sessions Sessions
}

// NewAnnounce creates the announce command handler.
func NewAnnounce(sessions Sessions) *Announce {
	return &Announce{sessions: sessions}
}

func (c *Announce) Names() []string           { return []string{"announce", "say"} }
func (c *Announce) RequiredAccessLevel() int32 { return 1 }
func (c *Announce) AllowServer() bool          { return true }

func (c *Announce) Handle(caller admin.Caller, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: /announce <text>")
	}

	text := strings.Join(args[1:], " ")
	n := 0
	c.sessions.ForEachPlayer(func(p *model.Player) bool {
		p.SendMessage(model.MessageInfo, text)
		n++
		return true
	})

	slog.Info("announcement", "by", caller.Name(), "text", text, "recipients", n)
	return nil
}
