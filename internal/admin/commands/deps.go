package commands

import (
	"context"

	"github.com/udisondev/smartregions/internal/admin"
	"github.com/udisondev/smartregions/internal/model"
	"github.com/udisondev/smartregions/internal/trigger"
)

// Sessions provides player lookup for host commands.
// Interface to avoid import cycle with the session package.
type Sessions interface {
	// FindPlayerByName finds an online player by name (case-insensitive).
	FindPlayerByName(name string) *model.Player
	// ForEachPlayer iterates over all online players.
	ForEachPlayer(fn func(*model.Player) bool)
	PlayerCount() int
	MaxPlayers() int
	Connect(player *model.Player) (int, error)
	// Kick disconnects a player by name. Returns true if found.
	Kick(name string) bool
}

// Triggers is the trigger engine's administrative surface.
type Triggers interface {
	Add(ctx context.Context, caller admin.Caller, name string, cooldown float64, command string) error
	Remove(ctx context.Context, caller admin.Caller, name string) error
	Check(caller admin.Caller, name string) (trigger.CheckResult, error)
	List(caller admin.Caller, page int, maxDistance float64) trigger.ListPage
	ConfirmReplace(ctx context.Context, caller admin.Caller) (model.Definition, error)
}

// Regions lists the region store's names.
type Regions interface {
	Names() []string
}

// Runner executes a command line typed by a caller and reports failures to it.
type Runner interface {
	HandleText(caller admin.Caller, text string) bool
}
