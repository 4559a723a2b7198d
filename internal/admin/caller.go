package admin

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/udisondev/smartregions/internal/model"
)

// Slots used by callers that are not connected players.
const (
	ConsoleSlot = -1
	ServerSlot  = -2
)

// Caller is whoever a command runs on behalf of: a player, the operator
// console or the privileged server actor.
type Caller interface {
	Name() string
	// Slot is the connection slot; negative for non-player callers.
	Slot() int
	AccessLevel() int32
	// IsServer reports the privileged system identity used for trigger dispatch.
	IsServer() bool
	// Position returns the caller's tile, if it has one.
	Position() (model.Location, bool)
	SendMessage(kind model.MessageKind, text string)
}

// ServerActor is the privileged identity trigger commands are dispatched as.
// It is distinct from every player and from the console.
type ServerActor struct{}

func (ServerActor) Name() string                     { return "Server" }
func (ServerActor) Slot() int                        { return ServerSlot }
func (ServerActor) AccessLevel() int32               { return 100 }
func (ServerActor) IsServer() bool                   { return true }
func (ServerActor) Position() (model.Location, bool) { return model.Location{}, false }

// SendMessage logs command output; nobody reads the server actor's replies.
func (ServerActor) SendMessage(kind model.MessageKind, text string) {
	slog.Debug("server actor message", "kind", kind, "text", text)
}

// Console is the operator typing commands on the server's stdin.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console caller writing replies to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Name() string                     { return "Console" }
func (c *Console) Slot() int                        { return ConsoleSlot }
func (c *Console) AccessLevel() int32               { return 100 }
func (c *Console) IsServer() bool                   { return false }
func (c *Console) Position() (model.Location, bool) { return model.Location{}, false }

// SendMessage writes one line to the console output.
func (c *Console) SendMessage(kind model.MessageKind, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := ""
	switch kind {
	case model.MessageError:
		prefix = "[error] "
	case model.MessageSuccess:
		prefix = "[ok] "
	}
	fmt.Fprintln(c.out, prefix+text)
}
