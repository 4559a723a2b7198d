package admin

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/udisondev/smartregions/internal/model"
)

// Specifier is the optional prefix in front of a command name ("/heal").
const Specifier = "/"

var (
	ErrEmptyCommand     = errors.New("empty command")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrAccessDenied     = errors.New("insufficient access level")
	ErrNotServerCommand = errors.New("command cannot be run by the server")
)

// Command is the interface for host commands.
// Each command registers one or more names and a required access level.
type Command interface {
	// Handle executes the command. args includes command name at [0].
	Handle(caller Caller, args []string) error
	// Names returns all registered command names (without / prefix).
	Names() []string
	// RequiredAccessLevel returns the minimum access level to use this command.
	RequiredAccessLevel() int32
	// AllowServer reports whether the server actor may invoke the command.
	AllowServer() bool
}

// TriggerManager is implemented by commands that change trigger
// definitions; they additionally require AccessLevel.CanManageTriggers.
type TriggerManager interface {
	ManagesTriggers() bool
}

// Handler dispatches commands by alias.
// Thread-safe: commands are registered once at startup, then read-only.
type Handler struct {
	mu   sync.RWMutex
	cmds map[string]Command // name → Command (lowercase)
}

// NewHandler creates a new command handler.
func NewHandler() *Handler {
	return &Handler{
		cmds: make(map[string]Command, 32),
	}
}

// Register registers a command under all of its names.
// All command names are lowercased for case-insensitive lookup.
func (h *Handler) Register(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, name := range cmd.Names() {
		h.cmds[strings.ToLower(name)] = cmd
	}
}

// Lookup resolves a command by alias.
func (h *Handler) Lookup(alias string) (Command, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	cmd, ok := h.cmds[strings.ToLower(alias)]
	return cmd, ok
}

// CanRun reports whether caller has the rights to invoke cmd.
func (h *Handler) CanRun(cmd Command, caller Caller) bool {
	if caller.IsServer() {
		return cmd.AllowServer()
	}

	required := cmd.RequiredAccessLevel()
	if required <= 0 {
		return caller.AccessLevel() >= 0
	}

	al := GetAccessLevel(caller.AccessLevel())
	if al == nil || !al.CanUseAdminCommands {
		return false
	}
	if tm, ok := cmd.(TriggerManager); ok && tm.ManagesTriggers() && !al.CanManageTriggers {
		return false
	}
	return caller.AccessLevel() >= required
}

// ServerInvocable reports whether the server actor may invoke cmd.
func (h *Handler) ServerInvocable(cmd Command) bool {
	return cmd.AllowServer()
}

// Execute parses and runs one command line on behalf of caller.
// The line may start with Specifier; arguments follow quoting rules of SplitArgs.
func (h *Handler) Execute(caller Caller, line string) error {
	args := SplitArgs(strings.TrimLeft(strings.TrimSpace(line), Specifier))
	if len(args) == 0 {
		return ErrEmptyCommand
	}

	name := strings.ToLower(args[0])
	cmd, ok := h.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s%s", ErrUnknownCommand, Specifier, name)
	}

	if caller.IsServer() && !cmd.AllowServer() {
		return fmt.Errorf("%w: %s%s", ErrNotServerCommand, Specifier, name)
	}

	if !h.CanRun(cmd, caller) {
		slog.Warn("command access denied",
			"caller", caller.Name(),
			"command", name,
			"required", cmd.RequiredAccessLevel(),
			"actual", caller.AccessLevel())
		return fmt.Errorf("%w for %s%s (need %d, have %d)",
			ErrAccessDenied, Specifier, name, cmd.RequiredAccessLevel(), caller.AccessLevel())
	}

	if !caller.IsServer() {
		slog.Info("command", "caller", caller.Name(), "command", line)
	}

	return cmd.Handle(caller, args)
}

// HandleText runs a command typed by caller and reports failures back to it.
// Returns true if the command ran without error.
func (h *Handler) HandleText(caller Caller, text string) bool {
	if err := h.Execute(caller, text); err != nil {
		if !errors.Is(err, ErrEmptyCommand) {
			caller.SendMessage(model.MessageError, err.Error())
		}
		return false
	}
	return true
}

// Names returns the distinct primary names of all registered commands, sorted.
func (h *Handler) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[Command]struct{}, len(h.cmds))
	names := make([]string, 0, len(h.cmds))
	for _, cmd := range h.cmds {
		if _, ok := seen[cmd]; ok {
			continue
		}
		seen[cmd] = struct{}{}
		names = append(names, cmd.Names()[0])
	}
	sort.Strings(names)
	return names
}

// CommandCount returns the number of registered aliases.
func (h *Handler) CommandCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.cmds)
}
