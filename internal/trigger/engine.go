// Package trigger fires commands for players standing in bound regions and
// manages the set of active trigger definitions.
package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/udisondev/smartregions/internal/admin"
	"github.com/udisondev/smartregions/internal/model"
)

// Placeholder is replaced with the quoted name of the player a line fires for.
const Placeholder = "[PLAYERNAME]"

// Store is the durable definition store.
type Store interface {
	ListAll(ctx context.Context) ([]model.Definition, error)
	Upsert(ctx context.Context, def model.Definition) error
	Delete(ctx context.Context, name string) error
}

// Scripts is the command source table.
type Scripts interface {
	Lines(name string) ([]string, bool)
	Seed(ctx context.Context, name, inline string) error
	// HasFile reports whether a script file exists for name.
	HasFile(name string) bool
}

// Dispatcher executes a command line on behalf of a caller.
type Dispatcher interface {
	Execute(caller admin.Caller, line string) error
}

// Permissions resolves command aliases and their rights.
// *admin.Handler implements both Dispatcher and Permissions.
type Permissions interface {
	Lookup(alias string) (admin.Command, bool)
	CanRun(cmd admin.Command, caller admin.Caller) bool
	ServerInvocable(cmd admin.Command) bool
}

// Players provides the connected players each tick.
type Players interface {
	AppendActive(dst []*model.Player) []*model.Player
}

// Options wires an Engine to its collaborators.
type Options struct {
	Geometry    Geometry
	Store       Store
	Scripts     Scripts
	Dispatcher  Dispatcher
	Permissions Permissions
	Players     Players

	MaxPlayers   int
	ListPageSize int
	TickInterval time.Duration
}

// CheckResult describes one active definition.
type CheckResult struct {
	Definition model.Definition
	Lines      []string
	FromFile   bool
	// Remaining is the caller's own cooldown on the region.
	Remaining time.Duration
}

// ListPage is one page of active definition names.
type ListPage struct {
	Names []string
	Page  int // 1-based
	Pages int
	Total int
}

// Engine runs the tick loop and the administrative operations on trigger
// definitions.
//
// The definition set is an immutable snapshot swapped atomically; writers
// (Add, Remove, ConfirmReplace) are serialized by mu and hold it while the
// store write is awaited. Tick never touches the store.
type Engine struct {
	geo      Geometry
	store    Store
	scripts  Scripts
	dispatch Dispatcher
	perms    Permissions
	players  Players
	actor    admin.Caller

	pageSize int
	interval time.Duration

	mu   sync.Mutex
	defs atomic.Pointer[map[string]model.Definition]

	slots *Cooldowns

	// принадлежат горутине тика
	resolver   *Resolver
	active     []*model.Player
	errLimit   *rate.Limiter
	suppressed int
}

// NewEngine creates an engine with an empty definition set.
func NewEngine(opts Options) *Engine {
	pageSize := opts.ListPageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	interval := opts.TickInterval
	if interval <= 0 {
		interval = time.Second / 60
	}

	e := &Engine{
		geo:      opts.Geometry,
		store:    opts.Store,
		scripts:  opts.Scripts,
		dispatch: opts.Dispatcher,
		perms:    opts.Permissions,
		players:  opts.Players,
		actor:    admin.ServerActor{},
		pageSize: pageSize,
		interval: interval,
		slots:    NewCooldowns(opts.MaxPlayers),
		resolver: NewResolver(opts.Geometry),
		active:   make([]*model.Player, 0, opts.MaxPlayers),
		errLimit: rate.NewLimiter(rate.Every(time.Second), 5),
	}
	empty := make(map[string]model.Definition)
	e.defs.Store(&empty)
	return e
}

// Load replaces the in-memory definition set with the store's content.
func (e *Engine) Load(ctx context.Context) error {
	defs, err := e.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: loading definitions: %w", ErrStorage, err)
	}

	next := make(map[string]model.Definition, len(defs))
	for _, def := range defs {
		if !e.geo.Exists(def.Name) {
			slog.Warn("trigger bound to unknown region", "name", def.Name)
		}
		next[def.Name] = def
	}

	e.mu.Lock()
	e.defs.Store(&next)
	e.mu.Unlock()

	slog.Info("trigger definitions loaded", "count", len(next))
	return nil
}

// Len returns the number of active definitions.
func (e *Engine) Len() int { return len(*e.defs.Load()) }

// Definition returns the active definition for name.
func (e *Engine) Definition(name string) (model.Definition, bool) {
	def, ok := (*e.defs.Load())[name]
	return def, ok
}

// Run ticks until ctx is canceled.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	slog.Info("trigger engine started", "interval", e.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("trigger engine stopping")
			return ctx.Err()
		case now := <-ticker.C:
			e.Tick(now)
		}
	}
}

// Tick fires every admitted trigger for every active player.
// Must not be called concurrently with itself.
func (e *Engine) Tick(now time.Time) {
	defs := *e.defs.Load()
	if len(defs) == 0 {
		return
	}

	e.active = e.players.AppendActive(e.active[:0])
	for _, p := range e.active {
		e.tickPlayer(p, defs, now)
	}
	clear(e.active)
}

func (e *Engine) tickPlayer(p *model.Player, defs map[string]model.Definition, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			e.logTickError("trigger tick panic", "player", p.Name(), "panic", r)
		}
	}()

	// игрок мог отключиться после снимка
	slot := p.Slot()
	if slot < 0 || !p.IsActive() {
		return
	}

	loc := p.Location()
	for _, def := range e.resolver.Resolve(loc.X, loc.Y, defs) {
		if !e.slots.Admit(slot, def.Name, now) {
			continue
		}
		e.fire(p, def)
		e.slots.Record(slot, def.Name, now, def.CooldownDuration())
	}
}

// fire dispatches every line of def's script as the server actor.
func (e *Engine) fire(p *model.Player, def model.Definition) {
	lines, ok := e.scripts.Lines(def.Name)
	if !ok {
		inline := [1]string{def.Command}
		lines = inline[:]
	}

	for _, line := range lines {
		if strings.Contains(line, Placeholder) {
			line = strings.ReplaceAll(line, Placeholder, admin.Quote(p.Name()))
		}
		if err := e.dispatchLine(line); err != nil {
			e.logTickError("trigger command failed",
				"trigger", def.Name, "player", p.Name(), "command", line, "error", err)
		}
	}
}

// dispatchLine executes one line, turning a panic into an error so the
// remaining lines still run and the cooldown is still recorded.
func (e *Engine) dispatchLine(line string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command panicked: %v", r)
		}
	}()
	return e.dispatch.Execute(e.actor, line)
}

// logTickError rate-limits error logs from the tick loop.
func (e *Engine) logTickError(msg string, args ...any) {
	if !e.errLimit.Allow() {
		e.suppressed++
		return
	}
	if e.suppressed > 0 {
		args = append(args, "suppressed", e.suppressed)
		e.suppressed = 0
	}
	slog.Warn(msg, args...)
}

// OnConnect resets the runtime state of a slot taken by a new connection.
func (e *Engine) OnConnect(slot int) { e.slots.Reset(slot) }

// OnDisconnect resets the runtime state of a freed slot.
func (e *Engine) OnDisconnect(slot int) { e.slots.Reset(slot) }

// Add binds command to the region name with the given cooldown in seconds.
//
// When name is already bound the definition is kept as caller's pending
// replace and ErrDuplicateName is returned; ConfirmReplace applies it.
// The in-memory set is updated before the store write; a store failure
// returns ErrStorage without rolling it back.
func (e *Engine) Add(ctx context.Context, caller admin.Caller, name string, cooldown float64, command string) error {
	if err := validCooldown(cooldown); err != nil {
		return err
	}
	command = strings.TrimSpace(command)
	if command == "" {
		return ErrEmptyCommand
	}
	if !e.geo.Exists(name) {
		return fmt.Errorf("%w: %s", ErrUnknownRegion, name)
	}
	if err := e.checkPermission(caller, command); err != nil {
		return err
	}

	def := model.Definition{Name: name, Command: command, Cooldown: cooldown}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := (*e.defs.Load())[name]; exists {
		e.slots.SetPending(caller.Slot(), def)
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	e.put(def)
	e.seed(ctx, def)

	if err := e.store.Upsert(ctx, def); err != nil {
		return fmt.Errorf("%w: saving %s: %w", ErrStorage, name, err)
	}

	slog.Info("trigger added", "name", name, "cooldown", cooldown, "by", caller.Name())
	return nil
}

// Remove deletes the definition bound to name. Script files are left alone.
func (e *Engine) Remove(ctx context.Context, caller admin.Caller, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := *e.defs.Load()
	if _, ok := cur[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	next := maps.Clone(cur)
	delete(next, name)
	e.defs.Store(&next)

	if err := e.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("%w: deleting %s: %w", ErrStorage, name, err)
	}

	slog.Info("trigger removed", "name", name, "by", caller.Name())
	return nil
}

// ConfirmReplace applies the definition caller left pending with Add.
func (e *Engine) ConfirmReplace(ctx context.Context, caller admin.Caller) (model.Definition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	def, ok := e.slots.TakePending(caller.Slot())
	if !ok {
		return model.Definition{}, ErrNothingPending
	}

	e.put(def)
	e.seed(ctx, def)

	if err := e.store.Upsert(ctx, def); err != nil {
		return def, fmt.Errorf("%w: saving %s: %w", ErrStorage, def.Name, err)
	}

	slog.Info("trigger replaced", "name", def.Name, "cooldown", def.Cooldown, "by", caller.Name())
	return def, nil
}

// Check describes the definition bound to name as seen by caller.
func (e *Engine) Check(caller admin.Caller, name string) (CheckResult, error) {
	def, ok := e.Definition(name)
	if !ok {
		return CheckResult{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	res := CheckResult{
		Definition: def,
		Remaining:  e.slots.Remaining(caller.Slot(), name, time.Now()),
	}
	if lines, ok := e.scripts.Lines(name); ok {
		res.Lines = slices.Clone(lines)
		res.FromFile = e.scripts.HasFile(name)
	} else {
		res.Lines = []string{def.Command}
	}
	return res, nil
}

// List returns one page of active definition names in alphabetical order.
// A positive maxDistance keeps only regions within that many tiles of the
// caller; it is ignored for callers without a position. Pages past the end
// are empty.
func (e *Engine) List(caller admin.Caller, page int, maxDistance float64) ListPage {
	names := slices.Sorted(maps.Keys(*e.defs.Load()))

	if pos, ok := caller.Position(); ok && maxDistance > 0 {
		names = slices.DeleteFunc(names, func(name string) bool {
			d, ok := e.geo.Distance(name, pos.X, pos.Y)
			return !ok || d > maxDistance
		})
	}

	page = max(page, 1)
	res := ListPage{
		Page:  page,
		Pages: (len(names) + e.pageSize - 1) / e.pageSize,
		Total: len(names),
	}
	start := (page - 1) * e.pageSize
	if start < len(names) {
		res.Names = names[start:min(start+e.pageSize, len(names))]
	}
	return res
}

// checkPermission applies the rights of caller to the leading command of
// a trigger: caller must be able to run it and so must the server actor.
// Commands unknown to the interpreter are accepted as is.
func (e *Engine) checkPermission(caller admin.Caller, command string) error {
	args := admin.SplitArgs(strings.TrimLeft(command, admin.Specifier))
	if len(args) == 0 {
		return nil
	}

	cmd, ok := e.perms.Lookup(args[0])
	if !ok {
		return nil
	}
	if !e.perms.CanRun(cmd, caller) {
		return fmt.Errorf("%w: you cannot use %s%s yourself", ErrPermissionDenied, admin.Specifier, args[0])
	}
	if !e.perms.ServerInvocable(cmd) {
		return fmt.Errorf("%w: %s%s cannot be run by the server", ErrPermissionDenied, admin.Specifier, args[0])
	}
	return nil
}

// put publishes a copy of the definition set with def added or replaced.
// Caller holds mu.
func (e *Engine) put(def model.Definition) {
	next := maps.Clone(*e.defs.Load())
	next[def.Name] = def
	e.defs.Store(&next)
}

// seed resets the script entry of def. A failure only means the tick falls
// back to the inline command until the table catches up.
func (e *Engine) seed(ctx context.Context, def model.Definition) {
	if err := e.scripts.Seed(ctx, def.Name, def.Command); err != nil {
		slog.Warn("seeding trigger script failed", "name", def.Name, "error", err)
	}
}
