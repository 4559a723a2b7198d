package model

import (
	"fmt"
	"sync"
)

// inboxSize caps the number of undelivered messages kept per player.
const inboxSize = 64

// Player: подключённый игрок.
// Slot is the connection slot index assigned by the session manager;
// it is -1 while the player is not connected.
type Player struct {
	mu sync.RWMutex

	name        string
	slot        int
	accessLevel int32 // 0 = normal player, 1+ = GM, 100+ = full admin
	loc         Location
	hp          int32
	maxHP       int32
	active      bool

	inbox []Message
}

// NewPlayer creates a disconnected player at the given tile.
func NewPlayer(name string, accessLevel int32, loc Location) (*Player, error) {
	if name == "" {
		return nil, fmt.Errorf("player name cannot be empty")
	}
	return &Player{
		name:        name,
		slot:        -1,
		accessLevel: accessLevel,
		loc:         loc,
		hp:          100,
		maxHP:       100,
	}, nil
}

// Name returns the player's display name.
func (p *Player) Name() string { return p.name }

// Slot returns the connection slot, -1 when offline.
func (p *Player) Slot() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.slot
}

// SetSlot assigns the connection slot. Called by the session manager.
func (p *Player) SetSlot(slot int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.slot = slot
}

// IsServer is always false for players.
func (p *Player) IsServer() bool { return false }

// AccessLevel returns the player's access level.
func (p *Player) AccessLevel() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.accessLevel
}

// Location returns the player's current tile.
func (p *Player) Location() Location {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loc
}

// SetLocation moves the player to a tile.
func (p *Player) SetLocation(loc Location) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loc = loc
}

// Position implements the admin caller contract; players always have one.
func (p *Player) Position() (Location, bool) {
	return p.Location(), true
}

// IsActive reports whether the player is in the world and should be ticked.
func (p *Player) IsActive() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.active
}

// SetActive marks the player as in-world (true) or loading/leaving (false).
func (p *Player) SetActive(active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = active
}

// CurrentHP returns current hit points.
func (p *Player) CurrentHP() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hp
}

// MaxHP returns maximum hit points.
func (p *Player) MaxHP() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.maxHP
}

// SetCurrentHP clamps hp into [0, MaxHP].
func (p *Player) SetCurrentHP(hp int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hp = max(0, min(hp, p.maxHP))
}

// SendMessage queues a message for the player. Oldest messages are dropped
// once the inbox is full.
func (p *Player) SendMessage(kind MessageKind, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.inbox) == inboxSize {
		copy(p.inbox, p.inbox[1:])
		p.inbox = p.inbox[:inboxSize-1]
	}
	p.inbox = append(p.inbox, Message{Kind: kind, Text: text})
}

// LastMessage returns the most recent message, or an empty Message.
func (p *Player) LastMessage() Message {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.inbox) == 0 {
		return Message{}
	}
	return p.inbox[len(p.inbox)-1]
}

// DrainMessages returns and clears all queued messages.
func (p *Player) DrainMessages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.inbox
	p.inbox = nil
	return out
}
