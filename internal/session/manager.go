// Package session tracks connected players in a fixed-size slot table.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/udisondev/smartregions/internal/model"
)

var (
	ErrServerFull    = errors.New("server is full")
	ErrAlreadyOnline = errors.New("player already online")
)

// Hook is called with the slot index after a player connects or disconnects.
type Hook func(slot int)

// Manager manages all connected players.
// Slots are reused: the lowest free slot is assigned on connect.
// Thread-safe for concurrent access.
type Manager struct {
	mu     sync.RWMutex
	slots  []*model.Player
	byName map[string]int // lowercase name → slot
	count  int

	onConnect    []Hook
	onDisconnect []Hook
}

// NewManager creates a manager with maxPlayers slots.
func NewManager(maxPlayers int) *Manager {
	return &Manager{
		slots:  make([]*model.Player, maxPlayers),
		byName: make(map[string]int, maxPlayers),
	}
}

// OnConnect registers a hook run after a player takes a slot.
// Hooks must be registered before the first Connect.
func (m *Manager) OnConnect(h Hook) { m.onConnect = append(m.onConnect, h) }

// OnDisconnect registers a hook run after a player leaves a slot.
func (m *Manager) OnDisconnect(h Hook) { m.onDisconnect = append(m.onDisconnect, h) }

// Connect assigns the lowest free slot to player, marks it active and runs
// connect hooks before returning.
func (m *Manager) Connect(player *model.Player) (int, error) {
	key := strings.ToLower(player.Name())

	m.mu.Lock()
	if _, ok := m.byName[key]; ok {
		m.mu.Unlock()
		return -1, fmt.Errorf("%w: %s", ErrAlreadyOnline, player.Name())
	}

	slot := -1
	for i, p := range m.slots {
		if p == nil {
			slot = i
			break
		}
	}
	if slot < 0 {
		m.mu.Unlock()
		return -1, ErrServerFull
	}

	m.slots[slot] = player
	m.byName[key] = slot
	m.count++
	m.mu.Unlock()

	// Хуки сбрасывают состояние слота до того, как игрок станет активным.
	for _, h := range m.onConnect {
		h(slot)
	}

	player.SetSlot(slot)
	player.SetActive(true)

	slog.Info("player connected", "player", player.Name(), "slot", slot)
	return slot, nil
}

// Disconnect frees the slot and runs disconnect hooks.
// Returns false if the slot was already free.
func (m *Manager) Disconnect(slot int) bool {
	m.mu.Lock()
	if slot < 0 || slot >= len(m.slots) || m.slots[slot] == nil {
		m.mu.Unlock()
		return false
	}
	player := m.slots[slot]
	m.slots[slot] = nil
	delete(m.byName, strings.ToLower(player.Name()))
	m.count--
	m.mu.Unlock()

	player.SetActive(false)
	player.SetSlot(-1)

	for _, h := range m.onDisconnect {
		h(slot)
	}

	slog.Info("player disconnected", "player", player.Name(), "slot", slot)
	return true
}

// Kick disconnects a player by name (case-insensitive). Returns true if found.
func (m *Manager) Kick(name string) bool {
	m.mu.RLock()
	slot, ok := m.byName[strings.ToLower(name)]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	return m.Disconnect(slot)
}

// FindPlayerByName finds an online player by name (case-insensitive).
func (m *Manager) FindPlayerByName(name string) *model.Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slot, ok := m.byName[strings.ToLower(name)]
	if !ok {
		return nil
	}
	return m.slots[slot]
}

// Player returns the player in slot, or nil.
func (m *Manager) Player(slot int) *model.Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if slot < 0 || slot >= len(m.slots) {
		return nil
	}
	return m.slots[slot]
}

// AppendActive appends all connected, active players to dst in slot order.
// The lock is not held while the caller processes the result.
func (m *Manager) AppendActive(dst []*model.Player) []*model.Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.slots {
		if p != nil && p.IsActive() {
			dst = append(dst, p)
		}
	}
	return dst
}

// ForEachPlayer iterates over a snapshot of connected players.
// If fn returns false, iteration stops.
func (m *Manager) ForEachPlayer(fn func(*model.Player) bool) {
	for _, p := range m.AppendActive(nil) {
		if !fn(p) {
			return
		}
	}
}

// PlayerCount returns number of connected players.
func (m *Manager) PlayerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.count
}

// MaxPlayers returns the slot table size.
func (m *Manager) MaxPlayers() int { return len(m.slots) }
