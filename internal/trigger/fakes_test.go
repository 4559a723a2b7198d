package trigger

import (
	"context"
	"errors"
	"sync"

	"github.com/udisondev/smartregions/internal/admin"
	"github.com/udisondev/smartregions/internal/model"
)

// memScripts is a synchronous Scripts.
type memScripts struct {
	mu    sync.Mutex
	lines map[string][]string
	files map[string]bool
}

func newMemScripts() *memScripts {
	return &memScripts{lines: make(map[string][]string), files: make(map[string]bool)}
}

func (s *memScripts) Lines(name string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lines[name]
	return l, ok
}

func (s *memScripts) Seed(_ context.Context, name, inline string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.files[name] {
		s.lines[name] = []string{inline}
	}
	return nil
}

func (s *memScripts) HasFile(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[name]
}

func (s *memScripts) setFile(name string, lines ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = true
	s.lines[name] = lines
}

// recorder is a Dispatcher that records every line it is given.
type recorder struct {
	mu    sync.Mutex
	lines []string
	fail  map[string]bool
}

func (r *recorder) Execute(caller admin.Caller, line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !caller.IsServer() {
		return errors.New("dispatched as non-server caller")
	}
	r.lines = append(r.lines, line)
	if r.fail[line] {
		return errors.New("command failed")
	}
	return nil
}

func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.lines
	r.lines = nil
	return out
}

// playerList is a static Players.
type playerList []*model.Player

func (l playerList) AppendActive(dst []*model.Player) []*model.Player {
	for _, p := range l {
		if p.IsActive() {
			dst = append(dst, p)
		}
	}
	return dst
}
