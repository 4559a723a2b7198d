package testutil

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/udisondev/smartregions/internal/model"
)

// ErrSimulated is a sentinel error for testing storage failure paths.
var ErrSimulated = errors.New("simulated error for testing")

// MockStore: in-memory хранилище определений триггеров для unit тестов.
// Не требует ни SQLite, ни PostgreSQL.
type MockStore struct {
	mu      sync.RWMutex
	defs    map[string]model.Definition
	upserts int

	// FailOn, если задан, возвращает true для имён, операции над которыми
	// должны завершиться ErrSimulated. Устанавливать до начала работы.
	FailOn func(name string) bool
}

// NewMockStore создаёт MockStore с начальными определениями.
func NewMockStore(defs ...model.Definition) *MockStore {
	m := &MockStore{defs: make(map[string]model.Definition, len(defs))}
	for _, d := range defs {
		m.defs[d.Name] = d
	}
	return m
}

// ListAll возвращает все определения, отсортированные по имени.
func (m *MockStore) ListAll(context.Context) ([]model.Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Definition, 0, len(m.defs))
	for _, d := range m.defs {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b model.Definition) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// Upsert сохраняет определение по имени.
func (m *MockStore) Upsert(_ context.Context, def model.Definition) error {
	if m.FailOn != nil && m.FailOn(def.Name) {
		return ErrSimulated
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defs[def.Name] = def
	m.upserts++
	return nil
}

// Delete удаляет определение; отсутствие имени не ошибка.
func (m *MockStore) Delete(_ context.Context, name string) error {
	if m.FailOn != nil && m.FailOn(name) {
		return ErrSimulated
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.defs, name)
	return nil
}

// Close закрывает MockStore (no-op для in-memory).
func (m *MockStore) Close() error {
	return nil
}

// Get возвращает сохранённое определение.
func (m *MockStore) Get(name string) (model.Definition, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.defs[name]
	return d, ok
}

// Len возвращает количество определений.
func (m *MockStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.defs)
}

// Upserts возвращает число успешных Upsert.
func (m *MockStore) Upserts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.upserts
}
