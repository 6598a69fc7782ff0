package store

import (
	"sort"
	"sync"

	"github.com/melih/slipway/internal/core/domain"
)

// Memory is an in-memory ports.BuildStore. Build records only need to
// outlive their HTTP polling window, so process lifetime is enough.
type Memory struct {
	mu     sync.RWMutex
	builds map[string]domain.Build
}

func NewMemory() *Memory {
	return &Memory{builds: make(map[string]domain.Build)}
}

func (m *Memory) Save(build domain.Build) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.builds[build.ID] = build
}

func (m *Memory) Get(id string) (domain.Build, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	build, ok := m.builds[id]
	return build, ok
}

// List returns all builds, newest first.
func (m *Memory) List() []domain.Build {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]domain.Build, 0, len(m.builds))
	for _, b := range m.builds {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	return result
}
