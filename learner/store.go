package learner

import (
	"errors"
	"sync"
)

var ErrModelNotFound = errors.New("model not found")

// ModelStore keeps serialized models by name.
type ModelStore interface {
	Load(name string) ([]byte, error)
	Save(name string, blob []byte) error
}

// MemoryStore is a ModelStore for tests and single runs.
type MemoryStore struct {
	mu     sync.Mutex
	models map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{models: make(map[string][]byte)}
}

func (m *MemoryStore) Load(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.models[name]
	if !ok {
		return nil, ErrModelNotFound
	}
	return append([]byte(nil), blob...), nil
}

func (m *MemoryStore) Save(name string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.models[name] = append([]byte(nil), blob...)
	return nil
}
