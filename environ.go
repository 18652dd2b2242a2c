package envsafe

import (
	"os"
	"sync"
)

// Environ abstracts the process-wide environment store so loads can be
// validated and exported against a substitute instead of mutating real
// process state.
type Environ interface {
	Lookup(key string) (string, bool)
	Set(key, value string) error
}

// OSEnviron is the real process environment. It is the default store.
type OSEnviron struct{}

func (OSEnviron) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

func (OSEnviron) Set(key, value string) error { return os.Setenv(key, value) }

// MapEnviron keeps variables in-memory and guards access with a RWMutex, so
// concurrent loads exporting into the same store remain safe.
type MapEnviron struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewMapEnviron initialises the store with a copy of the provided variables.
func NewMapEnviron(initial map[string]string) *MapEnviron {
	vars := make(map[string]string, len(initial))
	for k, v := range initial {
		vars[k] = v
	}
	return &MapEnviron{vars: vars}
}

func (m *MapEnviron) Lookup(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.vars[key]
	return v, ok
}

func (m *MapEnviron) Set(key, value string) error {
	m.mu.Lock()
	m.vars[key] = value
	m.mu.Unlock()
	return nil
}

// Snapshot returns a defensive copy of the stored variables.
func (m *MapEnviron) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string, len(m.vars))
	for k, v := range m.vars {
		out[k] = v
	}
	return out
}
