// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package kvstore

import (
	"sync"
)

// MemoryEngine is a map backed Engine for tests and ephemeral boards.
type MemoryEngine struct {
	mu     sync.RWMutex
	data   map[string][]byte
	quota  int64
	used   int64
	closed bool
}

// NewMemory constructs a MemoryEngine holding at most quota bytes of values,
// 0 meaning unbounded.
func NewMemory(quota int64) *MemoryEngine {
	return &MemoryEngine{
		data:  make(map[string][]byte),
		quota: quota,
	}
}

func (m *MemoryEngine) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	value, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}

	// The map's backing array stays private.
	ret := make([]byte, len(value))
	copy(ret, value)

	return ret, nil
}

func (m *MemoryEngine) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if key == "" {
		return ErrInvalidKey
	}

	old := int64(len(m.data[key]))
	if m.quota > 0 && m.used-old+int64(len(value)) > m.quota {
		return ErrNoSpace
	}

	data := make([]byte, len(value))
	copy(data, value)
	m.data[key] = data
	m.used += int64(len(value)) - old

	return nil
}

func (m *MemoryEngine) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	value, ok := m.data[key]
	if !ok {
		return ErrNotFound
	}

	delete(m.data, key)
	m.used -= int64(len(value))

	return nil
}

func (m *MemoryEngine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	m.data = nil

	return nil
}
