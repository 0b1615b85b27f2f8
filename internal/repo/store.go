// Package repo implements the persistence layer. Documents are opaque JSON
// values stored under string keys in one of three interchangeable backends
// (SQLite via GORM, BadgerDB, or process memory). This file defines the
// backend contract and the in-memory implementation.
package repo

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned by lookups that found no row.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrClosed is returned by a backend used after Close.
var ErrClosed = errors.New("store closed")

// Store is the key-value contract every backend satisfies. A missing key is
// reported as found=false with a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// PrefixStatser is implemented by backends that can summarize a key prefix.
// maxUpdatedAt is nil when the backend does not track write times or no key
// matches.
type PrefixStatser interface {
	PrefixStats(ctx context.Context, prefix string) (count int64, maxUpdatedAt *time.Time, err error)
}

// MemoryStore keeps documents in a map. It is used in tests and by
// STORE_BACKEND=memory.
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string][]byte
	updated map[string]time.Time
	closed  bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte), updated: make(map[string]time.Time)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, false, ErrClosed
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.data[key] = append([]byte(nil), value...)
	m.updated[key] = time.Now().UTC()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.data, key)
	delete(m.updated, key)
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	m.closed = true
	m.data = nil
	m.updated = nil
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *MemoryStore) PrefixStats(ctx context.Context, prefix string) (int64, *time.Time, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, nil, ErrClosed
	}
	var (
		n      int64
		latest time.Time
	)
	for k := range m.data {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		n++
		if t := m.updated[k]; t.After(latest) {
			latest = t
		}
	}
	if n == 0 {
		return 0, nil, nil
	}
	return n, &latest, nil
}
