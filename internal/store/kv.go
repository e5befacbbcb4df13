// Package store handles on-device persistence of trial results.
package store

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// KV is a durable string key-value medium.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Memory is a KV held in process memory.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty in-memory medium.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

// Get implements KV.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements KV.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete implements KV.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Close implements KV.
func (m *Memory) Close() error { return nil }

// OpenMedium opens the SQLite medium at path. When that fails the error is
// logged and an in-memory medium is returned, so results still work for the
// current process.
func OpenMedium(path string, log *zap.SugaredLogger) KV {
	db, err := OpenSQLite(path)
	if err != nil {
		log.Warnw("result storage unavailable, keeping results in memory", "path", path, "error", err)
		return NewMemory()
	}
	return db
}
