// Package storage persists the single lastResult slot.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"FakeNewsDetector/internal/config"
	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
)

// Store is a ResultStore that holds resources.
type Store interface {
	ports.ResultStore
	Close() error
}

// New opens the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		return NewMemoryStore(), nil
	case config.StorageFile, "":
		return NewFileStore(cfg.Path, cfg.Key), nil
	case config.StorageSQL:
		return OpenSQLStore(ctx, cfg.SQLDriver, cfg.DSN, cfg.Key)
	case config.StorageRedis:
		return OpenRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.Key)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func encodeVerdict(v domain.Verdict) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal verdict: %w", err)
	}
	return raw, nil
}

func decodeVerdict(raw []byte) (domain.Verdict, error) {
	var v domain.Verdict
	if err := json.Unmarshal(raw, &v); err != nil {
		return domain.Verdict{}, fmt.Errorf("unmarshal verdict: %w", err)
	}
	return v, nil
}

// MemoryStore keeps the verdict in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	verdict *domain.Verdict
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored verdict or domain.ErrNoResult.
func (m *MemoryStore) Load(context.Context) (domain.Verdict, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.verdict == nil {
		return domain.Verdict{}, domain.ErrNoResult
	}
	return *m.verdict, nil
}

// Save replaces the stored verdict.
func (m *MemoryStore) Save(_ context.Context, v domain.Verdict) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verdict = &v
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
