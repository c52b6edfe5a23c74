package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"FakeNewsDetector/internal/domain"
)

// FileStore keeps a small JSON object of key -> value on disk, the verdict
// living under one key. Writes go through a temp file and rename.
type FileStore struct {
	path string
	key  string
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore uses path; the file is created on first save.
func NewFileStore(path, key string) *FileStore {
	return &FileStore{path: path, key: key}
}

// Load returns the stored verdict or domain.ErrNoResult.
func (f *FileStore) Load(context.Context) (domain.Verdict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return domain.Verdict{}, err
	}
	raw, ok := entries[f.key]
	if !ok {
		return domain.Verdict{}, domain.ErrNoResult
	}
	return decodeVerdict(raw)
}

// Save upserts the verdict under the configured key.
func (f *FileStore) Save(_ context.Context, v domain.Verdict) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return err
	}
	raw, err := encodeVerdict(v)
	if err != nil {
		return err
	}
	entries[f.key] = raw

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return os.Rename(tmp, f.path)
}

// Close is a no-op.
func (f *FileStore) Close() error { return nil }

func (f *FileStore) read() (map[string]json.RawMessage, error) {
	entries := map[string]json.RawMessage{}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", f.path, err)
	}
	return entries, nil
}
