package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileKV is a [KV] backed by a single JSON file, the durable default for
// single-host clients. Every mutation rewrites the file through a rename so a
// crash mid-write leaves either the old or the new state, never a torn one.
type FileKV struct {
	mu     sync.Mutex
	path   string
	loaded bool
	values map[string]string
}

// NewFileKV creates a file-backed store at path. The file is created lazily on
// the first write; a missing or unreadable file reads as empty.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

func (f *FileKV) load() {
	if f.loaded {
		return
	}
	f.loaded = true
	f.values = make(map[string]string)

	data, err := os.ReadFile(f.path)
	if err != nil {
		return
	}

	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		// Corrupt file: start empty. The Store normalizes the resulting
		// partial session to logged-out.
		return
	}
	f.values = decoded
}

func (f *FileKV) flush() error {
	data, err := json.Marshal(f.values)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("session file dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("session file temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("session file write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("session file sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("session file close: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("session file rename: %w", err)
	}
	return nil
}

func (f *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.load()
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *FileKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.load()
	f.values[key] = value
	return f.flush()
}

func (f *FileKV) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.load()
	for _, k := range keys {
		delete(f.values, k)
	}
	return f.flush()
}
