package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alexisbeaulieu97/conservancy/internal/ports"
	apperrors "github.com/alexisbeaulieu97/conservancy/pkg/errors"
)

const fileFormatVersion = "1"

// fileContents is the on-disk layout of a File store.
type fileContents struct {
	Version string            `json:"version"`
	Items   map[string]string `json:"items"`
}

// File persists items as JSON so a terminal session restores its appearance
// instantly on the next launch. Every SetItem rewrites the file atomically.
type File struct {
	path  string
	mu    sync.RWMutex
	items map[string]string
}

// NewFile opens the store at path, creating its directory if needed. A
// missing file starts empty.
func NewFile(path string) (*File, error) {
	f := &File{
		path:  path,
		items: make(map[string]string),
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.NewStorageError("open", "", fmt.Errorf("create storage directory: %w", err))
	}

	if err := f.load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return f, nil
}

// Path returns the backing file location.
func (f *File) Path() string {
	return f.path
}

// GetItem implements ports.Storage.
func (f *File) GetItem(key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.items[key]
	return v, ok, nil
}

// SetItem implements ports.Storage.
func (f *File) SetItem(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	previous, existed := f.items[key]
	f.items[key] = value
	if err := f.save(); err != nil {
		if existed {
			f.items[key] = previous
		} else {
			delete(f.items, key)
		}
		return apperrors.NewStorageError("set", key, err)
	}
	return nil
}

func (f *File) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}

	var contents fileContents
	if err := json.Unmarshal(data, &contents); err != nil {
		return apperrors.NewStorageError("load", "", fmt.Errorf("parse %s: %w", f.path, err))
	}
	if contents.Items != nil {
		f.items = contents.Items
	}
	return nil
}

// save must be called with f.mu held.
func (f *File) save() error {
	data, err := json.MarshalIndent(fileContents{Version: fileFormatVersion, Items: f.items}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temporary file: %w", err)
	}
	return nil
}

var _ ports.Storage = (*File)(nil)
