package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileAdapter stores one JSON file per key under a base directory.
// Suitable for single-node deployments and local development.
type FileAdapter struct {
	basePath string
}

// NewFileAdapter creates a file-backed adapter rooted at basePath
// (created if it does not exist).
func NewFileAdapter(basePath string) (*FileAdapter, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cart storage directory: %w", err)
	}

	return &FileAdapter{basePath: basePath}, nil
}

// Load reads the snapshot file for key.
func (f *FileAdapter) Load(ctx context.Context, key string) ([]byte, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cart snapshot: %w", err)
	}
	return data, nil
}

// Save writes the snapshot to a temp file and renames it into place, so a
// crash mid-write never leaves a truncated snapshot behind.
func (f *FileAdapter) Save(ctx context.Context, key string, data []byte) error {
	target, err := f.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.basePath, ".cart-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cart snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cart snapshot: %w", err)
	}
	return nil
}

// ErrInvalidKey is returned for keys that cannot be mapped to a filename.
var ErrInvalidKey = errors.New("persist: invalid snapshot key")

// path maps a key to a filename. Keys are namespaced with ':' separators
// which are not filename-safe everywhere. Only [A-Za-z0-9:_-] is accepted;
// anything else, path separators and dot sequences included, is rejected so
// a hostile key can never name a file outside basePath.
func (f *FileAdapter) path(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == ':' || r == '_' || r == '-':
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}

	name := strings.ReplaceAll(key, ":", "_") + ".json"
	return filepath.Join(f.basePath, name), nil
}
