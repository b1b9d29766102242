// Package storage writes downloaded samples to a local directory for the CLI.
// The HTTP service never stores images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SampleStore saves generated samples under a root directory.
type SampleStore struct {
	root string
}

// NewSampleStore creates root if needed.
func NewSampleStore(root string) (*SampleStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("storage: output directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure output directory: %w", err)
	}
	return &SampleStore{root: root}, nil
}

// Root returns the output directory.
func (s *SampleStore) Root() string {
	if s == nil {
		return ""
	}
	return s.root
}

// Save writes data as <name>.png and returns the file path. The name is
// reduced to a single safe path element.
func (s *SampleStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	file, err := sampleFileName(name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.root, file)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write sample: %w", err)
	}
	return path, nil
}

func sampleFileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if strings.Trim(name, "_") == "" {
		return "", errors.New("storage: invalid sample name")
	}
	return name + ".png", nil
}
