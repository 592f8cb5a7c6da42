package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists rendered document bytes on local disk under a base path and
// hands back a reference usable to retrieve them later.
type Store struct {
	basePath string
}

// New creates a file store rooted at basePath, creating it if missing.
func New(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage path: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

// Save writes content under kind/name and returns the relative reference.
// The name is sanitized so document numbers with separators map to flat
// file names.
func (s *Store) Save(kind, name string, content []byte) (string, error) {
	dir := filepath.Join(s.basePath, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create document directory: %w", err)
	}

	fileName := strings.ReplaceAll(name, string(os.PathSeparator), "_") + ".bin"
	fullPath := filepath.Join(dir, fileName)
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write document content: %w", err)
	}

	return filepath.Join(kind, fileName), nil
}

// Load reads back previously saved content by its reference.
func (s *Store) Load(ref string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.basePath, ref))
	if err != nil {
		return nil, fmt.Errorf("failed to read document content: %w", err)
	}
	return data, nil
}
