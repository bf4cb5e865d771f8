package cart

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FileStore keeps the cart as a JSON file.
type FileStore struct {
	path   string
	logger zerolog.Logger
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.With().Str("component", "file-cart-store").Logger(),
	}
}

// Read returns the list in the file; a missing or corrupt file reads as empty.
func (s *FileStore) Read(ctx context.Context) IDList {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Err(err).Str("file", s.path).Msg("failed to read cart file, treating as empty")
		}
		return IDList{}
	}

	ids, ok := decodeIDList(data)
	if !ok {
		s.logger.Warn().Str("file", s.path).Msg("corrupt cart file, treating as empty")
		return IDList{}
	}

	return ids
}

// Write replaces the file through a temp file and rename.
func (s *FileStore) Write(ctx context.Context, ids IDList) error {
	data, err := encodeIDList(ids)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cart directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".cart-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp cart file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp cart file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp cart file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cart file %s: %w", s.path, err)
	}

	return nil
}
