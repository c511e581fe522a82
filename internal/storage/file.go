package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSlot stores the document as a JSON file in a directory
type FileSlot struct {
	path string
}

// NewFileSlot creates a slot at dir/key.json, creating dir if needed
func NewFileSlot(dir, key string) (*FileSlot, error) {
	if dir == "" {
		return nil, errors.New("directory is required for file storage")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &FileSlot{path: filepath.Join(dir, key+".json")}, nil
}

// Sibling returns a slot for the file key+suffix in the same directory
func (s *FileSlot) Sibling(suffix string) Slot {
	return &FileSlot{path: strings.TrimSuffix(s.path, ".json") + suffix + ".json"}
}

// Path returns the file the slot writes to
func (s *FileSlot) Path() string {
	return s.path
}

func (s *FileSlot) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return data, nil
}

// Write replaces the file atomically: the document goes to a temp file in
// the same directory which is then renamed over the old one.
func (s *FileSlot) Write(ctx context.Context, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName) // no-op after a successful rename
	}()

	if _, err := tmp.Write(doc); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

func (s *FileSlot) Close() error {
	return nil
}
