package snapshot

import (
	"context"
	"fmt"

	"github.com/lox/blackjack/internal/fileutil"
)

// FileStore keeps the snapshot as a JSON file, replaced atomically on save
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the store writes to
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Save(ctx context.Context, snap GameSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Marshal(snap)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("save snapshot to %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context) (*GameSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok, err := fileutil.ReadFileIfExists(s.path)
	if err != nil {
		return nil, fmt.Errorf("load snapshot from %s: %w", s.path, err)
	}
	if !ok {
		return nil, nil
	}
	return Unmarshal(data)
}

func (s *FileStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fileutil.RemoveIfExists(s.path)
}
