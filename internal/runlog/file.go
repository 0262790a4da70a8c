package runlog

import (
	"context"
	"fmt"
	"os"

	"github.com/pburglin/adventure2/internal/storage"
)

// FileStore keeps each run as a JSON asset in a directory.
type FileStore struct {
	fs *storage.FileStore[*Record]
}

// NewFileStore loads every run already in dir, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run log directory: %w", err)
	}
	fs, err := storage.NewFileStore[*Record](dir)
	if err != nil {
		return nil, fmt.Errorf("loading run log: %w", err)
	}
	return &FileStore{fs: fs}, nil
}

func (s *FileStore) Save(_ context.Context, r *Record) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("validating run %s: %w", r.Id, err)
	}
	return s.fs.Save(storage.Identifier(r.Id), r)
}

func (s *FileStore) Recent(_ context.Context, limit int) ([]*Record, error) {
	all := s.fs.GetAll()
	rs := make([]*Record, 0, len(all))
	for _, r := range all {
		rs = append(rs, r)
	}
	newestFirst(rs)
	if limit > 0 && len(rs) > limit {
		rs = rs[:limit]
	}
	return rs, nil
}
