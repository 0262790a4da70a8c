package storage

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

type Storer[T ValidatingSpec] interface {
	Save(Identifier, T) error
	Get(Identifier) T
	GetAll() map[Identifier]T
}

// FileStore keeps one JSON asset per record. Every .json file below path is
// loaded on creation; saved records are written flat into path.
type FileStore[T ValidatingSpec] struct {
	path string

	mu      sync.RWMutex
	records map[Identifier]T
}

func NewFileStore[T ValidatingSpec](path string) (*FileStore[T], error) {
	records, err := loadDir[T](path)
	if err != nil {
		return nil, err
	}

	slog.Debug("asset store loaded", "path", path, "records", len(records))

	return &FileStore[T]{path: path, records: records}, nil
}

func loadDir[T ValidatingSpec](root string) (map[Identifier]T, error) {
	records := map[Identifier]T{}
	origin := map[Identifier]string{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		name := filepath.Base(path)
		asset, err := readAsset[T](path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", name, err)
		}
		if err := asset.Validate(); err != nil {
			return fmt.Errorf("validating %s: %w", name, err)
		}
		if prev, ok := origin[asset.Id()]; ok {
			return fmt.Errorf("duplicate id %s in %s and %s", asset.Id(), prev, name)
		}

		origin[asset.Id()] = name
		records[asset.Id()] = asset.Spec
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

func readAsset[T ValidatingSpec](path string) (*Asset[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer func() { _ = f.Close() }()

	asset := &Asset[T]{}
	if err := json.NewDecoder(f).Decode(asset); err != nil {
		return nil, fmt.Errorf("decoding asset: %w", err)
	}

	return asset, nil
}

// Save caches o under id and writes it to <path>/<id>.json.
func (s *FileStore[T]) Save(id Identifier, o T) error {
	asset := &Asset[T]{Version: CurrentVersion, Identifier: id, Spec: o}
	if err := asset.Validate(); err != nil {
		return fmt.Errorf("validating %s: %w", id, err)
	}

	data, err := json.MarshalIndent(asset, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.path, id.String()+".json", data); err != nil {
		return err
	}
	s.records[id] = o

	return nil
}

// writeFileAtomic writes through a temp file in dir so readers never see a
// partial asset.
func writeFileAtomic(dir, name string, data []byte) error {
	tmp, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), filepath.Join(dir, name))
	}
	if err != nil {
		if rmErr := os.Remove(tmp.Name()); rmErr != nil {
			slog.Warn("removing temp file", "path", tmp.Name(), "error", rmErr)
		}
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}

func (s *FileStore[T]) Get(id Identifier) T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.records[id]
}

// GetAll returns a copy of the record map.
func (s *FileStore[T]) GetAll() map[Identifier]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.records)
}

// Ids returns every record id in sorted order.
func (s *FileStore[T]) Ids() []Identifier {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.records))
}
