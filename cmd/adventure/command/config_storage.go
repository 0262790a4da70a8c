package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"

	"github.com/pburglin/adventure2/internal/game"
	"github.com/pburglin/adventure2/internal/storage"
)

type StorageConfig struct {
	Rooms AssetConfig[*game.Room]    `json:"rooms"`
	Items AssetConfig[*game.ItemDef] `json:"items"`
}

// buildWorld loads the room and item assets and links them into a world.
func (c *StorageConfig) buildWorld(start storage.Identifier) (*game.World, error) {
	rooms, err := c.Rooms.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating room store: %w", err)
	}
	items, err := c.Items.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating item store: %w", err)
	}

	w, err := game.NewWorld(rooms, items, start)
	if err != nil {
		return nil, fmt.Errorf("resolving references: %w", err)
	}

	return w, nil
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Rooms.Validate("rooms"))
	el.Add(c.Items.Validate("items"))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
