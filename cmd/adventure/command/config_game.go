package command

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/pburglin/adventure2/internal/game"
	"github.com/pburglin/adventure2/internal/storage"
)

type GameConfig struct {
	StartRoom           string   `json:"start_room"`
	DeathPolicy         string   `json:"death_policy"`
	KeepDefeatedOnDeath bool     `json:"keep_defeated_on_death"`
	BirdSpawnChance     *float64 `json:"bird_spawn_chance,omitempty"`
	Seed                uint64   `json:"seed"`
}

func (c *GameConfig) validate() error {
	el := errors.NewErrorList()

	if c.StartRoom == "" {
		el.Add(fmt.Errorf("start_room is required"))
	}
	if _, err := game.ParseDeathPolicy(c.DeathPolicy); err != nil {
		el.Add(fmt.Errorf("death_policy: %w", err))
	}
	if c.BirdSpawnChance != nil && (*c.BirdSpawnChance < 0 || *c.BirdSpawnChance > 1) {
		el.Add(fmt.Errorf("bird_spawn_chance must be between 0 and 1"))
	}

	return el.Err()
}

func (c *GameConfig) startRoom() storage.Identifier {
	return storage.Identifier(c.StartRoom)
}

func (c *GameConfig) policy() (game.Policy, error) {
	p := game.DefaultPolicy()

	death, err := game.ParseDeathPolicy(c.DeathPolicy)
	if err != nil {
		return p, err
	}
	p.Death = death
	p.KeepDefeatedOnDeath = c.KeepDefeatedOnDeath
	if c.BirdSpawnChance != nil {
		p.BirdSpawnChance = *c.BirdSpawnChance
	}

	return p, nil
}
