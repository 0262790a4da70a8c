package game

import (
	"sync"

	"github.com/pburglin/adventure2/internal/geom"
	"github.com/pburglin/adventure2/internal/storage"
)

// Engine owns one game and serialises every access to it.
type Engine struct {
	mu    sync.Mutex
	state *GameState
	rng   Rand
	input Input
}

func NewEngine(w *World, p Policy, rng Rand) *Engine {
	return NewEngineFromState(NewGameState(w, p), rng)
}

// NewEngineFromState wraps an existing game. The engine takes ownership of s.
func NewEngineFromState(s *GameState, rng Rand) *Engine {
	return &Engine{
		state: s,
		rng:   rng,
	}
}

// SetMove replaces the held movement intent. It persists across ticks.
func (e *Engine) SetMove(v geom.Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.input.Move = v
}

// RequestThrow queues a throw for the next tick.
func (e *Engine) RequestThrow() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.input.Throw = true
}

// RequestRespawn queues a respawn for the next tick.
func (e *Engine) RequestRespawn() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.input.Respawn = true
}

// Tick runs one step with the queued input and clears the one-shot requests.
func (e *Engine) Tick() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	in := e.input
	e.input.Throw = false
	e.input.Respawn = false

	evs := e.step(in)
	for _, ev := range evs {
		if ev.Kind == EventPlayerDied {
			e.input.Move = geom.Vec3{}
		}
	}
	return evs
}

// step runs one step with the given input. Events are returned in the order
// they were emitted. The caller holds e.mu.
func (e *Engine) step(in Input) []Event {
	s := e.state

	if in.Respawn {
		Respawn(s)
	}
	if !s.Player.Alive {
		return s.Drain()
	}

	s.Player.Move = in.Move
	if in.Throw {
		Throw(s)
	}

	MovePlayer(s)
	CheckTransition(s, e.rng)
	TickDragons(s)
	TickSpear(s)
	CheckRetrieval(s)
	CheckRespawnPickup(s)
	PickupItems(s)
	TickBird(s, e.rng)

	return s.Drain()
}

// Snapshot is a read-only copy of what a presenter needs to draw a frame.
type Snapshot struct {
	RoomId    storage.Identifier
	Room      *Room
	Items     View
	Player    PlayerState
	Bird      Bird
	Spear     Spear
	Inventory []storage.Identifier
	Defeated  []storage.Identifier
	Won       bool
}

// View resolves visibility afresh and returns the current frame.
func (e *Engine) View() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.state
	return Snapshot{
		RoomId:    s.Player.Room,
		Room:      s.CurrentRoom(),
		Items:     ApplyBird(Resolve(s.Items, s.Player.Room, s.Inventory, s.Defeated, s.Spear), s.Bird),
		Player:    s.Player,
		Bird:      s.Bird,
		Spear:     s.Spear,
		Inventory: s.Inventory.Items(),
		Defeated:  s.Defeated.Ids(),
		Won:       s.Won,
	}
}

// World returns the static world the engine plays in.
func (e *Engine) World() *World {
	return e.state.World
}
