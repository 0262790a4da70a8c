package game

import (
	"math"
	"time"

	"github.com/pburglin/adventure2/internal/storage"
)

// SpearId is the item id the spear subsystem takes ownership of.
const SpearId storage.Identifier = "spear"

// Room geometry. Every room is a square centred on the origin.
const (
	RoomHalfSize = 5.0
	DoorInset    = 0.1
)

const (
	PlayerSpeed   = 0.05
	PlayerGroundY = 0.25
	ItemGroundY   = 0.2
	PickupRadius  = 0.5
)

const (
	DragonSpeed          = 0.02
	EliteSpeedMultiplier = 1.5
	DragonGroundY        = 0.4
	DragonHalfFootprint  = 0.3
	DragonCatchRadius    = 0.57
)

const (
	SpearSpeed          = 0.15
	SpearFlightY        = 0.5
	SpearLaunchOffset   = 0.5
	SpearHitRadius      = 0.8
	SpearRetrieveRadius = 0.6
	SpearRespawnRadius  = 0.5
)

const (
	BirdSpawnChance    = 0.10
	BirdSpeed          = 0.08
	BirdFlightY        = 0.75
	BirdEdgeOffset     = 1.5
	BirdCrossingRadius = 7.0
	BirdExitRadius     = 1.0
	BirdCarryOffset    = 0.5
	BirdDropSpan       = 8.0
	WingStep           = 0.05
	WingMaxAngle       = math.Pi / 4
)

// Flicker cues suggested to presenters.
var (
	cuePickup   = &Cue{Color: "#888888", Duration: 200 * time.Millisecond}
	cueKill     = &Cue{Color: "#FF0000", Duration: 300 * time.Millisecond}
	cueMiss     = &Cue{Color: "#888888", Duration: 150 * time.Millisecond}
	cueRetrieve = &Cue{Color: "#AAAAFF", Duration: 150 * time.Millisecond}
	cueWin      = &Cue{Color: "#00FF00", Duration: 200 * time.Millisecond}
)
