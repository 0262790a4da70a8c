package game

import (
	"log/slog"
	"math"
	"slices"

	"github.com/pburglin/adventure2/internal/geom"
	"github.com/pburglin/adventure2/internal/storage"
)

type BirdPhase int

const (
	BirdInactive BirdPhase = iota
	BirdEntering
	BirdCrossing
	BirdExiting
)

func (p BirdPhase) String() string {
	switch p {
	case BirdInactive:
		return "inactive"
	case BirdEntering:
		return "entering"
	case BirdCrossing:
		return "crossing"
	case BirdExiting:
		return "exiting"
	default:
		return "unknown"
	}
}

var birdTransitions = map[BirdPhase][]BirdPhase{
	BirdInactive: {BirdEntering},
	BirdEntering: {BirdCrossing, BirdInactive},
	BirdCrossing: {BirdExiting, BirdInactive},
	BirdExiting:  {BirdInactive},
}

type BirdAction int

const (
	BirdNone BirdAction = iota
	BirdTake
	BirdBring
)

func (a BirdAction) String() string {
	switch a {
	case BirdTake:
		return "take"
	case BirdBring:
		return "bring"
	default:
		return "none"
	}
}

type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetPlayer
	TargetItem
	TargetDragon
)

// Target is what the bird is after: the player, an item or a dragon.
type Target struct {
	Kind TargetKind
	Id   storage.Identifier
}

func PlayerTarget() Target {
	return Target{Kind: TargetPlayer}
}

func ItemTarget(it *WorldItem) Target {
	if it.Def.Dragon {
		return Target{Kind: TargetDragon, Id: it.Id}
	}
	return Target{Kind: TargetItem, Id: it.Id}
}

// IsItem reports whether the target is a world item, dragons included.
func (t Target) IsItem() bool {
	return t.Kind == TargetItem || t.Kind == TargetDragon
}

type Bird struct {
	Phase         BirdPhase
	Action        BirdAction
	Target        Target
	Start         geom.Vec3
	End           geom.Vec3
	Position      geom.Vec3
	Velocity      geom.Vec3
	Yaw           float64
	WingAngle     float64
	WingDirection float64
}

func (b *Bird) Active() bool {
	return b.Phase != BirdInactive
}

// Carrying reports whether the target currently hangs below the bird.
func (b *Bird) Carrying() bool {
	if b.Target.Kind == TargetNone {
		return false
	}
	switch b.Action {
	case BirdTake:
		return b.Phase == BirdCrossing
	case BirdBring:
		return b.Phase == BirdEntering
	default:
		return false
	}
}

// IsCarrying reports whether item id is the carried target.
func (b *Bird) IsCarrying(id storage.Identifier) bool {
	return b.Carrying() && b.Target.IsItem() && b.Target.Id == id
}

func (b *Bird) CarryPosition() geom.Vec3 {
	return b.Position.Sub(geom.V(0, BirdCarryOffset, 0))
}

func (b *Bird) transition(to BirdPhase) bool {
	if !slices.Contains(birdTransitions[b.Phase], to) {
		slog.Warn("rejected bird transition", "from", b.Phase, "to", to)
		return false
	}
	b.Phase = to
	return true
}

// cancel aborts a sequence and puts a carried target back where it rested.
func (b *Bird) cancel(s *GameState) {
	if !b.Active() {
		return
	}
	if b.Carrying() {
		switch {
		case b.Target.Kind == TargetPlayer:
			s.Player.Carried = false
		case b.Target.IsItem():
			if it := s.item(b.Target.Id); it != nil {
				it.restore()
			}
		}
	}
	b.transition(BirdInactive)
	*b = Bird{}
}

// MaybeStartBird rolls the spawn chance and starts a sequence on success.
func MaybeStartBird(s *GameState, rng Rand) bool {
	if s.Bird.Active() {
		return false
	}
	if rng.Float64() >= s.Policy.BirdSpawnChance {
		return false
	}
	return StartSequence(s, rng)
}

// StartSequence picks an action and target and launches the bird across the
// player's room. It returns false when there is nothing to do.
func StartSequence(s *GameState, rng Rand) bool {
	if s.Bird.Active() {
		return false
	}

	room := s.Player.Room
	var take, bring []Target
	for _, id := range s.World.ItemIds() {
		if id == SpearId || s.Defeated.Has(id) || s.Inventory.Has(id) {
			continue
		}
		it := s.Items[id]
		switch {
		case it.Room == "":
		case it.Room == room:
			take = append(take, ItemTarget(it))
		default:
			bring = append(bring, ItemTarget(it))
		}
	}
	if s.Player.Alive && !s.Player.Carried {
		take = append(take, PlayerTarget())
	}

	var action BirdAction
	var candidates []Target
	switch {
	case len(take) > 0 && (len(bring) == 0 || rng.Float64() < 0.5):
		action, candidates = BirdTake, take
	case len(bring) > 0:
		action, candidates = BirdBring, bring
	default:
		slog.Debug("bird has no targets", "room", room)
		return false
	}

	target := candidates[rng.IntN(len(candidates))]

	entry := Direction(rng.IntN(4))
	span := RoomHalfSize*2 - BirdEdgeOffset*2
	start := birdEdgePoint(entry, (rng.Float64()-0.5)*span)
	end := birdEdgePoint(entry.Opposite(), (rng.Float64()-0.5)*span)

	b := &s.Bird
	if !b.transition(BirdEntering) {
		return false
	}
	b.Action = action
	b.Target = target
	b.Start = start
	b.End = end
	b.Position = start
	b.Velocity = end.Sub(start).Normalize().Scale(BirdSpeed)
	b.Yaw = math.Atan2(b.Velocity.X, b.Velocity.Z)
	b.WingAngle = 0
	b.WingDirection = 1

	if action == BirdBring {
		it := s.Items[target.Id]
		it.rest()
		it.Room = ""
		it.Position = b.CarryPosition()
	}

	slog.Info("bird started", "action", action, "target", target.Id, "room", room, "from", entry)

	s.emit(Event{Kind: EventBirdStarted, ItemId: target.Id, RoomId: room, Message: action.String()})
	return true
}

func birdEdgePoint(d Direction, offset float64) geom.Vec3 {
	edge := RoomHalfSize + BirdEdgeOffset
	switch d {
	case North:
		return geom.V(offset, BirdFlightY, -edge)
	case South:
		return geom.V(offset, BirdFlightY, edge)
	case East:
		return geom.V(edge, BirdFlightY, offset)
	default:
		return geom.V(-edge, BirdFlightY, offset)
	}
}

// TickBird advances an active bird sequence by one step.
func TickBird(s *GameState, rng Rand) {
	b := &s.Bird
	if !b.Active() {
		return
	}

	b.Position = b.Position.Add(b.Velocity)

	b.WingAngle += b.WingDirection * WingStep
	if math.Abs(b.WingAngle) > WingMaxAngle {
		b.WingAngle = math.Copysign(WingMaxAngle, b.WingAngle)
		b.WingDirection = -b.WingDirection
	}

	if b.Carrying() {
		pos := b.CarryPosition()
		if b.Target.Kind == TargetPlayer {
			s.Player.Position = pos
		} else if it := s.item(b.Target.Id); it != nil {
			it.Position = pos
		}
	}

	switch b.Phase {
	case BirdEntering:
		if b.Position.Length() < BirdCrossingRadius {
			birdArrive(s, rng)
		}
	case BirdCrossing:
		if b.Position.DistanceTo(b.End) < BirdExitRadius {
			birdDepart(s, rng)
		}
	}
}

func birdArrive(s *GameState, rng Rand) {
	b := &s.Bird
	if !b.transition(BirdCrossing) {
		return
	}

	switch b.Action {
	case BirdTake:
		if b.Target.Kind == TargetPlayer {
			s.Player.Carried = true
			s.Player.Move = geom.Vec3{}
			s.Player.Position = b.CarryPosition()
		} else if it := s.item(b.Target.Id); it != nil {
			it.rest()
			it.Room = ""
			it.Position = b.CarryPosition()
		}
	case BirdBring:
		if it := s.item(b.Target.Id); it != nil {
			y := ItemGroundY
			if it.Def.Dragon {
				y = DragonGroundY
			}
			it.Room = s.Player.Room
			it.Position = geom.V((rng.Float64()-0.5)*BirdDropSpan, y, (rng.Float64()-0.5)*BirdDropSpan)
			slog.Debug("bird dropped item", "item", it.Id, "room", it.Room, "position", it.Position)
		}
		b.Target = Target{}
	}

	s.Refresh()
}

func birdDepart(s *GameState, rng Rand) {
	b := &s.Bird
	if !b.transition(BirdExiting) {
		return
	}

	action, target := b.Action, b.Target
	from := s.Player.Room

	var others []storage.Identifier
	for _, id := range s.World.RoomIds() {
		if id != from {
			others = append(others, id)
		}
	}
	var dest storage.Identifier
	if action == BirdTake && target.Kind != TargetNone && len(others) > 0 {
		dest = others[rng.IntN(len(others))]
	}

	b.transition(BirdInactive)
	*b = Bird{}

	var relocated bool
	if action == BirdTake {
		switch target.Kind {
		case TargetPlayer:
			s.Player.Carried = false
			s.Player.Position = geom.V(0, PlayerGroundY, 0)
			if dest != "" {
				s.Player.Room = dest
				relocated = true
			}
		case TargetItem, TargetDragon:
			if it := s.item(target.Id); it != nil {
				y := ItemGroundY
				if it.Def.Dragon {
					y = DragonGroundY
				}
				it.Room = dest
				it.Position = geom.V(0, y, 0)
				slog.Debug("bird relocated item", "item", it.Id, "room", dest)
			}
		}
	}

	s.emit(Event{Kind: EventBirdEnded, ItemId: target.Id, RoomId: from, Message: action.String()})

	if relocated {
		enteredRoom(s, nil)
	}
}
