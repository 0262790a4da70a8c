package game

import (
	"maps"

	"github.com/pburglin/adventure2/internal/geom"
	"github.com/pburglin/adventure2/internal/storage"
)

type ItemView struct {
	Visible  bool      `json:"visible"`
	Position geom.Vec3 `json:"position"`
	Rotation geom.Vec3 `json:"rotation"`
}

// View maps every item id to what a renderer should show for it.
type View map[storage.Identifier]ItemView

// Resolve computes item visibility for the room the player is in. It does not
// modify its arguments and returns equal maps for equal inputs.
func Resolve(items map[storage.Identifier]*WorldItem, room storage.Identifier, inv Inventory, defeated DefeatedSet, spear Spear) View {
	view := make(View, len(items))

	for id, it := range items {
		v := ItemView{Position: it.Position, Rotation: it.Rotation}

		switch {
		case defeated.Has(id):
			v.Visible = false
		case id == SpearId:
			v = resolveSpear(v, room, inv, spear)
		case inv.Has(id):
			v.Visible = false
		default:
			v.Visible = it.Room != "" && it.Room == room
		}

		if v.Visible && it.Def != nil && it.Def.Dragon {
			v.Position.Y = DragonGroundY
		}

		view[id] = v
	}

	return view
}

func resolveSpear(v ItemView, room storage.Identifier, inv Inventory, spear Spear) ItemView {
	switch spear.State {
	case SpearStuck, SpearThrown:
		v.Visible = spear.Projectile.OriginRoom == room
		v.Position = spear.Projectile.Position
		v.Rotation = spear.Projectile.Rotation
	case SpearRespawned:
		v.Visible = room == spear.Spawn.Room && !inv.Has(SpearId)
		if v.Visible {
			v.Position = spear.Spawn.Position
			v.Rotation = geom.Vec3{}
		}
	default:
		v.Visible = false
	}
	return v
}

// ApplyBird overlays the bird's current target on a resolved view and returns
// the result as a new map.
func ApplyBird(view View, b Bird) View {
	out := maps.Clone(view)
	if !b.Active() || !b.Target.IsItem() {
		return out
	}

	v, ok := out[b.Target.Id]
	if !ok {
		return out
	}

	switch {
	case b.Carrying():
		v.Visible = true
		v.Position = b.CarryPosition()
	case b.Action == BirdTake:
		v.Visible = false
	}
	out[b.Target.Id] = v

	return out
}
