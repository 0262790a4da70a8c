package game

import (
	"slices"

	"github.com/pburglin/adventure2/internal/storage"
)

// Inventory is the ordered set of item ids the player holds.
type Inventory struct {
	ids []storage.Identifier
}

func (inv *Inventory) Has(id storage.Identifier) bool {
	return slices.Contains(inv.ids, id)
}

// Add appends id unless it is already held.
func (inv *Inventory) Add(id storage.Identifier) bool {
	if inv.Has(id) {
		return false
	}
	inv.ids = append(inv.ids, id)
	return true
}

func (inv *Inventory) Remove(id storage.Identifier) bool {
	i := slices.Index(inv.ids, id)
	if i < 0 {
		return false
	}
	inv.ids = slices.Delete(inv.ids, i, i+1)
	return true
}

// Items returns a copy of the held ids in pickup order.
func (inv *Inventory) Items() []storage.Identifier {
	return slices.Clone(inv.ids)
}

func (inv *Inventory) Len() int {
	return len(inv.ids)
}

func (inv *Inventory) Clear() {
	inv.ids = nil
}

// DefeatedSet holds dragons removed from play for the current life.
type DefeatedSet map[storage.Identifier]struct{}

func (d DefeatedSet) Has(id storage.Identifier) bool {
	_, ok := d[id]
	return ok
}

func (d DefeatedSet) Add(id storage.Identifier) {
	d[id] = struct{}{}
}

func (d DefeatedSet) Clear() {
	clear(d)
}

// Ids returns the defeated dragons in ascending order.
func (d DefeatedSet) Ids() []storage.Identifier {
	ids := make([]storage.Identifier, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sortIds(ids)
	return ids
}
