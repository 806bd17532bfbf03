package entity

import "github.com/samdwyer/dungeonsim/internal/world"

// SightStep is the pixel spacing of line-of-sight samples.
const SightStep = 4

// CanSee reports whether nothing blocks the line between this entity's tile
// and target's tile.
func (e *Entity) CanSee(target *Entity) bool {
	if target == nil || target.tile == nil {
		return false
	}
	return e.CanSeePoint(target.tile.X, target.tile.Y)
}

// CanSeePoint reports whether nothing blocks the line from this entity's
// tile centre to the centre of tile (x, y).
func (e *Entity) CanSeePoint(x, y int) bool {
	if e.grid == nil || e.tile == nil {
		return false
	}
	tw, th := e.grid.TileSize()
	hw, hh := float64(tw)/2, float64(th)/2

	x0 := float64(e.tile.X*tw) + hw
	y0 := float64(e.tile.Y*th) + hh
	x1 := float64(x*tw) + hw
	y1 := float64(y*th) + hh

	return len(e.grid.RayCast(x0, y0, x1, y1, SightStep)) == 0
}

// UpdateVision recomputes which tiles within radius the entity can see.
// It emits EventUnsee for tiles that dropped out of sight, then EventSee for
// tiles that came into sight, both in row-major order, and returns them.
func (e *Entity) UpdateVision(radius int) (seen, unseen []*world.Tile) {
	var current []*world.Tile
	if e.grid != nil && e.tile != nil {
		cx, cy := e.tile.X, e.tile.Y
		for y := cy - radius; y <= cy+radius; y++ {
			for x := cx - radius; x <= cx+radius; x++ {
				dx, dy := x-cx, y-cy
				if dx*dx+dy*dy > radius*radius {
					continue
				}
				t := e.grid.Tile(x, y)
				if t != nil && e.CanSeePoint(x, y) {
					current = append(current, t)
				}
			}
		}
	}

	before := make(map[*world.Tile]bool, len(e.sight))
	for _, t := range e.sight {
		before[t] = true
	}
	now := make(map[*world.Tile]bool, len(current))
	for _, t := range current {
		now[t] = true
		if !before[t] {
			seen = append(seen, t)
		}
	}
	for _, t := range e.sight {
		if !now[t] {
			unseen = append(unseen, t)
		}
	}
	e.sight = current

	for _, t := range unseen {
		e.emit(Event{Kind: EventUnsee, Entity: e, Tile: t})
	}
	for _, t := range seen {
		e.emit(Event{Kind: EventSee, Entity: e, Tile: t})
	}
	return seen, unseen
}

// VisibleTiles returns the tiles seen at the last vision update.
func (e *Entity) VisibleTiles() []*world.Tile {
	out := make([]*world.Tile, len(e.sight))
	copy(out, e.sight)
	return out
}
