package world

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeonsim/internal/telemetry"
)

// BSP parameters.
const (
	minRoomSize = 4
	maxRoomSize = 12
	minLeafSize = 8
)

// region is one node of the binary space partition.
type region struct {
	x, y, w, h int
	lo, hi     *region
	room       *Room
}

func (r *region) leaf() bool { return r.lo == nil }

// Generate carves rooms and corridors into the dungeon. Previous terrain and
// rooms are discarded; occupancy tiles are kept.
func (d *Dungeon) Generate(ctx context.Context) {
	_, span := telemetry.Tracer("world").Start(ctx, "dungeon.generate")
	defer span.End()
	started := time.Now()

	for y := range d.terrain {
		for x := range d.terrain[y] {
			d.terrain[y][x] = TerrainWall
		}
	}
	d.Rooms = d.Rooms[:0]

	root := &region{x: 1, y: 1, w: d.Width - 2, h: d.Height - 2}
	d.partition(root)
	d.furnish(root)
	d.link(root)

	span.SetAttributes(
		attribute.Int("dungeon.width", d.Width),
		attribute.Int("dungeon.height", d.Height),
		attribute.Int("dungeon.room_count", len(d.Rooms)),
		attribute.Int64("dungeon.generation_ms", time.Since(started).Milliseconds()),
	)
}

// partition splits r along its longer axis until leaves are too small.
func (d *Dungeon) partition(r *region) {
	vertical := r.w >= r.h
	span := r.h
	if vertical {
		span = r.w
	}
	if span < 2*minLeafSize {
		// Try the other axis before giving up.
		vertical = !vertical
		span = r.h
		if vertical {
			span = r.w
		}
		if span < 2*minLeafSize {
			return
		}
	}

	cut := minLeafSize + d.rng.Intn(span-2*minLeafSize+1)
	if vertical {
		r.lo = &region{x: r.x, y: r.y, w: cut, h: r.h}
		r.hi = &region{x: r.x + cut, y: r.y, w: r.w - cut, h: r.h}
	} else {
		r.lo = &region{x: r.x, y: r.y, w: r.w, h: cut}
		r.hi = &region{x: r.x, y: r.y + cut, w: r.w, h: r.h - cut}
	}
	d.partition(r.lo)
	d.partition(r.hi)
}

// furnish places one room in every leaf large enough to hold it.
func (d *Dungeon) furnish(r *region) {
	if r == nil {
		return
	}
	if !r.leaf() {
		d.furnish(r.lo)
		d.furnish(r.hi)
		return
	}

	w := d.roomSide(r.w - 2)
	h := d.roomSide(r.h - 2)
	if w < minRoomSize || h < minRoomSize {
		return
	}
	room := Room{
		X:      r.x + 1 + d.rng.Intn(r.w-w-1),
		Y:      r.y + 1 + d.rng.Intn(r.h-h-1),
		Width:  w,
		Height: h,
	}
	r.room = &room
	d.Rooms = append(d.Rooms, room)
	for y := room.Y; y < room.Y+room.Height; y++ {
		for x := room.X; x < room.X+room.Width; x++ {
			d.carve(x, y)
		}
	}
}

// roomSide picks a room edge no longer than limit.
func (d *Dungeon) roomSide(limit int) int {
	hi := min(maxRoomSize, limit)
	if hi < minRoomSize {
		return hi
	}
	return minRoomSize + d.rng.Intn(hi-minRoomSize+1)
}

// link joins sibling subtrees bottom-up with L-shaped corridors.
func (d *Dungeon) link(r *region) {
	if r == nil || r.leaf() {
		return
	}
	d.link(r.lo)
	d.link(r.hi)

	a, b := anyRoom(r.lo), anyRoom(r.hi)
	if a == nil || b == nil {
		return
	}
	from, to := a.Center(), b.Center()
	if d.rng.Intn(2) == 0 {
		d.carveRow(from.X, to.X, from.Y)
		d.carveColumn(from.Y, to.Y, to.X)
	} else {
		d.carveColumn(from.Y, to.Y, from.X)
		d.carveRow(from.X, to.X, to.Y)
	}
}

func anyRoom(r *region) *Room {
	if r == nil {
		return nil
	}
	if r.room != nil {
		return r.room
	}
	if room := anyRoom(r.lo); room != nil {
		return room
	}
	return anyRoom(r.hi)
}

func (d *Dungeon) carveRow(x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		d.carve(x, y)
	}
}

func (d *Dungeon) carveColumn(y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		d.carve(x, y)
	}
}

// carve turns an interior cell into floor; the outer border stays wall.
func (d *Dungeon) carve(x, y int) {
	if x > 0 && x < d.Width-1 && y > 0 && y < d.Height-1 {
		d.terrain[y][x] = TerrainFloor
	}
}
