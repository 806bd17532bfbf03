package world

import (
	"math"
	"math/rand"
	"time"
)

const (
	// Default dungeon dimensions in tiles.
	DefaultWidth  = 80
	DefaultHeight = 40

	// DefaultTileSize is the pixel edge of a tile when none is configured.
	DefaultTileSize = 32
)

// Point is an integer tile coordinate.
type Point struct {
	X, Y int
}

// Dungeon is a rectangular terrain grid with one occupancy Tile per cell.
type Dungeon struct {
	Width      int
	Height     int
	TileWidth  int
	TileHeight int
	Rooms      []Room

	terrain [][]Terrain
	cells   [][]*Tile
	rng     *rand.Rand
}

// NewDungeon creates a dungeon filled with walls. A nil rng is replaced by a
// time-seeded one.
func NewDungeon(width, height int, rng *rand.Rand) *Dungeon {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	d := &Dungeon{
		Width:      width,
		Height:     height,
		TileWidth:  DefaultTileSize,
		TileHeight: DefaultTileSize,
		terrain:    make([][]Terrain, height),
		cells:      make([][]*Tile, height),
		rng:        rng,
	}
	for y := 0; y < height; y++ {
		d.terrain[y] = make([]Terrain, width)
		d.cells[y] = make([]*Tile, width)
		for x := 0; x < width; x++ {
			d.terrain[y][x] = TerrainWall
			d.cells[y][x] = NewTile(x, y)
		}
	}
	return d
}

// InBounds reports whether (x, y) lies on the grid.
func (d *Dungeon) InBounds(x, y int) bool {
	return x >= 0 && x < d.Width && y >= 0 && y < d.Height
}

// Terrain returns the terrain at (x, y). Cells off the grid read as wall.
func (d *Dungeon) Terrain(x, y int) Terrain {
	if !d.InBounds(x, y) {
		return TerrainWall
	}
	return d.terrain[y][x]
}

// SetTerrain changes the terrain at (x, y). Off-grid writes are ignored.
func (d *Dungeon) SetTerrain(x, y int, t Terrain) {
	if d.InBounds(x, y) {
		d.terrain[y][x] = t
	}
}

// IsPassable returns true if the terrain at (x, y) can be walked on.
func (d *Dungeon) IsPassable(x, y int) bool {
	return d.Terrain(x, y).IsPassable()
}

// Tile returns the occupancy tile at (x, y), or nil outside the grid.
func (d *Dungeon) Tile(x, y int) *Tile {
	if !d.InBounds(x, y) {
		return nil
	}
	return d.cells[y][x]
}

// TileAtPixel returns the tile under a pixel-space position, or nil.
func (d *Dungeon) TileAtPixel(px, py float64) *Tile {
	return d.Tile(int(math.Floor(px/float64(d.TileWidth))), int(math.Floor(py/float64(d.TileHeight))))
}

// RayCast samples the pixel-space segment (x0,y0)-(x1,y1) every stepRate
// units and returns, in order, each distinct tile for which blocks reports
// true. Samples falling in the start or end tile are skipped.
func (d *Dungeon) RayCast(x0, y0, x1, y1, stepRate float64, blocks func(*Tile) bool) []*Tile {
	if stepRate <= 0 {
		stepRate = 1
	}
	start := d.TileAtPixel(x0, y0)
	end := d.TileAtPixel(x1, y1)

	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return nil
	}
	steps := int(length / stepRate)

	var hits []*Tile
	var last *Tile
	for i := 0; i <= steps; i++ {
		f := float64(i) * stepRate / length
		t := d.TileAtPixel(x0+dx*f, y0+dy*f)
		if t == nil || t == start || t == end || t == last {
			continue
		}
		last = t
		if blocks(t) {
			hits = append(hits, t)
		}
	}
	return hits
}

// BlocksSight is the terrain-only sight filter for RayCast.
func (d *Dungeon) BlocksSight(t *Tile) bool {
	return d.Terrain(t.X, t.Y).BlocksSight()
}

// RoomIndexAt returns the index of the room containing the position, or -1 if not in a room.
func (d *Dungeon) RoomIndexAt(x, y int) int {
	for i, room := range d.Rooms {
		if room.Contains(x, y) {
			return i
		}
	}
	return -1
}

// RandomPointInRoom returns a random passable point within the room, falling
// back to its centre after a bounded number of attempts.
func (d *Dungeon) RandomPointInRoom(roomIndex int) (Point, bool) {
	if roomIndex < 0 || roomIndex >= len(d.Rooms) {
		return Point{}, false
	}
	room := d.Rooms[roomIndex]
	for i := 0; i < 100; i++ {
		p := Point{X: room.X + d.rng.Intn(room.Width), Y: room.Y + d.rng.Intn(room.Height)}
		if d.IsPassable(p.X, p.Y) {
			return p, true
		}
	}
	return room.Center(), true
}
