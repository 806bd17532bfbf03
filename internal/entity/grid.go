package entity

import "github.com/samdwyer/dungeonsim/internal/world"

// Grid is the map an entity moves on. The level package provides the real
// implementation; tests substitute their own.
type Grid interface {
	// Tile returns the tile at (x, y), or nil outside the grid.
	Tile(x, y int) *world.Tile
	// IsPassable reports whether the terrain at (x, y) can be walked on.
	IsPassable(x, y int) bool
	// DoorAt returns the door at (x, y), or nil.
	DoorAt(x, y int) Openable
	// MonsterAt returns the monster at (x, y), or nil.
	MonsterAt(x, y int) *Entity
	// PlayerAt reports whether the player stands at (x, y).
	PlayerAt(x, y int) bool
	// TileSize returns the pixel size of one tile.
	TileSize() (width, height int)
	// RayCast returns the sight-blocking tiles crossed by the pixel-space
	// segment, sampled every stepRate units, ignoring the end tiles.
	RayCast(x0, y0, x1, y1, stepRate float64) []*world.Tile
}

// Openable is a door as seen by a moving entity.
type Openable interface {
	IsOpen() bool
	Open()
}

// Direction is a single grid step; each component is -1, 0 or 1.
type Direction struct {
	X, Y int
}

// The eight compass steps.
var (
	North     = Direction{0, -1}
	South     = Direction{0, 1}
	East      = Direction{1, 0}
	West      = Direction{-1, 0}
	NorthEast = Direction{1, -1}
	NorthWest = Direction{-1, -1}
	SouthEast = Direction{1, 1}
	SouthWest = Direction{-1, 1}
)
