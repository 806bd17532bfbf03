// Package world provides the dungeon terrain, the per-cell occupancy ledger
// and room generation.
package world

// Terrain is the static ground type of a map cell.
type Terrain rune

const (
	// TerrainWall is impassable and blocks line of sight.
	TerrainWall Terrain = '#'
	// TerrainFloor can be walked on and seen across.
	TerrainFloor Terrain = '.'
)

// IsPassable returns true if the terrain can be walked on.
func (t Terrain) IsPassable() bool {
	return t == TerrainFloor
}

// BlocksSight returns true if the terrain stops a sight ray.
func (t Terrain) BlocksSight() bool {
	return t != TerrainFloor
}

// Rune returns the terrain's display character.
func (t Terrain) Rune() rune {
	return rune(t)
}
