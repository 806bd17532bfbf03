package world

import "slices"

// Occupant is anything that can stand on a Tile.
type Occupant interface {
	HasTag(tag string) bool
	// Reveal and Obscure apply the tile's presentation state to the occupant.
	Reveal()
	Obscure()
}

// Tile is a single grid cell and the ledger of what currently occupies it.
// Occupants are kept in insertion order and compared by identity.
type Tile struct {
	X, Y int

	contents []Occupant
	visible  bool
	explored bool
}

// NewTile creates an empty, obscured tile at the given coordinate.
func NewTile(x, y int) *Tile {
	return &Tile{X: x, Y: y}
}

// Add places o on the tile. Adding an occupant already present does nothing.
// A new occupant immediately adopts the tile's visibility.
func (t *Tile) Add(o Occupant) {
	if t.indexOf(o) != -1 {
		return
	}
	if t.visible {
		o.Reveal()
	} else {
		o.Obscure()
	}
	t.contents = append(t.contents, o)
}

// Remove takes o off the tile if it is present.
func (t *Tile) Remove(o Occupant) {
	i := t.indexOf(o)
	if i == -1 {
		return
	}
	t.contents = slices.Delete(t.contents, i, i+1)
}

// Contains reports whether o is on the tile.
func (t *Tile) Contains(o Occupant) bool {
	return t.indexOf(o) != -1
}

// ContainsType reports whether any occupant carries tag.
func (t *Tile) ContainsType(tag string) bool {
	for _, o := range t.contents {
		if o.HasTag(tag) {
			return true
		}
	}
	return false
}

// GetAll appends every occupant carrying tag to out and returns the result.
// out may be nil.
func (t *Tile) GetAll(tag string, out []Occupant) []Occupant {
	for _, o := range t.contents {
		if o.HasTag(tag) {
			out = append(out, o)
		}
	}
	return out
}

// Contents returns a copy of the occupants in insertion order.
func (t *Tile) Contents() []Occupant {
	out := make([]Occupant, len(t.contents))
	copy(out, t.contents)
	return out
}

// Len returns the number of occupants.
func (t *Tile) Len() int {
	return len(t.contents)
}

// Visible reports whether the tile is currently revealed.
func (t *Tile) Visible() bool {
	return t.visible
}

// Explored reports whether the tile has ever been revealed.
func (t *Tile) Explored() bool {
	return t.explored
}

// SetVisible reveals or obscures the tile and every occupant on it.
func (t *Tile) SetVisible(visible bool) {
	t.visible = visible
	if visible {
		t.explored = true
	}
	for _, o := range t.contents {
		if visible {
			o.Reveal()
		} else {
			o.Obscure()
		}
	}
}

// Show reveals the tile.
func (t *Tile) Show() { t.SetVisible(true) }

// Hide obscures the tile.
func (t *Tile) Hide() { t.SetVisible(false) }

func (t *Tile) indexOf(o Occupant) int {
	for i, c := range t.contents {
		if c == o {
			return i
		}
	}
	return -1
}
