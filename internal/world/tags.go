package world

// Well-known capability tags.
const (
	TagPassable = "passable"
	TagMonster  = "monster"
	TagPlayer   = "player"
	TagDoor     = "door"
)

// Tags is a set of capability labels describing an occupant.
// A missing tag reads as false.
type Tags map[string]bool

// Has reports whether tag is set.
func (t Tags) Has(tag string) bool {
	return t[tag]
}

// Clone returns an independent copy of t.
func (t Tags) Clone() Tags {
	out := make(Tags, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
