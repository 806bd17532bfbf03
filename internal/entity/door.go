package entity

import "github.com/samdwyer/dungeonsim/internal/world"

// Door is an entity that a moving actor opens instead of walking into.
type Door struct {
	*Entity
	open bool
}

// NewDoor creates a closed, off-grid door. The door and passable tags are
// always set.
func NewDoor(grid Grid, cfg Config) *Door {
	if cfg.Name == "" {
		cfg.Name = "Door"
	}
	if cfg.Tags == nil {
		cfg.Tags = world.Tags{}
	}
	d := &Door{Entity: New(grid, cfg)}
	d.SetTag(world.TagDoor, true)
	d.SetTag(world.TagPassable, true)
	return d
}

// IsOpen reports whether the door has been opened.
func (d *Door) IsOpen() bool { return d.open }

// Open opens the door. Opening an open door does nothing.
func (d *Door) Open() {
	if d.open {
		return
	}
	d.open = true
	d.log.Debug("opens")
	d.emit(Event{Kind: EventOpen, Entity: d.Entity})
}

var _ Openable = (*Door)(nil)
