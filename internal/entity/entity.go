// Package entity provides the actors and objects placed on the dungeon grid:
// their movement, melee combat and line of sight.
package entity

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samdwyer/dungeonsim/internal/combat"
	"github.com/samdwyer/dungeonsim/internal/motion"
	"github.com/samdwyer/dungeonsim/internal/world"
)

const (
	// DefaultHealth is used when Config.Health is zero.
	DefaultHealth = 100
	// DefaultDamage is the fixed damage of the default combat policy.
	DefaultDamage = 10
)

// Config describes a new entity. Zero fields take defaults.
type Config struct {
	Name      string
	Tags      world.Tags    // nil means {passable: true}
	Health    int           // 0 means DefaultHealth
	Policy    combat.Policy // nil means combat.Default
	Logger    *zap.Logger   // nil means no logging
	TurnPause time.Duration // glide duration of an animated move
}

// Entity is anything placed on the grid.
type Entity struct {
	id        uuid.UUID
	name      string
	tags      world.Tags
	health    int
	maxHealth int

	grid      Grid
	tile      *world.Tile
	policy    combat.Policy
	log       *zap.Logger
	turnPause time.Duration
	track     *motion.Track

	visible   bool
	dead      bool
	sight     []*world.Tile
	listeners map[EventKind][]Listener
}

// New creates an off-grid entity bound to grid. Place it with Teleport.
func New(grid Grid, cfg Config) *Entity {
	e := &Entity{
		id:        uuid.New(),
		name:      cfg.Name,
		tags:      cfg.Tags.Clone(),
		health:    cfg.Health,
		grid:      grid,
		policy:    cfg.Policy,
		log:       cfg.Logger,
		turnPause: cfg.TurnPause,
		track:     motion.NewTrack(motion.Point{}),
	}
	if e.name == "" {
		e.name = "Entity"
	}
	if cfg.Tags == nil {
		e.tags = world.Tags{world.TagPassable: true}
	}
	if e.health == 0 {
		e.health = DefaultHealth
	}
	e.maxHealth = e.health
	if e.policy == nil {
		e.policy = combat.Default{Damage: DefaultDamage}
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	e.log = e.log.With(zap.String("entity", e.name), zap.Stringer("entity_id", e.id))
	return e
}

// ID returns the entity's unique identity.
func (e *Entity) ID() uuid.UUID { return e.id }

// Name returns the display name.
func (e *Entity) Name() string { return e.name }

// Health returns current health; it may be negative after a killing blow.
func (e *Entity) Health() int { return e.health }

// MaxHealth returns the starting health.
func (e *Entity) MaxHealth() int { return e.maxHealth }

// IsAlive reports whether the entity is still part of the simulation.
func (e *Entity) IsAlive() bool { return !e.dead && e.health > 0 }

// HasTag reports whether tag is set on the entity.
func (e *Entity) HasTag(tag string) bool { return e.tags.Has(tag) }

// SetTag sets or clears a capability tag.
func (e *Entity) SetTag(tag string, v bool) { e.tags[tag] = v }

// Passable reports whether others may walk through this entity. Impassable
// entities also obey collision rules when they move.
func (e *Entity) Passable() bool { return e.tags.Has(world.TagPassable) }

// Tile returns the tile the entity stands on, or nil when off grid.
func (e *Entity) Tile() *world.Tile { return e.tile }

// Visible reports the presentation state last applied by a tile.
func (e *Entity) Visible() bool { return e.visible }

// Reveal marks the entity as shown.
func (e *Entity) Reveal() {
	if e.visible {
		return
	}
	e.visible = true
	e.emit(Event{Kind: EventReveal, Entity: e})
}

// Obscure marks the entity as hidden. Simulation state is unaffected.
func (e *Entity) Obscure() {
	if !e.visible {
		return
	}
	e.visible = false
	e.emit(Event{Kind: EventObscure, Entity: e})
}

// DisplayPosition returns the cosmetic on-screen position. Never use it to
// decide game state.
func (e *Entity) DisplayPosition() motion.Point { return e.track.Position() }

// Settled returns a channel closed when the latest movement glide is over.
func (e *Entity) Settled() <-chan struct{} { return e.track.Done() }

// pixelOf returns the display position of the top-left corner of t.
func (e *Entity) pixelOf(t *world.Tile) motion.Point {
	tw, th := e.grid.TileSize()
	return motion.Point{X: float64(t.X * tw), Y: float64(t.Y * th)}
}

// relocate moves the entity's ledger entry to t and schedules the display
// update. Ledger state is final before it returns.
func (e *Entity) relocate(t *world.Tile, animate bool) {
	if e.tile != nil {
		e.tile.Remove(e)
	}
	e.tile = t
	t.Add(e)

	target := e.pixelOf(t)
	if animate && e.turnPause > 0 {
		e.track.Glide(target, e.turnPause)
	} else {
		e.track.Set(target)
	}
}

var (
	_ world.Occupant   = (*Entity)(nil)
	_ combat.Combatant = (*Entity)(nil)
)
