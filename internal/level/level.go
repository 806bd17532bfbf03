// Package level binds a generated dungeon to the entities living in it and
// answers the grid queries entities make while they move and look around.
package level

import (
	"go.uber.org/zap"

	"github.com/samdwyer/dungeonsim/internal/entity"
	"github.com/samdwyer/dungeonsim/internal/gamedata"
	"github.com/samdwyer/dungeonsim/internal/world"
)

// Level is the concrete entity.Grid over a world.Dungeon.
type Level struct {
	dungeon *world.Dungeon
	log     *zap.Logger

	player    *entity.Entity
	monsters  []*entity.Entity
	doors     map[*entity.Entity]*entity.Door
	doorOrder []*entity.Door
	kinds     map[*entity.Entity]*gamedata.CreatureDef
}

// New wraps d. A nil logger disables logging.
func New(d *world.Dungeon, log *zap.Logger) *Level {
	if log == nil {
		log = zap.NewNop()
	}
	return &Level{
		dungeon: d,
		log:     log,
		doors:   make(map[*entity.Entity]*entity.Door),
		kinds:   make(map[*entity.Entity]*gamedata.CreatureDef),
	}
}

// Dungeon returns the wrapped terrain grid.
func (l *Level) Dungeon() *world.Dungeon { return l.dungeon }

// Logger returns the logger handed to spawned entities.
func (l *Level) Logger() *zap.Logger { return l.log }

// SetPlayer registers p as the player. p should carry the player tag.
func (l *Level) SetPlayer(p *entity.Entity) { l.player = p }

// Player returns the registered player, or nil.
func (l *Level) Player() *entity.Entity { return l.player }

// AddMonster registers m. It leaves the registry when it dies.
func (l *Level) AddMonster(m *entity.Entity) {
	l.monsters = append(l.monsters, m)
	m.On(entity.EventDie, func(ev entity.Event) {
		l.removeMonster(ev.Entity)
	})
}

func (l *Level) removeMonster(m *entity.Entity) {
	for i, c := range l.monsters {
		if c == m {
			l.monsters = append(l.monsters[:i], l.monsters[i+1:]...)
			delete(l.kinds, m)
			return
		}
	}
}

// Monsters returns the living monsters in spawn order.
func (l *Level) Monsters() []*entity.Entity {
	out := make([]*entity.Entity, 0, len(l.monsters))
	for _, m := range l.monsters {
		if m.IsAlive() {
			out = append(out, m)
		}
	}
	return out
}

// AddDoor registers d so that DoorAt and sight can find it.
func (l *Level) AddDoor(d *entity.Door) {
	if _, ok := l.doors[d.Entity]; ok {
		return
	}
	l.doors[d.Entity] = d
	l.doorOrder = append(l.doorOrder, d)
}

// Doors returns every registered door in placement order.
func (l *Level) Doors() []*entity.Door {
	out := make([]*entity.Door, len(l.doorOrder))
	copy(out, l.doorOrder)
	return out
}

// Kind returns the creature definition e was spawned from, or nil.
func (l *Level) Kind(e *entity.Entity) *gamedata.CreatureDef {
	return l.kinds[e]
}

// Tile implements entity.Grid.
func (l *Level) Tile(x, y int) *world.Tile { return l.dungeon.Tile(x, y) }

// IsPassable implements entity.Grid.
func (l *Level) IsPassable(x, y int) bool { return l.dungeon.IsPassable(x, y) }

// TileSize implements entity.Grid.
func (l *Level) TileSize() (int, int) {
	return l.dungeon.TileWidth, l.dungeon.TileHeight
}

// DoorAt returns the door standing on (x, y), or nil.
func (l *Level) DoorAt(x, y int) entity.Openable {
	if d := l.doorOn(l.dungeon.Tile(x, y)); d != nil {
		return d
	}
	return nil
}

func (l *Level) doorOn(t *world.Tile) *entity.Door {
	if t == nil {
		return nil
	}
	for _, o := range t.GetAll(world.TagDoor, nil) {
		if e, ok := o.(*entity.Entity); ok {
			if d := l.doors[e]; d != nil {
				return d
			}
		}
	}
	return nil
}

// MonsterAt returns the first living monster on (x, y), or nil.
func (l *Level) MonsterAt(x, y int) *entity.Entity {
	t := l.dungeon.Tile(x, y)
	if t == nil {
		return nil
	}
	for _, o := range t.GetAll(world.TagMonster, nil) {
		if e, ok := o.(*entity.Entity); ok && e.IsAlive() {
			return e
		}
	}
	return nil
}

// PlayerAt reports whether the player stands on (x, y).
func (l *Level) PlayerAt(x, y int) bool {
	if l.player == nil {
		return false
	}
	t := l.player.Tile()
	return t != nil && t.X == x && t.Y == y
}

// RayCast reports tiles on the segment whose terrain blocks sight or that
// hold a closed door.
func (l *Level) RayCast(x0, y0, x1, y1, stepRate float64) []*world.Tile {
	return l.dungeon.RayCast(x0, y0, x1, y1, stepRate, l.blocksSight)
}

func (l *Level) blocksSight(t *world.Tile) bool {
	if l.dungeon.BlocksSight(t) {
		return true
	}
	d := l.doorOn(t)
	return d != nil && !d.IsOpen()
}

var _ entity.Grid = (*Level)(nil)
