package level

import (
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/samdwyer/dungeonsim/internal/combat"
	"github.com/samdwyer/dungeonsim/internal/entity"
	"github.com/samdwyer/dungeonsim/internal/gamedata"
	"github.com/samdwyer/dungeonsim/internal/world"
)

// ErrNoRooms is returned when there is nowhere to put the player.
var ErrNoRooms = errors.New("level: dungeon has no rooms")

// SpawnOptions tunes Populate.
type SpawnOptions struct {
	MonstersPerRoom int
	TurnPause       time.Duration
}

// Populate places doors on room thresholds, the player at the centre of the
// first room, and weighted random monsters in every other room.
func (l *Level) Populate(reg *gamedata.CreatureRegistry, rng *rand.Rand, opts SpawnOptions) error {
	d := l.dungeon
	if len(d.Rooms) == 0 {
		return ErrNoRooms
	}

	for _, room := range d.Rooms {
		for _, p := range room.Ring() {
			if l.isThreshold(p) && l.doorOn(d.Tile(p.X, p.Y)) == nil {
				door := entity.NewDoor(l, entity.Config{Logger: l.log})
				if door.Teleport(p.X, p.Y) {
					l.AddDoor(door)
				}
			}
		}
	}

	def := reg.Player()
	player := l.spawn(def, world.TagPlayer, rng, opts)
	start := d.Rooms[0].Center()
	if !player.Teleport(start.X, start.Y) {
		return errors.New("level: first room centre is not passable")
	}
	l.SetPlayer(player)

	monsters := 0
	for i := 1; i < len(d.Rooms); i++ {
		for n := 0; n < opts.MonstersPerRoom; n++ {
			def := reg.SpawnRandom(rng)
			if def == nil {
				break
			}
			p, ok := d.RandomPointInRoom(i)
			if !ok || d.RoomIndexAt(p.X, p.Y) == 0 || l.MonsterAt(p.X, p.Y) != nil {
				continue
			}
			m := l.spawn(def, world.TagMonster, rng, opts)
			if m.Teleport(p.X, p.Y) {
				l.AddMonster(m)
				monsters++
			}
		}
	}

	l.log.Info("level populated",
		zap.Int("rooms", len(d.Rooms)),
		zap.Int("doors", len(l.doorOrder)),
		zap.Int("monsters", monsters),
	)
	return nil
}

func (l *Level) spawn(def *gamedata.CreatureDef, tag string, rng *rand.Rand, opts SpawnOptions) *entity.Entity {
	e := entity.New(l, entity.Config{
		Name:      def.Name,
		Tags:      world.Tags{tag: true},
		Health:    def.HP,
		Policy:    combat.NewDice(def, rng),
		Logger:    l.log,
		TurnPause: opts.TurnPause,
	})
	l.kinds[e] = def
	return e
}

// isThreshold reports whether p is a floor cell squeezed between two
// sight-blocking neighbours on opposite sides.
func (l *Level) isThreshold(p world.Point) bool {
	d := l.dungeon
	if !d.IsPassable(p.X, p.Y) {
		return false
	}
	wall := func(x, y int) bool { return !d.IsPassable(x, y) }
	return (wall(p.X-1, p.Y) && wall(p.X+1, p.Y)) || (wall(p.X, p.Y-1) && wall(p.X, p.Y+1))
}
