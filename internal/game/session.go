package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/dungeonsim/internal/config"
	"github.com/samdwyer/dungeonsim/internal/entity"
	"github.com/samdwyer/dungeonsim/internal/gamedata"
	"github.com/samdwyer/dungeonsim/internal/level"
	"github.com/samdwyer/dungeonsim/internal/telemetry"
	"github.com/samdwyer/dungeonsim/internal/world"
)

// MaxMessages caps the message log.
const MaxMessages = 50

// DefaultVisionRadius is used when SessionOptions.VisionRadius is zero.
const DefaultVisionRadius = 8

// SessionOptions tunes a Session.
type SessionOptions struct {
	VisionRadius int
	Tracer       trace.Tracer // nil means telemetry.Tracer("game")
	Logger       *zap.Logger  // nil means no logging
}

// Session is the headless turn driver: the player acts, then every living
// monster, then the player's sight is refreshed.
type Session struct {
	level  *level.Level
	player *entity.Entity
	radius int
	tracer trace.Tracer
	log    *zap.Logger

	turn     int
	messages []string
}

// NewSession drives l, which must already have a player.
func NewSession(l *level.Level, opts SessionOptions) (*Session, error) {
	player := l.Player()
	if player == nil {
		return nil, errors.New("new session: level has no player")
	}
	s := &Session{
		level:  l,
		player: player,
		radius: opts.VisionRadius,
		tracer: opts.Tracer,
		log:    opts.Logger,
	}
	if s.radius <= 0 {
		s.radius = DefaultVisionRadius
	}
	if s.tracer == nil {
		s.tracer = telemetry.Tracer("game")
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}

	player.On(entity.EventSee, func(ev entity.Event) { ev.Tile.Show() })
	player.On(entity.EventUnsee, func(ev entity.Event) { ev.Tile.Hide() })
	s.narrate(player)
	for _, m := range l.Monsters() {
		s.narrate(m)
	}
	for _, d := range l.Doors() {
		d.On(entity.EventOpen, func(entity.Event) { s.say("The door opens.") })
	}

	player.UpdateVision(s.radius)
	return s, nil
}

// Build generates and populates a dungeon from cfg and starts a session on
// it. The same seed always yields the same session.
func Build(ctx context.Context, cfg *config.Config, reg *gamedata.CreatureRegistry, log *zap.Logger, tracer trace.Tracer) (*Session, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	d := world.NewDungeon(cfg.Map.Width, cfg.Map.Height, rng)
	d.TileWidth, d.TileHeight = cfg.Map.Tile.Width, cfg.Map.Tile.Height
	d.Generate(ctx)

	l := level.New(d, log)
	err := l.Populate(reg, rng, level.SpawnOptions{
		MonstersPerRoom: cfg.MonstersPerRoom,
		TurnPause:       cfg.TurnPause,
	})
	if err != nil {
		return nil, fmt.Errorf("populate level: %w", err)
	}
	if log != nil {
		log.Info("session built", zap.Int64("seed", seed), zap.Int("rooms", len(d.Rooms)))
	}
	return NewSession(l, SessionOptions{VisionRadius: cfg.VisionRadius, Logger: log, Tracer: tracer})
}

// narrate feeds e's combat events into the message log.
func (s *Session) narrate(e *entity.Entity) {
	e.On(entity.EventAttack, func(ev entity.Event) {
		s.log.Info("attack",
			zap.Int("turn", s.turn),
			zap.String("attacker", ev.Entity.Name()),
			zap.Stringer("attacker_id", ev.Entity.ID()),
			zap.String("target", ev.Other.Name()),
			zap.Stringer("target_id", ev.Other.ID()),
			zap.Bool("hit", ev.Hit),
			zap.Int("damage", ev.Amount),
		)
		if ev.Hit {
			s.say(fmt.Sprintf("%s hits %s for %d.", ev.Entity.Name(), ev.Other.Name(), ev.Amount))
		} else {
			s.say(fmt.Sprintf("%s misses %s.", ev.Entity.Name(), ev.Other.Name()))
		}
	})
	e.On(entity.EventDie, func(ev entity.Event) {
		s.log.Info("death", zap.String("entity", ev.Entity.Name()), zap.Stringer("entity_id", ev.Entity.ID()))
		s.say(fmt.Sprintf("%s dies.", ev.Entity.Name()))
	})
}

func (s *Session) say(msg string) {
	s.messages = append(s.messages, msg)
	if len(s.messages) > MaxMessages {
		s.messages = s.messages[len(s.messages)-MaxMessages:]
	}
}

// PlayerMove performs the player's step in dir and, if it consumed the turn,
// lets the monsters act. It returns whether a turn passed.
func (s *Session) PlayerMove(ctx context.Context, dir entity.Direction) bool {
	if s.Over() {
		return false
	}
	ctx, span := s.tracer.Start(ctx, "game.turn")
	defer span.End()
	span.SetAttributes(
		attribute.String("action", "move"),
		attribute.Int("dir.x", dir.X),
		attribute.Int("dir.y", dir.Y),
	)

	if !s.player.Move(dir) {
		span.SetAttributes(attribute.Bool("consumed", false))
		return false
	}
	s.endTurn(ctx, span)
	return true
}

// WaitHeal is the health a player regains by waiting a turn.
const WaitHeal = 1

// Wait passes the player's turn, regaining WaitHeal health.
func (s *Session) Wait(ctx context.Context) bool {
	if s.Over() {
		return false
	}
	ctx, span := s.tracer.Start(ctx, "game.turn")
	defer span.End()
	healed := s.player.Heal(WaitHeal)
	span.SetAttributes(attribute.String("action", "wait"), attribute.Int("healed", healed))
	s.endTurn(ctx, span)
	return true
}

func (s *Session) endTurn(ctx context.Context, span trace.Span) {
	s.monstersAct(ctx)
	s.player.UpdateVision(s.radius)
	s.turn++

	attrs := []attribute.KeyValue{
		attribute.Bool("consumed", true),
		attribute.Int("turn", s.turn),
		attribute.Int("player.health", s.player.Health()),
		attribute.Int("monsters.alive", len(s.level.Monsters())),
	}
	if t := s.player.Tile(); t != nil {
		attrs = append(attrs, attribute.Int("player.x", t.X), attribute.Int("player.y", t.Y))
	}
	span.SetAttributes(attrs...)

	if s.Over() {
		s.say("You die...")
		s.log.Info("player died", zap.Int("turn", s.turn))
	}
}

// monstersAct gives every living monster that can see the player and is
// hostile to it one action: melee when adjacent, otherwise a step toward the
// player.
func (s *Session) monstersAct(ctx context.Context) {
	_, span := s.tracer.Start(ctx, "game.monsters")
	defer span.End()

	acted := 0
	for _, m := range s.level.Monsters() {
		if !s.player.IsAlive() {
			break
		}
		if !m.IsAlive() || !m.WouldAttack(s.player) || !m.CanSee(s.player) {
			continue
		}
		if adjacent(m.Tile(), s.player.Tile()) {
			m.Engage(s.player)
		} else {
			m.Approach(s.player)
		}
		acted++
	}
	span.SetAttributes(attribute.Int("monsters.acted", acted))
}

func adjacent(a, b *world.Tile) bool {
	if a == nil || b == nil {
		return false
	}
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1 && (dx != 0 || dy != 0)
}

// Level returns the level being played.
func (s *Session) Level() *level.Level { return s.level }

// Player returns the player entity.
func (s *Session) Player() *entity.Entity { return s.player }

// Turn returns the number of turns that have passed.
func (s *Session) Turn() int { return s.turn }

// Messages returns the message log, oldest first.
func (s *Session) Messages() []string {
	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}

// State reports whether the player can still act.
func (s *Session) State() State {
	if s.player.IsAlive() {
		return StatePlaying
	}
	return StateDead
}

// Over reports whether the player is dead.
func (s *Session) Over() bool { return s.State() == StateDead }

// Settled returns the glide completion channels of every living actor.
func (s *Session) Settled() []<-chan struct{} {
	monsters := s.level.Monsters()
	out := make([]<-chan struct{}, 0, len(monsters)+1)
	out = append(out, s.player.Settled())
	for _, m := range monsters {
		out = append(out, m.Settled())
	}
	return out
}
