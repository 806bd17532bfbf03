package entity

import (
	"math/rand"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/samdwyer/dungeonsim/internal/combat"
	"github.com/samdwyer/dungeonsim/internal/world"
)

// fakeGrid is an all-floor dungeon with hand-placed doors, monsters and a
// player. It records every door lookup, which impassable movers make once per
// attempted step.
type fakeGrid struct {
	d        *world.Dungeon
	doors    map[world.Point]*Door
	monsters []*Entity
	player   *Entity
	lookups  []world.Point
}

func newFakeGrid(w, h int) *fakeGrid {
	d := world.NewDungeon(w, h, rand.New(rand.NewSource(1)))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d.SetTerrain(x, y, world.TerrainFloor)
		}
	}
	return &fakeGrid{d: d, doors: map[world.Point]*Door{}}
}

func (g *fakeGrid) wall(x, y int) { g.d.SetTerrain(x, y, world.TerrainWall) }

func (g *fakeGrid) Tile(x, y int) *world.Tile { return g.d.Tile(x, y) }
func (g *fakeGrid) IsPassable(x, y int) bool  { return g.d.IsPassable(x, y) }
func (g *fakeGrid) TileSize() (int, int)      { return 32, 32 }

func (g *fakeGrid) DoorAt(x, y int) Openable {
	g.lookups = append(g.lookups, world.Point{X: x, Y: y})
	if d, ok := g.doors[world.Point{X: x, Y: y}]; ok {
		return d
	}
	return nil
}

func (g *fakeGrid) MonsterAt(x, y int) *Entity {
	for _, m := range g.monsters {
		if at(m, x, y) && m.IsAlive() {
			return m
		}
	}
	return nil
}

func (g *fakeGrid) PlayerAt(x, y int) bool {
	return g.player != nil && at(g.player, x, y)
}

func (g *fakeGrid) RayCast(x0, y0, x1, y1, stepRate float64) []*world.Tile {
	return g.d.RayCast(x0, y0, x1, y1, stepRate, g.d.BlocksSight)
}

func at(e *Entity, x, y int) bool {
	t := e.Tile()
	return t != nil && t.X == x && t.Y == y
}

// scriptedPolicy returns fixed answers and counts calls.
type scriptedPolicy struct {
	reaction combat.Reaction
	defends  bool
	toHit    int
	damage   int
	defended []int
}

func (p *scriptedPolicy) ReactTo(self, other combat.Combatant) combat.Reaction { return p.reaction }
func (p *scriptedPolicy) Defend(self combat.Combatant, toHit int) bool {
	p.defended = append(p.defended, toHit)
	return p.defends
}
func (p *scriptedPolicy) RollToHitMelee(self combat.Combatant) int { return p.toHit }
func (p *scriptedPolicy) RollForDamage(self combat.Combatant) int  { return p.damage }

func spawnPlayer(t *testing.T, g *fakeGrid, x, y int, policy combat.Policy) *Entity {
	t.Helper()
	p := New(g, Config{Name: "Hero", Tags: world.Tags{world.TagPlayer: true}, Policy: policy})
	if !p.Teleport(x, y) {
		t.Fatalf("could not place player at (%d,%d)", x, y)
	}
	g.player = p
	return p
}

func spawnMonster(t *testing.T, g *fakeGrid, x, y int, policy combat.Policy) *Entity {
	t.Helper()
	m := New(g, Config{Name: "Goblin", Tags: world.Tags{world.TagMonster: true}, Policy: policy})
	if !m.Teleport(x, y) {
		t.Fatalf("could not place monster at (%d,%d)", x, y)
	}
	g.monsters = append(g.monsters, m)
	return m
}

func TestNewDefaults(t *testing.T) {
	e := New(nil, Config{})
	if e.Name() != "Entity" {
		t.Errorf("Name() = %q, want Entity", e.Name())
	}
	if e.Health() != DefaultHealth || e.MaxHealth() != DefaultHealth {
		t.Errorf("health = %d/%d, want %d", e.Health(), e.MaxHealth(), DefaultHealth)
	}
	if !e.Passable() {
		t.Error("entities are passable unless tagged otherwise")
	}
	if e.Tile() != nil {
		t.Error("a new entity must be off grid")
	}
	if e.Move(East) || e.MoveToward(3, 3) || e.Teleport(0, 0) || e.CanSeePoint(0, 0) {
		t.Error("an entity without a grid cannot act")
	}
	if New(nil, Config{}).ID() == e.ID() {
		t.Error("entities must get distinct IDs")
	}
}

func TestTeleport(t *testing.T) {
	g := newFakeGrid(5, 5)
	g.wall(4, 4)
	e := New(g, Config{})

	var got []Event
	e.On(EventTeleport, func(ev Event) { got = append(got, ev) })

	if !e.Teleport(2, 3) {
		t.Fatal("Teleport(2,3) failed on floor")
	}
	if !g.Tile(2, 3).Contains(e) || e.Tile() != g.Tile(2, 3) {
		t.Error("teleported entity is not on the destination tile")
	}
	if p := e.DisplayPosition(); p.X != 64 || p.Y != 96 {
		t.Errorf("DisplayPosition() = %v, want (64,96)", p)
	}

	if e.Teleport(4, 4) {
		t.Error("Teleport onto a wall should fail")
	}
	if e.Teleport(9, 9) {
		t.Error("Teleport off the grid should fail")
	}
	if e.Tile() != g.Tile(2, 3) {
		t.Error("failed teleports must not move the entity")
	}

	if !e.Teleport(0, 0) {
		t.Fatal("second teleport failed")
	}
	if g.Tile(2, 3).Contains(e) {
		t.Error("entity still listed on its previous tile")
	}
	if len(got) != 2 || got[1].From != g.Tile(2, 3) || got[1].To != g.Tile(0, 0) {
		t.Errorf("teleport events = %+v", got)
	}
}

func TestMoveUpdatesOccupancy(t *testing.T) {
	g := newFakeGrid(5, 5)
	p := spawnPlayer(t, g, 1, 1, nil)
	start := p.Tile()

	var moves []Event
	p.On(EventMove, func(ev Event) { moves = append(moves, ev) })

	if !p.MoveImmediate(SouthEast) {
		t.Fatal("move onto open floor failed")
	}
	if start.Contains(p) {
		t.Error("entity still on its old tile")
	}
	if !g.Tile(2, 2).Contains(p) || p.Tile() != g.Tile(2, 2) {
		t.Error("entity not on its new tile")
	}
	if len(moves) != 1 || moves[0].From != start || moves[0].To != g.Tile(2, 2) || moves[0].Entity != p {
		t.Errorf("move events = %+v", moves)
	}
	if pos := p.DisplayPosition(); pos.X != 64 || pos.Y != 64 {
		t.Errorf("DisplayPosition() = %v, want (64,64)", pos)
	}

	occupied := 0
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if g.Tile(x, y).Contains(p) {
				occupied++
			}
		}
	}
	if occupied != 1 {
		t.Errorf("entity listed on %d tiles, want exactly 1", occupied)
	}
}

func TestMoveBlockedByTerrain(t *testing.T) {
	g := newFakeGrid(5, 5)
	g.wall(2, 1)
	p := spawnPlayer(t, g, 1, 1, nil)

	if p.Move(East) {
		t.Error("impassable entity walked into a wall")
	}
	if p.Tile() != g.Tile(1, 1) {
		t.Error("blocked move changed the tile reference")
	}
}

func TestMoveOutsideGridFails(t *testing.T) {
	g := newFakeGrid(3, 3)

	// A passable mover skips collision checks, so only the missing tile
	// stops it.
	ghost := New(g, Config{Name: "Ghost"})
	ghost.Teleport(0, 0)
	if ghost.Move(North) {
		t.Error("move off the grid reported success")
	}
	if ghost.Tile() != g.Tile(0, 0) || !g.Tile(0, 0).Contains(ghost) {
		t.Error("failed move changed occupancy")
	}

	p := spawnPlayer(t, g, 2, 2, nil)
	if p.Move(SouthEast) {
		t.Error("impassable mover left the grid")
	}
	if p.Tile() != g.Tile(2, 2) {
		t.Error("failed move changed the tile reference")
	}
}

func TestPassableMoverIgnoresCollision(t *testing.T) {
	g := newFakeGrid(4, 4)
	g.wall(2, 1)
	ghost := New(g, Config{Name: "Ghost"})
	ghost.Teleport(1, 1)

	if !ghost.Move(East) {
		t.Fatal("passable mover should not check terrain")
	}
	if ghost.Tile() != g.Tile(2, 1) {
		t.Error("passable mover did not arrive")
	}
}

func TestMoveOpensClosedDoor(t *testing.T) {
	g := newFakeGrid(5, 5)
	door := NewDoor(g, Config{})
	door.Teleport(2, 1)
	g.doors[world.Point{X: 2, Y: 1}] = door
	p := spawnPlayer(t, g, 1, 1, nil)

	opened := 0
	door.On(EventOpen, func(Event) { opened++ })

	if !p.Move(East) {
		t.Fatal("opening a door should consume the step")
	}
	if !door.IsOpen() || opened != 1 {
		t.Errorf("door open = %v, open events = %d", door.IsOpen(), opened)
	}
	if p.Tile() != g.Tile(1, 1) {
		t.Error("opening a door must not advance the mover")
	}

	if !p.Move(East) {
		t.Fatal("moving through an open door failed")
	}
	if p.Tile() != g.Tile(2, 1) {
		t.Error("mover did not step into the open doorway")
	}
	if !g.Tile(2, 1).Contains(door.Entity) || !g.Tile(2, 1).Contains(p) {
		t.Error("doorway should hold both the door and the mover")
	}
	if opened != 1 {
		t.Error("an open door must not re-open")
	}
}

func TestMoveAttacksMonster(t *testing.T) {
	g := newFakeGrid(5, 5)
	p := spawnPlayer(t, g, 1, 1, nil)
	m := spawnMonster(t, g, 2, 1, nil)

	var attacks []Event
	p.On(EventAttack, func(ev Event) { attacks = append(attacks, ev) })

	if !p.Move(East) {
		t.Fatal("attacking should consume the step")
	}
	if p.Tile() != g.Tile(1, 1) {
		t.Error("attacker must not advance")
	}
	if m.Health() != DefaultHealth-DefaultDamage {
		t.Errorf("monster health = %d, want %d", m.Health(), DefaultHealth-DefaultDamage)
	}
	if len(attacks) != 1 || !attacks[0].Hit || attacks[0].Other != m || attacks[0].Amount != DefaultDamage {
		t.Errorf("attack events = %+v", attacks)
	}
}

func TestMoveAttackMissed(t *testing.T) {
	g := newFakeGrid(5, 5)
	attacker := &scriptedPolicy{reaction: combat.ReactAttack, toHit: 7, damage: 50}
	defender := &scriptedPolicy{defends: true}
	p := spawnPlayer(t, g, 1, 1, attacker)
	m := spawnMonster(t, g, 1, 2, defender)

	var hit []bool
	p.On(EventAttack, func(ev Event) { hit = append(hit, ev.Hit) })
	damaged := 0
	m.On(EventDamage, func(Event) { damaged++ })

	if !p.Move(South) {
		t.Fatal("a missed attack still consumes the step")
	}
	if m.Health() != DefaultHealth || damaged != 0 {
		t.Errorf("missed attack dealt damage: health %d, events %d", m.Health(), damaged)
	}
	if len(defender.defended) != 1 || defender.defended[0] != 7 {
		t.Errorf("defender saw rolls %v, want [7]", defender.defended)
	}
	if len(hit) != 1 || hit[0] {
		t.Errorf("attack events hit = %v, want [false]", hit)
	}
}

func TestMoveIgnoredEncounterBlocks(t *testing.T) {
	g := newFakeGrid(5, 5)
	peaceful := &scriptedPolicy{reaction: combat.ReactIgnore}
	m1 := spawnMonster(t, g, 1, 1, peaceful)
	m2 := spawnMonster(t, g, 2, 1, nil)

	if m1.Move(East) {
		t.Error("a non-attack reaction must block the move")
	}
	if m1.Tile() != g.Tile(1, 1) || m2.Health() != DefaultHealth {
		t.Error("ignored encounter changed state")
	}
}

func TestEngage(t *testing.T) {
	tests := []struct {
		name     string
		reaction combat.Reaction
		want     bool
	}{
		{"attack", combat.ReactAttack, true},
		{"ignore", combat.ReactIgnore, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newFakeGrid(5, 5)
			p := spawnPlayer(t, g, 1, 1, nil)
			m := spawnMonster(t, g, 2, 1, &scriptedPolicy{reaction: tt.reaction, toHit: 1, damage: 10})

			attacks := 0
			m.On(EventAttack, func(Event) { attacks++ })

			if got := m.WouldAttack(p); got != tt.want {
				t.Errorf("WouldAttack() = %v, want %v", got, tt.want)
			}
			if got := m.Engage(p); got != tt.want {
				t.Errorf("Engage() = %v, want %v", got, tt.want)
			}
			wantHealth := DefaultHealth
			wantAttacks := 0
			if tt.want {
				wantHealth -= 10
				wantAttacks = 1
			}
			if p.Health() != wantHealth || attacks != wantAttacks {
				t.Errorf("player health %d, attacks %d; want %d, %d", p.Health(), attacks, wantHealth, wantAttacks)
			}
		})
	}
}

func TestEngageDeadOrMissingTarget(t *testing.T) {
	g := newFakeGrid(5, 5)
	p := spawnPlayer(t, g, 1, 1, nil)
	m := spawnMonster(t, g, 2, 1, nil)

	if m.Engage(nil) || m.WouldAttack(nil) {
		t.Error("a nil target cannot be engaged")
	}
	p.Die()
	if m.Engage(p) {
		t.Error("a dead target cannot be engaged")
	}
}

func TestLogsCarryEntityID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)
	attacker := New(nil, Config{Name: "Hero", Logger: log})
	target := New(nil, Config{Name: "Rat", Health: 5, Logger: log})

	target.TakeDamage(2, attacker)

	entries := logs.FilterMessage("takes damage").All()
	if len(entries) != 1 {
		t.Fatalf("damage log entries = %d, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["entity_id"] != target.ID().String() {
		t.Errorf("entity_id = %v, want %s", ctx["entity_id"], target.ID())
	}
	if ctx["attacker_id"] != attacker.ID().String() {
		t.Errorf("attacker_id = %v, want %s", ctx["attacker_id"], attacker.ID())
	}
}

func TestMonsterBlockedByPlayer(t *testing.T) {
	g := newFakeGrid(5, 5)
	p := spawnPlayer(t, g, 2, 2, nil)
	m := spawnMonster(t, g, 3, 2, nil)

	if m.Move(West) {
		t.Error("monster walked into the player")
	}
	if p.Health() != DefaultHealth || m.Tile() != g.Tile(3, 2) {
		t.Error("blocked move changed state")
	}
}

func TestTakeDamageAndDeath(t *testing.T) {
	g := newFakeGrid(5, 5)
	attacker := spawnPlayer(t, g, 0, 0, nil)
	m := spawnMonster(t, g, 3, 3, nil)
	tile := m.Tile()

	deaths := 0
	m.On(EventDie, func(ev Event) {
		deaths++
		if ev.From != tile {
			t.Errorf("death event From = %v, want the tile died on", ev.From)
		}
	})
	var amounts []int
	m.On(EventDamage, func(ev Event) {
		amounts = append(amounts, ev.Amount)
		if ev.Other != attacker {
			t.Error("damage event lost its attacker")
		}
	})

	m.TakeDamage(30, attacker)
	if m.Health() != 70 || deaths != 0 || !m.IsAlive() {
		t.Fatalf("after 30 damage: health %d, deaths %d", m.Health(), deaths)
	}

	m.TakeDamage(100, attacker)
	if m.Health() > 0 {
		t.Errorf("health = %d, want <= 0", m.Health())
	}
	if deaths != 1 {
		t.Errorf("death notifications = %d, want 1", deaths)
	}
	if tile.Contains(m) || m.Tile() != nil {
		t.Error("dead entity still on its tile")
	}
	if g.MonsterAt(3, 3) != nil {
		t.Error("dead monster can still be targeted")
	}

	m.TakeDamage(10, attacker)
	m.Die()
	if deaths != 1 || len(amounts) != 2 {
		t.Errorf("dead entity reacted again: deaths %d, damage events %v", deaths, amounts)
	}
	if m.Move(North) || m.Teleport(1, 1) || attacker.Attack(m) {
		t.Error("dead entity must be inert")
	}
}

func TestTakeDamageWithoutAttacker(t *testing.T) {
	e := New(nil, Config{Health: 5})
	e.TakeDamage(5, nil)
	if e.IsAlive() {
		t.Error("entity should die at zero health")
	}
}

func TestLethalAttackEventOrder(t *testing.T) {
	g := newFakeGrid(5, 5)
	p := spawnPlayer(t, g, 1, 1, combat.Default{Damage: 200})
	m := spawnMonster(t, g, 2, 2, nil)

	var order []string
	p.On(EventAttack, func(Event) { order = append(order, "attack") })
	m.On(EventDamage, func(Event) { order = append(order, "damage") })
	m.On(EventDie, func(Event) { order = append(order, "die") })

	if !p.Move(SouthEast) {
		t.Fatal("attack step failed")
	}
	want := []string{"attack", "damage", "die"}
	if len(order) != len(want) {
		t.Fatalf("events = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("events = %v, want %v", order, want)
		}
	}

	if !p.Move(SouthEast) || p.Tile() != g.Tile(2, 2) {
		t.Error("the dead monster's tile should now be free")
	}
}

func TestHeal(t *testing.T) {
	e := New(nil, Config{Health: 20})
	e.TakeDamage(8, nil)
	if got := e.Heal(5); got != 5 || e.Health() != 17 {
		t.Errorf("Heal(5) = %d, health %d", got, e.Health())
	}
	if got := e.Heal(50); got != 3 || e.Health() != 20 {
		t.Errorf("Heal(50) = %d, health %d; want capped at max", got, e.Health())
	}
	if got := e.Heal(-1); got != 0 {
		t.Errorf("Heal(-1) = %d, want 0", got)
	}
}

func TestTileVisibilityReachesEntity(t *testing.T) {
	g := newFakeGrid(3, 3)
	e := New(g, Config{})

	var kinds []EventKind
	e.On(EventReveal, func(ev Event) { kinds = append(kinds, ev.Kind) })
	e.On(EventObscure, func(ev Event) { kinds = append(kinds, ev.Kind) })

	g.Tile(1, 1).Show()
	e.Teleport(1, 1)
	if !e.Visible() {
		t.Error("entity placed on a revealed tile should be visible")
	}

	g.Tile(1, 1).Hide()
	if e.Visible() {
		t.Error("hiding the tile should obscure the entity")
	}
	g.Tile(1, 1).Hide()

	if len(kinds) != 2 || kinds[0] != EventReveal || kinds[1] != EventObscure {
		t.Errorf("visibility events = %v, want [reveal obscure]", kinds)
	}
}

func TestAnimatedMoveCommitsImmediately(t *testing.T) {
	g := newFakeGrid(4, 4)
	e := New(g, Config{TurnPause: 40 * time.Millisecond})
	e.Teleport(0, 0)

	if !e.Move(East) {
		t.Fatal("move failed")
	}
	if e.Tile() != g.Tile(1, 0) || !g.Tile(1, 0).Contains(e) {
		t.Error("ledger must update before the glide finishes")
	}

	select {
	case <-e.Settled():
	case <-time.After(2 * time.Second):
		t.Fatal("glide never settled")
	}
	if p := e.DisplayPosition(); p.X != 32 || p.Y != 0 {
		t.Errorf("DisplayPosition() = %v, want (32,0)", p)
	}
}

func TestEventKindString(t *testing.T) {
	if EventDie.String() != "die" || EventSee.String() != "see" || EventKind(-1).String() != "unknown" {
		t.Error("unexpected event names")
	}
}
