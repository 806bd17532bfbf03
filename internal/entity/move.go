package entity

import (
	"math"

	"go.uber.org/zap"
)

// Move attempts one animated step in dir. It returns true when the turn was
// consumed: the entity moved, opened a door, or attacked. False means no
// state changed.
func (e *Entity) Move(dir Direction) bool {
	return e.step(dir, true)
}

// MoveImmediate is Move with the display position set at once.
func (e *Entity) MoveImmediate(dir Direction) bool {
	return e.step(dir, false)
}

func (e *Entity) step(dir Direction, animate bool) bool {
	if e.dead || e.tile == nil || e.grid == nil {
		return false
	}
	x, y := e.tile.X+dir.X, e.tile.Y+dir.Y

	if !e.Passable() {
		if door := e.grid.DoorAt(x, y); door != nil && !door.IsOpen() {
			door.Open()
			return true
		}

		if other := e.grid.MonsterAt(x, y); other != nil && other != e && !other.Passable() {
			return e.Engage(other)
		}

		if e.grid.PlayerAt(x, y) {
			return false
		}
		if !e.grid.IsPassable(x, y) {
			return false
		}
	}

	to := e.grid.Tile(x, y)
	if to == nil {
		return false
	}
	from := e.tile
	e.relocate(to, animate)

	e.log.Debug("moves", zap.Int("x", to.X), zap.Int("y", to.Y))
	e.emit(Event{Kind: EventMove, Entity: e, From: from, To: to})
	return true
}

// MoveToward steps toward tile (x, y), sliding around obstacles. It returns
// true when some step consumed the turn.
func (e *Entity) MoveToward(x, y int) bool {
	if e.tile == nil {
		return false
	}
	dx, dy := float64(x-e.tile.X), float64(y-e.tile.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return false
	}
	for _, dir := range approachOrder(dx/length, dy/length) {
		if e.Move(dir) {
			return true
		}
	}
	return false
}

// Approach steps toward target's tile. An off-grid target cannot be
// approached.
func (e *Entity) Approach(target *Entity) bool {
	if target == nil || target.tile == nil {
		return false
	}
	return e.MoveToward(target.tile.X, target.tile.Y)
}

// approachOrder lists the steps MoveToward tries for a unit slope, in order.
// Which fallbacks apply depends only on which slope components are zero.
func approachOrder(sx, sy float64) []Direction {
	order := []Direction{{X: roundHalfUp(sx), Y: roundHalfUp(sy)}}
	if sx != 0 {
		order = append(order, Direction{X: sign(sx), Y: 0})
	}
	if sy != 0 {
		order = append(order, Direction{X: 0, Y: sign(sy)})
	}
	if sx == 0 {
		order = append(order,
			Direction{X: 1, Y: sign(sy)},
			Direction{X: -1, Y: sign(sy)},
		)
	}
	if sy == 0 {
		order = append(order,
			Direction{X: sign(sx), Y: 1},
			Direction{X: sign(sx), Y: -1},
		)
	}
	return order
}

// roundHalfUp rounds halves toward positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Teleport puts the entity on tile (x, y) if its terrain is passable,
// bypassing doors, occupants and combat. The display position jumps.
func (e *Entity) Teleport(x, y int) bool {
	if e.dead || e.grid == nil || !e.grid.IsPassable(x, y) {
		return false
	}
	to := e.grid.Tile(x, y)
	if to == nil {
		return false
	}
	from := e.tile
	e.relocate(to, false)

	e.log.Debug("teleports", zap.Int("x", x), zap.Int("y", y))
	e.emit(Event{Kind: EventTeleport, Entity: e, From: from, To: to})
	return true
}
