package entity

import (
	"go.uber.org/zap"

	"github.com/samdwyer/dungeonsim/internal/combat"
)

// Attack makes one melee attack on target using the attacker's rolls and the
// target's defence. It returns false only when either side is already dead.
func (e *Entity) Attack(target *Entity) bool {
	if !e.IsAlive() || target == nil || !target.IsAlive() {
		return false
	}

	toHit := e.policy.RollToHitMelee(e)
	if target.Defend(toHit) {
		e.log.Info("attacks but misses",
			zap.String("target", target.name),
			zap.Int("to_hit", toHit),
		)
		e.emit(Event{Kind: EventAttack, Entity: e, Other: target, Hit: false})
		return true
	}

	damage := e.policy.RollForDamage(e)
	e.emit(Event{Kind: EventAttack, Entity: e, Other: target, Hit: true, Amount: damage})
	target.TakeDamage(damage, e)
	return true
}

// WouldAttack reports whether the entity's encounter policy chooses to attack
// target.
func (e *Entity) WouldAttack(target *Entity) bool {
	return target != nil && e.policy.ReactTo(e, target) == combat.ReactAttack
}

// Engage attacks target only if the encounter policy says to. It returns
// whether an attack was made.
func (e *Entity) Engage(target *Entity) bool {
	if !e.IsAlive() || target == nil || !target.IsAlive() || !e.WouldAttack(target) {
		return false
	}
	return e.Attack(target)
}

// Defend reports whether an incoming attack rolled at toHit is avoided.
func (e *Entity) Defend(toHit int) bool {
	return e.policy.Defend(e, toHit)
}

// TakeDamage subtracts amount from health and dies at zero or below.
// attacker may be nil. Dead entities ignore further damage.
func (e *Entity) TakeDamage(amount int, attacker *Entity) {
	if e.dead {
		return
	}
	e.health -= amount
	e.emit(Event{Kind: EventDamage, Entity: e, Other: attacker, Amount: amount})

	fields := []zap.Field{zap.Int("amount", amount), zap.Int("health", e.health)}
	if attacker != nil {
		fields = append(fields,
			zap.String("attacker", attacker.name),
			zap.Stringer("attacker_id", attacker.id),
			zap.Int("attacker_health", attacker.health),
		)
	}
	e.log.Info("takes damage", fields...)

	if e.health <= 0 {
		e.Die()
	}
}

// Heal restores up to amount health, capped at MaxHealth, and returns the
// amount restored.
func (e *Entity) Heal(amount int) int {
	if e.dead || amount <= 0 {
		return 0
	}
	actual := min(amount, e.maxHealth-e.health)
	if actual < 0 {
		actual = 0
	}
	e.health += actual
	return actual
}

// Die removes the entity from the simulation. Listeners are notified before
// it leaves its tile. Calling Die again does nothing.
func (e *Entity) Die() {
	if e.dead {
		return
	}
	e.dead = true
	e.emit(Event{Kind: EventDie, Entity: e, From: e.tile})
	e.log.Info("dies")

	if e.tile != nil {
		e.tile.Remove(e)
		e.tile = nil
	}
	e.track.Stop()
	e.sight = nil
}
