// Package combat defines how melee encounters are decided and rolled.
//
// The entity package resolves when an encounter happens; a Policy decides
// whether to fight and supplies the numbers.
package combat

import (
	"math/rand"

	"github.com/samdwyer/dungeonsim/internal/gamedata"
)

// Reaction is the outcome of an encounter decision.
type Reaction int

const (
	// ReactAttack turns a blocked move into a melee attack.
	ReactAttack Reaction = iota
	// ReactIgnore leaves the mover blocked without fighting.
	ReactIgnore
)

// String returns a human-readable reaction name.
func (r Reaction) String() string {
	switch r {
	case ReactAttack:
		return "attack"
	case ReactIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

// Combatant is the view of an entity a Policy may inspect.
type Combatant interface {
	Name() string
	Health() int
	MaxHealth() int
	HasTag(tag string) bool
}

// Policy supplies the encounter decision, defence check and rolls for one
// entity.
type Policy interface {
	// ReactTo decides what self does when other blocks its way.
	ReactTo(self, other Combatant) Reaction
	// Defend returns true when self avoids an attack rolled at toHit.
	Defend(self Combatant, toHit int) bool
	RollToHitMelee(self Combatant) int
	RollForDamage(self Combatant) int
}

// Default always attacks, never defends and deals a fixed amount of damage.
type Default struct {
	Damage int
}

// ReactTo always attacks.
func (Default) ReactTo(self, other Combatant) Reaction { return ReactAttack }

// Defend always fails, so every attack lands.
func (Default) Defend(self Combatant, toHit int) bool { return false }

// RollToHitMelee returns zero; it never matters against Default defence.
func (Default) RollToHitMelee(self Combatant) int { return 0 }

// RollForDamage returns the fixed damage.
func (d Default) RollForDamage(self Combatant) int { return d.Damage }

// Dice is a d20 policy driven by a creature definition.
//
// To hit is 1d20 + Attack. The defender avoids the blow when the roll is
// below 10 + Defense. Damage is uniform in [DamageMin, DamageMax].
type Dice struct {
	def *gamedata.CreatureDef
	rng *rand.Rand
}

// NewDice creates a dice policy for def using rng for every roll.
func NewDice(def *gamedata.CreatureDef, rng *rand.Rand) *Dice {
	return &Dice{def: def, rng: rng}
}

// ReactTo attacks only combatants carrying one of the creature's hostile tags.
func (d *Dice) ReactTo(self, other Combatant) Reaction {
	for _, tag := range d.def.Hostile {
		if other.HasTag(tag) {
			return ReactAttack
		}
	}
	return ReactIgnore
}

// Defend reports whether toHit fails to beat the avoidance threshold.
func (d *Dice) Defend(self Combatant, toHit int) bool {
	return toHit < 10+d.def.Defense
}

// RollToHitMelee rolls 1d20 plus the attack bonus.
func (d *Dice) RollToHitMelee(self Combatant) int {
	return 1 + d.rng.Intn(20) + d.def.Attack
}

// RollForDamage rolls within the creature's damage range.
func (d *Dice) RollForDamage(self Combatant) int {
	lo, hi := d.def.DamageMin, d.def.DamageMax
	if hi <= lo {
		return lo
	}
	return lo + d.rng.Intn(hi-lo+1)
}

var (
	_ Policy = Default{}
	_ Policy = (*Dice)(nil)
)
