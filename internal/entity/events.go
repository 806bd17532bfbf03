package entity

import "github.com/samdwyer/dungeonsim/internal/world"

// EventKind identifies what happened to an entity.
type EventKind int

const (
	EventMove     EventKind = iota // From, To
	EventTeleport                  // From (may be nil), To
	EventAttack                    // Other = target, Hit, Amount = damage rolled
	EventDamage                    // Other = attacker (may be nil), Amount
	EventDie                       // From = tile died on
	EventReveal
	EventObscure
	EventSee   // Tile entered the entity's sight
	EventUnsee // Tile left the entity's sight
	EventOpen  // a door was opened
)

// String returns a human-readable event name.
func (k EventKind) String() string {
	switch k {
	case EventMove:
		return "move"
	case EventTeleport:
		return "teleport"
	case EventAttack:
		return "attack"
	case EventDamage:
		return "damage"
	case EventDie:
		return "die"
	case EventReveal:
		return "reveal"
	case EventObscure:
		return "obscure"
	case EventSee:
		return "see"
	case EventUnsee:
		return "unsee"
	case EventOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Event is the payload delivered to listeners. Only the fields documented
// for its Kind are set.
type Event struct {
	Kind     EventKind
	Entity   *Entity
	Other    *Entity
	From, To *world.Tile
	Tile     *world.Tile
	Amount   int
	Hit      bool
}

// Listener receives events synchronously on the simulation goroutine.
type Listener func(Event)

// On registers fn for events of kind. Listeners run in registration order.
func (e *Entity) On(kind EventKind, fn Listener) {
	if e.listeners == nil {
		e.listeners = make(map[EventKind][]Listener)
	}
	e.listeners[kind] = append(e.listeners[kind], fn)
}

func (e *Entity) emit(ev Event) {
	for _, fn := range e.listeners[ev.Kind] {
		fn(ev)
	}
}
