// Package game runs the turn loop and the terminal front end.
package game

// State is the player's standing in the current session.
type State int

const (
	// StatePlaying accepts player turns.
	StatePlaying State = iota
	// StateDead means the player has died; only quitting remains.
	StateDead
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}
