package gamedata

import (
	"errors"
	"math/rand"
)

// CreatureRegistry holds loaded creature definitions and provides spawning
// utilities.
type CreatureRegistry struct {
	player      CreatureDef
	monsters    []CreatureDef
	totalWeight int
}

// NewCreatureRegistry creates a registry from loaded definitions.
func NewCreatureRegistry(file CreaturesFile) *CreatureRegistry {
	r := &CreatureRegistry{player: file.Player, monsters: file.Monsters}
	for _, m := range file.Monsters {
		r.totalWeight += m.SpawnWeight
	}
	return r
}

// LoadCreatureRegistry loads and creates a registry from the embedded
// creatures.json.
func LoadCreatureRegistry() (*CreatureRegistry, error) {
	file, err := LoadCreatures()
	if err != nil {
		return nil, err
	}
	if len(file.Monsters) == 0 {
		return nil, errors.New("no monsters loaded from creatures.json")
	}
	return NewCreatureRegistry(file), nil
}

// Player returns the player definition.
func (r *CreatureRegistry) Player() *CreatureDef {
	return &r.player
}

// SpawnRandom selects a monster definition using weighted probability, or
// nil when nothing can spawn.
func (r *CreatureRegistry) SpawnRandom(rng *rand.Rand) *CreatureDef {
	if r.totalWeight <= 0 {
		return nil
	}
	roll := rng.Intn(r.totalWeight)
	for i := range r.monsters {
		roll -= r.monsters[i].SpawnWeight
		if roll < 0 {
			return &r.monsters[i]
		}
	}
	return &r.monsters[len(r.monsters)-1]
}

// Count returns the number of monster types in the registry.
func (r *CreatureRegistry) Count() int {
	return len(r.monsters)
}
