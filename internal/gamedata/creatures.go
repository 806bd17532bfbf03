package gamedata

import "github.com/gdamore/tcell/v2"

// CreatureDef defines a creature's stats and appearance, loaded from JSON.
type CreatureDef struct {
	ID          string   `json:"id"`          // Unique identifier (e.g., "goblin")
	Name        string   `json:"name"`        // Display name
	Glyph       string   `json:"glyph"`       // Single character for rendering
	Color       string   `json:"color"`       // Hex color code
	HP          int      `json:"hp"`          // Starting and maximum health
	Attack      int      `json:"attack"`      // Melee to-hit bonus
	Defense     int      `json:"defense"`     // Added to the base avoidance of 10
	DamageMin   int      `json:"damageMin"`   // Inclusive damage range
	DamageMax   int      `json:"damageMax"`
	Hostile     []string `json:"hostile"`     // Tags this creature will attack on contact
	SpawnWeight int      `json:"spawnWeight"` // Relative spawn frequency
}

// GlyphRune returns the glyph as a rune for rendering.
func (c *CreatureDef) GlyphRune() rune {
	for _, r := range c.Glyph {
		return r
	}
	return '?'
}

// TCellColor returns the color as a tcell.Color, white when unparsable.
func (c *CreatureDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(c.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// CreaturesFile represents the structure of creatures.json.
type CreaturesFile struct {
	Player   CreatureDef   `json:"player"`
	Monsters []CreatureDef `json:"monsters"`
}

// LoadCreatures loads the embedded creatures.json file.
func LoadCreatures() (CreaturesFile, error) {
	return Load[CreaturesFile]("creatures.json")
}
