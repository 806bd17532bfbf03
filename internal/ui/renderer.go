package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeonsim/internal/entity"
	"github.com/samdwyer/dungeonsim/internal/gamedata"
	"github.com/samdwyer/dungeonsim/internal/level"
	"github.com/samdwyer/dungeonsim/internal/world"
)

// MessageLines is the number of log lines shown under the map.
const MessageLines = 3

const (
	glyphClosedDoor = '+'
	glyphOpenDoor   = '/'
)

var (
	styleWall       = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleFloor      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleRemembered = tcell.StyleDefault.Foreground(tcell.ColorDarkGray).Dim(true)
	styleDoor       = tcell.StyleDefault.Foreground(tcell.NewHexColor(0x8B4513))
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleMessage    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// HUD is the text drawn below the map.
type HUD struct {
	Status   string
	Messages []string
}

// Renderer draws a level through a camera that follows the player.
type Renderer struct {
	screen      *Screen
	maxCols     int
	maxRows     int
	playerGlyph rune
	playerStyle tcell.Style
}

// NewRenderer creates a renderer whose viewport never exceeds maxCols x
// maxRows map cells. Zero means no limit beyond the terminal size.
func NewRenderer(screen *Screen, maxCols, maxRows int) *Renderer {
	return &Renderer{
		screen:      screen,
		maxCols:     maxCols,
		maxRows:     maxRows,
		playerGlyph: '@',
		playerStyle: tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
	}
}

// Camera returns the viewport for the current terminal size.
func (r *Renderer) Camera() Camera {
	w, h := r.screen.Size()
	cols, rows := w, h-1-MessageLines
	if r.maxCols > 0 && cols > r.maxCols {
		cols = r.maxCols
	}
	if r.maxRows > 0 && rows > r.maxRows {
		rows = r.maxRows
	}
	return Camera{Cols: max(cols, 0), Rows: max(rows, 0)}
}

// Render draws explored terrain, visible entities and the HUD.
func (r *Renderer) Render(l *level.Level, hud HUD) {
	r.screen.Clear()

	d := l.Dungeon()
	cam := r.Camera()
	var x0, y0 int
	if p := l.Player(); p != nil {
		fx, fy := CellOf(p.DisplayPosition(), d.TileWidth, d.TileHeight)
		x0, y0 = cam.Origin(fx, fy, d.Width, d.Height)
	}

	for sy := 0; sy < cam.Rows; sy++ {
		for sx := 0; sx < cam.Cols; sx++ {
			tile := d.Tile(x0+sx, y0+sy)
			if tile == nil || !tile.Explored() {
				continue
			}
			r.screen.SetContent(sx, sy, d.Terrain(tile.X, tile.Y).Rune(), terrainStyle(d, tile))
		}
	}

	for _, door := range l.Doors() {
		t := door.Tile()
		if t == nil || !t.Explored() {
			continue
		}
		glyph := rune(glyphClosedDoor)
		if door.IsOpen() {
			glyph = glyphOpenDoor
		}
		style := styleDoor
		if !t.Visible() {
			style = styleRemembered
		}
		r.plot(cam, x0, y0, t.X, t.Y, glyph, style)
	}

	for _, m := range l.Monsters() {
		if !m.Visible() {
			continue
		}
		glyph, style := creatureLook(l.Kind(m))
		r.plotEntity(cam, d, x0, y0, m, glyph, style)
	}
	if p := l.Player(); p != nil && p.IsAlive() {
		r.plotEntity(cam, d, x0, y0, p, r.playerGlyph, r.playerStyle)
	}

	r.drawHUD(cam.Rows, hud)
	r.screen.Show()
}

func terrainStyle(d *world.Dungeon, t *world.Tile) tcell.Style {
	if !t.Visible() {
		return styleRemembered
	}
	if d.Terrain(t.X, t.Y) == world.TerrainWall {
		return styleWall
	}
	return styleFloor
}

func creatureLook(def *gamedata.CreatureDef) (rune, tcell.Style) {
	if def == nil {
		return 'm', tcell.StyleDefault.Foreground(tcell.ColorRed)
	}
	return def.GlyphRune(), tcell.StyleDefault.Foreground(def.TCellColor())
}

func (r *Renderer) plotEntity(cam Camera, d *world.Dungeon, x0, y0 int, e *entity.Entity, glyph rune, style tcell.Style) {
	mx, my := CellOf(e.DisplayPosition(), d.TileWidth, d.TileHeight)
	r.plot(cam, x0, y0, mx, my, glyph, style)
}

func (r *Renderer) plot(cam Camera, x0, y0, mx, my int, glyph rune, style tcell.Style) {
	sx, sy := mx-x0, my-y0
	if sx < 0 || sy < 0 || sx >= cam.Cols || sy >= cam.Rows {
		return
	}
	r.screen.SetContent(sx, sy, glyph, style)
}

func (r *Renderer) drawHUD(top int, hud HUD) {
	w, _ := r.screen.Size()
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, top, ' ', styleStatus)
	}
	r.text(0, top, hud.Status, styleStatus)

	msgs := hud.Messages
	if len(msgs) > MessageLines {
		msgs = msgs[len(msgs)-MessageLines:]
	}
	for i, msg := range msgs {
		r.text(0, top+1+i, msg, styleMessage)
	}
}

// text writes msg starting at (x, y).
func (r *Renderer) text(x, y int, msg string, style tcell.Style) {
	for _, ch := range msg {
		r.screen.SetContent(x, y, ch, style)
		x++
	}
}
