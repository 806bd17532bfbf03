package game

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/dungeonsim/internal/config"
	"github.com/samdwyer/dungeonsim/internal/entity"
	"github.com/samdwyer/dungeonsim/internal/gamedata"
	"github.com/samdwyer/dungeonsim/internal/motion"
	"github.com/samdwyer/dungeonsim/internal/telemetry"
	"github.com/samdwyer/dungeonsim/internal/ui"
)

// Game is the terminal front end around a Session.
type Game struct {
	cfg      *config.Config
	log      *zap.Logger
	screen   *ui.Screen
	renderer *ui.Renderer
	session  *Session
	running  bool
}

// New opens the terminal. The dungeon is built when Run starts.
func New(cfg *config.Config, log *zap.Logger) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	return newGame(cfg, log, screen), nil
}

func newGame(cfg *config.Config, log *zap.Logger, screen *ui.Screen) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	return &Game{
		cfg:    cfg,
		log:    log,
		screen: screen,
		renderer: ui.NewRenderer(screen,
			cfg.Stage.Width/cfg.Map.Tile.Width,
			cfg.Stage.Height/cfg.Map.Tile.Height,
		),
		running: true,
	}
}

// Run builds the dungeon and processes input until the player quits.
func (g *Game) Run(ctx context.Context) error {
	defer g.screen.Close()

	ctx, initSpan := telemetry.Tracer("game").Start(ctx, "game.init")
	reg, err := gamedata.LoadCreatureRegistry()
	if err != nil {
		initSpan.End()
		return fmt.Errorf("load creatures: %w", err)
	}
	g.session, err = Build(ctx, g.cfg, reg, g.log, nil)
	if err != nil {
		initSpan.End()
		return err
	}
	initSpan.SetAttributes(
		attribute.Int("dungeon.rooms", len(g.session.Level().Dungeon().Rooms)),
		attribute.Int("monsters", len(g.session.Level().Monsters())),
		attribute.Int("creature_types", reg.Count()),
	)
	initSpan.End()

	for g.running {
		g.render()
		g.handleInput(ctx)
	}
	return nil
}

func (g *Game) render() {
	s := g.session
	p := s.Player()
	status := fmt.Sprintf("HP %d/%d  Turn %d  Monsters %d", max(p.Health(), 0), p.MaxHealth(), s.Turn(), len(s.Level().Monsters()))
	if s.Over() {
		status += "  -- dead, press q to quit --"
	}
	g.renderer.Render(s.Level(), ui.HUD{Status: status, Messages: s.Messages()})
}

func (g *Game) handleInput(ctx context.Context) {
	switch ev := g.screen.PollEvent().(type) {
	case nil:
		g.running = false
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	case *tcell.EventInterrupt:
		// Redraw for an in-flight glide.
	}
}

// keyDirections maps arrow keys to steps.
var keyDirections = map[tcell.Key]entity.Direction{
	tcell.KeyUp:    entity.North,
	tcell.KeyDown:  entity.South,
	tcell.KeyLeft:  entity.West,
	tcell.KeyRight: entity.East,
}

// runeDirections maps vi keys to steps.
var runeDirections = map[rune]entity.Direction{
	'k': entity.North,
	'j': entity.South,
	'h': entity.West,
	'l': entity.East,
	'y': entity.NorthWest,
	'u': entity.NorthEast,
	'b': entity.SouthWest,
	'n': entity.SouthEast,
}

// command is what a key press asks for.
type command int

const (
	cmdNone command = iota
	cmdMove
	cmdWait
	cmdQuit
)

func keyCommand(key tcell.Key, r rune) (command, entity.Direction) {
	if dir, ok := keyDirections[key]; ok {
		return cmdMove, dir
	}
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return cmdQuit, entity.Direction{}
	case tcell.KeyRune:
		if dir, ok := runeDirections[r]; ok {
			return cmdMove, dir
		}
		switch r {
		case '.':
			return cmdWait, entity.Direction{}
		case 'q', 'Q':
			return cmdQuit, entity.Direction{}
		}
	}
	return cmdNone, entity.Direction{}
}

func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch cmd, dir := keyCommand(ev.Key(), ev.Rune()); cmd {
	case cmdMove:
		g.act(func() bool { return g.session.PlayerMove(ctx, dir) })
	case cmdWait:
		g.act(func() bool { return g.session.Wait(ctx) })
	case cmdQuit:
		g.running = false
	}
}

// act runs one player action and keeps the screen redrawing until every
// glide it started has finished.
func (g *Game) act(action func() bool) {
	if !action() {
		return
	}
	go redrawUntil(g.session.Settled(), g.screen.Wake, motion.FrameInterval)
}

// redrawUntil calls wake every interval until all channels are closed, then
// once more.
func redrawUntil(pending []<-chan struct{}, wake func(), interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for _, done := range pending {
		for waiting := true; waiting; {
			select {
			case <-done:
				waiting = false
			case <-ticker.C:
				wake()
			}
		}
	}
	wake()
}
