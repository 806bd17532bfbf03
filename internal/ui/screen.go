// Package ui draws the level on a tcell terminal screen.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Screen wraps tcell.Screen with the few calls the game needs.
type Screen struct {
	screen tcell.Screen
}

// NewScreen opens and initializes the terminal.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return NewScreenFrom(s)
}

// NewScreenFrom initializes s, which may be a tcell simulation screen.
func NewScreenFrom(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.HideCursor()
	s.Clear()
	return &Screen{screen: s}, nil
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.screen.Fini()
}

// PollEvent blocks until the next terminal event. It returns nil once the
// screen is closed.
func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

// Wake queues an interrupt event so that a blocked PollEvent returns. It is
// safe to call from any goroutine.
func (s *Screen) Wake() {
	_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

func (s *Screen) Clear() {
	s.screen.Clear()
}

func (s *Screen) Show() {
	s.screen.Show()
}

func (s *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	s.screen.SetContent(x, y, r, nil, style)
}

// Content returns the rune and style last set at (x, y).
func (s *Screen) Content(x, y int) (rune, tcell.Style) {
	r, _, style, _ := s.screen.GetContent(x, y)
	return r, style
}

// Size returns the terminal size in cells.
func (s *Screen) Size() (width, height int) {
	return s.screen.Size()
}

// Sync redraws the whole terminal.
func (s *Screen) Sync() {
	s.screen.Sync()
}
