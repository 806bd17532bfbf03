package ui

import (
	"math"

	"github.com/samdwyer/dungeonsim/internal/motion"
)

// Camera is a viewport of Cols x Rows map cells.
type Camera struct {
	Cols, Rows int
}

// Origin returns the map cell drawn at the viewport's top-left corner so that
// (fx, fy) is centred, clamped so the view stays on a mapW x mapH map.
func (c Camera) Origin(fx, fy, mapW, mapH int) (x0, y0 int) {
	return clampOrigin(fx-c.Cols/2, c.Cols, mapW), clampOrigin(fy-c.Rows/2, c.Rows, mapH)
}

func clampOrigin(v, view, size int) int {
	if v > size-view {
		v = size - view
	}
	if v < 0 {
		v = 0
	}
	return v
}

// CellOf returns the map cell nearest a display position for tiles of
// tw x th pixels.
func CellOf(p motion.Point, tw, th int) (x, y int) {
	x = int(math.Floor((p.X + float64(tw)/2) / float64(tw)))
	y = int(math.Floor((p.Y + float64(th)/2) / float64(th)))
	return x, y
}
