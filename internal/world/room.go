package world

// Room is a rectangular carved area of floor.
type Room struct {
	X, Y          int // Top-left corner
	Width, Height int
}

// Center returns the room's centre tile.
func (r Room) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains returns true if the given point is inside the room.
func (r Room) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Ring returns the cells bordering the room on its four sides, corners
// excluded, in clockwise order starting at the top edge.
func (r Room) Ring() []Point {
	ring := make([]Point, 0, 2*(r.Width+r.Height))
	for x := r.X; x < r.X+r.Width; x++ {
		ring = append(ring, Point{X: x, Y: r.Y - 1})
	}
	for y := r.Y; y < r.Y+r.Height; y++ {
		ring = append(ring, Point{X: r.X + r.Width, Y: y})
	}
	for x := r.X + r.Width - 1; x >= r.X; x-- {
		ring = append(ring, Point{X: x, Y: r.Y + r.Height})
	}
	for y := r.Y + r.Height - 1; y >= r.Y; y-- {
		ring = append(ring, Point{X: r.X - 1, Y: y})
	}
	return ring
}
