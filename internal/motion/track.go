// Package motion animates cosmetic display positions.
//
// A Track is purely presentational: simulation code sets its destination and
// never reads it back. Glides run on their own goroutine; starting a new one
// supersedes whatever was in flight.
package motion

import (
	"sync"
	"time"
)

// FrameInterval is how often a glide updates its position.
const FrameInterval = 16 * time.Millisecond

// Point is a continuous display position.
type Point struct {
	X, Y float64
}

// Lerp interpolates between p and q; f is clamped to [0, 1].
func (p Point) Lerp(q Point, f float64) Point {
	if f <= 0 {
		return p
	}
	if f >= 1 {
		return q
	}
	return Point{X: p.X + (q.X-p.X)*f, Y: p.Y + (q.Y-p.Y)*f}
}

// Track holds a display position that may be gliding toward a target.
// It is safe for concurrent use.
type Track struct {
	mu   sync.Mutex
	pos  Point
	gen  uint64
	stop chan struct{}
	done chan struct{}
}

// NewTrack creates a resting track at p.
func NewTrack(p Point) *Track {
	done := make(chan struct{})
	close(done)
	return &Track{pos: p, done: done}
}

// Position returns the current display position.
func (t *Track) Position() Point {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos
}

// Set stops any glide and jumps to p.
func (t *Track) Set(p Point) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.haltLocked()
	t.pos = p
}

// Stop halts any glide where it currently is.
func (t *Track) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.haltLocked()
}

// Done returns a channel closed once the latest glide has finished or been
// stopped.
func (t *Track) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// Glide moves the position linearly to target over d, replacing any glide in
// flight. A non-positive d behaves like Set. The returned channel is the new
// glide's Done channel.
func (t *Track) Glide(target Point, d time.Duration) <-chan struct{} {
	if d <= 0 {
		t.Set(target)
		return t.Done()
	}

	t.mu.Lock()
	t.haltLocked()
	t.gen++
	gen := t.gen
	from := t.pos
	stop := make(chan struct{})
	done := make(chan struct{})
	t.stop, t.done = stop, done
	t.mu.Unlock()

	go t.run(gen, from, target, d, stop, done)
	return done
}

func (t *Track) run(gen uint64, from, to Point, d time.Duration, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()
	started := time.Now()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			f := float64(now.Sub(started)) / float64(d)
			if !t.apply(gen, from.Lerp(to, f)) || f >= 1 {
				return
			}
		}
	}
}

// apply writes p if gen is still the live glide.
func (t *Track) apply(gen uint64, p Point) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return false
	}
	t.pos = p
	return true
}

func (t *Track) haltLocked() {
	t.gen++
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}
