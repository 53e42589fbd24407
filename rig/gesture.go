package rig

import "github.com/go-gl/mathgl/mgl64"

// GestureEvent is a completed pointer gesture.
type GestureEvent uint8

const (
	GestureNone GestureEvent = iota
	GestureClick
	GestureDoubleClick
)

// Gesture distinguishes clicks, drags, and double-clicks from raw button
// samples. Time is accumulated from tick deltas, never read from a clock,
// so a given sample sequence always resolves the same way.
//
// A press commits to a drag once the button has been held longer than
// HoldAsDrag or the pointer has strayed beyond DoubleClickMaxMove. Drags
// never count as clicks, and a release far from the press point discards
// the click chain outright.
type Gesture struct {
	doubleClickTime float64
	holdAsDrag      float64
	maxMoveSq       float64

	clock     float64
	pressed   bool
	pressTime float64
	pressPos  mgl64.Vec2
	dragging  bool

	clicks    int
	lastClick float64
}

func NewGesture(cfg Config) *Gesture {
	return &Gesture{
		doubleClickTime: cfg.DoubleClickTime,
		holdAsDrag:      cfg.HoldAsDrag,
		maxMoveSq:       cfg.DoubleClickMaxMove * cfg.DoubleClickMaxMove,
	}
}

// Update advances the machine one tick and returns the gesture that
// completed on this tick, if any.
func (g *Gesture) Update(dt float64, s Sample) GestureEvent {
	g.clock += dt

	if s.Pressed && !g.pressed {
		g.pressed = true
		g.pressTime = g.clock
		g.pressPos = s.Pointer
		g.dragging = false
	}

	if g.pressed && !g.dragging {
		if g.clock-g.pressTime > g.holdAsDrag || distSq(s.Pointer, g.pressPos) > g.maxMoveSq {
			g.dragging = true
		}
	}

	if s.Released && g.pressed {
		g.pressed = false
		wasDrag := g.dragging || distSq(s.Pointer, g.pressPos) > g.maxMoveSq
		g.dragging = false

		if wasDrag {
			g.clicks = 0
			return GestureNone
		}
		if g.clicks > 0 && g.clock-g.lastClick <= g.doubleClickTime {
			g.clicks = 0
			return GestureDoubleClick
		}
		g.clicks = 1
		g.lastClick = g.clock
		return GestureClick
	}

	return GestureNone
}

// Dragging reports whether the current press has committed to a drag.
func (g *Gesture) Dragging() bool {
	return g.pressed && g.dragging
}

func distSq(a, b mgl64.Vec2) float64 {
	dx, dy := a[0]-b[0], a[1]-b[1]
	return dx*dx + dy*dy
}
