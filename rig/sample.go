package rig

import "github.com/go-gl/mathgl/mgl64"

// Sample is one tick of raw input. Samplers report device state as-is; all
// smoothing and interpretation happens downstream.
type Sample struct {
	// Pan holds the held-key axes, each in -1..1. X is right, Y is up.
	Pan mgl64.Vec2

	// PointerDelta is pointer movement since the last tick, in pixels.
	// Screen convention: +X right, +Y down.
	PointerDelta mgl64.Vec2

	// Pointer is the pointer position in viewport coordinates, 0..1.
	Pointer mgl64.Vec2

	// Scroll is the wheel movement this tick, deadzoned and clamped to
	// -1..1. Positive means zoom in.
	Scroll float64

	// Pressed and Released are edges of the gesture button; Held is its
	// level.
	Pressed  bool
	Released bool
	Held     bool

	// ManualPan signals that some other system has taken over moving the
	// view this tick.
	ManualPan bool
}

// Sampler produces one Sample per tick.
type Sampler interface {
	Sample() Sample
}
