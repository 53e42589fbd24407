// Package rig implements a focus-and-follow camera controller for a 3D
// scene viewed through an orbiting camera. Each tick the controller folds
// sampled input, snap-lock focus tracking, and zoom steering into a single
// goal point, smooths the rig toward it, and publishes the result.
//
// The controller never renders and never polls devices. Hosts supply a
// Projector for screen/world mapping, a Caster for scene queries, a Registry
// of focusable subjects, and an Output to receive the smoothed rig.
package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/fishtank/geom"
)

// Projector maps between viewport coordinates and world space. Viewport
// coordinates run 0..1 on both axes with (0.5, 0.5) at screen center.
type Projector interface {
	// ScreenPointToRay returns the world ray under a viewport point.
	ScreenPointToRay(u, v float64) geom.Ray

	// WorldToViewport projects a world point. Depth is the distance along
	// the view direction; depth <= 0 means the point is behind the viewer
	// and u, v are meaningless.
	WorldToViewport(p mgl64.Vec3) (u, v, depth float64)

	// Basis returns the camera's right, up, and forward directions.
	Basis() (right, up, forward mgl64.Vec3)
}

// Hit is the result of a scene query. Subject is nil when the ray struck
// scenery rather than a focusable.
type Hit struct {
	Point   mgl64.Vec3
	Subject Focusable
}

// Caster answers ray and visibility queries against the scene. A zero mask
// matches everything.
type Caster interface {
	Raycast(r geom.Ray, maxDist float64, mask uint32) (Hit, bool)
	LineOfSight(a, b mgl64.Vec3, mask uint32) bool
}

// Focusable is a subject the rig can lock onto.
type Focusable interface {
	// FocusAnchor is the world point the rig tracks, typically offset from
	// the subject's origin toward its visual center of interest.
	FocusAnchor() mgl64.Vec3

	// FocusWeight scales how strongly a candidate attracts the lock.
	// Weights at or below zero make the subject unfocusable.
	FocusWeight() float64
}

// Output receives the smoothed rig once per tick.
type Output interface {
	SetTrackedPoint(p mgl64.Vec3)
	SetRadius(r float64)
}

// OffCenter reports whether p projects outside the centered viewport window.
// Points behind the viewer are always off-center.
func OffCenter(proj Projector, p mgl64.Vec3, window float64) bool {
	u, v, depth := proj.WorldToViewport(p)
	if depth <= 0 {
		return true
	}
	return math.Hypot(u-0.5, v-0.5) > window
}
