// Package render turns the tank and the camera rig into pixels. View is
// the orbit camera the rig drives; Renderer draws the scene through it.
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/fishtank/common"
	"github.com/milk9111/fishtank/geom"
)

const (
	minPitch = -1.2
	maxPitch = 1.2
)

// View is an orbit camera: it looks at a target point from a distance on a
// yaw/pitch sphere. The rig owns target and radius through the Output
// interface; the host owns yaw and pitch through Orbit.
type View struct {
	target mgl64.Vec3
	radius float64
	yaw    float64
	pitch  float64

	fovY   float64
	width  float64
	height float64
}

func NewView(target mgl64.Vec3, radius float64) *View {
	return &View{
		target: target,
		radius: radius,
		yaw:    0.6,
		pitch:  0.35,
		fovY:   55 * math.Pi / 180,
		width:  1280,
		height: 720,
	}
}

// SetViewport records the pixel size of the screen for projection.
func (v *View) SetViewport(w, h float64) {
	if w > 0 {
		v.width = w
	}
	if h > 0 {
		v.height = h
	}
}

// Orbit rotates the camera around the target. Pitch is clamped short of
// the poles.
func (v *View) Orbit(dyaw, dpitch float64) {
	v.yaw = common.WrapAngle(v.yaw + dyaw)
	v.pitch = common.Clamp(v.pitch+dpitch, minPitch, maxPitch)
}

// SetTrackedPoint moves the orbit target. Part of the rig output contract.
func (v *View) SetTrackedPoint(p mgl64.Vec3) { v.target = p }

// SetRadius moves the orbit distance. Part of the rig output contract.
func (v *View) SetRadius(r float64) { v.radius = r }

func (v *View) Target() mgl64.Vec3 { return v.target }
func (v *View) Radius() float64    { return v.radius }
func (v *View) Yaw() float64       { return v.yaw }
func (v *View) Pitch() float64     { return v.pitch }

// Eye is the camera position on the orbit sphere.
func (v *View) Eye() mgl64.Vec3 {
	cosP, sinP := math.Cos(v.pitch), math.Sin(v.pitch)
	sinY, cosY := math.Sin(v.yaw), math.Cos(v.yaw)
	dir := mgl64.Vec3{cosP * sinY, sinP, cosP * cosY}
	return v.target.Add(dir.Mul(v.radius))
}

// Basis returns the camera's right, up, and forward directions.
func (v *View) Basis() (right, up, forward mgl64.Vec3) {
	forward = v.target.Sub(v.Eye()).Normalize()
	worldUp := mgl64.Vec3{0, 1, 0}
	right = forward.Cross(worldUp).Normalize()
	up = right.Cross(forward)
	return right, up, forward
}

// WorldToViewport projects p into 0..1 viewport coordinates with v running
// down the screen. Depth is the distance along the view direction; points
// behind the camera report depth <= 0 and center coordinates.
func (v *View) WorldToViewport(p mgl64.Vec3) (u, vv, depth float64) {
	right, up, forward := v.Basis()
	rel := p.Sub(v.Eye())
	depth = rel.Dot(forward)
	if depth <= 0 {
		return 0.5, 0.5, depth
	}

	halfH := math.Tan(v.fovY / 2)
	halfW := halfH * v.width / v.height

	u = 0.5 + rel.Dot(right)/depth/(2*halfW)
	vv = 0.5 - rel.Dot(up)/depth/(2*halfH)
	return u, vv, depth
}

// ScreenPointToRay is the inverse projection: the world ray through a
// viewport point.
func (v *View) ScreenPointToRay(u, vv float64) geom.Ray {
	right, up, forward := v.Basis()

	halfH := math.Tan(v.fovY / 2)
	halfW := halfH * v.width / v.height

	dir := forward.
		Add(right.Mul((u - 0.5) * 2 * halfW)).
		Add(up.Mul((0.5 - vv) * 2 * halfH))
	return geom.NewRay(v.Eye(), dir)
}

// ToScreen projects to pixel coordinates. Points behind the camera report
// ok=false.
func (v *View) ToScreen(p mgl64.Vec3) (x, y float32, depth float64, ok bool) {
	u, vv, depth := v.WorldToViewport(p)
	if depth <= 0 {
		return 0, 0, depth, false
	}
	return float32(u * v.width), float32(vv * v.height), depth, true
}

// PixelsPerUnit is the screen scale of a world unit at the given depth.
func (v *View) PixelsPerUnit(depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return v.height / 2 / (math.Tan(v.fovY/2) * depth)
}
