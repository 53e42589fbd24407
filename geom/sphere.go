package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// IntersectRay reports the nearest non-negative hit distance. A ray starting
// inside the sphere hits the far shell.
func (s Sphere) IntersectRay(r Ray) (t float64, ok bool) {
	oc := r.Origin.Sub(s.Center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t = -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
