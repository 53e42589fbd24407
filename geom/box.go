package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is an axis-aligned volume. The zero value is a degenerate point at the
// origin; use NewBox to build one from any two corners.
type Box struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewBox returns the box spanning a and b. The corners may be given in any
// order; extents are normalized per component.
func NewBox(a, b mgl64.Vec3) Box {
	var box Box
	for i := 0; i < 3; i++ {
		box.Min[i] = math.Min(a[i], b[i])
		box.Max[i] = math.Max(a[i], b[i])
	}
	return box
}

func (b Box) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Box) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// ClampPoint returns p moved to the nearest point inside the box. Points
// already inside come back unchanged.
func (b Box) ClampPoint(p mgl64.Vec3) mgl64.Vec3 {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			p[i] = b.Min[i]
		} else if p[i] > b.Max[i] {
			p[i] = b.Max[i]
		}
	}
	return p
}

func (b Box) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Inset shrinks the box by d on every side. Components collapse to the
// center when d exceeds the half extent.
func (b Box) Inset(d float64) Box {
	c := b.Center()
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i]+d, c[i])
		b.Max[i] = math.Max(b.Max[i]-d, c[i])
	}
	return b
}

// IntersectRay runs the slab test and reports the parametric entry and exit
// distances. A ray starting inside yields tNear < 0 <= tFar.
func (b Box) IntersectRay(r Ray) (tNear, tFar float64, ok bool) {
	tNear = math.Inf(-1)
	tFar = math.Inf(1)
	for i := 0; i < 3; i++ {
		if r.Dir[i] == 0 {
			if r.Origin[i] < b.Min[i] || r.Origin[i] > b.Max[i] {
				return 0, 0, false
			}
			continue
		}
		t0 := (b.Min[i] - r.Origin[i]) / r.Dir[i]
		t1 := (b.Max[i] - r.Origin[i]) / r.Dir[i]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tNear = math.Max(tNear, t0)
		tFar = math.Min(tFar, t1)
		if tNear > tFar {
			return 0, 0, false
		}
	}
	if tFar < 0 {
		return 0, 0, false
	}
	return tNear, tFar, true
}
