package tank

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/fishtank/geom"
	"github.com/milk9111/fishtank/rig"
)

// Raycast finds the nearest thing under a world ray. Fish report themselves
// as focus subjects; decorations and the glass are plain scenery hits. Fish
// hit spheres are padded past the body radius so a near miss on a thin
// swimmer still counts.
func (t *Tank) Raycast(r geom.Ray, maxDist float64, mask uint32) (rig.Hit, bool) {
	if mask == 0 {
		mask = MaskAll
	}
	limit := maxDist
	if limit <= 0 {
		limit = math.Inf(1)
	}

	best := math.Inf(1)
	var hit rig.Hit

	if mask&MaskFish != 0 {
		for _, f := range t.fish {
			s := geom.Sphere{Center: f.pos, Radius: f.Species.BodyRadius * 1.5}
			d, ok := s.IntersectRay(r)
			if !ok || d > limit || d >= best {
				continue
			}
			best = d
			hit = rig.Hit{Point: r.At(d), Subject: f}
		}
	}

	if mask&MaskDecor != 0 {
		for i := range t.decor {
			d, ok := t.decor[i].Sphere.IntersectRay(r)
			if !ok || d > limit || d >= best {
				continue
			}
			best = d
			hit = rig.Hit{Point: r.At(d)}
		}
	}

	if mask&MaskGlass != 0 {
		if tn, tf, ok := t.glass.IntersectRay(r); ok {
			d := tn
			if d < 0 {
				// Inside the tank the ray hits the far pane.
				d = tf
			}
			if d >= 0 && d <= limit && d < best {
				best = d
				hit = rig.Hit{Point: r.At(d)}
			}
		}
	}

	if math.IsInf(best, 1) {
		return rig.Hit{}, false
	}
	return hit, true
}

// LineOfSight reports whether b is visible from a. Only sight-blocking
// decorations occlude; fish and the glass never do.
func (t *Tank) LineOfSight(a, b mgl64.Vec3, mask uint32) bool {
	if mask == 0 {
		mask = MaskAll
	}
	if mask&MaskDecor == 0 {
		return true
	}

	ab := b.Sub(a)
	dist := ab.Len()
	if dist < 1e-9 {
		return true
	}
	ray := geom.Ray{Origin: a, Dir: ab.Mul(1 / dist)}

	for i := range t.decor {
		if !t.decor[i].BlocksSight {
			continue
		}
		d, ok := t.decor[i].Sphere.IntersectRay(ray)
		if ok && d > 1e-6 && d < dist-1e-6 {
			return false
		}
	}
	return true
}
