package rig

import (
	"math"

	"github.com/milk9111/fishtank/geom"
)

// Finder proposes the focus candidate under a query ray, or reports that
// there is none this tick.
type Finder interface {
	Find(r geom.Ray) (Focusable, bool)
}

// RayFinder is the canonical policy: cast the query ray into the scene and
// accept whatever focusable it strikes, as long as the subject's anchor
// still projects near screen center.
type RayFinder struct {
	caster  Caster
	proj    Projector
	maxDist float64
	window  float64
	mask    uint32
}

func NewRayFinder(caster Caster, proj Projector, maxDist, window float64, mask uint32) *RayFinder {
	return &RayFinder{caster: caster, proj: proj, maxDist: maxDist, window: window, mask: mask}
}

func (f *RayFinder) Find(r geom.Ray) (Focusable, bool) {
	if f.caster == nil || f.proj == nil {
		return nil, false
	}
	hit, ok := f.caster.Raycast(r, f.maxDist, f.mask)
	if !ok || hit.Subject == nil || hit.Subject.FocusWeight() <= 0 {
		return nil, false
	}
	if OffCenter(f.proj, hit.Subject.FocusAnchor(), f.window) {
		return nil, false
	}
	return hit.Subject, true
}

// ScanFinder is the registry-walk policy: score every registered subject by
// how close its anchor projects to screen center and take the best visible
// one. Heavier than RayFinder but immune to occlusion-by-hitbox quirks,
// which makes it the better fit for dense scenes.
type ScanFinder struct {
	reg     *Registry
	caster  Caster
	proj    Projector
	window  float64
	losMask uint32
}

func NewScanFinder(reg *Registry, caster Caster, proj Projector, window float64, losMask uint32) *ScanFinder {
	return &ScanFinder{reg: reg, caster: caster, proj: proj, window: window, losMask: losMask}
}

func (f *ScanFinder) Find(r geom.Ray) (Focusable, bool) {
	if f.reg == nil || f.proj == nil {
		return nil, false
	}

	var best Focusable
	bestScore := math.Inf(1)
	bestDist := math.Inf(1)

	f.reg.Each(func(sub Focusable) {
		w := sub.FocusWeight()
		if w <= 0 {
			return
		}
		anchor := sub.FocusAnchor()
		u, v, depth := f.proj.WorldToViewport(anchor)
		if depth <= 0 {
			return
		}
		off := math.Hypot(u-0.5, v-0.5)
		if off > f.window {
			return
		}
		if f.caster != nil && !f.caster.LineOfSight(r.Origin, anchor, f.losMask) {
			return
		}
		score := off / w
		dist := anchor.Sub(r.Origin).Len()
		if score < bestScore || (score == bestScore && dist < bestDist) {
			best, bestScore, bestDist = sub, score, dist
		}
	})

	return best, best != nil
}
