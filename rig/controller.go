package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/milk9111/fishtank/common"
	"github.com/milk9111/fishtank/geom"
)

// State is the arbiter's mode.
type State uint8

const (
	StateFree State = iota
	StateLocked
)

func (s State) String() string {
	if s == StateLocked {
		return "locked"
	}
	return "free"
}

// Deps wires a controller to its scene. Any collaborator may be nil; the
// behaviors that need it simply sit out.
type Deps struct {
	Projector Projector
	Caster    Caster
	Registry  *Registry
	Finder    Finder
	Output    Output

	// Volume clamps every goal write. Nil means unbounded.
	Volume *geom.Box

	// Pivot is the scene's home point. Double-click recenters here and
	// zooming out drifts back toward it.
	Pivot mgl64.Vec3

	// SteerMask filters zoom steering raycasts. Zero matches everything.
	SteerMask uint32
}

// Controller arbitrates one goal point per tick from competing influences:
// manual pan, double-click recenter, snap-lock follow, and zoom steering.
// Manual input always wins, acquisition needs sustained intent, release is
// hysteretic, and every goal write is clamped to the containment volume, so
// the influences cannot fight each other within a tick.
type Controller struct {
	cfg      Config
	deps     Deps
	gesture  *Gesture
	smoother Smoother

	state         State
	locked        Focusable
	goal          mgl64.Vec3
	desiredRadius float64

	dwell    float64
	cooldown float64
	quiet    float64
	handoff  float64
	boost    float64

	handoffTween *gween.Tween
	boostTween   *gween.Tween
}

func New(cfg Config, deps Deps) *Controller {
	c := &Controller{
		cfg:           cfg,
		deps:          deps,
		gesture:       NewGesture(cfg),
		smoother:      NewSmoother(cfg.Smoothing),
		desiredRadius: cfg.StartRadius,
	}
	c.setGoal(deps.Pivot)
	c.smoother.JumpTo(c.goal, cfg.StartRadius)
	return c
}

// Advance runs one tick of the rig. It never blocks, never fails, and
// always publishes, even on ticks with no input at all.
func (c *Controller) Advance(dt float64, s Sample) {
	if dt < 0 {
		dt = 0
	}
	c.tickTimers(dt)

	ev := c.gesture.Update(dt, s)

	// Manual input overrides everything: panning breaks any lock and
	// opens the quiet window, a recenter breaks it and boosts home.
	pan := c.worldPan(dt, s)
	panned := pan[0] != 0 || pan[1] != 0 || pan[2] != 0
	if panned {
		c.unlock()
		c.cooldown = c.cfg.ResnapCooldown
		c.quiet = c.cfg.QuietAfterPan
		c.setGoal(c.goal.Add(pan))
	}
	if s.ManualPan {
		c.unlock()
		c.cooldown = c.cfg.ResnapCooldown
		c.quiet = c.cfg.QuietAfterPan
	}
	recentered := false
	if ev == GestureDoubleClick && c.cfg.Capabilities.Recenter {
		c.unlock()
		c.setGoal(c.deps.Pivot)
		c.cooldown = c.cfg.ResnapCooldown
		c.boost = c.cfg.BoostTime
		c.boostTween = gween.New(float32(c.cfg.BoostRate), float32(c.cfg.FreeRate), float32(c.cfg.BoostTime), ease.OutQuad)
		c.smoother.ResetVelocity()
		recentered = true
	}
	manual := panned || s.ManualPan || recentered

	scroll := s.Scroll
	if !c.cfg.Capabilities.Zoom {
		scroll = 0
	}
	if scroll != 0 {
		c.desiredRadius = common.Clamp(c.desiredRadius*(1-scroll*c.cfg.ZoomStep), c.cfg.MinRadius, c.cfg.MaxRadius)
	}

	// Acquisition: only while roaming free, quiet, off cooldown, and
	// actively zooming in. Dwell accumulates across consecutive candidate
	// ticks and resets the moment the chain breaks.
	if c.state == StateFree && c.cfg.Capabilities.Snap && !manual &&
		c.cooldown <= 0 && c.quiet <= 0 && c.zoomingIn(scroll) && c.radiusAllowsSnap() {
		if cand, ok := c.findCandidate(s); ok {
			c.dwell += dt
			if c.dwell >= c.cfg.SnapDwell {
				c.lock(cand)
			}
		} else {
			c.dwell = 0
		}
	} else {
		c.dwell = 0
	}

	// Release: a despawned, drifted, or zoomed-away subject lets go. The
	// goal keeps its last value so the rig glides instead of jumping.
	if c.state == StateLocked && (c.stale() || c.drifted() || c.zoomedOut()) {
		c.release()
	}

	// Follow: the goal chases the locked anchor through a low-pass, then
	// through the containment clamp.
	if c.state == StateLocked {
		anchor := c.locked.FocusAnchor()
		k := 1.0
		if c.cfg.FollowLag > 0 {
			k = 1 - math.Exp(-dt/c.cfg.FollowLag)
		}
		c.setGoal(c.goal.Add(anchor.Sub(c.goal).Mul(k)))
	}

	// Zoom steering: free roam drifts toward what the wheel is aimed at.
	if c.state == StateFree && c.cfg.Capabilities.ZoomSteer && scroll != 0 &&
		c.quiet <= 0 && !manual {
		c.steer(scroll, s)
	}

	c.smoother.Advance(dt, c.goal, c.desiredRadius, c.effectiveRate(dt))
	c.publish()
}

func (c *Controller) tickTimers(dt float64) {
	c.cooldown = math.Max(0, c.cooldown-dt)
	c.quiet = math.Max(0, c.quiet-dt)
	c.handoff = math.Max(0, c.handoff-dt)
	c.boost = math.Max(0, c.boost-dt)
}

func (c *Controller) worldPan(dt float64, s Sample) mgl64.Vec3 {
	if !c.cfg.Capabilities.Pan || c.deps.Projector == nil {
		return mgl64.Vec3{}
	}
	var pan mgl64.Vec3
	right, up, _ := c.deps.Projector.Basis()
	if s.Pan[0] != 0 || s.Pan[1] != 0 {
		pan = pan.Add(right.Mul(s.Pan[0]).Add(up.Mul(s.Pan[1])).Mul(c.cfg.PanSpeed * dt))
	}
	if c.gesture.Dragging() && (s.PointerDelta[0] != 0 || s.PointerDelta[1] != 0) {
		// Grab semantics: the world follows the pointer, so the goal
		// moves against it. Scaled by radius so a drag covers the same
		// screen distance at any zoom.
		scale := c.cfg.DragPanScale * c.smoother.Radius()
		pan = pan.Add(right.Mul(-s.PointerDelta[0]).Add(up.Mul(s.PointerDelta[1])).Mul(scale))
	}
	return pan
}

func (c *Controller) zoomingIn(scroll float64) bool {
	if scroll > 0 {
		return true
	}
	// A wheel notch lands on one tick but the radius glides for many;
	// treat the glide as continued zoom-in intent so dwell can complete.
	return c.desiredRadius < c.smoother.Radius()-c.cfg.RadiusEps
}

func (c *Controller) radiusAllowsSnap() bool {
	return c.cfg.SnapRadius <= 0 || c.smoother.Radius() <= c.cfg.SnapRadius
}

func (c *Controller) findCandidate(s Sample) (Focusable, bool) {
	if c.deps.Finder == nil || c.deps.Projector == nil {
		return nil, false
	}
	ray := c.deps.Projector.ScreenPointToRay(s.Pointer[0], s.Pointer[1])
	return c.deps.Finder.Find(ray)
}

func (c *Controller) stale() bool {
	return c.deps.Registry != nil && !c.deps.Registry.Contains(c.locked)
}

func (c *Controller) drifted() bool {
	if c.deps.Projector == nil {
		return false
	}
	return OffCenter(c.deps.Projector, c.locked.FocusAnchor(), c.cfg.ReleaseWindow)
}

func (c *Controller) zoomedOut() bool {
	return c.cfg.ReleaseRadius > 0 && c.smoother.Radius() > c.cfg.ReleaseRadius
}

func (c *Controller) steer(scroll float64, s Sample) {
	if scroll > 0 {
		target := c.deps.Pivot
		bias := c.cfg.ZoomInBias * scroll
		hitSomething := false
		if c.deps.Caster != nil && c.deps.Projector != nil {
			ray := c.deps.Projector.ScreenPointToRay(s.Pointer[0], s.Pointer[1])
			if hit, ok := c.deps.Caster.Raycast(ray, c.cfg.MaxFocusDistance, c.deps.SteerMask); ok {
				target = hit.Point
				hitSomething = true
			}
		}
		if !hitSomething {
			bias *= 0.5
		}
		c.setGoal(c.goal.Add(target.Sub(c.goal).Mul(bias)))
		return
	}
	bias := c.cfg.ZoomOutBias * -scroll
	c.setGoal(c.goal.Add(c.deps.Pivot.Sub(c.goal).Mul(bias)))
}

func (c *Controller) lock(f Focusable) {
	c.state = StateLocked
	c.locked = f
	c.dwell = 0
	c.handoff = c.cfg.HandoffBlendTime
	c.handoffTween = gween.New(float32(c.cfg.HandoffRate), float32(c.cfg.LockedRate), float32(c.cfg.HandoffBlendTime), ease.OutQuad)
	c.smoother.ResetVelocity()
}

func (c *Controller) unlock() {
	c.state = StateFree
	c.locked = nil
	c.handoff = 0
	c.handoffTween = nil
}

func (c *Controller) release() {
	c.unlock()
	c.cooldown = c.cfg.ResnapCooldown
}

// effectiveRate shapes the base rate with the handoff and boost envelopes.
// The handoff eases the rate up from low after a fresh lock so the rate
// change itself never pops; the boost eases it down after a recenter.
func (c *Controller) effectiveRate(dt float64) float64 {
	rate := c.cfg.FreeRate
	if c.state == StateLocked {
		rate = c.cfg.LockedRate
	}
	if c.handoff > 0 && c.handoffTween != nil {
		v, done := c.handoffTween.Update(float32(dt))
		if done {
			c.handoffTween = nil
		}
		rate = math.Min(rate, float64(v))
	}
	if c.boost > 0 && c.boostTween != nil {
		v, done := c.boostTween.Update(float32(dt))
		if done {
			c.boostTween = nil
		}
		rate = math.Max(rate, float64(v))
	}
	return rate
}

func (c *Controller) setGoal(p mgl64.Vec3) {
	if c.deps.Volume != nil {
		p = c.deps.Volume.ClampPoint(p)
	}
	c.goal = p
}

func (c *Controller) publish() {
	if c.deps.Output == nil {
		return
	}
	c.deps.Output.SetTrackedPoint(c.smoother.Position())
	c.deps.Output.SetRadius(c.smoother.Radius())
}

func (c *Controller) State() State         { return c.state }
func (c *Controller) Locked() Focusable    { return c.locked }
func (c *Controller) Goal() mgl64.Vec3     { return c.goal }
func (c *Controller) Position() mgl64.Vec3 { return c.smoother.Position() }
func (c *Controller) Radius() float64      { return c.smoother.Radius() }
func (c *Controller) Config() Config       { return c.cfg }

// SnapTo locks f immediately, skipping the dwell. Programmatic callers
// (tour modes, debug pickers) use this; normal play goes through Advance.
func (c *Controller) SnapTo(f Focusable) {
	if f == nil {
		return
	}
	c.lock(f)
}

// ReleaseLock drops any lock and starts the resnap cooldown.
func (c *Controller) ReleaseLock() {
	if c.state == StateLocked {
		c.release()
	}
}

// SetConfig swaps the tuning live. Changing the smoothing law carries the
// current position and radius over so the rig doesn't jump.
func (c *Controller) SetConfig(cfg Config) {
	if cfg.Smoothing != c.cfg.Smoothing {
		ns := NewSmoother(cfg.Smoothing)
		ns.JumpTo(c.smoother.Position(), c.smoother.Radius())
		c.smoother = ns
	}
	c.cfg = cfg
	c.gesture = NewGesture(cfg)
	c.desiredRadius = common.Clamp(c.desiredRadius, cfg.MinRadius, cfg.MaxRadius)
}

// Snapshot captures the controller for HUDs and traces.
type Snapshot struct {
	State         State
	Goal          mgl64.Vec3
	Position      mgl64.Vec3
	Radius        float64
	DesiredRadius float64
	Dwell         float64
	Cooldown      float64
	Quiet         float64
	Handoff       float64
	Boost         float64
}

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		State:         c.state,
		Goal:          c.goal,
		Position:      c.smoother.Position(),
		Radius:        c.smoother.Radius(),
		DesiredRadius: c.desiredRadius,
		Dwell:         c.dwell,
		Cooldown:      c.cooldown,
		Quiet:         c.quiet,
		Handoff:       c.handoff,
		Boost:         c.boost,
	}
}
