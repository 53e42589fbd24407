package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/fishtank/common"
)

// Smoother moves the rig's published position and radius toward their goals.
// Implementations are stateful: use JumpTo to teleport and ResetVelocity
// after any discontinuous goal change.
type Smoother interface {
	// Advance steps position and radius toward the goals. Rate is the
	// convergence rate per second for this tick.
	Advance(dt float64, goal mgl64.Vec3, goalRadius, rate float64)
	Position() mgl64.Vec3
	Radius() float64
	JumpTo(p mgl64.Vec3, radius float64)
	ResetVelocity()
}

// NewSmoother returns the smoother for a law. Unknown laws fall back to
// exponential.
func NewSmoother(law Law) Smoother {
	if law == LawCriticalDamp {
		return &CriticalDamp{}
	}
	return &Exponential{}
}

// Exponential closes a fixed fraction of the remaining gap per unit time:
// pos += (goal - pos) * (1 - exp(-rate*dt)). Framerate independent, no
// state beyond the position, never overshoots.
type Exponential struct {
	pos    mgl64.Vec3
	radius float64
}

func (e *Exponential) Advance(dt float64, goal mgl64.Vec3, goalRadius, rate float64) {
	k := 1 - math.Exp(-rate*dt)
	e.pos = e.pos.Add(goal.Sub(e.pos).Mul(k))
	e.radius = common.Lerp(e.radius, goalRadius, k)
}

func (e *Exponential) Position() mgl64.Vec3 { return e.pos }
func (e *Exponential) Radius() float64      { return e.radius }

func (e *Exponential) JumpTo(p mgl64.Vec3, radius float64) {
	e.pos = p
	e.radius = radius
}

func (e *Exponential) ResetVelocity() {}

// CriticalDamp integrates a critically damped spring with a velocity
// estimate, giving a soft ease-in the exponential law lacks. Rate maps to
// the spring frequency. The velocity must be reset when the goal jumps,
// otherwise the spring whips through the new goal.
type CriticalDamp struct {
	pos    mgl64.Vec3
	vel    mgl64.Vec3
	radius float64
	radVel float64
}

func (c *CriticalDamp) Advance(dt float64, goal mgl64.Vec3, goalRadius, rate float64) {
	if dt <= 0 {
		return
	}
	omega := rate
	x := omega * dt
	decay := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	start := c.pos
	for i := 0; i < 3; i++ {
		change := c.pos[i] - goal[i]
		temp := (c.vel[i] + omega*change) * dt
		c.vel[i] = (c.vel[i] - omega*temp) * decay
		c.pos[i] = goal[i] + (change+temp)*decay
	}
	// The polynomial decay is an approximation; clamp any overshoot.
	if goal.Sub(start).Dot(c.pos.Sub(goal)) > 0 {
		c.pos = goal
		c.vel = mgl64.Vec3{}
	}

	change := c.radius - goalRadius
	temp := (c.radVel + omega*change) * dt
	c.radVel = (c.radVel - omega*temp) * decay
	next := goalRadius + (change+temp)*decay
	if (goalRadius-c.radius > 0) == (next > goalRadius) {
		next = goalRadius
		c.radVel = 0
	}
	c.radius = next
}

func (c *CriticalDamp) Position() mgl64.Vec3 { return c.pos }
func (c *CriticalDamp) Radius() float64      { return c.radius }

func (c *CriticalDamp) JumpTo(p mgl64.Vec3, radius float64) {
	c.pos = p
	c.radius = radius
	c.ResetVelocity()
}

func (c *CriticalDamp) ResetVelocity() {
	c.vel = mgl64.Vec3{}
	c.radVel = 0
}
