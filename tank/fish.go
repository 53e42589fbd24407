package tank

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/milk9111/fishtank/common"
	"github.com/milk9111/fishtank/prefabs"
)

// Fish is one swimmer. The chipmunk body carries the x/z motion; depth is
// a slow drift inside the species band plus a bob, applied during sync.
type Fish struct {
	Species *prefabs.SpeciesSpec

	tank  *Tank
	body  *cp.Body
	shape *cp.Shape

	pos     mgl64.Vec3
	heading float64 // radians in the swim plane, 0 along +x
	speed   float64

	seed       float64
	bobPhase   float64
	depthPhase float64

	dart     *gween.Tween
	steering *Steering
}

func newFish(t *Tank, sp *prefabs.SpeciesSpec) *Fish {
	f := &Fish{
		Species:    sp,
		tank:       t,
		seed:       t.rng.Float64() * 1000,
		bobPhase:   t.rng.Float64() * 2 * math.Pi,
		depthPhase: t.rng.Float64() * 2 * math.Pi,
		heading:    t.rng.Float64() * 2 * math.Pi,
		steering:   t.steeringFor(sp),
	}

	x := spawnCoord(t.rng.Float64(), t.water.Min[0], t.water.Max[0], sp.BodyRadius)
	z := spawnCoord(t.rng.Float64(), t.water.Min[2], t.water.Max[2], sp.BodyRadius)

	moment := cp.MomentForCircle(1, 0, sp.BodyRadius, cp.Vector{})
	f.body = cp.NewBody(1, moment)
	f.body.SetPosition(cp.Vector{X: x, Y: z})
	t.space.AddBody(f.body)

	f.shape = cp.NewCircle(f.body, sp.BodyRadius, cp.Vector{})
	f.shape.SetElasticity(0.2)
	f.shape.SetFriction(0)
	f.shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, catFish, cp.ALL_CATEGORIES))
	t.space.AddShape(f.shape)

	f.sync()
	return f
}

func spawnCoord(u, min, max, margin float64) float64 {
	lo, hi := min+margin, max-margin
	if hi <= lo {
		return (min + max) / 2
	}
	return lo + u*(hi-lo)
}

// steer picks this tick's turn and thrust, then writes the plane velocity.
// Scripted species replace the built-in wander; whisker avoidance overrides
// both near an obstacle.
func (f *Fish) steer(dt float64) {
	sp := f.Species
	t := f.tank

	turn, thrust := f.wander()
	dart := false

	if f.steering != nil {
		out, err := f.steering.Run(f.scriptInput())
		if err != nil {
			log.Printf("tank: %s steering: %v", sp.Name, err)
			f.steering = nil
		} else {
			turn, thrust, dart = out.Turn, out.Thrust, out.Dart
		}
	}

	turn += f.separation()

	pos := f.body.Position()
	ahead := t.wallAhead(pos, headingVec(f.heading), sp.WhiskerLen)
	if ahead < sp.WhiskerLen {
		left := t.wallAhead(pos, headingVec(f.heading+0.6), sp.WhiskerLen)
		right := t.wallAhead(pos, headingVec(f.heading-0.6), sp.WhiskerLen)
		urgency := 1 - ahead/sp.WhiskerLen
		swerve := sp.TurnRate * (1 + 2*urgency)
		if left >= right {
			turn = swerve
		} else {
			turn = -swerve
		}
		thrust = math.Min(thrust, 0.4+0.6*ahead/sp.WhiskerLen)
	}

	if f.dart == nil && sp.CruiseSpeed > 0 && sp.DartSpeed > sp.CruiseSpeed {
		if dart || (sp.DartChance > 0 && t.rng.Float64() < sp.DartChance*dt) {
			f.dart = gween.New(float32(sp.DartSpeed/sp.CruiseSpeed), 1, float32(sp.DartTime), ease.OutQuad)
		}
	}

	mult := 1.0
	if f.dart != nil {
		v, done := f.dart.Update(float32(dt))
		mult = float64(v)
		if done {
			f.dart = nil
		}
	}

	maxTurn := sp.TurnRate * 4
	turn = common.Clamp(turn, -maxTurn, maxTurn)
	f.heading = common.WrapAngle(f.heading + turn*dt)

	thrust = common.Clamp(thrust, 0.1, 1)
	f.speed = sp.CruiseSpeed * thrust * mult
	if f.speed > sp.DartSpeed && sp.DartSpeed > 0 {
		f.speed = sp.DartSpeed
	}

	dir := headingVec(f.heading)
	f.body.SetVelocityVector(cp.Vector{X: dir.X * f.speed, Y: dir.Y * f.speed})
}

// wander is the default steering: a slow sinusoid on the heading and a
// gentle thrust swell, phased per fish.
func (f *Fish) wander() (turn, thrust float64) {
	sp := f.Species
	t := f.tank.clock
	turn = math.Sin(t*sp.WanderRate+f.seed) * sp.TurnRate * 0.6
	thrust = 0.7 + 0.2*math.Sin(t*0.37+f.seed*1.7)
	return turn, thrust
}

// separation turns the fish away from close neighbors.
func (f *Fish) separation() float64 {
	sp := f.Species
	if sp.Separation <= 0 {
		return 0
	}
	var ax, az float64
	for _, other := range f.tank.fish {
		if other == f {
			continue
		}
		dx := f.pos[0] - other.pos[0]
		dz := f.pos[2] - other.pos[2]
		d2 := dx*dx + dz*dz
		if d2 >= sp.Separation*sp.Separation || d2 < 1e-9 {
			continue
		}
		d := math.Sqrt(d2)
		w := (sp.Separation - d) / sp.Separation
		ax += dx / d * w
		az += dz / d * w
	}
	if ax == 0 && az == 0 {
		return 0
	}
	away := math.Atan2(az, ax)
	return common.WrapAngle(away-f.heading) * 1.5
}

func (f *Fish) scriptInput() SteerInput {
	pos := f.body.Position()
	return SteerInput{
		T:       f.tank.clock,
		Seed:    f.seed,
		X:       pos.X,
		Z:       pos.Y,
		Heading: f.heading,
		Speed:   f.speed,
		Wall:    f.tank.wallAhead(pos, headingVec(f.heading), f.Species.WhiskerLen),
		Home:    math.Hypot(pos.X, pos.Y),
	}
}

// sync pulls the plane position out of the body and recomputes depth.
func (f *Fish) sync() {
	sp := f.Species
	p := f.body.Position()
	y := f.depthBase() + sp.BobAmp*math.Sin(sp.BobRate*f.tank.clock+f.bobPhase)
	glass := f.tank.glass
	y = common.Clamp(y, glass.Min[1]+sp.BodyRadius, glass.Max[1]-sp.BodyRadius)
	f.pos = mgl64.Vec3{p.X, y, p.Y}
}

// depthBase drifts slowly across the species depth band.
func (f *Fish) depthBase() float64 {
	sp := f.Species
	h := f.tank.spec.Height
	lo := sp.DepthMin * h
	hi := sp.DepthMax * h
	mid := (lo + hi) / 2
	span := (hi - lo) / 2
	return mid + span*math.Sin(0.11*f.tank.clock+f.depthPhase)
}

func headingVec(h float64) cp.Vector {
	return cp.Vector{X: math.Cos(h), Y: math.Sin(h)}
}

func (f *Fish) Position() mgl64.Vec3 { return f.pos }
func (f *Fish) Heading() float64     { return f.heading }
func (f *Fish) Speed() float64       { return f.speed }
func (f *Fish) Darting() bool        { return f.dart != nil }

// FocusAnchor is the point the camera tracks: just ahead of the body, at
// the head.
func (f *Fish) FocusAnchor() mgl64.Vec3 {
	dir := headingVec(f.heading)
	return mgl64.Vec3{
		f.pos[0] + dir.X*f.Species.HeadOffset,
		f.pos[1],
		f.pos[2] + dir.Y*f.Species.HeadOffset,
	}
}

func (f *Fish) FocusWeight() float64 { return f.Species.FocusWeight }
