// Package tank is the aquarium scene: the water volume, the glass, the
// decorations, and the fish. It owns the physics plane the fish steer in
// and the focus registry the camera rig watches.
package tank

import (
	"image/color"
	"log"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/fishtank/geom"
	"github.com/milk9111/fishtank/prefabs"
	"github.com/milk9111/fishtank/rig"
)

// Swim-plane collision categories.
const (
	catFish uint = 1 << iota
	catGlass
	catDecor
)

// Raycast masks for scene queries. Zero means everything.
const (
	MaskFish uint32 = 1 << iota
	MaskDecor
	MaskGlass
)

const MaskAll = MaskFish | MaskDecor | MaskGlass

type Decoration struct {
	Name        string
	Sphere      geom.Sphere
	BlocksSight bool
	Color       color.NRGBA
}

// Tank holds the scene. The floor sits at y=0 and the tank is centered on
// the origin in x/z; fish locomotion runs in the horizontal plane through
// a chipmunk space (cp x/y mapped to world x/z) while depth is handled
// per fish.
type Tank struct {
	spec  prefabs.TankSpec
	glass geom.Box // outer walls
	water geom.Box // glass inset by the margin; the rig's containment volume

	space   *cp.Space
	rng     *rand.Rand
	clock   float64
	species map[string]*prefabs.SpeciesSpec
	scripts map[string]*Steering

	fish     []*Fish
	decor    []Decoration
	registry *rig.Registry
}

func New(spec *prefabs.TankSpec, species map[string]*prefabs.SpeciesSpec) *Tank {
	glass := geom.NewBox(
		mgl64.Vec3{-spec.Width / 2, 0, -spec.Depth / 2},
		mgl64.Vec3{spec.Width / 2, spec.Height, spec.Depth / 2},
	)

	seed := spec.Seed
	if seed == 0 {
		seed = 1
	}

	t := &Tank{
		spec:     *spec,
		glass:    glass,
		water:    glass.Inset(spec.GlassMargin),
		space:    cp.NewSpace(),
		rng:      rand.New(rand.NewSource(seed)),
		species:  species,
		scripts:  map[string]*Steering{},
		registry: rig.NewRegistry(),
	}
	t.space.Iterations = 20

	t.buildWalls()
	t.buildDecor()
	t.populate()
	return t
}

func (t *Tank) buildWalls() {
	w, d := t.spec.Width/2, t.spec.Depth/2
	corners := []struct{ a, b cp.Vector }{
		{cp.Vector{X: -w, Y: -d}, cp.Vector{X: w, Y: -d}},
		{cp.Vector{X: w, Y: -d}, cp.Vector{X: w, Y: d}},
		{cp.Vector{X: w, Y: d}, cp.Vector{X: -w, Y: d}},
		{cp.Vector{X: -w, Y: d}, cp.Vector{X: -w, Y: -d}},
	}
	for _, seg := range corners {
		shape := cp.NewSegment(t.space.StaticBody, seg.a, seg.b, 0.1)
		shape.SetElasticity(0.4)
		shape.SetFriction(0)
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, catGlass, cp.ALL_CATEGORIES))
		t.space.AddShape(shape)
	}
}

func (t *Tank) buildDecor() {
	for _, d := range t.spec.Decor {
		dec := Decoration{
			Name:        d.Name,
			Sphere:      geom.Sphere{Center: mgl64.Vec3{d.X, d.Y, d.Z}, Radius: d.Radius},
			BlocksSight: d.BlocksSight,
			Color:       d.Color.RGBA8(color.NRGBA{R: 0x70, G: 0x70, B: 0x70, A: 0xff}),
		}
		t.decor = append(t.decor, dec)

		// Fish swim around the footprint, whatever the height.
		shape := cp.NewCircle(t.space.StaticBody, d.Radius, cp.Vector{X: d.X, Y: d.Z})
		shape.SetElasticity(0.4)
		shape.SetFriction(0)
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, catDecor, cp.ALL_CATEGORIES))
		t.space.AddShape(shape)
	}
}

func (t *Tank) populate() {
	for _, school := range t.spec.Schools {
		sp, ok := t.species[school.Species]
		if !ok {
			log.Printf("tank: unknown species %q in %s", school.Species, t.spec.Name)
			continue
		}
		for i := 0; i < school.Count; i++ {
			t.Spawn(sp)
		}
	}
}

// Spawn adds a fish of the given species at a random spot and registers it
// as a focus subject.
func (t *Tank) Spawn(sp *prefabs.SpeciesSpec) *Fish {
	f := newFish(t, sp)
	t.fish = append(t.fish, f)
	t.registry.Add(f)
	return f
}

// Despawn removes a fish from the scene and the focus registry.
func (t *Tank) Despawn(f *Fish) {
	for i, it := range t.fish {
		if it == f {
			t.fish = append(t.fish[:i], t.fish[i+1:]...)
			break
		}
	}
	t.registry.Remove(f)
	if f.shape != nil {
		t.space.RemoveShape(f.shape)
	}
	if f.body != nil {
		t.space.RemoveBody(f.body)
	}
	f.tank = nil
}

// Step advances the scene one tick: steering, the physics plane, then the
// world-space sync.
func (t *Tank) Step(dt float64) {
	if dt <= 0 {
		return
	}
	t.clock += dt
	for _, f := range t.fish {
		f.steer(dt)
	}
	t.space.Step(dt)
	for _, f := range t.fish {
		f.sync()
	}
}

func (t *Tank) Registry() *rig.Registry { return t.registry }
func (t *Tank) Fish() []*Fish           { return t.fish }
func (t *Tank) Decor() []Decoration     { return t.decor }
func (t *Tank) Clock() float64          { return t.clock }

// Glass is the outer wall box.
func (t *Tank) Glass() geom.Box { return t.glass }

// Water is the glass inset by the margin; the camera goal stays inside it.
func (t *Tank) Water() geom.Box { return t.water }

// Pivot is the tank's home point for recentering.
func (t *Tank) Pivot() mgl64.Vec3 { return t.glass.Center() }

func (t *Tank) WaterColor() color.NRGBA {
	return t.spec.Water.RGBA8(color.NRGBA{R: 0x0b, G: 0x2d, B: 0x4a, A: 0xff})
}

// steeringFor lazily compiles the species steering script. A species that
// fails to load or compile swims on the built-in steering instead.
func (t *Tank) steeringFor(sp *prefabs.SpeciesSpec) *Steering {
	if sp.Script == "" {
		return nil
	}
	if s, ok := t.scripts[sp.Name]; ok {
		return s
	}
	src, err := prefabs.LoadScript(sp.Script)
	if err != nil {
		log.Printf("tank: species %s: %v", sp.Name, err)
		t.scripts[sp.Name] = nil
		return nil
	}
	s, err := NewSteering(src)
	if err != nil {
		log.Printf("tank: species %s: %v", sp.Name, err)
		t.scripts[sp.Name] = nil
		return nil
	}
	t.scripts[sp.Name] = s
	return s
}

// wallAhead reports the distance to the nearest wall or decoration along
// dir in the swim plane, up to max.
func (t *Tank) wallAhead(pos, dir cp.Vector, max float64) float64 {
	end := pos.Add(dir.Mult(max))
	filter := cp.NewShapeFilter(cp.NO_GROUP, catFish, catGlass|catDecor)
	info := t.space.SegmentQueryFirst(pos, end, 0, filter)
	if info.Shape == nil {
		return max
	}
	return info.Alpha * max
}
