package tank

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/fishtank/geom"
	"github.com/milk9111/fishtank/prefabs"
)

func testSpecies() *prefabs.SpeciesSpec {
	return &prefabs.SpeciesSpec{
		Name:        "guppy",
		BodyRadius:  0.3,
		HeadOffset:  0.4,
		FocusWeight: 1,
		CruiseSpeed: 2,
		DartSpeed:   5,
		DartTime:    0.5,
		TurnRate:    2,
		WanderRate:  0.8,
		Separation:  0.8,
		WhiskerLen:  2,
		DepthMin:    0.2,
		DepthMax:    0.8,
		BobAmp:      0.2,
		BobRate:     2,
	}
}

func testTankSpec() *prefabs.TankSpec {
	return &prefabs.TankSpec{
		Name:        "test",
		Width:       20,
		Height:      10,
		Depth:       12,
		GlassMargin: 0.5,
		Seed:        42,
		Schools:     []prefabs.SchoolSpec{{Species: "guppy", Count: 4}},
	}
}

func testSpeciesMap() map[string]*prefabs.SpeciesSpec {
	sp := testSpecies()
	return map[string]*prefabs.SpeciesSpec{sp.Name: sp}
}

func placeFish(f *Fish, x, z, heading float64) {
	f.body.SetPosition(cp.Vector{X: x, Y: z})
	f.heading = heading
	f.sync()
}

func TestTankPopulatesFromSpec(t *testing.T) {
	tank := New(testTankSpec(), testSpeciesMap())

	if len(tank.Fish()) != 4 {
		t.Fatalf("expected 4 fish, got %d", len(tank.Fish()))
	}
	if tank.Registry().Len() != 4 {
		t.Fatalf("expected 4 registered subjects, got %d", tank.Registry().Len())
	}
}

func TestTankSkipsUnknownSpecies(t *testing.T) {
	spec := testTankSpec()
	spec.Schools = append(spec.Schools, prefabs.SchoolSpec{Species: "kraken", Count: 9})

	tank := New(spec, testSpeciesMap())

	if len(tank.Fish()) != 4 {
		t.Fatalf("expected unknown species to be skipped, got %d fish", len(tank.Fish()))
	}
}

func TestSpawnDespawnRegistry(t *testing.T) {
	spec := testTankSpec()
	spec.Schools = nil
	tank := New(spec, testSpeciesMap())

	f := tank.Spawn(testSpecies())
	if len(tank.Fish()) != 1 {
		t.Fatalf("expected 1 fish after spawn, got %d", len(tank.Fish()))
	}
	if !tank.Registry().Contains(f) {
		t.Fatalf("spawned fish should be registered for focus")
	}

	tank.Despawn(f)
	if len(tank.Fish()) != 0 {
		t.Fatalf("expected 0 fish after despawn, got %d", len(tank.Fish()))
	}
	if tank.Registry().Contains(f) {
		t.Fatalf("despawned fish should leave the registry")
	}
}

func TestWaterInsideGlass(t *testing.T) {
	tank := New(testTankSpec(), testSpeciesMap())

	glass, water := tank.Glass(), tank.Water()
	if !glass.Contains(water.Min) || !glass.Contains(water.Max) {
		t.Fatalf("water volume should sit inside the glass: glass=%v water=%v", glass, water)
	}
	if got := water.Min[0]; got != glass.Min[0]+0.5 {
		t.Fatalf("expected water inset by the glass margin, got min x %v", got)
	}
	if got := tank.Pivot(); got != glass.Center() {
		t.Fatalf("expected pivot at glass center, got %v", got)
	}
}

func TestFocusAnchorLeadsTheBody(t *testing.T) {
	spec := testTankSpec()
	spec.Schools = nil
	tank := New(spec, testSpeciesMap())
	f := tank.Spawn(testSpecies())

	placeFish(f, 1, 2, 0)

	anchor := f.FocusAnchor()
	want := f.Position().Add(mgl64.Vec3{f.Species.HeadOffset, 0, 0})
	if !approxVec(anchor, want, 1e-9) {
		t.Fatalf("expected anchor %v, got %v", want, anchor)
	}
	if f.FocusWeight() != 1 {
		t.Fatalf("expected focus weight 1, got %v", f.FocusWeight())
	}
}

func TestRaycast(t *testing.T) {
	spec := testTankSpec()
	spec.Schools = nil
	spec.Decor = []prefabs.DecorSpec{
		{Name: "rock", X: 0, Y: 5, Z: -2, Radius: 1},
	}
	tank := New(spec, testSpeciesMap())
	f := tank.Spawn(testSpecies())
	placeFish(f, 3, 3, 0)

	t.Run("fish_hit_reports_subject", func(t *testing.T) {
		ray := geom.NewRay(f.Position().Add(mgl64.Vec3{0, 0, -8}), mgl64.Vec3{0, 0, 1})
		hit, ok := tank.Raycast(ray, 100, 0)
		if !ok {
			t.Fatalf("expected a hit on the fish")
		}
		if hit.Subject != f {
			t.Fatalf("expected the fish as subject, got %v", hit.Subject)
		}
	})

	t.Run("decor_hit_has_no_subject", func(t *testing.T) {
		ray := geom.NewRay(mgl64.Vec3{0, 5, -9}, mgl64.Vec3{0, 0, 1})
		hit, ok := tank.Raycast(ray, 100, MaskDecor)
		if !ok {
			t.Fatalf("expected a hit on the rock")
		}
		if hit.Subject != nil {
			t.Fatalf("expected scenery hit, got subject %v", hit.Subject)
		}
		if got := hit.Point[2]; math.Abs(got-(-3)) > 1e-9 {
			t.Fatalf("expected hit at z=-3 on the near shell, got %v", got)
		}
	})

	t.Run("mask_excludes_fish", func(t *testing.T) {
		ray := geom.NewRay(f.Position().Add(mgl64.Vec3{0, 0, -8}), mgl64.Vec3{0, 0, 1})
		_, ok := tank.Raycast(ray, 10, MaskDecor)
		if ok {
			t.Fatalf("decor-only mask should not hit fish or glass")
		}
	})

	t.Run("glass_hit_from_inside_strikes_far_pane", func(t *testing.T) {
		ray := geom.NewRay(tank.Pivot(), mgl64.Vec3{1, 0, 0})
		hit, ok := tank.Raycast(ray, 100, MaskGlass)
		if !ok {
			t.Fatalf("expected a glass hit")
		}
		if got := hit.Point[0]; math.Abs(got-10) > 1e-9 {
			t.Fatalf("expected the +x pane at x=10, got %v", got)
		}
	})

	t.Run("zero_mask_matches_everything", func(t *testing.T) {
		ray := geom.NewRay(tank.Pivot(), mgl64.Vec3{-1, 0, 0})
		_, ok := tank.Raycast(ray, 100, 0)
		if !ok {
			t.Fatalf("expected the glass behind an empty lane")
		}
	})
}

func TestLineOfSight(t *testing.T) {
	spec := testTankSpec()
	spec.Schools = nil
	spec.Decor = []prefabs.DecorSpec{
		{Name: "castle", X: 0, Y: 5, Z: 0, Radius: 1.5, BlocksSight: true},
		{Name: "weed", X: 5, Y: 5, Z: 0, Radius: 1},
	}
	tank := New(spec, testSpeciesMap())

	a := mgl64.Vec3{-6, 5, 0}
	b := mgl64.Vec3{6, 5, 0}

	if tank.LineOfSight(a, b, 0) {
		t.Fatalf("castle should block the straight shot")
	}
	if !tank.LineOfSight(a, mgl64.Vec3{-6, 5, 4}, 0) {
		t.Fatalf("a clear lane should have line of sight")
	}
	if !tank.LineOfSight(mgl64.Vec3{4, 5, -4}, mgl64.Vec3{6, 5, 4}, 0) {
		t.Fatalf("non-blocking decor should not occlude")
	}
	if !tank.LineOfSight(a, b, MaskFish) {
		t.Fatalf("a mask without decor should never be blocked")
	}
}

func TestStepKeepsFishInTheGlass(t *testing.T) {
	tank := New(testTankSpec(), testSpeciesMap())

	roomy := tank.Glass()
	roomy.Min = roomy.Min.Sub(mgl64.Vec3{0.5, 0.5, 0.5})
	roomy.Max = roomy.Max.Add(mgl64.Vec3{0.5, 0.5, 0.5})

	for i := 0; i < 600; i++ {
		tank.Step(1.0 / 60.0)
	}
	for i, f := range tank.Fish() {
		if !roomy.Contains(f.Position()) {
			t.Fatalf("fish %d escaped to %v", i, f.Position())
		}
		if f.Speed() <= 0 {
			t.Fatalf("fish %d stalled", i)
		}
	}
}

func TestSameSeedSameSwim(t *testing.T) {
	a := New(testTankSpec(), testSpeciesMap())
	b := New(testTankSpec(), testSpeciesMap())

	for i := 0; i < 120; i++ {
		a.Step(1.0 / 60.0)
		b.Step(1.0 / 60.0)
	}

	for i := range a.Fish() {
		pa, pb := a.Fish()[i].Position(), b.Fish()[i].Position()
		if !approxVec(pa, pb, 1e-9) {
			t.Fatalf("fish %d diverged: %v vs %v", i, pa, pb)
		}
	}
}

func approxVec(a, b mgl64.Vec3, eps float64) bool {
	return math.Abs(a[0]-b[0]) <= eps && math.Abs(a[1]-b[1]) <= eps && math.Abs(a[2]-b[2]) <= eps
}
