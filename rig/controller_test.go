package rig

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/fishtank/geom"
)

type testRig struct {
	c      *Controller
	caster *stubCaster
	reg    *Registry
	out    *recordOutput
	sub    *stubSubject
}

// newTestRig builds a controller around one subject parked dead-center at
// depth 10. Radius gates default off; tests that want them opt in.
func newTestRig(mut func(*Config)) *testRig {
	cfg := DefaultConfig()
	cfg.SnapRadius = 0
	cfg.ReleaseRadius = 0
	if mut != nil {
		mut(&cfg)
	}

	sub := &stubSubject{anchor: mgl64.Vec3{0, 0, 10}}
	caster := &stubCaster{hit: Hit{Point: sub.anchor, Subject: sub}, ok: true}
	reg := NewRegistry()
	reg.Add(sub)
	proj := flatProjector{}
	out := &recordOutput{}

	c := New(cfg, Deps{
		Projector: proj,
		Caster:    caster,
		Registry:  reg,
		Finder:    NewRayFinder(caster, proj, cfg.MaxFocusDistance, cfg.SnapWindow, 0),
		Output:    out,
	})
	return &testRig{c: c, caster: caster, reg: reg, out: out, sub: sub}
}

func (r *testRig) tick(n int, s Sample) {
	for i := 0; i < n; i++ {
		r.c.Advance(testDT, s)
	}
}

func TestControllerLocksAfterDwell(t *testing.T) {
	r := newTestRig(nil)

	r.tick(5, Sample{Scroll: 1})
	if r.c.State() != StateFree {
		t.Fatal("expected dwell to still be accumulating")
	}

	r.tick(25, Sample{Scroll: 1})
	if r.c.State() != StateLocked {
		t.Fatal("expected lock after sustained zoom over a candidate")
	}
	if r.c.Locked() != r.sub {
		t.Fatal("expected the candidate to be the locked subject")
	}
	if snap := r.c.Snapshot(); snap.Handoff <= 0 {
		t.Fatal("expected handoff blend to start on lock")
	}
}

func TestControllerDwellGapResets(t *testing.T) {
	r := newTestRig(nil)

	r.tick(10, Sample{Scroll: 1})

	// One tick without a candidate breaks the chain.
	r.caster.ok = false
	r.tick(1, Sample{Scroll: 1})
	r.caster.ok = true

	r.tick(12, Sample{Scroll: 1})
	if r.c.State() == StateLocked {
		t.Fatal("expected the gap to reset the dwell")
	}

	r.tick(8, Sample{Scroll: 1})
	if r.c.State() != StateLocked {
		t.Fatal("expected lock once the dwell ran uninterrupted")
	}
}

func TestControllerNoSnapWithoutZoomIntent(t *testing.T) {
	r := newTestRig(nil)

	// Candidate centered the whole time, but no wheel and no glide.
	r.tick(120, Sample{Pointer: mgl64.Vec2{0.5, 0.5}})
	if r.c.State() != StateFree {
		t.Fatal("expected no lock without zoom-in intent")
	}
	if snap := r.c.Snapshot(); snap.Dwell != 0 {
		t.Fatalf("expected zero dwell, got %v", snap.Dwell)
	}
}

func TestControllerGlideKeepsDwellAlive(t *testing.T) {
	r := newTestRig(nil)

	// A single notch, then nothing. The radius glide carries the intent.
	r.tick(1, Sample{Scroll: 1})
	r.tick(40, Sample{})
	if r.c.State() != StateLocked {
		t.Fatal("expected the zoom glide to satisfy the dwell")
	}
}

func TestControllerManualPanBreaksLock(t *testing.T) {
	r := newTestRig(nil)
	r.c.SnapTo(r.sub)
	goalBefore := r.c.Goal()

	r.tick(1, Sample{Pan: mgl64.Vec2{1, 0}})

	if r.c.State() != StateFree {
		t.Fatal("expected pan to break the lock")
	}
	snap := r.c.Snapshot()
	if snap.Cooldown != r.c.Config().ResnapCooldown {
		t.Fatalf("expected full resnap cooldown, got %v", snap.Cooldown)
	}
	if snap.Quiet != r.c.Config().QuietAfterPan {
		t.Fatalf("expected full quiet window, got %v", snap.Quiet)
	}
	wantX := goalBefore[0] + r.c.Config().PanSpeed*testDT
	if !approx(r.c.Goal()[0], wantX, 1e-9) {
		t.Fatalf("expected goal moved by pan to %v, got %v", wantX, r.c.Goal()[0])
	}

	// Candidate still centered and wheel turning, but the cooldown holds.
	r.tick(30, Sample{Scroll: 1})
	if r.c.State() != StateFree {
		t.Fatal("expected no resnap during the cooldown")
	}
}

func TestControllerManualPanSignal(t *testing.T) {
	r := newTestRig(nil)
	r.c.SnapTo(r.sub)
	goalBefore := r.c.Goal()

	r.tick(1, Sample{ManualPan: true})

	if r.c.State() != StateFree {
		t.Fatal("expected external pan signal to break the lock")
	}
	if r.c.Goal() != goalBefore {
		t.Fatal("expected external pan to leave the goal alone")
	}
	if snap := r.c.Snapshot(); snap.Cooldown <= 0 || snap.Quiet <= 0 {
		t.Fatal("expected cooldown and quiet window to open")
	}
}

func TestControllerDragPanBreaksLock(t *testing.T) {
	r := newTestRig(nil)
	r.c.SnapTo(r.sub)

	// Press, then pull the pointer far enough to commit to a drag.
	r.tick(1, Sample{Pressed: true, Held: true, Pointer: mgl64.Vec2{0.5, 0.5}})
	r.tick(1, Sample{
		Held:         true,
		Pointer:      mgl64.Vec2{0.55, 0.5},
		PointerDelta: mgl64.Vec2{30, 0},
	})

	if r.c.State() != StateFree {
		t.Fatal("expected drag pan to break the lock")
	}
	if r.c.Goal()[0] >= 0 {
		t.Fatalf("expected drag right to pull the goal left, got %v", r.c.Goal()[0])
	}
}

func TestControllerReleaseWindowBoundary(t *testing.T) {
	r := newTestRig(nil)
	r.c.SnapTo(r.sub)

	r.sub.anchor = mgl64.Vec3{0.329, 0, 10}
	r.tick(1, Sample{})
	if r.c.State() != StateLocked {
		t.Fatal("expected subject inside the release window to stay locked")
	}

	r.sub.anchor = mgl64.Vec3{0.331, 0, 10}
	goalBefore := r.c.Goal()
	r.tick(1, Sample{})
	if r.c.State() != StateFree {
		t.Fatal("expected release once drift crossed the window")
	}
	if r.c.Goal() != goalBefore {
		t.Fatal("expected the goal to keep its last value on release")
	}
	if snap := r.c.Snapshot(); snap.Cooldown <= 0 {
		t.Fatal("expected release to start the resnap cooldown")
	}
}

func TestControllerStaleSubjectReleases(t *testing.T) {
	r := newTestRig(nil)
	r.c.SnapTo(r.sub)

	r.reg.Remove(r.sub)
	r.tick(1, Sample{})

	if r.c.State() != StateFree {
		t.Fatal("expected a deregistered subject to release within one tick")
	}
	if r.c.Locked() != nil {
		t.Fatal("expected no dangling subject reference")
	}
}

func TestControllerRadiusHysteresis(t *testing.T) {
	mut := func(cfg *Config) {
		cfg.SnapRadius = 14
		cfg.ReleaseRadius = 20
	}

	t.Run("dead band blocks acquisition", func(t *testing.T) {
		r := newTestRig(mut)
		// Start radius 18 sits between the bounds: no acquisition yet.
		r.tick(1, Sample{Scroll: 1})
		if snap := r.c.Snapshot(); snap.Dwell != 0 {
			t.Fatalf("expected no dwell above the snap radius, got %v", snap.Dwell)
		}
	})

	t.Run("dead band keeps the lock", func(t *testing.T) {
		r := newTestRig(mut)
		r.c.SnapTo(r.sub)
		r.tick(30, Sample{})
		if r.c.State() != StateLocked {
			t.Fatal("expected radius 18 (below release bound) to hold the lock")
		}
	})

	t.Run("zooming past the release bound lets go", func(t *testing.T) {
		r := newTestRig(mut)
		r.c.SnapTo(r.sub)
		r.tick(120, Sample{Scroll: -1})
		if r.c.State() != StateFree {
			t.Fatal("expected zoom-out past the release radius to release")
		}
	})

	t.Run("zooming into the snap radius acquires", func(t *testing.T) {
		r := newTestRig(mut)
		r.tick(240, Sample{Scroll: 1})
		if r.c.State() != StateLocked {
			t.Fatal("expected lock once the radius dropped inside the snap bound")
		}
	})
}

func TestControllerDoubleClickRecenter(t *testing.T) {
	r := newTestRig(nil)

	r.tick(60, Sample{Pan: mgl64.Vec2{1, 0}})
	if r.c.Goal()[0] < 5 {
		t.Fatalf("expected pan to carry the goal away first, got %v", r.c.Goal()[0])
	}

	r.tick(1, Sample{Pressed: true, Released: true, Pointer: mgl64.Vec2{0.5, 0.5}})
	r.tick(1, Sample{})
	r.tick(1, Sample{Pressed: true, Released: true, Pointer: mgl64.Vec2{0.5, 0.5}})

	if r.c.Goal() != (mgl64.Vec3{}) {
		t.Fatalf("expected goal recentered on the pivot, got %v", r.c.Goal())
	}
	snap := r.c.Snapshot()
	if snap.Boost <= 0 {
		t.Fatal("expected recenter to start the boost envelope")
	}
	if snap.Cooldown <= 0 {
		t.Fatal("expected recenter to start the resnap cooldown")
	}

	before := r.c.Position()[0]
	r.tick(10, Sample{})
	if after := r.c.Position()[0]; after > before/2 {
		t.Fatalf("expected boosted glide home, position %v -> %v", before, after)
	}
}

func TestControllerSingleClickDoesNotRecenter(t *testing.T) {
	r := newTestRig(nil)

	r.tick(60, Sample{Pan: mgl64.Vec2{1, 0}})
	goal := r.c.Goal()

	r.tick(1, Sample{Pressed: true, Released: true, Pointer: mgl64.Vec2{0.5, 0.5}})
	r.tick(30, Sample{}) // past the double-click window

	if r.c.Goal() != goal {
		t.Fatal("expected a lone click to leave the goal alone")
	}
}

func TestControllerQuietWindowSuppressesSteer(t *testing.T) {
	r := newTestRig(nil)
	r.caster.hit = Hit{Point: mgl64.Vec3{2, 0, 10}} // scenery only

	r.tick(1, Sample{Pan: mgl64.Vec2{1, 0}})
	goalAfterPan := r.c.Goal()

	r.tick(10, Sample{Scroll: 1})
	if r.c.Goal() != goalAfterPan {
		t.Fatal("expected no zoom steering inside the quiet window")
	}

	r.tick(20, Sample{}) // let the quiet window lapse
	r.tick(1, Sample{Scroll: 1})
	if r.c.Goal() == goalAfterPan {
		t.Fatal("expected zoom steering to resume after the quiet window")
	}
	if r.c.Goal()[2] <= goalAfterPan[2] {
		t.Fatal("expected the goal to drift toward the wheel target")
	}
}

func TestControllerZoomOutSteersHome(t *testing.T) {
	r := newTestRig(nil)
	r.caster.ok = false

	r.tick(60, Sample{Pan: mgl64.Vec2{1, 0}})
	r.tick(30, Sample{}) // lapse the quiet window
	away := r.c.Goal()[0]

	r.tick(30, Sample{Scroll: -1})
	if got := r.c.Goal()[0]; got >= away {
		t.Fatalf("expected zoom-out to drift the goal toward the pivot, %v -> %v", away, got)
	}
}

func TestControllerZoomIntake(t *testing.T) {
	r := newTestRig(nil)
	cfg := r.c.Config()

	r.tick(1, Sample{Scroll: 1})
	want := cfg.StartRadius * (1 - cfg.ZoomStep)
	if got := r.c.Snapshot().DesiredRadius; !approx(got, want, 1e-9) {
		t.Fatalf("expected desired radius %v, got %v", want, got)
	}

	r.tick(600, Sample{Scroll: 1})
	if got := r.c.Snapshot().DesiredRadius; got != cfg.MinRadius {
		t.Fatalf("expected clamp at min radius, got %v", got)
	}

	r.tick(600, Sample{Scroll: -1})
	if got := r.c.Snapshot().DesiredRadius; got != cfg.MaxRadius {
		t.Fatalf("expected clamp at max radius, got %v", got)
	}
}

func TestControllerContainment(t *testing.T) {
	box := geom.NewBox(mgl64.Vec3{-5, -5, -5}, mgl64.Vec3{5, 5, 5})
	cfg := DefaultConfig()
	cfg.SnapRadius, cfg.ReleaseRadius = 0, 0

	sub := &stubSubject{anchor: mgl64.Vec3{0, 0, 10}}
	caster := &stubCaster{hit: Hit{Point: sub.anchor, Subject: sub}, ok: true}
	reg := NewRegistry()
	reg.Add(sub)
	proj := flatProjector{}

	c := New(cfg, Deps{
		Projector: proj,
		Caster:    caster,
		Registry:  reg,
		Finder:    NewRayFinder(caster, proj, cfg.MaxFocusDistance, cfg.SnapWindow, 0),
		Volume:    &box,
	})

	samples := []Sample{
		{Pan: mgl64.Vec2{1, 1}},
		{Pan: mgl64.Vec2{1, 1}, Scroll: -1},
		{Scroll: 1},
		{Pan: mgl64.Vec2{-1, 0}},
		{},
	}
	for i := 0; i < 400; i++ {
		c.Advance(testDT, samples[i%len(samples)])
		if !box.Contains(c.Goal()) {
			t.Fatalf("goal escaped on tick %d: %v", i, c.Goal())
		}
		if !box.Contains(c.Position()) {
			t.Fatalf("position escaped on tick %d: %v", i, c.Position())
		}
	}
}

func TestControllerClampsPivotOutsideVolume(t *testing.T) {
	box := geom.NewBox(mgl64.Vec3{-5, -5, -5}, mgl64.Vec3{5, 5, 5})
	c := New(DefaultConfig(), Deps{Volume: &box, Pivot: mgl64.Vec3{50, 0, 0}})

	if c.Goal() != (mgl64.Vec3{5, 0, 0}) {
		t.Fatalf("expected initial goal clamped to the volume, got %v", c.Goal())
	}
}

func TestControllerCapabilityGates(t *testing.T) {
	t.Run("snap off never locks", func(t *testing.T) {
		r := newTestRig(func(cfg *Config) { cfg.Capabilities.Snap = false })
		r.tick(120, Sample{Scroll: 1})
		if r.c.State() != StateFree {
			t.Fatal("expected no lock with snap disabled")
		}
	})

	t.Run("pan off keeps lock through key input", func(t *testing.T) {
		r := newTestRig(func(cfg *Config) { cfg.Capabilities.Pan = false })
		r.c.SnapTo(r.sub)
		r.tick(10, Sample{Pan: mgl64.Vec2{1, 0}})
		if r.c.State() != StateLocked {
			t.Fatal("expected pan input ignored with pan disabled")
		}
	})

	t.Run("recenter off ignores double click", func(t *testing.T) {
		r := newTestRig(func(cfg *Config) { cfg.Capabilities.Recenter = false })
		r.tick(60, Sample{Pan: mgl64.Vec2{1, 0}})
		goal := r.c.Goal()
		r.tick(1, Sample{Pressed: true, Released: true, Pointer: mgl64.Vec2{0.5, 0.5}})
		r.tick(1, Sample{})
		r.tick(1, Sample{Pressed: true, Released: true, Pointer: mgl64.Vec2{0.5, 0.5}})
		if r.c.Goal() != goal {
			t.Fatal("expected double click ignored with recenter disabled")
		}
	})

	t.Run("zoom off freezes radius", func(t *testing.T) {
		r := newTestRig(func(cfg *Config) { cfg.Capabilities.Zoom = false })
		r.tick(60, Sample{Scroll: 1})
		if got := r.c.Snapshot().DesiredRadius; got != r.c.Config().StartRadius {
			t.Fatalf("expected radius untouched with zoom disabled, got %v", got)
		}
	})

	t.Run("steer off leaves goal alone", func(t *testing.T) {
		r := newTestRig(func(cfg *Config) { cfg.Capabilities.ZoomSteer = false })
		r.caster.hit = Hit{Point: mgl64.Vec3{2, 0, 10}}
		goal := r.c.Goal()
		r.tick(30, Sample{Scroll: 1})
		if r.c.Goal() != goal {
			t.Fatal("expected no steering with zoom steer disabled")
		}
	})
}

func TestControllerNilCollaborators(t *testing.T) {
	c := New(DefaultConfig(), Deps{})

	for i := 0; i < 120; i++ {
		c.Advance(testDT, Sample{
			Pan:       mgl64.Vec2{1, 0},
			Scroll:    1,
			Pressed:   i%7 == 0,
			Released:  i%7 == 1,
			Held:      i%7 == 0,
			Pointer:   mgl64.Vec2{0.5, 0.5},
			ManualPan: i == 50,
		})
	}

	if c.State() != StateFree {
		t.Fatal("expected a collaborator-free rig to stay in free roam")
	}
	if c.Radius() >= DefaultConfig().StartRadius {
		t.Fatal("expected zoom to work without collaborators")
	}
}

func TestControllerHandoffSoftensLock(t *testing.T) {
	r := newTestRig(nil)
	r.c.SnapTo(r.sub)

	r.tick(1, Sample{})

	// One tick after the lock the rate envelope is still near its floor,
	// so the rig must have closed well under the full locked-rate step.
	goalGap := r.c.Goal()[2]
	posMoved := r.c.Position()[2]
	if goalGap <= 0 {
		t.Fatalf("expected goal to start chasing the anchor, got %v", goalGap)
	}
	if frac := posMoved / goalGap; frac >= 0.1 {
		t.Fatalf("expected softened first step, closed %v of the gap", frac)
	}
}

func TestControllerSetConfigKeepsPose(t *testing.T) {
	r := newTestRig(nil)
	r.tick(30, Sample{Pan: mgl64.Vec2{1, 1}})
	pos, rad := r.c.Position(), r.c.Radius()

	cfg := r.c.Config()
	cfg.Smoothing = LawCriticalDamp
	r.c.SetConfig(cfg)

	if r.c.Position() != pos || r.c.Radius() != rad {
		t.Fatal("expected law change to carry the pose over")
	}
}

func TestControllerReleaseLock(t *testing.T) {
	r := newTestRig(nil)
	r.c.SnapTo(r.sub)

	r.c.ReleaseLock()
	if r.c.State() != StateFree {
		t.Fatal("expected explicit release")
	}
	if snap := r.c.Snapshot(); snap.Cooldown <= 0 {
		t.Fatal("expected explicit release to start the cooldown")
	}
}

func TestControllerPublishesEveryTick(t *testing.T) {
	r := newTestRig(nil)
	r.tick(7, Sample{})
	if r.out.ticks != 7 {
		t.Fatalf("expected 7 publishes, got %d", r.out.ticks)
	}
	if r.out.radius <= 0 {
		t.Fatal("expected a live radius on the output")
	}
}
