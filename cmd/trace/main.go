// Command trace runs the camera rig headless against a real tank and
// prints its state tick by tick. Handy for tuning the follow feel from a
// terminal and for eyeballing regressions without opening a window.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/fishtank/prefabs"
	"github.com/milk9111/fishtank/render"
	"github.com/milk9111/fishtank/rig"
	"github.com/milk9111/fishtank/tank"
)

const dt = 1.0 / 60.0

type scenario func(tick int, view *render.View, tk *tank.Tank) rig.Sample

var scenarios = map[string]scenario{
	"idle":     idle,
	"follow":   follow,
	"pan":      panOverride,
	"recenter": recenter,
	"zoomout":  zoomOut,
}

func main() {
	name := flag.String("scenario", "follow", "idle, follow, pan, recenter, or zoomout")
	ticks := flag.Int("ticks", 600, "ticks to run")
	every := flag.Int("every", 10, "print every n ticks")
	law := flag.String("law", "", "smoothing law override: exponential or critdamp")
	seed := flag.Int64("seed", 0, "tank seed override (0 keeps the tank spec)")
	flag.Parse()

	play, ok := scenarios[*name]
	if !ok {
		log.Fatalf("unknown scenario %q", *name)
	}

	tankSpec, err := prefabs.LoadTankSpec()
	if err != nil {
		log.Fatal(err)
	}
	if *seed != 0 {
		tankSpec.Seed = *seed
	}
	species, err := prefabs.LoadAllSpecies()
	if err != nil {
		log.Fatal(err)
	}
	camera, err := prefabs.LoadCameraSpec()
	if err != nil {
		log.Fatal(err)
	}

	cfg := camera.Rig()
	switch *law {
	case "":
	case "exponential":
		cfg.Smoothing = rig.LawExponential
	case "critdamp":
		cfg.Smoothing = rig.LawCriticalDamp
	default:
		log.Fatalf("unknown smoothing law %q", *law)
	}

	tk := tank.New(tankSpec, species)
	view := render.NewView(tk.Pivot(), cfg.StartRadius)
	view.SetViewport(1280, 720)

	var finder rig.Finder
	if camera.Finder == "scan" {
		finder = rig.NewScanFinder(tk.Registry(), tk, view, cfg.SnapWindow, tank.MaskDecor)
	} else {
		finder = rig.NewRayFinder(tk, view, cfg.MaxFocusDistance, cfg.SnapWindow, tank.MaskFish)
	}

	water := tk.Water()
	ctrl := rig.New(cfg, rig.Deps{
		Projector: view,
		Caster:    tk,
		Registry:  tk.Registry(),
		Finder:    finder,
		Output:    view,
		Volume:    &water,
		Pivot:     tk.Pivot(),
		SteerMask: tank.MaskFish | tank.MaskDecor,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "tick\tstate\tgoal\tpos\tr\twant\tdwell\tcool\tquiet")
	for i := 0; i < *ticks; i++ {
		s := play(i, view, tk)
		tk.Step(dt)
		ctrl.Advance(dt, s)
		if i%*every == 0 {
			snap := ctrl.Snapshot()
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
				i, snap.State, vec(snap.Goal), vec(snap.Position),
				snap.Radius, snap.DesiredRadius, snap.Dwell, snap.Cooldown, snap.Quiet)
		}
	}
	if err := w.Flush(); err != nil {
		log.Fatal(err)
	}
}

func vec(p mgl64.Vec3) string {
	return fmt.Sprintf("(%.1f %.1f %.1f)", p[0], p[1], p[2])
}

func idle(tick int, view *render.View, tk *tank.Tank) rig.Sample {
	return rig.Sample{Pointer: mgl64.Vec2{0.5, 0.5}}
}

// follow keeps the pointer glued to the first fish and nudges the wheel
// until the rig locks on.
func follow(tick int, view *render.View, tk *tank.Tank) rig.Sample {
	s := rig.Sample{Pointer: mgl64.Vec2{0.5, 0.5}}
	if fish := tk.Fish(); len(fish) > 0 {
		u, v, depth := view.WorldToViewport(fish[0].FocusAnchor())
		if depth > 0 {
			s.Pointer = mgl64.Vec2{u, v}
		}
	}
	if tick%20 == 0 && tick < 300 {
		s.Scroll = 1
	}
	return s
}

// panOverride locks on, then shoves the camera right to force a manual
// break and the resnap cooldown.
func panOverride(tick int, view *render.View, tk *tank.Tank) rig.Sample {
	if tick < 240 {
		return follow(tick, view, tk)
	}
	s := rig.Sample{Pointer: mgl64.Vec2{0.5, 0.5}}
	if tick < 270 {
		s.Pan = mgl64.Vec2{1, 0}
	}
	return s
}

// recenter locks on, then double-clicks home.
func recenter(tick int, view *render.View, tk *tank.Tank) rig.Sample {
	if tick < 240 {
		return follow(tick, view, tk)
	}
	s := rig.Sample{Pointer: mgl64.Vec2{0.5, 0.5}}
	switch tick {
	case 300, 306:
		s.Pressed = true
		s.Held = true
	case 301, 307:
		s.Released = true
	}
	return s
}

// zoomOut locks on, then spins the wheel out until the release radius
// lets go.
func zoomOut(tick int, view *render.View, tk *tank.Tank) rig.Sample {
	if tick < 240 {
		return follow(tick, view, tk)
	}
	s := rig.Sample{Pointer: mgl64.Vec2{0.5, 0.5}}
	if tick%15 == 0 {
		s.Scroll = -1
	}
	return s
}
