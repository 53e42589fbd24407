package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/colornames"

	"github.com/milk9111/fishtank/input"
	"github.com/milk9111/fishtank/prefabs"
	"github.com/milk9111/fishtank/render"
	"github.com/milk9111/fishtank/rig"
	"github.com/milk9111/fishtank/tank"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	tickRate   = 60.0
)

// Options are the command line knobs.
type Options struct {
	Debug     bool
	Watch     bool
	Law       string
	FishCount int
	Seed      int64
	Clipboard bool
}

type Game struct {
	opts   Options
	frames int
	paused bool

	sampler    *input.Keyboard
	tank       *tank.Tank
	view       *render.View
	renderer   *render.Renderer
	controller *rig.Controller

	camera  *prefabs.CameraSpec
	watcher *prefabs.Watcher

	ui *ebitenui.UI
}

func NewGame(opts Options) (*Game, error) {
	g := &Game{
		opts:     opts,
		sampler:  input.NewKeyboard(),
		renderer: render.NewRenderer(),
	}

	camera, err := prefabs.LoadCameraSpec()
	if err != nil {
		return nil, fmt.Errorf("load camera spec: %w", err)
	}
	g.camera = camera

	if err := g.rebuildScene(); err != nil {
		return nil, err
	}

	if opts.Watch {
		w, err := prefabs.NewWatcher("prefabs", "prefabs/species", "prefabs/scripts")
		if err != nil {
			log.Printf("prefab watch disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	return g, nil
}

// rebuildScene loads the tank and species prefabs and stands up a fresh
// scene and controller. The view keeps its orbit pose across rebuilds.
func (g *Game) rebuildScene() error {
	tankSpec, err := prefabs.LoadTankSpec()
	if err != nil {
		return fmt.Errorf("load tank spec: %w", err)
	}
	if g.opts.Seed != 0 {
		tankSpec.Seed = g.opts.Seed
	}
	if g.opts.FishCount > 0 && len(tankSpec.Schools) > 0 {
		per := g.opts.FishCount / len(tankSpec.Schools)
		extra := g.opts.FishCount % len(tankSpec.Schools)
		for i := range tankSpec.Schools {
			tankSpec.Schools[i].Count = per
			if i < extra {
				tankSpec.Schools[i].Count++
			}
		}
	}

	species, err := prefabs.LoadAllSpecies()
	if err != nil {
		return fmt.Errorf("load species: %w", err)
	}

	g.tank = tank.New(tankSpec, species)

	cfg := g.rigConfig()
	if g.view == nil {
		g.view = render.NewView(g.tank.Pivot(), cfg.StartRadius)
	}
	g.controller = g.buildController(cfg)
	return nil
}

func (g *Game) rigConfig() rig.Config {
	cfg := g.camera.Rig()
	switch g.opts.Law {
	case "":
	case "exponential":
		cfg.Smoothing = rig.LawExponential
	case "critdamp":
		cfg.Smoothing = rig.LawCriticalDamp
	default:
		log.Printf("unknown smoothing law %q, keeping %s", g.opts.Law, cfg.Smoothing)
	}
	return cfg
}

func (g *Game) buildController(cfg rig.Config) *rig.Controller {
	var finder rig.Finder
	if g.camera.Finder == "scan" {
		finder = rig.NewScanFinder(g.tank.Registry(), g.tank, g.view, cfg.SnapWindow, tank.MaskDecor)
	} else {
		finder = rig.NewRayFinder(g.tank, g.view, cfg.MaxFocusDistance, cfg.SnapWindow, tank.MaskFish)
	}

	water := g.tank.Water()
	return rig.New(cfg, rig.Deps{
		Projector: g.view,
		Caster:    g.tank,
		Registry:  g.tank.Registry(),
		Finder:    finder,
		Output:    g.view,
		Volume:    &water,
		Pivot:     g.tank.Pivot(),
		// Steer at fish and decor only. With the glass included every
		// ray into the tank would hit, and the open-water drift toward
		// the pivot could never trigger.
		SteerMask: tank.MaskFish | tank.MaskDecor,
	})
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		os.Exit(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
		if g.paused {
			g.ui = NewTuningUI(g)
		}
	}

	if g.paused {
		g.ui.Update()
		return nil
	}

	const dt = 1.0 / tickRate

	s := g.sampler.Sample()
	g.tank.Step(dt)
	g.view.Orbit(g.sampler.OrbitDelta())
	g.controller.Advance(dt, s)
	g.drainWatcher()

	return nil
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("prefab changed: %s", path)
			g.reloadPrefab(path)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("prefab watcher: %v", err)
		default:
			return
		}
	}
}

// reloadPrefab applies one changed file. Camera edits swap the tuning in
// place; everything else rebuilds the scene.
func (g *Game) reloadPrefab(path string) {
	if filepath.Base(path) == "camera.yaml" {
		camera, err := prefabs.LoadCameraSpec()
		if err != nil {
			log.Printf("reload camera spec: %v", err)
			return
		}
		g.camera = camera
		g.controller.SetConfig(g.rigConfig())
		return
	}
	if err := g.rebuildScene(); err != nil {
		log.Printf("rebuild scene: %v", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.view, g.tank, g.controller.Locked())

	if g.opts.Debug {
		g.renderer.DrawMarker(screen, g.view, g.controller.Goal(), colornames.Orangered)
		g.renderer.DrawMarker(screen, g.view, g.controller.Position(), colornames.Lawngreen)
	}

	g.drawHUD(screen)

	if g.paused && g.ui != nil {
		g.ui.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	g.sampler.Layout(baseWidth, baseHeight)
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
