package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/milk9111/fishtank/rig"
	"github.com/milk9111/fishtank/tank"
)

func (g *Game) drawHUD(screen *ebiten.Image) {
	snap := g.controller.Snapshot()

	line := fmt.Sprintf("FPS: %.0f  fish: %d  %s  r=%.1f",
		ebiten.ActualFPS(), len(g.tank.Fish()), snap.State, snap.Radius)

	switch {
	case snap.State == rig.StateLocked:
		if f, ok := g.controller.Locked().(*tank.Fish); ok {
			line += "  following " + f.Species.Name
		}
	case snap.Dwell > 0:
		want := g.controller.Config().SnapDwell
		if want > 0 {
			line += fmt.Sprintf("  acquiring %.0f%%", 100*snap.Dwell/want)
		}
	}

	if g.paused {
		line += "  [paused]"
	}

	if g.opts.Debug {
		line += fmt.Sprintf(
			"\ngoal=%.1f pos=%.1f\ndwell=%.2f cooldown=%.2f quiet=%.2f handoff=%.2f boost=%.2f",
			snap.Goal, snap.Position,
			snap.Dwell, snap.Cooldown, snap.Quiet, snap.Handoff, snap.Boost,
		)
	}

	ebitenutil.DebugPrint(screen, line)
}
