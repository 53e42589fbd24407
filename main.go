package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"
)

func main() {
	debug := flag.Bool("debug", false, "draw goal and rig markers")
	watch := flag.Bool("watch", false, "hot-reload prefabs and scripts on change")
	law := flag.String("law", "", "smoothing law override: exponential or critdamp")
	fish := flag.Int("fish", 0, "override the total fish count (0 keeps the tank spec)")
	seed := flag.Int64("seed", 0, "override the tank seed (0 keeps the tank spec)")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	clipboardOK := true
	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable, copy disabled: %v", err)
		clipboardOK = false
	}

	game, err := NewGame(Options{
		Debug:     *debug,
		Watch:     *watch,
		Law:       *law,
		FishCount: *fish,
		Seed:      *seed,
		Clipboard: clipboardOK,
	})
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("fishtank")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
