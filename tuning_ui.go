package main

import (
	"image/color"
	"log"

	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.design/x/clipboard"

	"github.com/milk9111/fishtank/prefabs"
	"github.com/milk9111/fishtank/rig"
)

// NewTuningUI builds the pause overlay for live camera tuning. Buttons use
// colored nine-slices and the built-in basic font so no theme assets need
// loading; toggles rebuild the UI so their labels stay current.
func NewTuningUI(g *Game) *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	btnTextColor := &widget.ButtonTextColor{Idle: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(360, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)

	addText := func(label string) {
		panel.AddChild(widget.NewText(
			widget.TextOpts.Text(label, &face, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
			widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
		))
	}

	addButton := func(label string, onClick func()) {
		panel.AddChild(widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		))
	}

	refresh := func(c rig.Config) {
		g.controller.SetConfig(c)
		g.ui = NewTuningUI(g)
	}

	cfg := g.controller.Config()

	addText("camera tuning")

	addButton("smoothing: "+cfg.Smoothing.String(), func() {
		c := g.controller.Config()
		if c.Smoothing == rig.LawExponential {
			c.Smoothing = rig.LawCriticalDamp
		} else {
			c.Smoothing = rig.LawExponential
		}
		refresh(c)
	})

	flags := []struct {
		name string
		on   bool
		flip func(*rig.Capabilities)
	}{
		{"pan", cfg.Capabilities.Pan, func(c *rig.Capabilities) { c.Pan = !c.Pan }},
		{"zoom", cfg.Capabilities.Zoom, func(c *rig.Capabilities) { c.Zoom = !c.Zoom }},
		{"snap", cfg.Capabilities.Snap, func(c *rig.Capabilities) { c.Snap = !c.Snap }},
		{"recenter", cfg.Capabilities.Recenter, func(c *rig.Capabilities) { c.Recenter = !c.Recenter }},
		{"zoom steer", cfg.Capabilities.ZoomSteer, func(c *rig.Capabilities) { c.ZoomSteer = !c.ZoomSteer }},
	}
	for _, f := range flags {
		addButton(f.name+": "+onOff(f.on), func() {
			c := g.controller.Config()
			f.flip(&c.Capabilities)
			refresh(c)
		})
	}

	presets := []struct {
		name string
		caps rig.Capabilities
	}{
		{"viewer", rig.ViewerCaps()},
		{"cinematic", rig.CinematicCaps()},
		{"inspect", rig.InspectCaps()},
		{"tracker", rig.TrackerCaps()},
		{"fixed", rig.FixedCaps()},
	}
	for _, p := range presets {
		addButton("preset: "+p.name, func() {
			c := g.controller.Config()
			c.Capabilities = p.caps
			refresh(c)
		})
	}

	if g.opts.Clipboard {
		addButton("copy tuning yaml", func() {
			spec := prefabs.CameraSpecFromRig(g.camera.Name, g.controller.Config(), g.camera.Finder)
			data, err := prefabs.EncodeCameraSpec(spec)
			if err != nil {
				log.Printf("encode camera spec: %v", err)
				return
			}
			clipboard.Write(clipboard.FmtText, data)
		})
	}

	addButton("reload prefabs", func() {
		camera, err := prefabs.LoadCameraSpec()
		if err != nil {
			log.Printf("reload camera spec: %v", err)
		} else {
			g.camera = camera
		}
		if err := g.rebuildScene(); err != nil {
			log.Printf("rebuild scene: %v", err)
		}
		g.ui = NewTuningUI(g)
	})

	addButton("resume", func() {
		g.paused = false
	})

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
