package render

import (
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/fishtank/geom"
	"github.com/milk9111/fishtank/rig"
	"github.com/milk9111/fishtank/tank"
)

// Renderer draws the scene as depth-sorted flat shapes. No meshes, no
// shaders; far things draw first and small.
type Renderer struct {
	background color.NRGBA
	wire       color.NRGBA
	fallback   color.NRGBA
}

func NewRenderer() *Renderer {
	return &Renderer{
		background: color.NRGBA{R: 0x04, G: 0x12, B: 0x1f, A: 0xff},
		wire:       color.NRGBA{R: 0x9e, G: 0xc8, B: 0xe8, A: 0x60},
		fallback:   color.NRGBA{R: 0xcc, G: 0x88, B: 0x44, A: 0xff},
	}
}

type sprite struct {
	depth float64
	draw  func(screen *ebiten.Image)
}

// Draw renders the whole tank. locked, when non-nil, gets a focus ring.
func (r *Renderer) Draw(screen *ebiten.Image, v *View, tk *tank.Tank, locked rig.Focusable) {
	bounds := screen.Bounds()
	v.SetViewport(float64(bounds.Dx()), float64(bounds.Dy()))

	screen.Fill(r.background)
	r.drawWater(screen, v, tk)
	r.drawGlass(screen, v, tk.Glass())

	sprites := make([]sprite, 0, len(tk.Fish())+len(tk.Decor()))

	for i := range tk.Decor() {
		d := tk.Decor()[i]
		x, y, depth, ok := v.ToScreen(d.Sphere.Center)
		if !ok {
			continue
		}
		radius := float32(d.Sphere.Radius * v.PixelsPerUnit(depth))
		col := d.Color
		sprites = append(sprites, sprite{depth: depth, draw: func(screen *ebiten.Image) {
			vector.DrawFilledCircle(screen, x, y, radius, col, true)
			vector.StrokeCircle(screen, x, y, radius, 1, r.background, true)
		}})
	}

	clock := tk.Clock()
	for _, f := range tk.Fish() {
		if s, ok := r.fishSprite(v, f, clock, f == locked); ok {
			sprites = append(sprites, s)
		}
	}

	sort.Slice(sprites, func(i, j int) bool { return sprites[i].depth > sprites[j].depth })
	for _, s := range sprites {
		s.draw(screen)
	}
}

func (r *Renderer) fishSprite(v *View, f *tank.Fish, clock float64, locked bool) (sprite, bool) {
	x, y, depth, ok := v.ToScreen(f.Position())
	if !ok {
		return sprite{}, false
	}
	hx, hy, _, headOK := v.ToScreen(f.FocusAnchor())
	if !headOK {
		hx, hy = x, y
	}

	bodyR := float32(f.Species.BodyRadius * v.PixelsPerUnit(depth))
	if bodyR < 1 {
		bodyR = 1
	}
	col := f.Species.Color.RGBA8(r.fallback)

	// Tail swings on the screen axis perpendicular to the heading.
	dx, dy := hx-x, hy-y
	n := float32(math.Hypot(float64(dx), float64(dy)))
	if n < 1e-3 {
		dx, dy, n = 1, 0, 1
	}
	dx, dy = dx/n, dy/n
	swing := float32(math.Sin(clock*9+f.Heading()*2)) * bodyR * 0.45

	tailX := x - dx*bodyR*1.3 - dy*swing
	tailY := y - dy*bodyR*1.3 + dx*swing

	return sprite{depth: depth, draw: func(screen *ebiten.Image) {
		vector.DrawFilledCircle(screen, tailX, tailY, bodyR*0.55, col, true)
		vector.DrawFilledCircle(screen, x, y, bodyR, col, true)
		vector.DrawFilledCircle(screen, x+dx*bodyR*0.6, y+dy*bodyR*0.6, bodyR*0.22, colornames.White, true)
		if locked {
			vector.StrokeCircle(screen, x, y, bodyR*2, 2, colornames.Gold, true)
		}
	}}, true
}

// drawWater tints the projected extent of the glass box.
func (r *Renderer) drawWater(screen *ebiten.Image, v *View, tk *tank.Tank) {
	minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
	visible := 0
	for _, c := range boxCorners(tk.Glass()) {
		x, y, _, ok := v.ToScreen(c)
		if !ok {
			continue
		}
		visible++
		minX = min32(minX, x)
		minY = min32(minY, y)
		maxX = max32(maxX, x)
		maxY = max32(maxY, y)
	}
	if visible < 4 {
		return
	}
	water := tk.WaterColor()
	water.A = 0x34
	vector.DrawFilledRect(screen, minX, minY, maxX-minX, maxY-minY, water, false)
}

func (r *Renderer) drawGlass(screen *ebiten.Image, v *View, box geom.Box) {
	corners := boxCorners(box)
	for _, e := range boxEdges {
		x0, y0, _, ok0 := v.ToScreen(corners[e[0]])
		x1, y1, _, ok1 := v.ToScreen(corners[e[1]])
		if !ok0 || !ok1 {
			continue
		}
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, r.wire, true)
	}
}

// DrawMarker draws a small cross at a world point, for debug overlays.
func (r *Renderer) DrawMarker(screen *ebiten.Image, v *View, p mgl64.Vec3, clr color.Color) {
	x, y, _, ok := v.ToScreen(p)
	if !ok {
		return
	}
	vector.StrokeLine(screen, x-6, y, x+6, y, 1, clr, false)
	vector.StrokeLine(screen, x, y-6, x, y+6, 1, clr, false)
}

// Corner i picks Max per set bit: bit0 x, bit1 y, bit2 z.
func boxCorners(b geom.Box) [8]mgl64.Vec3 {
	var out [8]mgl64.Vec3
	for i := 0; i < 8; i++ {
		c := b.Min
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		out[i] = c
	}
	return out
}

var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
