// Package input polls ebiten devices into rig samples.
package input

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/fishtank/common"
	"github.com/milk9111/fishtank/rig"
)

const (
	wheelDeadzone  = 0.05
	stickDeadzone  = 0.3
	orbitPerPixel  = 0.005
	orbitPerSecond = 2.2 // right stick at full tilt
)

// Keyboard samples the keyboard, mouse, and the first gamepad once per
// tick. WASD and the arrows pan, the wheel zooms, the left button is the
// gesture button, and holding the middle button flags a manual pan. The
// right mouse button and the right stick orbit; that part bypasses the
// rig and is read through OrbitDelta.
type Keyboard struct {
	width  float64
	height float64

	lastX, lastY int
	started      bool

	dyaw, dpitch float64
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// Layout records the viewport size used to normalize cursor coordinates.
func (k *Keyboard) Layout(w, h int) {
	if w > 0 {
		k.width = float64(w)
	}
	if h > 0 {
		k.height = float64(h)
	}
}

// Sample polls the devices. Call once per tick.
func (k *Keyboard) Sample() rig.Sample {
	var s rig.Sample

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		s.Pan[0] -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		s.Pan[0] += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		s.Pan[1] -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		s.Pan[1] += 1
	}

	mx, my := ebiten.CursorPosition()
	if k.started {
		s.PointerDelta = mgl64.Vec2{float64(mx - k.lastX), float64(my - k.lastY)}
	}
	k.lastX, k.lastY = mx, my
	k.started = true

	if k.width > 0 && k.height > 0 {
		s.Pointer = mgl64.Vec2{float64(mx) / k.width, float64(my) / k.height}
	}

	_, wheelY := ebiten.Wheel()
	s.Scroll = wheelStep(wheelY)

	s.Pressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	s.Released = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	s.Held = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.ManualPan = ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)

	k.dyaw, k.dpitch = 0, 0
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		k.dyaw = -s.PointerDelta[0] * orbitPerPixel
		k.dpitch = s.PointerDelta[1] * orbitPerPixel
	}

	ids := ebiten.GamepadIDs()
	if len(ids) > 0 {
		gid := ids[0]

		lx := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)
		if lx < -stickDeadzone {
			s.Pan[0] = -1
		} else if lx > stickDeadzone {
			s.Pan[0] = 1
		}
		// Stick up reads negative.
		if ly < -stickDeadzone {
			s.Pan[1] = 1
		} else if ly > stickDeadzone {
			s.Pan[1] = -1
		}

		rx := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisRightStickVertical)
		if rx*rx+ry*ry > stickDeadzone*stickDeadzone {
			k.dyaw += -rx * orbitPerSecond / 60
			k.dpitch += ry * orbitPerSecond / 60
		}
	}

	return s
}

// OrbitDelta is this tick's orbit rotation from the right mouse button or
// the right stick.
func (k *Keyboard) OrbitDelta() (dyaw, dpitch float64) {
	return k.dyaw, k.dpitch
}

func wheelStep(w float64) float64 {
	if math.Abs(w) < wheelDeadzone {
		return 0
	}
	return common.Clamp(w, -1, 1)
}
