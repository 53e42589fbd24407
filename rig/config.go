package rig

// Law selects the smoothing law applied to the rig position and radius.
type Law uint8

const (
	// LawExponential converges a fixed fraction of the remaining gap per
	// unit time. Cheap and never overshoots.
	LawExponential Law = iota

	// LawCriticalDamp tracks a velocity estimate for a softer ease-in.
	// Needs a velocity reset whenever the goal jumps discontinuously.
	LawCriticalDamp
)

func (l Law) String() string {
	switch l {
	case LawExponential:
		return "exponential"
	case LawCriticalDamp:
		return "critdamp"
	}
	return "unknown"
}

// Capabilities toggles the controller's behavior modules. Historically these
// were separate controller implementations; now a single controller consults
// the flags each tick.
type Capabilities struct {
	Pan       bool
	Zoom      bool
	Snap      bool
	Recenter  bool
	ZoomSteer bool
}

// ViewerCaps is the full interactive rig.
func ViewerCaps() Capabilities {
	return Capabilities{Pan: true, Zoom: true, Snap: true, Recenter: true, ZoomSteer: true}
}

// CinematicCaps is the hands-off rig: it zooms, steers, and locks on its
// own but ignores pan and recenter input.
func CinematicCaps() Capabilities {
	return Capabilities{Zoom: true, Snap: true, ZoomSteer: true}
}

// InspectCaps pans, zooms, and recenters without ever locking a subject.
func InspectCaps() Capabilities {
	return Capabilities{Pan: true, Zoom: true, Recenter: true}
}

// TrackerCaps only acquires and follows subjects.
func TrackerCaps() Capabilities {
	return Capabilities{Zoom: true, Snap: true}
}

// FixedCaps zooms in place and nothing else.
func FixedCaps() Capabilities {
	return Capabilities{Zoom: true}
}

// Config is the rig's tuning. Distances are world units, times are seconds,
// windows are viewport-space radii from screen center (0.5 spans half the
// shorter axis to a corner-ish edge).
type Config struct {
	Capabilities Capabilities
	Smoothing    Law

	// Pan.
	PanSpeed     float64 // world units per second at full key deflection
	DragPanScale float64 // world units per pixel per unit radius

	// Zoom.
	StartRadius float64
	MinRadius   float64
	MaxRadius   float64
	ZoomStep    float64 // fraction of radius removed per full wheel notch
	RadiusEps   float64 // radius glide below this gap no longer counts as zooming in

	// Snap acquisition and release. SnapRadius must stay below
	// ReleaseRadius or the radius conditions flap; zero disables both.
	SnapWindow       float64
	ReleaseWindow    float64
	SnapDwell        float64
	SnapRadius       float64
	ReleaseRadius    float64
	ResnapCooldown   float64
	QuietAfterPan    float64
	MaxFocusDistance float64

	// Follow and smoothing rates. Rates are exponential convergence per
	// second; FollowLag is the goal low-pass time constant while locked.
	FollowLag        float64
	FreeRate         float64
	LockedRate       float64
	HandoffRate      float64
	HandoffBlendTime float64
	BoostRate        float64
	BoostTime        float64

	// Zoom steering blend strengths per full wheel notch.
	ZoomInBias  float64
	ZoomOutBias float64

	// Gestures.
	DoubleClickTime    float64
	HoldAsDrag         float64
	DoubleClickMaxMove float64 // viewport units
}

// DefaultConfig returns the tuning the aquarium ships with.
func DefaultConfig() Config {
	return Config{
		Capabilities: ViewerCaps(),
		Smoothing:    LawExponential,

		PanSpeed:     6,
		DragPanScale: 0.0016,

		StartRadius: 18,
		MinRadius:   2.5,
		MaxRadius:   40,
		ZoomStep:    0.12,
		RadiusEps:   0.01,

		SnapWindow:       0.12,
		ReleaseWindow:    0.33,
		SnapDwell:        0.25,
		SnapRadius:       14,
		ReleaseRadius:    20,
		ResnapCooldown:   1.5,
		QuietAfterPan:    0.4,
		MaxFocusDistance: 60,

		FollowLag:        0.15,
		FreeRate:         8,
		LockedRate:       12,
		HandoffRate:      3.5,
		HandoffBlendTime: 0.6,
		BoostRate:        24,
		BoostTime:        0.35,

		ZoomInBias:  0.35,
		ZoomOutBias: 0.2,

		DoubleClickTime:    0.35,
		HoldAsDrag:         0.25,
		DoubleClickMaxMove: 0.008,
	}
}
