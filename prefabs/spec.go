package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/fishtank/rig"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// CameraSpec is the rig tuning as it lives in camera.yaml. Fields mirror
// rig.Config one for one so a tuned config can round-trip back to disk.
type CameraSpec struct {
	Name      string `yaml:"name"`
	Smoothing string `yaml:"smoothing"` // exponential | critdamp
	Finder    string `yaml:"finder"`    // ray | scan

	Pan       bool `yaml:"pan"`
	Zoom      bool `yaml:"zoom"`
	Snap      bool `yaml:"snap"`
	Recenter  bool `yaml:"recenter"`
	ZoomSteer bool `yaml:"zoom_steer"`

	PanSpeed     float64 `yaml:"pan_speed"`
	DragPanScale float64 `yaml:"drag_pan_scale"`

	StartRadius float64 `yaml:"start_radius"`
	MinRadius   float64 `yaml:"min_radius"`
	MaxRadius   float64 `yaml:"max_radius"`
	ZoomStep    float64 `yaml:"zoom_step"`
	RadiusEps   float64 `yaml:"radius_eps"`

	SnapWindow       float64 `yaml:"snap_window"`
	ReleaseWindow    float64 `yaml:"release_window"`
	SnapDwell        float64 `yaml:"snap_dwell"`
	SnapRadius       float64 `yaml:"snap_radius"`
	ReleaseRadius    float64 `yaml:"release_radius"`
	ResnapCooldown   float64 `yaml:"resnap_cooldown"`
	QuietAfterPan    float64 `yaml:"quiet_after_pan"`
	MaxFocusDistance float64 `yaml:"max_focus_distance"`

	FollowLag        float64 `yaml:"follow_lag"`
	FreeRate         float64 `yaml:"free_rate"`
	LockedRate       float64 `yaml:"locked_rate"`
	HandoffRate      float64 `yaml:"handoff_rate"`
	HandoffBlendTime float64 `yaml:"handoff_blend_time"`
	BoostRate        float64 `yaml:"boost_rate"`
	BoostTime        float64 `yaml:"boost_time"`

	ZoomInBias  float64 `yaml:"zoom_in_bias"`
	ZoomOutBias float64 `yaml:"zoom_out_bias"`

	DoubleClickTime    float64 `yaml:"double_click_time"`
	HoldAsDrag         float64 `yaml:"hold_as_drag"`
	DoubleClickMaxMove float64 `yaml:"double_click_max_move"`
}

func LoadCameraSpec() (*CameraSpec, error) {
	spec, err := LoadSpec[CameraSpec]("camera.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Rig converts the spec into the controller's tuning.
func (s *CameraSpec) Rig() rig.Config {
	cfg := rig.Config{
		Capabilities: rig.Capabilities{
			Pan:       s.Pan,
			Zoom:      s.Zoom,
			Snap:      s.Snap,
			Recenter:  s.Recenter,
			ZoomSteer: s.ZoomSteer,
		},

		PanSpeed:     s.PanSpeed,
		DragPanScale: s.DragPanScale,

		StartRadius: s.StartRadius,
		MinRadius:   s.MinRadius,
		MaxRadius:   s.MaxRadius,
		ZoomStep:    s.ZoomStep,
		RadiusEps:   s.RadiusEps,

		SnapWindow:       s.SnapWindow,
		ReleaseWindow:    s.ReleaseWindow,
		SnapDwell:        s.SnapDwell,
		SnapRadius:       s.SnapRadius,
		ReleaseRadius:    s.ReleaseRadius,
		ResnapCooldown:   s.ResnapCooldown,
		QuietAfterPan:    s.QuietAfterPan,
		MaxFocusDistance: s.MaxFocusDistance,

		FollowLag:        s.FollowLag,
		FreeRate:         s.FreeRate,
		LockedRate:       s.LockedRate,
		HandoffRate:      s.HandoffRate,
		HandoffBlendTime: s.HandoffBlendTime,
		BoostRate:        s.BoostRate,
		BoostTime:        s.BoostTime,

		ZoomInBias:  s.ZoomInBias,
		ZoomOutBias: s.ZoomOutBias,

		DoubleClickTime:    s.DoubleClickTime,
		HoldAsDrag:         s.HoldAsDrag,
		DoubleClickMaxMove: s.DoubleClickMaxMove,
	}
	if s.Smoothing == "critdamp" {
		cfg.Smoothing = rig.LawCriticalDamp
	}
	return cfg
}

// CameraSpecFromRig is the inverse of Rig, used when exporting a live-tuned
// config back to YAML.
func CameraSpecFromRig(name string, cfg rig.Config, finder string) CameraSpec {
	return CameraSpec{
		Name:      name,
		Smoothing: cfg.Smoothing.String(),
		Finder:    finder,

		Pan:       cfg.Capabilities.Pan,
		Zoom:      cfg.Capabilities.Zoom,
		Snap:      cfg.Capabilities.Snap,
		Recenter:  cfg.Capabilities.Recenter,
		ZoomSteer: cfg.Capabilities.ZoomSteer,

		PanSpeed:     cfg.PanSpeed,
		DragPanScale: cfg.DragPanScale,

		StartRadius: cfg.StartRadius,
		MinRadius:   cfg.MinRadius,
		MaxRadius:   cfg.MaxRadius,
		ZoomStep:    cfg.ZoomStep,
		RadiusEps:   cfg.RadiusEps,

		SnapWindow:       cfg.SnapWindow,
		ReleaseWindow:    cfg.ReleaseWindow,
		SnapDwell:        cfg.SnapDwell,
		SnapRadius:       cfg.SnapRadius,
		ReleaseRadius:    cfg.ReleaseRadius,
		ResnapCooldown:   cfg.ResnapCooldown,
		QuietAfterPan:    cfg.QuietAfterPan,
		MaxFocusDistance: cfg.MaxFocusDistance,

		FollowLag:        cfg.FollowLag,
		FreeRate:         cfg.FreeRate,
		LockedRate:       cfg.LockedRate,
		HandoffRate:      cfg.HandoffRate,
		HandoffBlendTime: cfg.HandoffBlendTime,
		BoostRate:        cfg.BoostRate,
		BoostTime:        cfg.BoostTime,

		ZoomInBias:  cfg.ZoomInBias,
		ZoomOutBias: cfg.ZoomOutBias,

		DoubleClickTime:    cfg.DoubleClickTime,
		HoldAsDrag:         cfg.HoldAsDrag,
		DoubleClickMaxMove: cfg.DoubleClickMaxMove,
	}
}

// EncodeCameraSpec renders a spec as YAML, for the clipboard export and for
// writing tuned configs back to disk.
func EncodeCameraSpec(spec CameraSpec) ([]byte, error) {
	data, err := yaml.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("prefabs: encode camera spec: %w", err)
	}
	return data, nil
}

type TankSpec struct {
	Name        string       `yaml:"name"`
	Width       float64      `yaml:"width"`
	Height      float64      `yaml:"height"`
	Depth       float64      `yaml:"depth"`
	GlassMargin float64      `yaml:"glass_margin"`
	Seed        int64        `yaml:"seed"`
	Water       *YAMLColor   `yaml:"water"`
	Decor       []DecorSpec  `yaml:"decor"`
	Schools     []SchoolSpec `yaml:"schools"`
}

type DecorSpec struct {
	Name        string     `yaml:"name"`
	X           float64    `yaml:"x"`
	Y           float64    `yaml:"y"`
	Z           float64    `yaml:"z"`
	Radius      float64    `yaml:"radius"`
	BlocksSight bool       `yaml:"blocks_sight"`
	Color       *YAMLColor `yaml:"color"`
}

type SchoolSpec struct {
	Species string `yaml:"species"`
	Count   int    `yaml:"count"`
}

func LoadTankSpec() (*TankSpec, error) {
	spec, err := LoadSpec[TankSpec]("tank.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type SpeciesSpec struct {
	Name        string     `yaml:"name"`
	Script      string     `yaml:"script"`
	Color       *YAMLColor `yaml:"color"`
	BodyRadius  float64    `yaml:"body_radius"`
	HeadOffset  float64    `yaml:"head_offset"`
	FocusWeight float64    `yaml:"focus_weight"`

	CruiseSpeed float64 `yaml:"cruise_speed"`
	DartSpeed   float64 `yaml:"dart_speed"`
	DartTime    float64 `yaml:"dart_time"`
	DartChance  float64 `yaml:"dart_chance"` // per second
	TurnRate    float64 `yaml:"turn_rate"`
	WanderRate  float64 `yaml:"wander_rate"`
	Separation  float64 `yaml:"separation"`
	WhiskerLen  float64 `yaml:"whisker_len"`

	DepthMin float64 `yaml:"depth_min"` // fraction of tank height, 0 floor
	DepthMax float64 `yaml:"depth_max"`
	BobAmp   float64 `yaml:"bob_amp"`
	BobRate  float64 `yaml:"bob_rate"`
}

func LoadSpeciesSpec(name string) (*SpeciesSpec, error) {
	spec, err := LoadSpec[SpeciesSpec]("species/" + name + ".yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// LoadAllSpecies reads every embedded species file, keyed by species name.
func LoadAllSpecies() (map[string]*SpeciesSpec, error) {
	entries, err := PrefabsFS.ReadDir("species")
	if err != nil {
		return nil, fmt.Errorf("prefabs: read species dir: %w", err)
	}

	out := make(map[string]*SpeciesSpec, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		base := strings.TrimSuffix(e.Name(), ".yaml")
		spec, err := LoadSpeciesSpec(base)
		if err != nil {
			return nil, err
		}
		if spec.Name == "" {
			spec.Name = base
		}
		out[spec.Name] = spec
	}
	return out, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// RGBA8 returns the parsed color or an opaque fallback when the field was
// absent from the YAML.
func (c *YAMLColor) RGBA8(fallback color.NRGBA) color.NRGBA {
	if c == nil || c.Color == nil {
		return fallback
	}
	if n, ok := c.Color.(color.NRGBA); ok {
		return n
	}
	r, g, b, a := c.Color.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
