package tank

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// SteerInput is the world as a steering script sees it for one fish tick.
type SteerInput struct {
	T       float64 // tank clock, seconds
	Seed    float64 // stable per fish
	X, Z    float64 // plane position
	Heading float64
	Speed   float64
	Wall    float64 // whisker distance ahead, capped at the whisker length
	Home    float64 // plane distance from the tank center
}

// SteerOutput is what the script decided this tick.
type SteerOutput struct {
	Turn   float64 // rad/s
	Thrust float64 // 0..1 fraction of cruise speed
	Dart   bool
}

// Steering runs a tengo steering script. The script reads the input
// globals (t, seed, x, z, heading, speed, wall, home) and assigns turn,
// thrust, and dart. One Steering is shared by every fish of a species;
// the inputs are rewritten before each run.
type Steering struct {
	compiled *tengo.Compiled
}

func NewSteering(src []byte) (*Steering, error) {
	script := tengo.NewScript(src)
	for _, name := range []string{"t", "seed", "x", "z", "heading", "speed", "wall", "home"} {
		_ = script.Add(name, 0.0)
	}
	_ = script.Add("turn", 0.0)
	_ = script.Add("thrust", 0.7)
	_ = script.Add("dart", false)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile steering script: %w", err)
	}
	return &Steering{compiled: compiled}, nil
}

func (s *Steering) Run(in SteerInput) (SteerOutput, error) {
	if s == nil || s.compiled == nil {
		return SteerOutput{}, fmt.Errorf("nil steering runtime")
	}

	inputs := map[string]float64{
		"t":       in.T,
		"seed":    in.Seed,
		"x":       in.X,
		"z":       in.Z,
		"heading": in.Heading,
		"speed":   in.Speed,
		"wall":    in.Wall,
		"home":    in.Home,
	}
	for name, v := range inputs {
		if err := s.compiled.Set(name, v); err != nil {
			return SteerOutput{}, fmt.Errorf("set steering global %s: %w", name, err)
		}
	}

	if err := s.compiled.Run(); err != nil {
		return SteerOutput{}, fmt.Errorf("run steering script: %w", err)
	}

	return SteerOutput{
		Turn:   s.compiled.Get("turn").Float(),
		Thrust: s.compiled.Get("thrust").Float(),
		Dart:   s.compiled.Get("dart").Bool(),
	}, nil
}
