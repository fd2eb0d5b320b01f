// Package config loads the runtime tuning of the rig engine from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("config: invalid")

// Config holds every tunable of the tick loop, the animators and the compositors.
type Config struct {
	// TickRate is the fixed simulation rate in Hz.
	TickRate float64 `yaml:"tick_rate"`

	// BlendDuration is the cross-fade length in seconds. Zero disables blending.
	BlendDuration float32 `yaml:"blend_duration"`

	// IdleClip is the clip (matched ignoring case) played after a once/hold clip ends.
	IdleClip string `yaml:"idle_clip"`

	// Dither toggles the wobble added to flat keyframe segments.
	Dither bool `yaml:"dither"`

	// Workers is the number of goroutines rigs are fanned across each tick.
	// Zero or one updates rigs sequentially.
	Workers int `yaml:"workers"`

	// Profile enables periodic tick statistics in the log.
	Profile bool `yaml:"profile"`

	Anchor Anchor `yaml:"anchor"`
	Lean   Lean   `yaml:"lean"`
}

// Anchor holds the change thresholds that wake a rig up.
type Anchor struct {
	PositionEpsilon float32 `yaml:"position_epsilon"`
	AngleEpsilon    float32 `yaml:"angle_epsilon"`
}

// Lean tunes the movement-yaw lean filter.
type Lean struct {
	// Angle is the lean target in degrees.
	Angle float32 `yaml:"angle"`

	// Smoothing is the per-tick IIR factor in (0,1].
	Smoothing float32 `yaml:"smoothing"`

	// DeadBand snaps the filter onto its target once closer than this, in degrees.
	DeadBand float32 `yaml:"dead_band"`

	// Enter and Exit are the sideways-movement ratios (sine of the angle between
	// heading and movement) that start and stop a lean. Exit < Enter.
	Enter float32 `yaml:"enter"`
	Exit  float32 `yaml:"exit"`

	// MinSpeed is the per-tick horizontal movement below which the entity counts as standing.
	MinSpeed float32 `yaml:"min_speed"`
}

// Default returns the built-in configuration.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		TickRate:      20,
		BlendDuration: 0.3,
		IdleClip:      "idle",
		Dither:        true,
		Anchor: Anchor{
			PositionEpsilon: 0.001,
			AngleEpsilon:    0.01,
		},
		Lean: DefaultLean(),
	}
}

// DefaultLean returns the built-in lean tuning.
func DefaultLean() Lean {
	return Lean{
		Angle:     45,
		Smoothing: 0.55,
		DeadBand:  0.35,
		Enter:     0.5,
		Exit:      0.25,
		MinSpeed:  0.01,
	}
}

// Parse decodes a YAML document on top of the defaults. Keys missing from the
// document keep their default value; zero values for required tunables are
// replaced by their default too.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the parsed configuration
//   - error: error if the document is malformed or fails validation
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses a YAML config file.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the parsed configuration
//   - error: error if the file cannot be read or parsed
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve replaces zero-valued tunables with their defaults.
func (c *Config) Resolve() {
	d := Default()
	c.TickRate = common.Coalesce(c.TickRate, d.TickRate)
	c.IdleClip = common.Coalesce(c.IdleClip, d.IdleClip)
	c.Anchor.PositionEpsilon = common.Coalesce(c.Anchor.PositionEpsilon, d.Anchor.PositionEpsilon)
	c.Anchor.AngleEpsilon = common.Coalesce(c.Anchor.AngleEpsilon, d.Anchor.AngleEpsilon)
	c.Lean.Angle = common.Coalesce(c.Lean.Angle, d.Lean.Angle)
	c.Lean.Smoothing = common.Coalesce(c.Lean.Smoothing, d.Lean.Smoothing)
	c.Lean.DeadBand = common.Coalesce(c.Lean.DeadBand, d.Lean.DeadBand)
	c.Lean.Enter = common.Coalesce(c.Lean.Enter, d.Lean.Enter)
	c.Lean.Exit = common.Coalesce(c.Lean.Exit, d.Lean.Exit)
	c.Lean.MinSpeed = common.Coalesce(c.Lean.MinSpeed, d.Lean.MinSpeed)
}

// Validate reports tunables that are out of range.
//
// Returns:
//   - error: an error wrapping ErrInvalid, or nil
func (c Config) Validate() error {
	switch {
	case c.TickRate < 0:
		return fmt.Errorf("%w: tick_rate %v is negative", ErrInvalid, c.TickRate)
	case c.BlendDuration < 0:
		return fmt.Errorf("%w: blend_duration %v is negative", ErrInvalid, c.BlendDuration)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d is negative", ErrInvalid, c.Workers)
	case c.Lean.Smoothing <= 0 || c.Lean.Smoothing > 1:
		return fmt.Errorf("%w: lean.smoothing %v outside (0,1]", ErrInvalid, c.Lean.Smoothing)
	case c.Lean.Exit > c.Lean.Enter:
		return fmt.Errorf("%w: lean.exit %v above lean.enter %v", ErrInvalid, c.Lean.Exit, c.Lean.Enter)
	}
	return nil
}
