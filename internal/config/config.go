package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gyropulse/internal/geom"
	"github.com/san-kum/gyropulse/internal/ringfield"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 8.0
	DefaultTheme    = "mono"
)

// Config is a scene file. Zero values fall back to the defaults.
type Config struct {
	Preset   string       `yaml:"preset,omitempty"`
	Scene    SceneConfig  `yaml:"scene"`
	Tempo    TempoConfig  `yaml:"tempo"`
	Motion   MotionConfig `yaml:"motion"`
	Pulse    PulseConfig  `yaml:"pulse"`
	Camera   CameraConfig `yaml:"camera"`
	Dt       float64      `yaml:"dt"`
	Duration float64      `yaml:"duration"`
	Theme    string       `yaml:"theme"`
	Log      LogConfig    `yaml:"log"`
}

type SceneConfig struct {
	Rings       int          `yaml:"rings"`
	OuterRadius float64      `yaml:"outer_radius"`
	Thickness   float64      `yaml:"thickness"`
	Segments    int          `yaml:"segments"`
	Multipliers []int        `yaml:"multipliers,flow,omitempty"`
	TiltX       []int        `yaml:"tilt_x,flow,omitempty"`
	TiltY       []int        `yaml:"tilt_y,flow,omitempty"`
	Axes        [][3]float64 `yaml:"axes,omitempty"`
}

type TempoConfig struct {
	BPM             float64 `yaml:"bpm"`
	BeatsPerMeasure int     `yaml:"beats_per_measure"`
}

type MotionConfig struct {
	Mode       string   `yaml:"mode"`
	Variant    string   `yaml:"variant"`
	RPM        float64  `yaml:"rpm"`
	Ratios     [][2]int `yaml:"ratios,omitempty"`
	Precession float64  `yaml:"precession"`
	SpeedScale float64  `yaml:"speed_scale"`
}

type PulseConfig struct {
	Shape    string  `yaml:"shape"`
	Duration float64 `yaml:"duration"`
}

type CameraConfig struct {
	Distance float64 `yaml:"distance"`
	Focal    float64 `yaml:"focal"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

func DefaultConfig() *Config {
	o := ringfield.DefaultOptions()
	return &Config{
		Scene: SceneConfig{
			Rings:       o.Rings,
			OuterRadius: o.OuterRadius,
			Thickness:   o.Thickness,
			Segments:    o.Segments,
		},
		Tempo: TempoConfig{BPM: o.BPM, BeatsPerMeasure: o.BeatsPerMeasure},
		Motion: MotionConfig{
			Mode:       o.Mode.String(),
			Variant:    o.Variant.String(),
			RPM:        o.RPM,
			Precession: o.PrecessionRatio,
			SpeedScale: o.SpeedScale,
		},
		Pulse:    PulseConfig{Shape: o.Pulse.String(), Duration: o.PulseDuration},
		Camera:   CameraConfig{Distance: o.Camera.Distance, Focal: o.Camera.FocalLength},
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Theme:    DefaultTheme,
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads a scene file on top of the defaults. A scene may name a preset,
// in which case the preset is the base and the file overrides it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg := DefaultConfig()
	if head.Preset != "" {
		p := GetPreset(head.Preset)
		if p == nil {
			return nil, fmt.Errorf("parse config: unknown preset %q", head.Preset)
		}
		cfg = p
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Options converts the scene into ring field options. Names that do not
// parse are errors; numeric values are clamped by the field itself.
func (c *Config) Options() (ringfield.Options, error) {
	o := ringfield.DefaultOptions()
	mode, err := ringfield.ParseMode(c.Motion.Mode)
	if err != nil {
		return o, err
	}
	variant, err := ringfield.ParseVariant(c.Motion.Variant)
	if err != nil {
		return o, err
	}
	shape, err := ringfield.ParsePulseShape(c.Pulse.Shape)
	if err != nil {
		return o, err
	}

	o.Rings = c.Scene.Rings
	o.OuterRadius = c.Scene.OuterRadius
	o.Thickness = c.Scene.Thickness
	o.Segments = c.Scene.Segments
	o.Multipliers = c.Scene.Multipliers
	o.TiltX = c.Scene.TiltX
	o.TiltY = c.Scene.TiltY
	for _, a := range c.Scene.Axes {
		o.Axes = append(o.Axes, geom.Vec3{X: a[0], Y: a[1], Z: a[2]})
	}
	o.BPM = c.Tempo.BPM
	o.BeatsPerMeasure = c.Tempo.BeatsPerMeasure
	o.Mode = mode
	o.RPM = c.Motion.RPM
	for _, r := range c.Motion.Ratios {
		o.Ratios = append(o.Ratios, ringfield.Ratio{P: r[0], Q: r[1]})
	}
	o.Variant = variant
	o.PrecessionRatio = c.Motion.Precession
	o.SpeedScale = c.Motion.SpeedScale
	o.Pulse = shape
	o.PulseDuration = c.Pulse.Duration
	o.Camera = geom.Camera{Distance: c.Camera.Distance, FocalLength: c.Camera.Focal}
	return o, nil
}

// NewField builds a ring field from the scene.
func (c *Config) NewField() (*ringfield.Field, error) {
	o, err := c.Options()
	if err != nil {
		return nil, err
	}
	return ringfield.New(o), nil
}
