package config

import "sort"

// Presets are named scenes. GetPreset returns a copy, so callers may edit it.
var Presets = map[string]func() *Config{
	"gyropulse": func() *Config {
		c := DefaultConfig()
		c.Motion.Variant = "euler"
		c.Scene.Rings = 4
		c.Scene.Thickness = 0.08
		return c
	},
	"pulse4": func() *Config {
		c := DefaultConfig()
		c.Scene.Rings = 4
		c.Scene.Multipliers = []int{1, 2, 3, 4}
		return c
	},
	"tumble": func() *Config {
		c := DefaultConfig()
		c.Scene.Rings = 8
		c.Scene.Axes = [][3]float64{{1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, -1, 0.5}}
		c.Tempo.BPM = 96
		return c
	},
	"wobble": func() *Config {
		c := DefaultConfig()
		c.Motion.Variant = "wobble"
		c.Motion.Precession = 0.5
		c.Scene.Rings = 6
		return c
	},
	"ratio": func() *Config {
		c := DefaultConfig()
		c.Motion.Mode = "ratio"
		c.Motion.RPM = 12
		c.Scene.Rings = 8
		c.Scene.Thickness = 0.03
		return c
	},
	"waltz": func() *Config {
		c := DefaultConfig()
		c.Tempo.BPM = 90
		c.Tempo.BeatsPerMeasure = 3
		c.Scene.Multipliers = []int{1, -1, 2, -3}
		c.Pulse.Shape = "linear"
		c.Pulse.Duration = 0.45
		return c
	},
}

func GetPreset(name string) *Config {
	mk, ok := Presets[name]
	if !ok {
		return nil
	}
	c := mk()
	c.Preset = name
	return c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
