package config

import (
	"fmt"
	"sort"
)

type Preset struct {
	Description string
	Speeds      map[string]float64
}

var Presets = map[string]Preset{
	"default": {
		Description: "every planet at 1.0x",
		Speeds:      map[string]float64{},
	},
	"inner-rush": {
		Description: "rocky planets at full speed, giants slowed",
		Speeds: map[string]float64{
			"mercury": 3, "venus": 3, "earth": 3, "mars": 3,
			"jupiter": 0.5, "saturn": 0.5, "uranus": 0.5, "neptune": 0.5,
		},
	},
	"outer-crawl": {
		Description: "inner planets frozen, giants at full speed",
		Speeds: map[string]float64{
			"mercury": 0, "venus": 0, "earth": 0, "mars": 0,
			"jupiter": 3, "saturn": 3, "uranus": 3, "neptune": 3,
		},
	},
	"frozen": {
		Description: "nothing orbits, planets still spin",
		Speeds: map[string]float64{
			"mercury": 0, "venus": 0, "earth": 0, "mars": 0,
			"jupiter": 0, "saturn": 0, "uranus": 0, "neptune": 0,
		},
	},
	"earth-only": {
		Description: "only earth orbits",
		Speeds: map[string]float64{
			"mercury": 0, "venus": 0, "earth": 1, "mars": 0,
			"jupiter": 0, "saturn": 0, "uranus": 0, "neptune": 0,
		},
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset overlays a preset's speeds onto cfg.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", name, ListPresets())
	}
	if c.Speeds == nil {
		c.Speeds = make(map[string]float64, len(p.Speeds))
	}
	for id, v := range p.Speeds {
		c.Speeds[id] = v
	}
	return nil
}
