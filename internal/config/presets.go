package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/collisiongen/internal/dynamo"
)

// preset overrides the defaults for one named scenario family.
type preset func(c *Config)

var Presets = map[string]map[string]preset{
	"elastic": {
		"default": func(c *Config) {
			c.CollisionType = "elastic"
		},
		"heavy_light": func(c *Config) {
			c.CollisionType = "elastic"
			c.MinMass, c.MaxMass = 0.5, 10.0
		},
		"fast": func(c *Config) {
			c.CollisionType = "elastic"
			c.MinVelocity, c.MaxVelocity = 6.0, 12.0
			c.VideoFPS = 20
			c.Duration = 2.0
		},
	},
	"inelastic": {
		"default": func(c *Config) {
			c.CollisionType = "inelastic"
			c.Restitution = DefaultRestitution
		},
		"sticky": func(c *Config) {
			c.CollisionType = "inelastic"
			c.Restitution = 0.1
			c.Duration = 4.0
		},
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(collisionType, name string) *Config {
	typePresets, ok := Presets[collisionType]
	if !ok {
		return nil
	}
	apply, ok := typePresets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets(collisionType string) []string {
	typePresets, ok := Presets[collisionType]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(typePresets))
	for name := range typePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindPreset resolves a preset given as "type/name" or a bare name. A bare
// name is looked up under preferType first, then under every type in order.
func FindPreset(ref, preferType string) (*Config, error) {
	if typ, name, ok := strings.Cut(ref, "/"); ok {
		if cfg := GetPreset(typ, name); cfg != nil {
			return cfg, nil
		}
		return nil, fmt.Errorf("preset not found: %s: %w", ref, dynamo.ErrConfiguration)
	}

	if cfg := GetPreset(preferType, ref); cfg != nil {
		return cfg, nil
	}
	types := make([]string, 0, len(Presets))
	for typ := range Presets {
		types = append(types, typ)
	}
	sort.Strings(types)
	for _, typ := range types {
		if cfg := GetPreset(typ, ref); cfg != nil {
			return cfg, nil
		}
	}
	return nil, fmt.Errorf("preset not found: %s: %w", ref, dynamo.ErrConfiguration)
}
