package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/collisiongen/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Domain != "collision_physics" {
		t.Errorf("expected domain collision_physics, got %s", cfg.Domain)
	}
	if cfg.CollisionType != "elastic" {
		t.Errorf("expected elastic, got %s", cfg.CollisionType)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if cfg.SampleRate() != 10 {
		t.Errorf("expected sample rate 10, got %v", cfg.SampleRate())
	}
	if w := cfg.World(); w.Width != 14 || w.PixelsPerMeter != 50 {
		t.Errorf("unexpected world %+v", w)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"min mass above max", func(c *Config) { c.MinMass, c.MaxMass = 6, 5 }, "max_mass"},
		{"negative mass", func(c *Config) { c.MinMass = -1 }, "min_mass"},
		{"zero velocity", func(c *Config) { c.MinVelocity = 0 }, "min_velocity"},
		{"min velocity above max", func(c *Config) { c.MinVelocity, c.MaxVelocity = 9, 8 }, "max_velocity"},
		{"unknown collision", func(c *Config) { c.CollisionType = "sticky" }, "collision_type"},
		{"inelastic restitution 1", func(c *Config) { c.CollisionType, c.Restitution = "inelastic", 1 }, "restitution"},
		{"inelastic restitution 0", func(c *Config) { c.CollisionType, c.Restitution = "inelastic", 0 }, "restitution"},
		{"zero fps", func(c *Config) { c.VideoFPS = 0 }, "video_fps"},
		{"zero duration", func(c *Config) { c.Duration = 0 }, "simulation_duration"},
		{"starts swapped", func(c *Config) { c.StartA, c.StartB = 12, 2 }, "start_a"},
		{"start outside world", func(c *Config) { c.StartB = 20 }, "start_b"},
		{"bad video format", func(c *Config) { c.VideoFormat = "avi" }, "video_format"},
		{"bad integrator", func(c *Config) { c.Integrator = "rk9" }, "integrator"},
		{"zero samples", func(c *Config) { c.NumSamples = 0 }, "num_samples"},
		{"zero separation", func(c *Config) { c.SeparationThreshold = 0 }, "separation_threshold"},
		{"unknown prompt style", func(c *Config) { c.PromptStyle = "terse" }, "prompt_style"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, dynamo.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("expected field %q, got %v", tt.field, err)
			}
		})
	}
}

func TestValidateEqualBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinMass, cfg.MaxMass = 2, 2
	cfg.MinVelocity, cfg.MaxVelocity = 3, 3
	if err := cfg.Validate(); err != nil {
		t.Errorf("min == max should be accepted: %v", err)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collision.yaml")

	cfg := DefaultConfig()
	cfg.CollisionType = "inelastic"
	cfg.Restitution = 0.3
	cfg.Seed = 42
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.CollisionType != "inelastic" || loaded.Restitution != 0.3 || loaded.Seed != 42 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("min_mass: 2.5\ncollision_type: inelastic\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.MinMass != 2.5 {
		t.Errorf("expected min_mass 2.5, got %v", cfg.MinMass)
	}
	if cfg.MaxMass != DefaultMaxMass || cfg.WorldWidth != DefaultWorldWidth {
		t.Error("unset keys should keep their defaults")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("inelastic", "sticky")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Restitution != 0.1 || cfg.CollisionType != "inelastic" {
		t.Errorf("unexpected preset values: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("elastic", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "default"); cfg != nil {
		t.Error("expected nil for nonexistent collision type")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("elastic")
	if len(presets) != 3 || presets[0] != "default" {
		t.Errorf("unexpected elastic presets %v", presets)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent collision type")
	}
}

func TestAllPresetsValidate(t *testing.T) {
	for typ := range Presets {
		for _, name := range ListPresets(typ) {
			if err := GetPreset(typ, name).Validate(); err != nil {
				t.Errorf("%s/%s: %v", typ, name, err)
			}
		}
	}
}

func TestMergeOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	if err := os.WriteFile(path, []byte("restitution: 0.3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := GetPreset("inelastic", "sticky")
	if err := cfg.Merge(path); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if cfg.Restitution != 0.3 {
		t.Errorf("file should override preset, got %v", cfg.Restitution)
	}
	if cfg.Duration != 4.0 {
		t.Errorf("preset keys absent from file should survive, got %v", cfg.Duration)
	}
}

func TestFindPreset(t *testing.T) {
	tests := []struct {
		ref, prefer     string
		wantType        string
		wantRestitution float64
	}{
		{"inelastic/sticky", "elastic", "inelastic", 0.1},
		{"sticky", "elastic", "inelastic", 0.1},
		{"default", "inelastic", "inelastic", DefaultRestitution},
		{"default", "elastic", "elastic", DefaultRestitution},
		{"fast", "inelastic", "elastic", DefaultRestitution},
	}

	for _, tt := range tests {
		t.Run(tt.ref+"/"+tt.prefer, func(t *testing.T) {
			cfg, err := FindPreset(tt.ref, tt.prefer)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.CollisionType != tt.wantType || cfg.Restitution != tt.wantRestitution {
				t.Errorf("got %s e=%v, want %s e=%v", cfg.CollisionType, cfg.Restitution, tt.wantType, tt.wantRestitution)
			}
		})
	}

	for _, ref := range []string{"bouncy", "elastic/sticky"} {
		if _, err := FindPreset(ref, "elastic"); !errors.Is(err, dynamo.ErrConfiguration) {
			t.Errorf("%s: expected ErrConfiguration, got %v", ref, err)
		}
	}
}
