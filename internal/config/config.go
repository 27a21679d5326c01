package config

import (
	"fmt"
	"os"

	"github.com/san-kum/collisiongen/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDomain         = "collision_physics"
	DefaultNumSamples     = 10
	DefaultOutputDir      = "data/questions"
	DefaultImageWidth     = 800
	DefaultImageHeight    = 300
	DefaultVideoFPS       = 10
	DefaultMinMass        = 1.0
	DefaultMaxMass        = 5.0
	DefaultMinVelocity    = 2.0
	DefaultMaxVelocity    = 8.0
	DefaultRadiusBase     = 30.0
	DefaultDuration       = 3.0
	DefaultPixelsPerMeter = 50.0
	DefaultWorldWidth     = 14.0
	DefaultStartA         = 2.0
	DefaultStartB         = 12.0
	DefaultSeparation     = 2.0
	DefaultRestitution    = 0.5
	DefaultWorkers        = 4
)

var DefaultFontPaths = []string{
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"Arial.ttf",
}

type Config struct {
	Domain     string `yaml:"domain"`
	NumSamples int    `yaml:"num_samples"`
	Seed       int64  `yaml:"random_seed"`
	OutputDir  string `yaml:"output_dir"`
	Workers    int    `yaml:"workers"`

	ImageWidth  int `yaml:"image_width"`
	ImageHeight int `yaml:"image_height"`

	GenerateVideos bool   `yaml:"generate_videos"`
	VideoFPS       int    `yaml:"video_fps"`
	VideoFormat    string `yaml:"video_format"`

	MinMass     float64 `yaml:"min_mass"`
	MaxMass     float64 `yaml:"max_mass"`
	MinVelocity float64 `yaml:"min_velocity"`
	MaxVelocity float64 `yaml:"max_velocity"`

	RadiusBase         float64  `yaml:"ball_radius_base"`
	ShowVelocityArrows bool     `yaml:"show_velocity_arrows"`
	ShowMassLabels     bool     `yaml:"show_mass_labels"`
	FontPaths          []string `yaml:"font_paths"`
	PromptStyle        string   `yaml:"prompt_style"`

	CollisionType       string  `yaml:"collision_type"`
	Restitution         float64 `yaml:"restitution"`
	Integrator          string  `yaml:"integrator"`
	Duration            float64 `yaml:"simulation_duration"`
	PixelsPerMeter      float64 `yaml:"pixels_per_meter"`
	WorldWidth          float64 `yaml:"world_width"`
	StartA              float64 `yaml:"start_a"`
	StartB              float64 `yaml:"start_b"`
	SeparationThreshold float64 `yaml:"separation_threshold"`
}

func DefaultConfig() *Config {
	return &Config{
		Domain:              DefaultDomain,
		NumSamples:          DefaultNumSamples,
		OutputDir:           DefaultOutputDir,
		Workers:             DefaultWorkers,
		ImageWidth:          DefaultImageWidth,
		ImageHeight:         DefaultImageHeight,
		GenerateVideos:      true,
		VideoFPS:            DefaultVideoFPS,
		VideoFormat:         "mp4",
		MinMass:             DefaultMinMass,
		MaxMass:             DefaultMaxMass,
		MinVelocity:         DefaultMinVelocity,
		MaxVelocity:         DefaultMaxVelocity,
		RadiusBase:          DefaultRadiusBase,
		ShowVelocityArrows:  true,
		ShowMassLabels:      true,
		FontPaths:           append([]string(nil), DefaultFontPaths...),
		PromptStyle:         "varied",
		CollisionType:       "elastic",
		Restitution:         DefaultRestitution,
		Integrator:          "euler",
		Duration:            DefaultDuration,
		PixelsPerMeter:      DefaultPixelsPerMeter,
		WorldWidth:          DefaultWorldWidth,
		StartA:              DefaultStartA,
		StartB:              DefaultStartB,
		SeparationThreshold: DefaultSeparation,
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Merge(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge overlays the keys present in the yaml file at path.
func (c *Config) Merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Model returns the parsed collision type.
func (c *Config) Model() (dynamo.CollisionModel, error) {
	return dynamo.ParseCollisionModel(c.CollisionType)
}

// World returns the visible strip described by the config.
func (c *Config) World() dynamo.World {
	return dynamo.World{Width: c.WorldWidth, PixelsPerMeter: c.PixelsPerMeter}
}

// SampleRate is the simulation and video frame rate in Hz.
func (c *Config) SampleRate() float64 {
	return float64(c.VideoFPS)
}

// ValidationError reports the first invalid field. It wraps
// dynamo.ErrConfiguration.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return dynamo.ErrConfiguration
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks every bound the pipeline relies on.
func (c *Config) Validate() error {
	if c.NumSamples <= 0 {
		return invalid("num_samples", "must be positive, got %d", c.NumSamples)
	}
	if c.Workers <= 0 {
		return invalid("workers", "must be positive, got %d", c.Workers)
	}
	if c.ImageWidth <= 0 || c.ImageHeight <= 0 {
		return invalid("image_size", "must be positive, got %dx%d", c.ImageWidth, c.ImageHeight)
	}
	if c.VideoFPS <= 0 {
		return invalid("video_fps", "must be positive, got %d", c.VideoFPS)
	}
	switch c.VideoFormat {
	case "mp4", "gif":
	default:
		return invalid("video_format", "unknown format %q (mp4, gif)", c.VideoFormat)
	}
	if c.MinMass <= 0 {
		return invalid("min_mass", "must be positive, got %g", c.MinMass)
	}
	if c.MinMass > c.MaxMass {
		return invalid("max_mass", "min_mass %g exceeds max_mass %g", c.MinMass, c.MaxMass)
	}
	if c.MinVelocity <= 0 {
		return invalid("min_velocity", "must be positive, got %g", c.MinVelocity)
	}
	if c.MinVelocity > c.MaxVelocity {
		return invalid("max_velocity", "min_velocity %g exceeds max_velocity %g", c.MinVelocity, c.MaxVelocity)
	}
	if c.RadiusBase <= 0 {
		return invalid("ball_radius_base", "must be positive, got %g", c.RadiusBase)
	}
	switch c.PromptStyle {
	case "varied", "simple":
	default:
		return invalid("prompt_style", "unknown style %q (varied, simple)", c.PromptStyle)
	}
	model, err := c.Model()
	if err != nil {
		return invalid("collision_type", "%v", err)
	}
	if model == dynamo.Inelastic && (c.Restitution <= 0 || c.Restitution >= 1) {
		return invalid("restitution", "must be in (0, 1) for inelastic collisions, got %g", c.Restitution)
	}
	switch c.Integrator {
	case "euler", "verlet":
	default:
		return invalid("integrator", "unknown integrator %q", c.Integrator)
	}
	if c.Duration <= 0 {
		return invalid("simulation_duration", "must be positive, got %g", c.Duration)
	}
	if c.PixelsPerMeter <= 0 {
		return invalid("pixels_per_meter", "must be positive, got %g", c.PixelsPerMeter)
	}
	if c.WorldWidth <= 0 {
		return invalid("world_width", "must be positive, got %g", c.WorldWidth)
	}
	if c.StartA >= c.StartB {
		return invalid("start_a", "start_a %g must be left of start_b %g", c.StartA, c.StartB)
	}
	if c.StartA < 0 || c.StartB > c.WorldWidth {
		return invalid("start_b", "start positions must lie inside [0, %g]", c.WorldWidth)
	}
	if c.SeparationThreshold <= 0 {
		return invalid("separation_threshold", "must be positive, got %g", c.SeparationThreshold)
	}
	return nil
}
