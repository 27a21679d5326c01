// Package experiment draws randomized collision scenarios and resolves the
// named components used to simulate them.
package experiment

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/collisiongen/internal/config"
	"github.com/san-kum/collisiongen/internal/dynamo"
)

const (
	minRadiusScale = 0.7
	maxRadiusScale = 1.3
)

type Sampler struct {
	rng *rand.Rand
}

func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Sample draws one scenario. Body A always moves right and body B always
// moves left, so every scenario approaches.
func (s *Sampler) Sample(cfg *config.Config) dynamo.Scenario {
	massA := s.uniform(cfg.MinMass, cfg.MaxMass)
	massB := s.uniform(cfg.MinMass, cfg.MaxMass)
	speedA := s.uniform(cfg.MinVelocity, cfg.MaxVelocity)
	speedB := s.uniform(cfg.MinVelocity, cfg.MaxVelocity)

	return dynamo.Scenario{
		MassA:     massA,
		MassB:     massB,
		VelocityA: speedA,
		VelocityB: -speedB,
		RadiusA:   Radius(massA, cfg.MinMass, cfg.MaxMass, cfg.RadiusBase),
		RadiusB:   Radius(massB, cfg.MinMass, cfg.MaxMass, cfg.RadiusBase),
		PosA:      cfg.StartA,
		PosB:      cfg.StartB,
	}
}

// Manual builds a scenario from explicit masses and velocities. The radius
// scale spans the configured mass range widened to include both masses.
func Manual(cfg *config.Config, massA, massB, velA, velB float64) (dynamo.Scenario, error) {
	if massA <= 0 || massB <= 0 {
		return dynamo.Scenario{}, fmt.Errorf("masses must be positive (%g, %g): %w", massA, massB, dynamo.ErrConfiguration)
	}
	if velA <= 0 || velB >= 0 {
		return dynamo.Scenario{}, fmt.Errorf("bodies must approach (velocity_a > 0, velocity_b < 0), got %g, %g: %w", velA, velB, dynamo.ErrConfiguration)
	}

	lo := math.Min(cfg.MinMass, math.Min(massA, massB))
	hi := math.Max(cfg.MaxMass, math.Max(massA, massB))
	return dynamo.Scenario{
		MassA:     massA,
		MassB:     massB,
		VelocityA: velA,
		VelocityB: velB,
		RadiusA:   Radius(massA, lo, hi, cfg.RadiusBase),
		RadiusB:   Radius(massB, lo, hi, cfg.RadiusBase),
		PosA:      cfg.StartA,
		PosB:      cfg.StartB,
	}, nil
}

func (s *Sampler) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Radius maps mass linearly onto [0.7, 1.3] x base. A degenerate mass range
// yields the midpoint.
func Radius(mass, minMass, maxMass, base float64) float64 {
	ratio := 0.5
	if maxMass > minMass {
		ratio = (mass - minMass) / (maxMass - minMass)
	}
	return base * (minRadiusScale + (maxRadiusScale-minRadiusScale)*ratio)
}
