// Package prompt phrases collision scenarios as natural-language tasks.
package prompt

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/collisiongen/internal/dynamo"
)

const simplePrompt = "Two balls collide elastically. Predict the collision outcome following physics rules."

type params struct {
	model      string
	massA      float64
	massB      float64
	velA, velB float64
	dirA, dirB string
}

type template func(p params) string

var templates = []template{
	func(p params) string {
		return fmt.Sprintf("Two balls collide %sally. Ball A (mass %.1fkg) moves %s at %.1f m/s. Ball B (mass %.1fkg) moves %s at %.1f m/s. Predict the collision outcome.",
			p.model, p.massA, p.dirA, math.Abs(p.velA), p.massB, p.dirB, math.Abs(p.velB))
	},
	func(p params) string {
		return fmt.Sprintf("Ball A (%.1fkg, %.1f m/s %s) and Ball B (%.1fkg, %.1f m/s %s) undergo an %s collision. Show the final velocities after impact.",
			p.massA, math.Abs(p.velA), p.dirA, p.massB, math.Abs(p.velB), p.dirB, p.model)
	},
	func(p params) string {
		return fmt.Sprintf("In an %s collision, Ball A (mass=%.1fkg, velocity=%.1f m/s) collides with Ball B (mass=%.1fkg, velocity=%.1f m/s). Animate the collision and resulting motion.",
			p.model, p.massA, p.velA, p.massB, p.velB)
	},
	func(p params) string {
		return fmt.Sprintf("Predict the result of an %s collision between two balls: Ball A (%.1fkg) traveling %s at %.1f m/s, and Ball B (%.1fkg) traveling %s at %.1f m/s.",
			p.model, p.massA, p.dirA, math.Abs(p.velA), p.massB, p.dirB, math.Abs(p.velB))
	},
}

// Builder picks one template per call from its own random source.
type Builder struct {
	rng *rand.Rand
}

func NewBuilder(rng *rand.Rand) *Builder {
	return &Builder{rng: rng}
}

// Build phrases the scenario. Velocities are signed, positive to the right.
func (b *Builder) Build(massA, velA, massB, velB float64, model dynamo.CollisionModel) string {
	p := params{
		model: model.String(),
		massA: massA,
		massB: massB,
		velA:  velA,
		velB:  velB,
		dirA:  direction(velA),
		dirB:  direction(velB),
	}
	return templates[b.rng.Intn(len(templates))](p)
}

// Scenario is Build over a scenario's initial state. A scenario without
// positive masses gets the generic prompt.
func (b *Builder) Scenario(sc dynamo.Scenario, model dynamo.CollisionModel) string {
	if sc.MassA <= 0 || sc.MassB <= 0 {
		return Simple()
	}
	return b.Build(sc.MassA, sc.VelocityA, sc.MassB, sc.VelocityB, model)
}

// Simple is the generic prompt used when no scenario details are available.
func Simple() string {
	return simplePrompt
}

func direction(v float64) string {
	if v > 0 {
		return "right"
	}
	return "left"
}
