// Package automation runs scripted collision scenarios and parameter sweeps.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/san-kum/collisiongen/internal/config"
	"github.com/san-kum/collisiongen/internal/dynamo"
	"github.com/san-kum/collisiongen/internal/experiment"
	"github.com/san-kum/collisiongen/internal/frame"
	"github.com/san-kum/collisiongen/internal/sim"
	"gopkg.in/yaml.v3"
)

// Script is a named list of hand-picked scenarios.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one scenario in a script. Empty fields fall back to the config.
type Step struct {
	Name          string   `yaml:"name"`
	MassA         float64  `yaml:"mass_a"`
	MassB         float64  `yaml:"mass_b"`
	VelocityA     float64  `yaml:"velocity_a"`
	VelocityB     float64  `yaml:"velocity_b"`
	CollisionType string   `yaml:"collision_type"`
	Restitution   *float64 `yaml:"restitution"`
	Integrator    string   `yaml:"integrator"`
}

// StepResult is the outcome of one scripted step.
type StepResult struct {
	Name      string
	Scenario  dynamo.Scenario
	Model     dynamo.CollisionModel
	Result    *sim.Result
	Selection frame.Selection
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("script %s has no steps: %w", path, dynamo.ErrConfiguration)
	}
	return &script, nil
}

// apply returns a copy of base with the step's overrides.
func (s Step) apply(base *config.Config) (*config.Config, error) {
	cfg := *base
	if s.CollisionType != "" {
		cfg.CollisionType = s.CollisionType
	}
	if s.Restitution != nil {
		cfg.Restitution = *s.Restitution
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Runner executes scripts and sweeps against one base configuration.
type Runner struct {
	cfg      *config.Config
	registry *experiment.Registry
	log      zerolog.Logger
}

func NewRunner(cfg *config.Config, log zerolog.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		registry: experiment.NewRegistry(),
		log:      log,
	}
}

// RunScript executes every step in order. Results for the steps that
// completed are returned alongside the first error.
func (r *Runner) RunScript(ctx context.Context, script *Script) ([]StepResult, error) {
	results := make([]StepResult, 0, len(script.Steps))

	for i, step := range script.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step_%d", i+1)
		}
		r.log.Debug().Str("script", script.Name).Str("step", name).Int("index", i+1).Int("total", len(script.Steps)).Msg("running step")

		cfg, err := step.apply(r.cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		sc, err := experiment.Manual(cfg, step.MassA, step.MassB, step.VelocityA, step.VelocityB)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		res, sel, err := r.run(ctx, cfg, sc)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		model, _ := cfg.Model()

		results = append(results, StepResult{
			Name:      name,
			Scenario:  sc,
			Model:     model,
			Result:    res,
			Selection: sel,
		})
	}

	return results, nil
}

func (r *Runner) run(ctx context.Context, cfg *config.Config, sc dynamo.Scenario) (*sim.Result, frame.Selection, error) {
	simulator, err := r.registry.Simulator(cfg, sc)
	if err != nil {
		return nil, frame.Selection{}, err
	}
	res, err := simulator.Run(ctx, sc, sim.NewConfig(cfg.SampleRate(), cfg.Duration))
	if err != nil {
		return nil, frame.Selection{}, err
	}
	sel := frame.NewSelector(cfg.World(), cfg.SeparationThreshold).Explain(sc, res.Trajectory)
	return res, sel, nil
}

// RestitutionSweep varies the coefficient of restitution over one scenario.
type RestitutionSweep struct {
	Min, Max float64
	NumSteps int
}

// SweepResult holds the outcome for one restitution value.
type SweepResult struct {
	Restitution float64
	FinalVelA   float64
	FinalVelB   float64
	EnergyLoss  float64
	FrameIndex  int
}

// RunSweep simulates sc as an inelastic collision for every restitution in
// [Min, Max]. Values must lie in (0, 1).
func (r *Runner) RunSweep(ctx context.Context, sc dynamo.Scenario, sweep RestitutionSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d: %w", sweep.NumSteps, dynamo.ErrConfiguration)
	}
	if sweep.Min <= 0 || sweep.Max >= 1 || sweep.Min > sweep.Max {
		return nil, fmt.Errorf("sweep range [%g, %g] must lie in (0, 1): %w", sweep.Min, sweep.Max, dynamo.ErrConfiguration)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	step := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	e0 := sc.KineticEnergy(sc.Initial())

	for i := 0; i < sweep.NumSteps; i++ {
		cfg := *r.cfg
		cfg.CollisionType = dynamo.Inelastic.String()
		cfg.Restitution = sweep.Min + float64(i)*step

		res, sel, err := r.run(ctx, &cfg, sc)
		if err != nil {
			return results, fmt.Errorf("restitution %.3f: %w", cfg.Restitution, err)
		}

		last := res.Trajectory.Last()
		loss := 0.0
		if e0 > 0 {
			loss = (e0 - sc.KineticEnergy(last)) / e0
		}
		results = append(results, SweepResult{
			Restitution: cfg.Restitution,
			FinalVelA:   last.VelocityA,
			FinalVelB:   last.VelocityB,
			EnergyLoss:  loss,
			FrameIndex:  sel.Index,
		})

		r.log.Debug().Float64("restitution", cfg.Restitution).Float64("energy_loss", loss).Msg("sweep step")
	}

	return results, nil
}
