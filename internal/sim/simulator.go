package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/collisiongen/internal/dynamo"
	"github.com/san-kum/collisiongen/internal/integrators"
	"github.com/san-kum/collisiongen/internal/physics"
)

type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	resolver   dynamo.Resolver
	metrics    []dynamo.Metric
}

func New(dyn dynamo.System, integrator dynamo.Integrator, resolver dynamo.Resolver) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		resolver:   resolver,
		metrics:    make([]dynamo.Metric, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }

// Run integrates the scenario for cfg.Steps fixed steps. Each step advances
// free flight, resolves at most one contact, then records the state. The
// trajectory is returned only when every step completed.
func (s *Simulator) Run(ctx context.Context, sc dynamo.Scenario, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	traj := dynamo.Trajectory{
		Samples:      make([]dynamo.Sample, 0, cfg.Steps),
		Dt:           cfg.Dt,
		ContactSteps: make([]int, 0, 1),
	}

	x := sc.InitialState()
	t := 0.0

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		x = s.integrator.Step(s.dyn, x, nil, t, cfg.Dt)
		t += cfg.Dt

		if s.resolver != nil && s.resolver.Resolve(x) {
			traj.ContactSteps = append(traj.ContactSteps, i)
			for _, m := range s.metrics {
				if co, ok := m.(dynamo.ContactObserver); ok {
					co.OnContact(i, t)
				}
			}
		}

		if !x.IsValid() {
			return nil, &dynamo.SimulationError{
				Step:    i,
				Time:    t,
				State:   x.Clone(),
				Wrapped: fmt.Errorf("step %d (t=%.4f): invalid state (NaN/Inf)", i, t),
			}
		}

		sample := x.Sample()
		traj.Samples = append(traj.Samples, sample)

		for _, m := range s.metrics {
			m.Observe(sample, t)
		}
	}

	result := &Result{
		Trajectory: traj,
		Metrics:    make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	if h, ok := s.dyn.(dynamo.Hamiltonian); ok {
		result.Metrics["energy_lost"] = h.Energy(sc.InitialState()) - h.Energy(x)
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, dynamo.ErrConfiguration)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d: %w", cfg.Steps, dynamo.ErrConfiguration)
	}
	return nil
}

// Simulate runs a scenario with the default free-flight integrator and the
// closed-form contact resolver for model.
func Simulate(sc dynamo.Scenario, model dynamo.CollisionModel, partialRestitution float64, world dynamo.World, dt float64, steps int) (dynamo.Trajectory, error) {
	contact := physics.NewContact(sc, model.Restitution(partialRestitution), world.PixelsPerMeter)
	s := New(physics.NewTwoBody(sc.MassA, sc.MassB), integrators.NewEuler(), contact)

	result, err := s.Run(context.Background(), sc, Config{Dt: dt, Steps: steps})
	if err != nil {
		return dynamo.Trajectory{}, err
	}
	return result.Trajectory, nil
}
