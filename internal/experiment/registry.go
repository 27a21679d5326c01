package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/collisiongen/internal/config"
	"github.com/san-kum/collisiongen/internal/dynamo"
	"github.com/san-kum/collisiongen/internal/integrators"
	"github.com/san-kum/collisiongen/internal/metrics"
	"github.com/san-kum/collisiongen/internal/physics"
	"github.com/san-kum/collisiongen/internal/sim"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["verlet"] = func() dynamo.Integrator { return integrators.NewVerlet() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s: %w", name, dynamo.ErrConfiguration)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Simulator assembles a simulator for sc from the configured integrator and
// collision type, with the default metrics attached.
func (r *Registry) Simulator(cfg *config.Config, sc dynamo.Scenario) (*sim.Simulator, error) {
	integ, err := r.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	model, err := cfg.Model()
	if err != nil {
		return nil, err
	}

	world := cfg.World()
	contact := physics.NewContact(sc, model.Restitution(cfg.Restitution), world.PixelsPerMeter)
	s := sim.New(physics.NewTwoBody(sc.MassA, sc.MassB), integ, contact)
	for _, m := range metrics.Defaults(sc, world) {
		s.AddMetric(m)
	}
	return s, nil
}
