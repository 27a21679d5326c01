package metrics

import (
	"math"

	"github.com/san-kum/collisiongen/internal/dynamo"
)

// EnergyDrift reports the signed relative change in kinetic energy between
// the first and the latest observed sample. Elastic runs stay near zero,
// inelastic runs go negative.
type EnergyDrift struct {
	name          string
	sc            dynamo.Scenario
	initialEnergy float64
	currentEnergy float64
	samples       int
}

func NewEnergyDrift(sc dynamo.Scenario) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		sc:   sc,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s dynamo.Sample, t float64) {
	energy := e.sc.KineticEnergy(s)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++
}

func (e *EnergyDrift) Value() float64 {
	if e.samples == 0 || e.initialEnergy == 0 {
		return 0
	}
	return (e.currentEnergy - e.initialEnergy) / e.initialEnergy
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.samples = 0
}

// MomentumDrift reports the largest relative deviation of total momentum
// from the first observed sample. Falls back to absolute deviation when the
// initial momentum is zero.
type MomentumDrift struct {
	name     string
	sc       dynamo.Scenario
	initial  float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift(sc dynamo.Scenario) *MomentumDrift {
	return &MomentumDrift{
		name: "momentum_drift",
		sc:   sc,
	}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(s dynamo.Sample, t float64) {
	p := m.sc.Momentum(s)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	drift := math.Abs(p - m.initial)
	if m.initial != 0 {
		drift /= math.Abs(m.initial)
	}
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MomentumDrift) Value() float64 {
	return m.maxDrift
}

func (m *MomentumDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}

// Contacts counts resolved contact events.
type Contacts struct {
	count int
}

func NewContacts() *Contacts {
	return &Contacts{}
}

func (c *Contacts) Name() string                       { return "contacts" }
func (c *Contacts) Observe(s dynamo.Sample, t float64) {}
func (c *Contacts) OnContact(step int, t float64)      { c.count++ }
func (c *Contacts) Value() float64                     { return float64(c.count) }
func (c *Contacts) Reset()                             { c.count = 0 }

// Defaults returns the metric set attached to every generated scenario.
func Defaults(sc dynamo.Scenario, world dynamo.World) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyDrift(sc),
		NewMomentumDrift(sc),
		NewContacts(),
		NewVisibility(sc, world),
	}
}
