package dynamo

import (
	"fmt"
	"math"
	"strings"
)

// State is the two-body state vector laid out as [posA, posB, velA, velB].
type State []float64

const (
	IdxPosA = iota
	IdxPosB
	IdxVelA
	IdxVelB
	StateDim
)

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sample returns the recorded form of a two-body state.
func (s State) Sample() Sample {
	return Sample{
		PositionA: s[IdxPosA],
		PositionB: s[IdxPosB],
		VelocityA: s[IdxVelA],
		VelocityB: s[IdxVelB],
	}
}

// Scenario is one sampled collision setup. Radii are in render units
// (pixels); positions in meters.
type Scenario struct {
	MassA     float64 `json:"mass_a"`
	MassB     float64 `json:"mass_b"`
	VelocityA float64 `json:"velocity_a"`
	VelocityB float64 `json:"velocity_b"`
	RadiusA   float64 `json:"radius_a"`
	RadiusB   float64 `json:"radius_b"`
	PosA      float64 `json:"pos_a"`
	PosB      float64 `json:"pos_b"`
}

// InitialState is the t=0 state vector.
func (sc Scenario) InitialState() State {
	return State{sc.PosA, sc.PosB, sc.VelocityA, sc.VelocityB}
}

// Initial is the t=0 state as a Sample.
func (sc Scenario) Initial() Sample {
	return sc.InitialState().Sample()
}

// ContactRadii converts the render radii to meters.
func (sc Scenario) ContactRadii(pixelsPerMeter float64) (float64, float64) {
	return sc.RadiusA / pixelsPerMeter, sc.RadiusB / pixelsPerMeter
}

// Momentum returns the total momentum of a sample under the scenario masses.
func (sc Scenario) Momentum(s Sample) float64 {
	return sc.MassA*s.VelocityA + sc.MassB*s.VelocityB
}

// KineticEnergy returns the total kinetic energy of a sample.
func (sc Scenario) KineticEnergy(s Sample) float64 {
	return 0.5*sc.MassA*s.VelocityA*s.VelocityA + 0.5*sc.MassB*s.VelocityB*s.VelocityB
}

// Sample is one trajectory entry.
type Sample struct {
	PositionA float64 `json:"position_a"`
	PositionB float64 `json:"position_b"`
	VelocityA float64 `json:"velocity_a"`
	VelocityB float64 `json:"velocity_b"`
}

// Distance is the center-to-center distance.
func (s Sample) Distance() float64 {
	return math.Abs(s.PositionB - s.PositionA)
}

// Trajectory is the fixed-rate series produced by one simulation. Samples[i]
// holds the state after step i+1, i.e. at time (i+1)*Dt.
type Trajectory struct {
	Samples      []Sample
	Dt           float64
	ContactSteps []int
}

func (t Trajectory) Len() int { return len(t.Samples) }

// Time returns the simulation time of entry i.
func (t Trajectory) Time(i int) float64 {
	return float64(i+1) * t.Dt
}

// HasContact reports whether any impulse was applied during the run.
func (t Trajectory) HasContact() bool { return len(t.ContactSteps) > 0 }

// Last returns the final sample. The trajectory must be non-empty.
func (t Trajectory) Last() Sample { return t.Samples[len(t.Samples)-1] }

// CollisionModel selects the contact response.
type CollisionModel int

const (
	Elastic CollisionModel = iota
	Inelastic
)

func (m CollisionModel) String() string {
	switch m {
	case Elastic:
		return "elastic"
	case Inelastic:
		return "inelastic"
	default:
		return fmt.Sprintf("CollisionModel(%d)", int(m))
	}
}

// Restitution returns 1 for elastic contact and partial otherwise.
func (m CollisionModel) Restitution(partial float64) float64 {
	if m == Elastic {
		return 1.0
	}
	return partial
}

func ParseCollisionModel(s string) (CollisionModel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "elastic":
		return Elastic, nil
	case "inelastic":
		return Inelastic, nil
	default:
		return Elastic, fmt.Errorf("unknown collision type %q: %w", s, ErrConfiguration)
	}
}

// World is the visible 1D strip the bodies move in.
type World struct {
	Width          float64
	PixelsPerMeter float64
}

// Contains reports whether a body of radius r (meters) centered at x lies
// fully inside the world.
func (w World) Contains(x, r float64) bool {
	return r <= x && x <= w.Width-r
}

type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
}

// Hamiltonian systems report their total energy. The simulator uses it to
// report the energy lost to contacts.
type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// Resolver applies a contact response to x in place and reports whether an
// impulse was applied.
type Resolver interface {
	Resolve(x State) bool
}

type Metric interface {
	Name() string
	Observe(s Sample, t float64)
	Value() float64
	Reset()
}

// ContactObserver is implemented by metrics that want contact events.
type ContactObserver interface {
	OnContact(step int, t float64)
}

