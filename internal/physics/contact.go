package physics

import "github.com/san-kum/collisiongen/internal/dynamo"

// Contact resolves a single 1D contact between two circles.
type Contact struct {
	MassA       float64
	MassB       float64
	RadiusA     float64 // meters
	RadiusB     float64 // meters
	Restitution float64
}

// NewContact builds the resolver for a scenario. Radii are converted from
// render units with pixelsPerMeter.
func NewContact(sc dynamo.Scenario, restitution, pixelsPerMeter float64) *Contact {
	ra, rb := sc.ContactRadii(pixelsPerMeter)
	return &Contact{
		MassA:       sc.MassA,
		MassB:       sc.MassB,
		RadiusA:     ra,
		RadiusB:     rb,
		Restitution: restitution,
	}
}

// Overlapping reports whether the circles touch or overlap. A starts left of
// B, so a negative gap means one step carried the bodies through each other
// and still counts as contact.
func (c *Contact) Overlapping(x dynamo.State) bool {
	return x[dynamo.IdxPosB]-x[dynamo.IdxPosA] <= c.RadiusA+c.RadiusB
}

// Resolve applies the impulse when the bodies overlap and approach, then
// moves them back to touching. It returns true if an impulse was applied.
func (c *Contact) Resolve(x dynamo.State) bool {
	if !c.Overlapping(x) {
		return false
	}

	invA, invB := 1/c.MassA, 1/c.MassB

	applied := false
	// contact normal points from A to B along +x
	closing := x[dynamo.IdxVelB] - x[dynamo.IdxVelA]
	if closing < 0 {
		j := -(1 + c.Restitution) * closing
		j /= invA + invB

		x[dynamo.IdxVelA] -= j * invA
		x[dynamo.IdxVelB] += j * invB
		applied = true
	}

	c.correctPositions(x, invA, invB)
	return applied
}

func (c *Contact) correctPositions(x dynamo.State, invA, invB float64) {
	penetration := c.RadiusA + c.RadiusB - (x[dynamo.IdxPosB] - x[dynamo.IdxPosA])
	if penetration <= 0 {
		return
	}

	correction := penetration / (invA + invB)
	x[dynamo.IdxPosA] -= correction * invA
	x[dynamo.IdxPosB] += correction * invB
}

// PostCollision returns the closed-form 1D velocities after a contact with
// restitution e.
func PostCollision(massA, massB, va, vb, e float64) (float64, float64) {
	total := massA + massB
	pa := (massA*va + massB*vb - massB*e*(va-vb)) / total
	pb := (massA*va + massB*vb + massA*e*(va-vb)) / total
	return pa, pb
}
