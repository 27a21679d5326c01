// Package physics provides the two-body 1D collision model.
//
// [TwoBody] implements [dynamo.System] for free flight: no gravity, no
// friction, no angular terms, so the derivative of the state
// [posA, posB, velA, velB] is simply [velA, velB, 0, 0].
//
// [Contact] implements [dynamo.Resolver]. When the two circles overlap and
// approach each other it applies a closed-form impulse along the line of
// centers using the restitution coefficient, then pushes the bodies apart
// so the overlap does not carry into the next step.
//
// # Energy Conservation
//
// TwoBody also implements [dynamo.Hamiltonian], so simulator results carry
// an "energy_lost" metric: zero for elastic runs, positive for inelastic.
package physics
