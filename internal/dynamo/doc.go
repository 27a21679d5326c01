// Package dynamo provides the core value types of a two-body collision run.
//
// The package defines the data flowing through the generation pipeline:
//
//   - [Scenario]: sampled masses, velocities, radii and start positions
//   - [Sample]: one recorded step of both bodies
//   - [Trajectory]: the fixed-rate series produced by a simulation
//   - [CollisionModel]: elastic or inelastic contact response
//   - [System], [Integrator], [Metric]: the seams the simulator is built from
//
// # Example
//
//	sc := sampler.Sample(cfg)
//	traj, _ := sim.Simulate(sc, dynamo.Elastic, 0.5, world, 0.1, 30)
//	idx := frame.NewSelector(world, 2.0).Select(sc, traj)
//
// # Thread Safety
//
// Scenario and Trajectory values are never mutated after construction and
// may be shared freely. Use [Ensemble] to fan independent runs out over
// goroutines with one seed per run.
package dynamo
