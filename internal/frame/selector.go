// Package frame picks the representative post-collision frame of a
// trajectory.
//
// Selection runs three ordered passes and stops at the first that yields an
// index:
//
//  1. separated: scanning forward from the closest approach, the first step
//     where both bodies are fully visible and at least the separation
//     threshold apart.
//  2. visible: scanning backward from the last step down to (not including)
//     the closest approach, the first step where both bodies are visible.
//  3. fallback: closest approach + 10, clamped to the last step.
//
// The closest approach (argmin of center distance) stands in for the
// contact step. When a run contains more than one approach the global
// minimum is used.
package frame

import "github.com/san-kum/collisiongen/internal/dynamo"

const (
	DefaultSeparation = 2.0
	fallbackOffset    = 10
)

// Pass names the search pass that produced a selection.
type Pass string

const (
	PassSeparated Pass = "separated"
	PassVisible   Pass = "visible"
	PassFallback  Pass = "fallback"
)

// Selection is the outcome of a frame search.
type Selection struct {
	Index          int  `json:"index"`
	CollisionIndex int  `json:"collision_index"`
	Pass           Pass `json:"pass"`
	// Degenerate is set when the run recorded no contact.
	Degenerate bool `json:"degenerate"`
}

type Selector struct {
	world      dynamo.World
	separation float64
}

func NewSelector(world dynamo.World, separation float64) *Selector {
	return &Selector{world: world, separation: separation}
}

// Select returns the index of the final frame. The result is always a valid
// index for a non-empty trajectory.
func (s *Selector) Select(sc dynamo.Scenario, traj dynamo.Trajectory) int {
	return s.Explain(sc, traj).Index
}

// pass is one ordered search: indices yields candidates in scan order and
// accept tests each one.
type pass struct {
	name    Pass
	indices func(collisionIdx, n int) []int
	accept  func(i int) bool
}

// Explain runs the passes and reports which one matched.
func (s *Selector) Explain(sc dynamo.Scenario, traj dynamo.Trajectory) Selection {
	n := traj.Len()
	if n == 0 {
		return Selection{Pass: PassFallback, Degenerate: true}
	}

	distances := make([]float64, n)
	for i, smp := range traj.Samples {
		distances[i] = smp.Distance()
	}
	collisionIdx := argmin(distances)

	ra, rb := sc.ContactRadii(s.world.PixelsPerMeter)
	visible := func(i int) bool {
		smp := traj.Samples[i]
		return s.world.Contains(smp.PositionA, ra) && s.world.Contains(smp.PositionB, rb)
	}

	passes := []pass{
		{
			name:    PassSeparated,
			indices: forward,
			accept:  func(i int) bool { return visible(i) && distances[i] >= s.separation },
		},
		{
			name:    PassVisible,
			indices: backward,
			accept:  visible,
		},
		{
			name:    PassFallback,
			indices: offset,
			accept:  func(int) bool { return true },
		},
	}

	sel := Selection{CollisionIndex: collisionIdx, Degenerate: !traj.HasContact()}
	for _, p := range passes {
		for _, i := range p.indices(collisionIdx, n) {
			if p.accept(i) {
				sel.Index, sel.Pass = i, p.name
				return sel
			}
		}
	}

	// unreachable: the fallback pass always yields one index
	sel.Index, sel.Pass = n-1, PassFallback
	return sel
}

func forward(from, n int) []int {
	idx := make([]int, 0, n-from)
	for i := from; i < n; i++ {
		idx = append(idx, i)
	}
	return idx
}

func backward(to, n int) []int {
	idx := make([]int, 0, n)
	for i := n - 1; i > to; i-- {
		idx = append(idx, i)
	}
	return idx
}

func offset(collisionIdx, n int) []int {
	return []int{min(collisionIdx+fallbackOffset, n-1)}
}

// argmin returns the first index of the minimum value.
func argmin(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[best] {
			best = i
		}
	}
	return best
}
