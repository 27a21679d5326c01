package metrics

import "github.com/san-kum/collisiongen/internal/dynamo"

// Visibility is the fraction of samples in which both bodies lie fully
// inside the world.
type Visibility struct {
	name    string
	world   dynamo.World
	ra, rb  float64
	visible int
	samples int
}

func NewVisibility(sc dynamo.Scenario, world dynamo.World) *Visibility {
	ra, rb := sc.ContactRadii(world.PixelsPerMeter)
	return &Visibility{
		name:  "visibility",
		world: world,
		ra:    ra,
		rb:    rb,
	}
}

func (v *Visibility) Name() string {
	return v.name
}

func (v *Visibility) Observe(s dynamo.Sample, t float64) {
	v.samples++
	if v.world.Contains(s.PositionA, v.ra) && v.world.Contains(s.PositionB, v.rb) {
		v.visible++
	}
}

func (v *Visibility) Value() float64 {
	if v.samples == 0 {
		return 1.0
	}
	return float64(v.visible) / float64(v.samples)
}

func (v *Visibility) Reset() {
	v.visible = 0
	v.samples = 0
}
