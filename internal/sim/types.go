package sim

import (
	"math"

	"github.com/san-kum/collisiongen/internal/dynamo"
)

type Config struct {
	Dt    float64
	Steps int
}

// NewConfig derives the fixed step from the sample rate and the step count
// from round(duration * rate).
func NewConfig(sampleRateHz, duration float64) Config {
	return Config{
		Dt:    1.0 / sampleRateHz,
		Steps: int(math.Round(duration * sampleRateHz)),
	}
}

type Result struct {
	Trajectory dynamo.Trajectory
	Metrics    map[string]float64
}
