package viz

import (
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/collisiongen/internal/dynamo"
)

const (
	plotHeight = 10
	plotWidth  = 60
)

func series(traj dynamo.Trajectory, pick func(dynamo.Sample) float64) []float64 {
	out := make([]float64, traj.Len())
	for i, s := range traj.Samples {
		out[i] = pick(s)
	}
	return out
}

// PlotPositions charts both centers over time, A in red and B in blue.
func PlotPositions(traj dynamo.Trajectory) string {
	if traj.Len() < 2 {
		return ""
	}
	return asciigraph.PlotMany(
		[][]float64{
			series(traj, func(s dynamo.Sample) float64 { return s.PositionA }),
			series(traj, func(s dynamo.Sample) float64 { return s.PositionB }),
		},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.Caption("position (m): A red, B blue"),
	)
}

func PlotVelocities(traj dynamo.Trajectory) string {
	if traj.Len() < 2 {
		return ""
	}
	return asciigraph.PlotMany(
		[][]float64{
			series(traj, func(s dynamo.Sample) float64 { return s.VelocityA }),
			series(traj, func(s dynamo.Sample) float64 { return s.VelocityB }),
		},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.Caption("velocity (m/s): A red, B blue"),
	)
}

// PlotDistance charts center distance for the first n samples.
func PlotDistance(traj dynamo.Trajectory, n, height, width int) string {
	n = min(n, traj.Len())
	if n < 2 {
		return ""
	}
	return asciigraph.Plot(
		series(traj, dynamo.Sample.Distance)[:n],
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("distance (m)"),
	)
}
