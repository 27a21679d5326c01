package export

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/san-kum/collisiongen/internal/dynamo"
	"github.com/san-kum/collisiongen/internal/render"
)

// SpaceTimeOptions controls the layout of a space-time diagram.
type SpaceTimeOptions struct {
	Width, Height int
	// Highlight marks one sample index with a horizontal rule, -1 for none.
	Highlight int
}

// SpaceTimeSVG draws both ball centers as paths with position on the x axis
// and time running downwards. Contact steps are marked with dots.
func SpaceTimeSVG(w io.Writer, traj dynamo.Trajectory, world dynamo.World, opts SpaceTimeOptions) error {
	if traj.Len() < 2 {
		return fmt.Errorf("trajectory too short for a diagram: %d samples", traj.Len())
	}
	width, height := float64(opts.Width), float64(opts.Height)
	tMax := traj.Time(traj.Len() - 1)

	x := func(pos float64) float64 { return pos / world.Width * width }
	y := func(t float64) float64 { return t / tMax * height }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, opts.Height, opts.Width, opts.Height, hex(render.Background))

	if opts.Highlight >= 0 && opts.Highlight < traj.Len() {
		hy := y(traj.Time(opts.Highlight))
		fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="4 4"/>
`, hy, opts.Width, hy, hex(render.ArrowColor))
	}

	path := func(pick func(dynamo.Sample) float64, c color.RGBA) {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, hex(c))
		for i, s := range traj.Samples {
			if i > 0 {
				sb.WriteString(" L")
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x(pick(s)), y(traj.Time(i)))
		}
		sb.WriteString("\"/>\n")
	}
	path(func(s dynamo.Sample) float64 { return s.PositionA }, render.ColorA)
	path(func(s dynamo.Sample) float64 { return s.PositionB }, render.ColorB)

	for _, i := range traj.ContactSteps {
		if i < 0 || i >= traj.Len() {
			continue
		}
		s := traj.Samples[i]
		mid := (s.PositionA + s.PositionB) / 2
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x(mid), y(traj.Time(i)), hex(render.Outline))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
