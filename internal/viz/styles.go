package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/collisiongen/internal/dynamo"
	"github.com/san-kum/collisiongen/internal/frame"
)

var (
	GlassPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(16)

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// Run is what Summary reports on.
type Run struct {
	Scenario   dynamo.Scenario
	Model      dynamo.CollisionModel
	Trajectory dynamo.Trajectory
	Selection  frame.Selection
	Metrics    map[string]float64
}

// Summary renders a bordered report: inputs, outcome at the selected frame,
// conservation and the run metrics.
func Summary(r Run) string {
	sc := r.Scenario
	var s strings.Builder

	s.WriteString(TitleStyle.Render(strings.ToUpper(r.Model.String())+" COLLISION") + "\n\n")

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	ball := func(name string, c lipgloss.Color, mass, vel float64) string {
		return lipgloss.NewStyle().Foreground(c).Render("●") + fmt.Sprintf(" %s %.2f kg @ %+.2f m/s", name, mass, vel)
	}

	s.WriteString(ball("A", CurrentTheme.BallA, sc.MassA, sc.VelocityA) + "\n")
	s.WriteString(ball("B", CurrentTheme.BallB, sc.MassB, sc.VelocityB) + "\n\n")

	if r.Trajectory.Len() > 0 {
		final := r.Trajectory.Samples[r.Selection.Index]
		row("final frame", fmt.Sprintf("%d (t=%.2fs, %s)", r.Selection.Index, r.Trajectory.Time(r.Selection.Index), r.Selection.Pass))
		row("closest", fmt.Sprintf("%d (t=%.2fs)", r.Selection.CollisionIndex, r.Trajectory.Time(r.Selection.CollisionIndex)))
		row("v_A final", fmt.Sprintf("%+.2f m/s", final.VelocityA))
		row("v_B final", fmt.Sprintf("%+.2f m/s", final.VelocityB))
		row("separation", fmt.Sprintf("%.2f m", final.Distance()))
		row("momentum", fmt.Sprintf("%.3f -> %.3f", sc.Momentum(sc.Initial()), sc.Momentum(final)))
		row("kinetic", fmt.Sprintf("%.3f -> %.3f J", sc.KineticEnergy(sc.Initial()), sc.KineticEnergy(final)))
	}

	if len(r.Metrics) > 0 {
		s.WriteString("\n" + Separator(36) + "\n")
		keys := make([]string, 0, len(r.Metrics))
		for k := range r.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			row(k, fmt.Sprintf("%.4g", r.Metrics[k]))
		}
		if v, ok := r.Metrics["visibility"]; ok {
			s.WriteString(MetricLabel.Render("") + ProgressBar(v, 20) + "\n")
		}
	}

	if r.Selection.Degenerate {
		s.WriteString("\n" + WarnStyle.Render("no contact recorded: fallback frame") + "\n")
	}
	if n := len(r.Trajectory.ContactSteps); n > 1 {
		s.WriteString("\n" + WarnStyle.Render(fmt.Sprintf("%d contacts in window", n)) + "\n")
	}

	return GlassPanel.Render(strings.TrimRight(s.String(), "\n"))
}

// ProgressBar renders a filled bar for a fraction in [0, 1].
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if percent > 0.8 {
		return SparkHigh.Render(bar)
	} else if percent > 0.4 {
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}

func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}
