package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/collisiongen/internal/dynamo"
	"github.com/san-kum/collisiongen/internal/frame"
	"github.com/san-kum/collisiongen/internal/sim"
)

var (
	world  = dynamo.World{Width: 14, PixelsPerMeter: 50}
	headOn = dynamo.Scenario{MassA: 3, MassB: 2, VelocityA: 5, VelocityB: -4, RadiusA: 30, RadiusB: 25.5, PosA: 2, PosB: 12}
)

func simulated(t *testing.T) (dynamo.Trajectory, frame.Selection) {
	t.Helper()
	traj, err := sim.Simulate(headOn, dynamo.Elastic, 0.5, world, 0.1, 30)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	return traj, frame.NewSelector(world, frame.DefaultSeparation).Explain(headOn, traj)
}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(100, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8, got %U", c.Grid[0][1])
	}

	c.Clear()
	if strings.TrimSpace(strings.ReplaceAll(c.String(), "\u2800", "")) != "" {
		t.Error("expected blank canvas after clear")
	}
}

func TestCanvasShapes(t *testing.T) {
	c := NewCanvas(20, 5)
	c.Circle(20, 10, 6)
	c.Disc(5, 10, 3)

	lit := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("shapes drew nothing")
	}
	// circle center stays dark
	if c.Grid[10/4][20/2]&rune(pixelMap[10%4][20%2]) != 0 {
		t.Error("circle outline should not fill its center")
	}
}

func TestModelPlayback(t *testing.T) {
	traj, sel := simulated(t)
	m := NewModel(headOn, dynamo.Elastic, traj, sel, world, 10)

	if m.Frame() != -1 {
		t.Fatalf("expected playback to start at t=0, got frame %d", m.Frame())
	}

	var model tea.Model = m
	for i := 0; i < traj.Len()+5; i++ {
		model, _ = model.Update(TickMsg{})
	}
	m = model.(Model)
	if m.Frame() != traj.Len()-1 || m.Running() {
		t.Errorf("expected to stop at last frame, got %d running=%v", m.Frame(), m.Running())
	}

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	m = model.(Model)
	if m.Frame() != sel.Index {
		t.Errorf("expected jump to frame %d, got %d", sel.Index, m.Frame())
	}

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")})
	if got := model.(Model).Frame(); got != sel.Index-1 {
		t.Errorf("expected step back to %d, got %d", sel.Index-1, got)
	}

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if got := model.(Model); got.Frame() != -1 || !got.Running() {
		t.Error("restart should rewind and resume")
	}
}

func TestModelView(t *testing.T) {
	traj, sel := simulated(t)
	m := NewModel(headOn, dynamo.Elastic, traj, sel, world, 10)
	m.seek(sel.Index)

	view := m.View()
	for _, want := range []string{"ELASTIC COLLISION", "final frame", "Momentum"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummary(t *testing.T) {
	traj, sel := simulated(t)
	out := Summary(Run{
		Scenario:   headOn,
		Model:      dynamo.Elastic,
		Trajectory: traj,
		Selection:  sel,
		Metrics:    map[string]float64{"contacts": 1, "visibility": 1},
	})

	for _, want := range []string{"ELASTIC COLLISION", "-2.20 m/s", "+6.80 m/s", "separated", "contacts"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPlots(t *testing.T) {
	traj, _ := simulated(t)

	if PlotPositions(traj) == "" || PlotVelocities(traj) == "" {
		t.Error("expected non-empty charts")
	}
	if PlotDistance(traj, 1, 4, 30) != "" {
		t.Error("a single point should not be charted")
	}
	if PlotPositions(dynamo.Trajectory{}) != "" {
		t.Error("empty trajectory should not be charted")
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme("classic")

	NextTheme()
	if CurrentTheme.Name != "retro" {
		t.Errorf("expected retro after classic, got %s", CurrentTheme.Name)
	}
	SetTheme("missing")
	if CurrentTheme.Name != "classic" {
		t.Errorf("unknown theme should fall back to classic, got %s", CurrentTheme.Name)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names out of sync")
	}
}
