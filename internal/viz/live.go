package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/collisiongen/internal/dynamo"
	"github.com/san-kum/collisiongen/internal/frame"
)

const (
	width  = 80
	height = 12
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	markStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model plays back a finished trajectory. Frame -1 is the scenario's t=0
// state; frame i is trajectory sample i.
type Model struct {
	sc       dynamo.Scenario
	model    dynamo.CollisionModel
	traj     dynamo.Trajectory
	sel      frame.Selection
	world    dynamo.World
	canvas   *Canvas
	frame    int
	running  bool
	showHelp bool
	interval time.Duration
}

func NewModel(sc dynamo.Scenario, model dynamo.CollisionModel, traj dynamo.Trajectory, sel frame.Selection, world dynamo.World, fps int) Model {
	if fps <= 0 {
		fps = 10
	}
	return Model{
		sc:       sc,
		model:    model,
		traj:     traj,
		sel:      sel,
		world:    world,
		canvas:   NewCanvas(width, height),
		frame:    -1,
		running:  true,
		interval: time.Second / time.Duration(fps),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.atEnd() {
				m.frame = -1
			}
			m.running = !m.running
		case "r":
			m.frame = -1
			m.running = true
		case "[":
			m.running = false
			m.seek(m.frame - 1)
		case "]":
			m.running = false
			m.seek(m.frame + 1)
		case "f":
			m.running = false
			m.seek(m.sel.Index)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.seek(m.frame + 1)
			if m.atEnd() {
				m.running = false
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) seek(i int) {
	m.frame = max(-1, min(i, m.traj.Len()-1))
}

func (m Model) atEnd() bool {
	return m.frame >= m.traj.Len()-1
}

// Frame is the current playback position.
func (m Model) Frame() int { return m.frame }

func (m Model) Running() bool { return m.running }

func (m Model) current() (dynamo.Sample, float64) {
	if m.frame < 0 {
		return m.sc.Initial(), 0
	}
	return m.traj.Samples[m.frame], m.traj.Time(m.frame)
}

func (m Model) View() string {
	s, t := m.current()
	m.draw(s)
	canvasView := canvasStyle.Render(m.canvas.String())

	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.ToUpper(m.model.String())+" COLLISION") + "\n")

	status := "PLAYING"
	switch {
	case m.atEnd():
		status = "END"
	case !m.running:
		status = "PAUSED"
	}
	b.WriteString(status + "\n")
	switch m.frame {
	case m.sel.Index:
		b.WriteString(markStyle.Render(fmt.Sprintf("◆ final frame (%s)", m.sel.Pass)) + "\n")
	case m.sel.CollisionIndex:
		b.WriteString(markStyle.Render("◆ closest approach") + "\n")
	default:
		b.WriteString("\n")
	}

	if chart := PlotDistance(m.traj, m.frame+1, 4, 30); chart != "" {
		b.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", t))
	row("Frame", fmt.Sprintf("%d/%d", m.frame+1, m.traj.Len()))
	b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.BallA).Render("A") + " ")
	row("", fmt.Sprintf("x=%.2f v=%+.2f", s.PositionA, s.VelocityA))
	b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.BallB).Render("B") + " ")
	row("", fmt.Sprintf("x=%.2f v=%+.2f", s.PositionB, s.VelocityB))
	row("Momentum", fmt.Sprintf("%.3f", m.sc.Momentum(s)))
	row("Kinetic", fmt.Sprintf("%.3f J", m.sc.KineticEnergy(s)))

	b.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Restart Q:Quit\n[ ]:Step F:Final T:Theme ?:Help"))
	statsView := statsStyle.Render(b.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume playback    ║
║  R        - Restart from t=0         ║
║  [        - Step one frame back      ║
║  ]        - Step one frame forward   ║
║  F        - Jump to final frame      ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// draw projects the strip onto the canvas: the world spans the full width
// and the balls sit on the center line. A is drawn filled, B as an outline.
func (m Model) draw(s dynamo.Sample) {
	m.canvas.Clear()
	cw, ch := m.canvas.Dots()
	scale := float64(cw-1) / m.world.Width
	cy := ch / 2

	ra, rb := m.sc.ContactRadii(m.world.PixelsPerMeter)
	m.canvas.Disc(int(math.Round(s.PositionA*scale)), cy, max(1, int(math.Round(ra*scale))))
	m.canvas.Circle(int(math.Round(s.PositionB*scale)), cy, max(1, int(math.Round(rb*scale))))

	m.canvas.DrawLine(0, ch-1, cw-1, ch-1)
	m.canvas.DrawLine(0, 0, 0, ch-1)
	m.canvas.DrawLine(cw-1, 0, cw-1, ch-1)
}
