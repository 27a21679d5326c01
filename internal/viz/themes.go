package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Muted   lipgloss.Color
	BallA   lipgloss.Color
	BallB   lipgloss.Color
	Arrow   lipgloss.Color
	Warning lipgloss.Color
}

var (
	// ThemeClassic matches the colors of the rendered PNG frames.
	ThemeClassic = Theme{
		Name:    "classic",
		Primary: lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		BallA:   lipgloss.Color("#dc3c3c"),
		BallB:   lipgloss.Color("#3c3cdc"),
		Arrow:   lipgloss.Color("#3cb43c"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"), // Green phosphor
		Muted:   lipgloss.Color("#005500"),
		BallA:   lipgloss.Color("#88ff88"),
		BallB:   lipgloss.Color("#00cc00"),
		Arrow:   lipgloss.Color("#ffff00"),
		Warning: lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		BallA:   lipgloss.Color("#ffd700"),
		BallB:   lipgloss.Color("#00a8cc"),
		Arrow:   lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffcc00"),
	}

	CurrentTheme = ThemeClassic

	Themes = []Theme{
		ThemeClassic,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeClassic
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
