package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the interactive viewer.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
	Pump      lipgloss.Color
	Signal    lipgloss.Color
}

var (
	ThemeRetro = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Muted:     lipgloss.Color("#005500"),
		Pump:      lipgloss.Color("#00ff00"),
		Signal:    lipgloss.Color("#ffff00"),
	}

	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
		Accent:    lipgloss.Color("#ffff00"),
		Muted:     lipgloss.Color("#666666"),
		Pump:      lipgloss.Color("#00ffff"),
		Signal:    lipgloss.Color("#ff00ff"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Muted:     lipgloss.Color("#888888"),
		Pump:      lipgloss.Color("#ffffff"),
		Signal:    lipgloss.Color("#0088ff"),
	}
)

var Themes = []Theme{ThemeRetro, ThemeCyberpunk, ThemeMinimal}

// NextTheme returns the theme after current, wrapping around.
func NextTheme(current string) Theme {
	for i, t := range Themes {
		if t.Name == current {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
