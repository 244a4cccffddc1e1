package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// theme is the palette for one colour mode.
type theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Selected   lipgloss.Color
	IsDark     bool
}

var (
	warningColor = lipgloss.Color("#FFC107")
	errorColor   = lipgloss.Color("#E53935")
	overdueColor = lipgloss.Color("#E57373")
)

func lightTheme() theme {
	return theme{
		Foreground: lipgloss.Color("#101F38"),
		Primary:    lipgloss.Color("#1F4E8C"),
		Accent:     lipgloss.Color("#2E7D32"),
		Muted:      lipgloss.Color("#6B7280"),
		Border:     lipgloss.Color("#C9CED6"),
		Selected:   lipgloss.Color("#DCE8F7"),
	}
}

func darkTheme() theme {
	return theme{
		Foreground: lipgloss.Color("#F2F2F2"),
		Primary:    lipgloss.Color("#8BC34A"),
		Accent:     lipgloss.Color("#4DB6AC"),
		Muted:      lipgloss.Color("#8A94A6"),
		Border:     lipgloss.Color("#2A3850"),
		Selected:   lipgloss.Color("#1E2A3D"),
		IsDark:     true,
	}
}

type styles struct {
	Title   lipgloss.Style
	Badge   lipgloss.Style
	Panel   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Status  lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Overdue lipgloss.Style
	Focused lipgloss.Style
	Table   table.Styles
}

func newStyles(t theme) styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Foreground(t.Primary).
		Bold(true)
	ts.Cell = ts.Cell.Foreground(t.Foreground)
	ts.Selected = ts.Selected.
		Foreground(t.Primary).
		Background(t.Selected).
		Bold(true)

	return styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),
		Badge: lipgloss.NewStyle().
			Foreground(t.Accent).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Foreground(t.Muted).
			Width(7),
		Muted: lipgloss.NewStyle().
			Foreground(t.Muted),
		Status: lipgloss.NewStyle().
			Foreground(t.Accent),
		Warning: lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true),
		Overdue: lipgloss.NewStyle().
			Foreground(overdueColor),
		Focused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
		Table: ts,
	}
}
