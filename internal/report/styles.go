package report

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888899"))

	Value = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00ccff")).
		Bold(true)

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	Good = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ff88"))

	Bad = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ff4444"))
)

// Plain disables styling.
var Plain bool

func render(s lipgloss.Style, text string) string {
	if Plain {
		return text
	}
	return s.Render(text)
}

func panel(text string) string {
	if Plain {
		return text
	}
	return Panel.Render(text)
}

// Verdict renders ok/FAIL with the pass colour.
func Verdict(ok bool) string {
	if ok {
		return render(Good, "ok")
	}
	return render(Bad, "FAIL")
}
