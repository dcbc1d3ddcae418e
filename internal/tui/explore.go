package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/helixtrack/internal/cartesian"
	"github.com/san-kum/helixtrack/internal/helix"
	"github.com/san-kum/helixtrack/internal/transform"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

var defaultSteps = [helix.NumParams]float64{1e-3, 0.05, 0.05, 0.01, 0.05}

type model struct {
	tr      transform.Transform
	params  helix.Parameters
	initial helix.Parameters
	cov     helix.Covariance
	steps   [helix.NumParams]float64
	cursor  int

	width  int
	height int
}

// NewExplorer starts from par with a fixed covariance cov. Neither is
// modified; the explorer works on copies.
func NewExplorer(tr transform.Transform, par helix.Parameters, cov helix.Covariance) *model {
	return &model{
		tr:      tr,
		params:  par.Clone(),
		initial: par.Clone(),
		cov:     cov.Clone(),
		steps:   defaultSteps,
		width:   80,
		height:  24,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < helix.NumParams-1 {
			m.cursor++
		}
	case "left", "h":
		m.nudge(-1)
	case "right", "l":
		m.nudge(+1)
	case "]":
		m.steps[m.cursor] *= 10
	case "[":
		m.steps[m.cursor] /= 10
	case "r":
		m.params.CopyFrom(m.initial)
		m.steps = defaultSteps
	}
	return m, nil
}

func (m *model) nudge(dir float64) {
	p := helix.Params[m.cursor]
	x := m.params.At(p) + dir*m.steps[m.cursor]
	if p == helix.Phi0 {
		x = helix.WrapPhi(x)
	}
	m.params.Set(p, x)
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(cyan.Bold(true).Render("helix explorer") + "  " + dim.Render(fmt.Sprintf("k = %.6g", m.tr.Field().CurvatureScale())) + "\n\n")

	for i, p := range helix.Params {
		marker, style := "  ", white
		if i == m.cursor {
			marker, style = magenta.Render("▸ "), magenta
		}
		fmt.Fprintf(&b, "%s%s %s %s %s\n", marker,
			style.Render(fmt.Sprintf("%-7s", p)),
			style.Render(fmt.Sprintf("%12.6g", m.params.At(p))),
			dim.Render(fmt.Sprintf("± %.3g", m.cov.Error(p))),
			dim.Render(fmt.Sprintf("step %.0e", m.steps[i])))
	}
	b.WriteString("\n")

	if err := m.params.Validate(); err != nil {
		b.WriteString(red.Render(err.Error()) + "\n")
	}

	s := m.tr.ToCartesian(m.params)
	fmt.Fprintf(&b, "%s %+d   %s %s\n", dim.Render("charge"), s.Charge, dim.Render("pt"), white.Render(fmt.Sprintf("%.6g", s.Pt())))
	fmt.Fprintf(&b, "%s %s\n", dim.Render("p     "), vec(s.Momentum.X, s.Momentum.Y, s.Momentum.Z))
	fmt.Fprintf(&b, "%s %s\n", dim.Render("vertex"), vec(s.Position.X, s.Position.Y, s.Position.Z))

	pm := m.tr.PosMomError(m.params, m.cov)
	b.WriteString(dim.Render("σ      "))
	for _, c := range cartesian.Coords {
		b.WriteString(fmt.Sprintf("%s=%.2e ", c, pm.Sigma(c)))
	}
	b.WriteString("\n")

	dev := m.tr.RoundTripDeviation(m.params)
	rt := green.Render(fmt.Sprintf("%.1e", dev))
	if !(dev < 1e-9) {
		rt = red.Render(fmt.Sprintf("%.1e", dev))
	}
	fmt.Fprintf(&b, "%s %s\n\n", dim.Render("round trip"), rt)

	b.WriteString(dim.Render("↑↓ select  ←→ adjust  [ ] step  r reset  q quit"))
	return b.String()
}

func vec(x, y, z float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return red.Render(fmt.Sprintf("(%.4g, %.4g, %.4g)", x, y, z))
	}
	return white.Render(fmt.Sprintf("(%.6g, %.6g, %.6g)", x, y, z))
}

func RunExplorer(tr transform.Transform, par helix.Parameters, cov helix.Covariance) error {
	p := tea.NewProgram(NewExplorer(tr, par, cov), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
