package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sextant/internal/sight"
	"github.com/litescript/ls-sextant/internal/state"
)

// FixModel renders the position fix panel.
type FixModel struct {
	width  int
	height int

	fix   *sight.Fix
	lines []sight.SightLine
}

// NewFixModel creates a new fix panel model.
func NewFixModel() FixModel {
	return FixModel{}
}

// SetSize updates the viewport size.
func (m FixModel) SetSize(width, height int) FixModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates with a new session snapshot.
func (m FixModel) UpdateData(snapshot state.Snapshot) FixModel {
	m.fix = snapshot.Fix
	return m
}

// SetLines records the sight lines the current fix was computed from.
func (m FixModel) SetLines(lines []sight.SightLine) FixModel {
	m.lines = lines
	return m
}

// Update handles messages for the fix panel.
func (m FixModel) Update(msg tea.Msg) (FixModel, tea.Cmd) {
	return m, nil
}

// qualityStyle maps fix quality to a display color.
func qualityStyle(q sight.Quality) lipgloss.Style {
	switch q {
	case sight.QualityExcellent:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#6EE7B7")).Bold(true)
	case sight.QualityGood:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#14B8A6"))
	case sight.QualityFair:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	}
}

// View renders the fix panel.
func (m FixModel) View() string {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#14B8A6")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	var b strings.Builder
	b.WriteString(headerStyle.Render("  POSITION FIX"))
	b.WriteString("\n\n")

	if m.fix == nil {
		b.WriteString(dimStyle.Render("  No fix computed. Log at least two sights, then press [F]."))
		b.WriteString("\n")
		return b.String()
	}
	fix := *m.fix

	b.WriteString(dimStyle.Render("  Position:   "))
	b.WriteString(valueStyle.Render(fix.Position.String()))
	b.WriteString("\n")

	b.WriteString(dimStyle.Render("  Quality:    "))
	b.WriteString(qualityStyle(fix.Quality).Render(strings.ToUpper(fix.Quality.String())))
	b.WriteString(dimStyle.Render(fmt.Sprintf("   geometry %.1f · rmse %.2f nm · %d lines",
		fix.GeometricFactor, fix.RMSENm, fix.Lines)))
	b.WriteString("\n")

	b.WriteString(dimStyle.Render("  Ellipse:    "))
	b.WriteString(dimStyle.Render(fmt.Sprintf("%.1f × %.1f nm @ %03.0f° (%.0f%% confidence)",
		fix.Ellipse.SemiMajorNm, fix.Ellipse.SemiMinorNm,
		fix.Ellipse.OrientationDeg, fix.Ellipse.ConfidencePct)))
	b.WriteString("\n")

	if !fix.Converged {
		b.WriteString(warnStyle.Render("  ⚠ Solver did not converge; treat the position as approximate."))
		b.WriteString("\n")
	}

	if len(m.lines) > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %-10s %8s %9s %10s", "Body", "Azimuth", "Intercept", "Residual")))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 44)))
		b.WriteString("\n")
		for i, l := range m.lines {
			residual := "      -"
			if i < len(fix.ResidualsNm) {
				residual = fmt.Sprintf("%+7.2f nm", fix.ResidualsNm[i])
			}
			b.WriteString(fmt.Sprintf("  %-10s %6.1f° %6.1f nm %s\n",
				truncate(l.Body, 10), l.AzimuthDeg, l.InterceptNm, residual))
		}
	}

	return b.String()
}
