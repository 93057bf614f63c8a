package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sextant/internal/state"
)

// SightLogModel renders the table of logged sights.
type SightLogModel struct {
	width  int
	height int

	cursor int
	sights []state.LoggedSight
	events []state.Event
}

// NewSightLogModel creates a new sight log model.
func NewSightLogModel() SightLogModel {
	return SightLogModel{}
}

// SetSize updates the viewport size.
func (m SightLogModel) SetSize(width, height int) SightLogModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates with a new session snapshot.
func (m SightLogModel) UpdateData(snapshot state.Snapshot) SightLogModel {
	m.sights = snapshot.Sights
	m.events = snapshot.Events
	if m.cursor >= len(m.sights) {
		m.cursor = 0
	}
	return m
}

// Update handles key messages for the sight log.
func (m SightLogModel) Update(msg tea.Msg, mgr *state.Manager) (SightLogModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "j", "down":
		if m.cursor < len(m.sights)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "d":
		if m.cursor < len(m.sights) {
			mgr.DiscardSight(m.sights[m.cursor].ID)
			m = m.UpdateData(mgr.Snapshot())
		}
	}
	return m, nil
}

// View renders the sight log table.
func (m SightLogModel) View() string {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#14B8A6")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	towardStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6EE7B7"))
	awayStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	var b strings.Builder
	b.WriteString(headerStyle.Render("  SIGHT LOG"))
	b.WriteString("\n\n")

	if len(m.sights) == 0 {
		b.WriteString(dimStyle.Render("  No sights logged. Press [g] to generate a practice sight."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("  %-3s %-10s %-17s %-10s %9s %8s %5s",
		"", "Body", "Time (UT)", "Observed", "Intercept", "Azimuth", "")))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 68)))
	b.WriteString("\n")

	for i, s := range m.sights {
		marker := "  "
		rowStyle := lipgloss.NewStyle()
		if i == m.cursor {
			marker = "▶ "
			rowStyle = selectedStyle
		}

		dir := "away"
		dirStyle := awayStyle
		if s.Result.Toward() {
			dir = "twd"
			dirStyle = towardStyle
		}

		row := fmt.Sprintf("%-3s%-10s %-17s %9.4f° %6.1f nm %6.1f° ",
			marker,
			truncate(s.Observation.Body, 10),
			s.Observation.Time.Format("01-02 15:04:05"),
			s.Observation.AltitudeDeg,
			absF(s.Result.InterceptNm),
			s.Result.AzimuthDeg,
		)
		b.WriteString("  " + rowStyle.Render(row) + dirStyle.Render(dir))
		b.WriteString("\n")
	}

	if len(m.events) > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  Recent activity:"))
		b.WriteString("\n")
		start := 0
		if len(m.events) > 4 {
			start = len(m.events) - 4
		}
		for _, e := range m.events[start:] {
			line := fmt.Sprintf("  %s  %-17s %s %s",
				e.Timestamp.Format("15:04:05"), e.Type, e.Body, e.Detail)
			b.WriteString(dimStyle.Render(line))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
