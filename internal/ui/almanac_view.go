package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sextant/internal/astro"
	"github.com/litescript/ls-sextant/internal/ephem"
	"github.com/litescript/ls-sextant/internal/state"
)

// almanacBodies is the page rotation order.
var almanacBodies = []string{"sun", "moon", "venus", "mars", "jupiter", "saturn"}

// AlmanacModel renders daily almanac pages and twilight times.
type AlmanacModel struct {
	width  int
	height int

	bodyIdx int
	date    time.Time

	page    *ephem.Page
	pageErr error
	loading bool

	observer     astro.Position
	twilight     *ephem.TwilightTimes
	twilightErr  error
	showTwilight bool
}

// NewAlmanacModel creates a new almanac model.
func NewAlmanacModel() AlmanacModel {
	return AlmanacModel{
		date:     time.Now().UTC().Truncate(24 * time.Hour),
		observer: astro.Position{LatDeg: 40.7128, LonDeg: -74.0060},
	}
}

// SetSize updates the viewport size.
func (m AlmanacModel) SetSize(width, height int) AlmanacModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData picks up the fix position as the twilight observer.
func (m AlmanacModel) UpdateData(snapshot state.Snapshot) AlmanacModel {
	if snapshot.Fix != nil {
		m.observer = snapshot.Fix.Position
	}
	return m
}

// SetPage stores a computed daily page.
func (m AlmanacModel) SetPage(page ephem.Page, err error) AlmanacModel {
	m.loading = false
	m.pageErr = err
	if err == nil {
		m.page = &page
	}
	return m
}

// Update handles key messages for the almanac view.
func (m AlmanacModel) Update(msg tea.Msg, p ephem.Provider) (AlmanacModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "b":
		m.bodyIdx = (m.bodyIdx + 1) % len(almanacBodies)
		return m.requestPage(p)
	case "B":
		m.bodyIdx = (m.bodyIdx - 1 + len(almanacBodies)) % len(almanacBodies)
		return m.requestPage(p)
	case "]":
		m.date = m.date.Add(24 * time.Hour)
		return m.requestPage(p)
	case "[":
		m.date = m.date.Add(-24 * time.Hour)
		return m.requestPage(p)
	case "t":
		m.showTwilight = !m.showTwilight
		if m.showTwilight {
			tw, err := ephem.Twilight(p, m.observer, m.date)
			m.twilight, m.twilightErr = &tw, err
		}
	case "enter":
		return m.requestPage(p)
	}
	return m, nil
}

func (m AlmanacModel) requestPage(p ephem.Provider) (AlmanacModel, tea.Cmd) {
	m.loading = true
	body := almanacBodies[m.bodyIdx]
	date := m.date
	return m, func() tea.Msg {
		page, err := ephem.DailyPage(p, body, date)
		return almanacMsg{page: page, err: err}
	}
}

// View renders the almanac page.
func (m AlmanacModel) View() string {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#14B8A6")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	var b strings.Builder
	b.WriteString(headerStyle.Render("  ALMANAC"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("   %s · %s",
		strings.ToUpper(almanacBodies[m.bodyIdx]), m.date.Format("2006-01-02"))))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(dimStyle.Render("  Computing daily page..."))
		b.WriteString("\n")
	case m.pageErr != nil:
		b.WriteString(errStyle.Render(fmt.Sprintf("  Error: %v", m.pageErr)))
		b.WriteString("\n")
	case m.page == nil:
		b.WriteString(dimStyle.Render("  Press [enter] to compute the daily page, [b]/[B] to change body."))
		b.WriteString("\n")
	default:
		m.renderPage(&b, dimStyle)
	}

	if m.showTwilight {
		b.WriteString("\n")
		m.renderTwilight(&b, headerStyle, dimStyle, errStyle)
	}

	return b.String()
}

func (m AlmanacModel) renderPage(b *strings.Builder, dimStyle lipgloss.Style) {
	b.WriteString(dimStyle.Render("  UT     GHA          Dec          SD      HP"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 48)))
	b.WriteString("\n")

	// Fit rows to the viewport, sampling every other hour when cramped
	step := 1
	if m.height > 0 && len(m.page.Rows) > m.height-8 {
		step = 2
	}
	for i := 0; i < len(m.page.Rows); i += step {
		r := m.page.Rows[i]
		sd := "  -  "
		if r.SDDeg > 0 {
			sd = fmt.Sprintf("%4.1f'", r.SDDeg*60)
		}
		hp := "  -  "
		if r.HPDeg > 0 {
			hp = fmt.Sprintf("%4.1f'", r.HPDeg*60)
		}
		fmt.Fprintf(b, "  %02dh   %-12s %-12s %s   %s\n",
			r.UT.Hour(),
			astro.FormatDMS(r.GHADeg, ' ', ' '),
			astro.FormatDMS(r.DecDeg, 'N', 'S'),
			sd, hp)
	}
}

func (m AlmanacModel) renderTwilight(b *strings.Builder, headerStyle, dimStyle, errStyle lipgloss.Style) {
	b.WriteString(headerStyle.Render("  TWILIGHT"))
	b.WriteString(dimStyle.Render("   " + m.observer.String()))
	b.WriteString("\n")

	if m.twilightErr != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("  Error: %v", m.twilightErr)))
		b.WriteString("\n")
		return
	}
	if m.twilight == nil {
		return
	}

	row := func(label string, t time.Time) {
		val := "none"
		if !t.IsZero() {
			val = t.Format("15:04:05") + " UT"
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %-22s %s", label, val)))
		b.WriteString("\n")
	}
	row("Nautical dawn:", m.twilight.NauticalDawn)
	row("Civil dawn:", m.twilight.CivilDawn)
	row("Sunrise:", m.twilight.Sunrise)
	row("Sunset:", m.twilight.Sunset)
	row("Civil dusk:", m.twilight.CivilDusk)
	row("Nautical dusk:", m.twilight.NauticalDusk)
}
