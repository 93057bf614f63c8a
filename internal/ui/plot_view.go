package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sextant/internal/astro"
	"github.com/litescript/ls-sextant/internal/sight"
	"github.com/litescript/ls-sextant/internal/state"
)

const (
	// Terminal cells are roughly twice as tall as wide
	cellAspect = 2.0

	plotGlyphFix     = '⊕'
	plotGlyphAssumed = '·'
	plotGlyphLOP     = '─'

	minPlotScale = 0.5
	maxPlotScale = 50.0
)

// PlotModel renders a chartlet of lines of position around the fix.
type PlotModel struct {
	width  int
	height int

	// Chart center and scale
	centerLat float64
	centerLon float64
	nmPerCell float64
	centered  bool

	fix   *sight.Fix
	lines []sight.SightLine
}

// NewPlotModel creates a new plot model.
func NewPlotModel() PlotModel {
	return PlotModel{nmPerCell: 2.0}
}

// SetSize updates the viewport size.
func (m PlotModel) SetSize(width, height int) PlotModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates with a new session snapshot.
func (m PlotModel) UpdateData(snapshot state.Snapshot) PlotModel {
	m.fix = snapshot.Fix
	if m.fix != nil && !m.centered {
		m.centerLat = m.fix.Position.LatDeg
		m.centerLon = m.fix.Position.LonDeg
		m.centered = true
	}
	return m
}

// SetLines records the sight lines to plot.
func (m PlotModel) SetLines(lines []sight.SightLine) PlotModel {
	m.lines = lines
	if m.fix == nil && len(lines) > 0 && !m.centered {
		m.centerLat = lines[0].Assumed.LatDeg
		m.centerLon = lines[0].Assumed.LonDeg
		m.centered = true
	}
	return m
}

// Update handles key messages for the plot.
func (m PlotModel) Update(msg tea.Msg) (PlotModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	panNm := m.nmPerCell * 4
	switch key.String() {
	case "+", "=":
		if m.nmPerCell > minPlotScale {
			m.nmPerCell /= 2
		}
	case "-", "_":
		if m.nmPerCell < maxPlotScale {
			m.nmPerCell *= 2
		}
	case "up":
		m.centerLat += panNm / astro.NmPerDegree
	case "down":
		m.centerLat -= panNm / astro.NmPerDegree
	case "left":
		m.centerLon -= panNm / (astro.NmPerDegree * cosd(m.centerLat))
	case "right":
		m.centerLon += panNm / (astro.NmPerDegree * cosd(m.centerLat))
	case "c":
		m.centered = false
		if m.fix != nil {
			m.centerLat = m.fix.Position.LatDeg
			m.centerLon = m.fix.Position.LonDeg
			m.centered = true
		}
	}
	return m, nil
}

// View renders the plot board.
func (m PlotModel) View() string {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#14B8A6")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var b strings.Builder
	b.WriteString(headerStyle.Render("  PLOT"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("   %.1f nm/cell · center %s",
		m.nmPerCell, astro.Position{LatDeg: m.centerLat, LonDeg: m.centerLon})))
	b.WriteString("\n\n")

	if len(m.lines) == 0 {
		b.WriteString(dimStyle.Render("  Nothing to plot. Compute a fix with [F] first."))
		b.WriteString("\n")
		return b.String()
	}

	w := m.width - 4
	h := m.height - 4
	if w < 20 {
		w = 20
	}
	if h < 10 {
		h = 10
	}

	canvas := make([][]rune, h)
	colors := make([][]string, h)
	for y := range canvas {
		canvas[y] = make([]rune, w)
		colors[y] = make([]string, w)
		for x := range canvas[y] {
			canvas[y][x] = ' '
		}
	}

	lopColors := []string{"#14B8A6", "#F59E0B", "#A78BFA", "#F472B6", "#60A5FA", "#6EE7B7"}
	for i, l := range m.lines {
		m.drawLOP(canvas, colors, l, lopColors[i%len(lopColors)])
	}

	// Assumed positions and the fix on top
	for _, l := range m.lines {
		if x, y, ok := m.project(l.Assumed, w, h); ok {
			canvas[y][x] = plotGlyphAssumed
			colors[y][x] = "244"
		}
	}
	if m.fix != nil {
		if x, y, ok := m.project(m.fix.Position, w, h); ok {
			canvas[y][x] = plotGlyphFix
			colors[y][x] = "229"
		}
	}

	for y := 0; y < h; y++ {
		b.WriteString("  ")
		for x := 0; x < w; x++ {
			r := canvas[y][x]
			if c := colors[y][x]; c != "" && r != ' ' {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(string(r)))
			} else {
				b.WriteRune(r)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("  ⊕ fix   · assumed position   lines: LOPs by sight"))
	b.WriteString("\n")
	return b.String()
}

// drawLOP plots a line of position as points sampled along its length.
func (m PlotModel) drawLOP(canvas [][]rune, colors [][]string, l sight.SightLine, color string) {
	h := len(canvas)
	w := len(canvas[0])

	// Span the LOP across the visible chart plus margin
	spanNm := m.nmPerCell * float64(w) * 1.5
	a, b := sight.LOPEndpoints(l, spanNm)

	steps := w * 3
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := astro.Position{
			LatDeg: a.LatDeg + t*(b.LatDeg-a.LatDeg),
			LonDeg: a.LonDeg + t*(b.LonDeg-a.LonDeg),
		}
		if x, y, ok := m.project(p, w, h); ok {
			if canvas[y][x] == ' ' || canvas[y][x] == plotGlyphLOP {
				canvas[y][x] = plotGlyphLOP
				colors[y][x] = color
			}
		}
	}
}

// project converts a position to canvas coordinates. The vertical scale
// is halved to compensate for terminal cell aspect.
func (m PlotModel) project(p astro.Position, w, h int) (int, int, bool) {
	dxNm := (p.LonDeg - m.centerLon) * astro.NmPerDegree * cosd(m.centerLat)
	dyNm := (p.LatDeg - m.centerLat) * astro.NmPerDegree

	x := w/2 + int(math.Round(dxNm/m.nmPerCell))
	y := h/2 - int(math.Round(dyNm/(m.nmPerCell*cellAspect)))

	if x < 0 || x >= w || y < 0 || y >= h {
		return 0, 0, false
	}
	return x, y, true
}

func cosd(deg float64) float64 {
	c := math.Cos(deg * math.Pi / 180)
	if math.Abs(c) < 1e-6 {
		return 1e-6
	}
	return c
}
