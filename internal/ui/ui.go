// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sextant/internal/ephem"
	"github.com/litescript/ls-sextant/internal/sight"
	"github.com/litescript/ls-sextant/internal/state"
	"github.com/litescript/ls-sextant/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewSightLog ViewMode = iota
	ViewFix
	ViewPlot
	ViewAlmanac
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// updateCheckMsg contains result of version check.
	updateCheckMsg struct {
		info version.UpdateInfo
	}

	// problemMsg carries a freshly generated practice problem.
	problemMsg struct {
		problem sight.Problem
		err     error
	}

	// fixMsg carries the result of an async fix computation.
	fixMsg struct {
		fix   sight.Fix
		lines []sight.SightLine
		err   error
	}

	// almanacMsg carries a computed daily page.
	almanacMsg struct {
		page ephem.Page
		err  error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state      *state.Manager
	provider   ephem.Provider
	calculator *sight.Calculator
	solver     *sight.Solver
	generator  *sight.Generator

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	busy      bool

	// Sub-models
	sightLog SightLogModel
	fixPanel FixModel
	plot     PlotModel
	almanac  AlmanacModel

	// Data snapshot (refreshed on tick and after state changes)
	snapshot state.Snapshot
}

// Deps bundles the root model's dependencies.
type Deps struct {
	State      *state.Manager
	Provider   ephem.Provider
	Calculator *sight.Calculator
	Solver     *sight.Solver
	Generator  *sight.Generator
}

// New creates a new root UI model.
func New(deps Deps) Model {
	gen := deps.Generator
	if gen == nil {
		gen = sight.NewGenerator(deps.Provider,
			rand.New(rand.NewSource(time.Now().UnixNano())),
			sight.DefaultGeneratorOptions(), nil)
	}
	return Model{
		state:      deps.State,
		provider:   deps.Provider,
		calculator: deps.Calculator,
		solver:     deps.Solver,
		generator:  gen,
		viewMode:   ViewSightLog,
		sightLog:   NewSightLogModel(),
		fixPanel:   NewFixModel(),
		plot:       NewPlotModel(),
		almanac:    NewAlmanacModel(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "s":
			m.viewMode = ViewSightLog
		case "2", "f":
			m.viewMode = ViewFix
		case "3", "p":
			m.viewMode = ViewPlot
		case "4", "a":
			m.viewMode = ViewAlmanac

		case "tab":
			m.viewMode = (m.viewMode + 1) % 4

		case "g":
			if !m.busy {
				m.busy = true
				m.statusMsg = "Generating practice sight..."
				cmds = append(cmds, m.generateProblem())
			}

		case "F":
			if !m.busy {
				m.busy = true
				m.statusMsg = "Computing fix..."
				cmds = append(cmds, m.computeFix(false))
			}

		case "R":
			if !m.busy {
				m.busy = true
				m.statusMsg = "Computing running fix..."
				cmds = append(cmds, m.computeFix(true))
			}

		case "u":
			m.statusMsg = "Checking for updates..."
			cmds = append(cmds, checkForUpdate())

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case updateCheckMsg:
		if msg.info.Error != nil {
			m.statusMsg = fmt.Sprintf("Update check failed: %v", msg.info.Error)
		} else if msg.info.UpdateAvailable {
			m.statusMsg = fmt.Sprintf("Update available: v%s → v%s",
				msg.info.CurrentVersion, msg.info.LatestVersion)
		} else {
			m.statusMsg = fmt.Sprintf("You're on the latest version (v%s)", msg.info.CurrentVersion)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo takes ~10 lines, footer ~2 lines
		contentHeight := msg.Height - 14
		m.sightLog = m.sightLog.SetSize(msg.Width, contentHeight)
		m.fixPanel = m.fixPanel.SetSize(msg.Width, contentHeight)
		m.plot = m.plot.SetSize(msg.Width, contentHeight)
		m.almanac = m.almanac.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.refreshSnapshot()

	case problemMsg:
		m.busy = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Generation failed: %v", msg.err)
			break
		}
		m.state.SetProblem(msg.problem)
		result, err := m.calculator.Intercept(msg.problem.Observation)
		if err != nil {
			m.statusMsg = fmt.Sprintf("Sight reduction failed: %v", err)
			break
		}
		m.state.LogSight(msg.problem.Observation, result)
		m.statusMsg = fmt.Sprintf("Logged %s sight: %s", msg.problem.Observation.Body, formatIntercept(result))
		m.refreshSnapshot()
		m.viewMode = ViewSightLog

	case fixMsg:
		m.busy = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Fix failed: %v", msg.err)
			break
		}
		m.state.SetFix(msg.fix)
		m.statusMsg = fmt.Sprintf("Fix: %s (%s)", msg.fix.Position, msg.fix.Quality)
		m.refreshSnapshot()
		m.fixPanel = m.fixPanel.SetLines(msg.lines)
		m.plot = m.plot.SetLines(msg.lines)
		m.viewMode = ViewFix

	case almanacMsg:
		m.almanac = m.almanac.SetPage(msg.page, msg.err)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) refreshSnapshot() {
	m.snapshot = m.state.Snapshot()
	m.sightLog = m.sightLog.UpdateData(m.snapshot)
	m.fixPanel = m.fixPanel.UpdateData(m.snapshot)
	m.plot = m.plot.UpdateData(m.snapshot)
	m.almanac = m.almanac.UpdateData(m.snapshot)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewSightLog:
		m.sightLog, cmd = m.sightLog.Update(msg, m.state)
	case ViewFix:
		m.fixPanel, cmd = m.fixPanel.Update(msg)
	case ViewPlot:
		m.plot, cmd = m.plot.Update(msg)
	case ViewAlmanac:
		m.almanac, cmd = m.almanac.Update(msg, m.provider)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewSightLog:
		content = m.sightLog.View()
	case ViewFix:
		content = m.fixPanel.View()
	case ViewPlot:
		content = m.plot.View()
	case ViewAlmanac:
		content = m.almanac.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ██╗     ███████╗      ███████╗███████╗██╗  ██╗████████╗ █████╗ ███╗   ██╗████████╗`,
		`  ██║     ██╔════╝      ██╔════╝██╔════╝╚██╗██╔╝╚══██╔══╝██╔══██╗████╗  ██║╚══██╔══╝`,
		`  ██║     ███████╗█████╗███████╗█████╗   ╚███╔╝    ██║   ███████║██╔██╗ ██║   ██║   `,
		`  ██║     ╚════██║╚════╝╚════██║██╔══╝   ██╔██╗    ██║   ██╔══██║██║╚██╗██║   ██║   `,
		`  ███████╗███████║      ███████║███████╗██╔╝ ██╗   ██║   ██║  ██║██║ ╚████║   ██║   `,
		`  ╚══════╝╚══════╝      ╚══════╝╚══════╝╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═══╝   ╚═╝   `,
	}

	var b strings.Builder
	b.WriteString("\n")
	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render("  Celestial Navigation · Sight Reduction & Position Fixing"))
	b.WriteString("\n")
	copyright := fmt.Sprintf("  (c) 2026 litescript.net | v%s | [u]check update", version.Version)
	b.WriteString(muted.Render(copyright))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// deep ocean blue through teal to sea-foam green.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	// Blue (#1E5AA8) -> Teal (#14B8A6) -> Foam (#6EE7B7)
	var r, g, b float64
	if xRatio < 0.5 {
		t := xRatio / 0.5
		r = 30 + t*(20-30)
		g = 90 + t*(184-90)
		b = 168 + t*(166-168)
	} else {
		t := (xRatio - 0.5) / 0.5
		r = 20 + t*(110-20)
		g = 184 + t*(231-184)
		b = 166 + t*(183-166)
	}

	// Darker toward the bottom rows
	brightness := 1.0 - yRatio*0.4
	ri := clamp8(int(r * brightness))
	gi := clamp8(int(g * brightness))
	bi := clamp8(int(b * brightness))

	return fmt.Sprintf("#%02X%02X%02X", ri, gi, bi)
}

func clamp8(v int) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return v
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Sights", "[2] Fix", "[3] Plot", "[4] Almanac"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#14B8A6")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var help string
	switch m.viewMode {
	case ViewSightLog:
		help = dimStyle.Render("j/k: select | d: discard | g: practice sight | F: fix | R: running fix")
	case ViewFix:
		help = dimStyle.Render("F: compute fix | R: running fix | g: practice sight")
	case ViewPlot:
		help = dimStyle.Render("+/-: zoom | arrows: pan | c: recenter")
	case ViewAlmanac:
		help = dimStyle.Render("b: next body | B: previous body | [/]: day | t: twilight")
	}

	footer := "  " + dimStyle.Render(fmt.Sprintf("%d sights logged", len(m.snapshot.Sights))) +
		"  " + dimStyle.Render("|") + "  " + help

	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

func (m Model) generateProblem() tea.Cmd {
	gen := m.generator
	return func() tea.Msg {
		p, err := gen.Synthesize(sight.Request{})
		return problemMsg{problem: p, err: err}
	}
}

func (m Model) computeFix(running bool) tea.Cmd {
	lines := m.state.Lines()
	speed, course := m.state.DeadReckoning()
	solver := m.solver
	return func() tea.Msg {
		var fix sight.Fix
		var err error
		if running && speed > 0 {
			fix, err = solver.RunningFix(lines, speed, course)
		} else {
			fix, err = solver.Solve(lines)
		}
		return fixMsg{fix: fix, lines: lines, err: err}
	}
}

func formatIntercept(r sight.SightResult) string {
	dir := "away"
	if r.Toward() {
		dir = "toward"
	}
	return fmt.Sprintf("%.1f nm %s, Zn %.0f°", absF(r.InterceptNm), dir, r.AzimuthDeg)
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func checkForUpdate() tea.Cmd {
	return func() tea.Msg {
		info := version.CheckForUpdate()
		return updateCheckMsg{info: info}
	}
}
