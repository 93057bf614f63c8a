// Command ls-sextant is a terminal tool for celestial navigation:
// sight reduction, position fixing, almanac pages, and practice problems.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/litescript/ls-sextant/internal/astro"
	"github.com/litescript/ls-sextant/internal/ephem"
	"github.com/litescript/ls-sextant/internal/logging"
	"github.com/litescript/ls-sextant/internal/sight"
	"github.com/litescript/ls-sextant/internal/state"
	"github.com/litescript/ls-sextant/internal/ui"
)

// CLI flags for headless modes
var (
	sightPath    string
	fixPath      string
	runningFix   bool
	speedKnots   float64
	courseDeg    float64
	generateN    int
	scenarioName string
	almanacBody  string
	dateStr      string
	twilightMode bool
	latDeg       float64
	lonDeg       float64
	jsonOut      bool
	seedVal      int64
)

func main() {
	// Optional .env for provider and logging defaults
	_ = godotenv.Load()

	providerName := flag.String("provider", envOr("LS_SEXTANT_PROVIDER", "almanac"),
		"Ephemeris provider (almanac, horizons)")
	logLevel := flag.String("log-level", envOr("LS_SEXTANT_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	flag.StringVar(&sightPath, "sight", "", "Reduce sights from a TOML log and print intercepts")
	flag.StringVar(&fixPath, "fix", "", "Reduce sights from a TOML log and compute a position fix")
	flag.BoolVar(&runningFix, "running", false, "Advance sights for craft movement before fixing")
	flag.Float64Var(&speedKnots, "speed", 0, "Craft speed in knots (running fix)")
	flag.Float64Var(&courseDeg, "course", 0, "Craft true course in degrees (running fix)")
	flag.IntVar(&generateN, "generate", 0, "Generate N practice problems and print worksheets")
	flag.StringVar(&scenarioName, "scenario", "", "Problem scenario (morning-sun, evening-sun, twilight-star, moon, multi-body)")
	flag.StringVar(&almanacBody, "almanac", "", "Print the daily almanac page for a body")
	flag.StringVar(&dateStr, "date", "", "UTC date for almanac/twilight (YYYY-MM-DD, default today)")
	flag.BoolVar(&twilightMode, "twilight", false, "Print twilight times for -lat/-lon")
	flag.Float64Var(&latDeg, "lat", 0, "Observer latitude in degrees")
	flag.Float64Var(&lonDeg, "lon", 0, "Observer longitude in degrees")
	flag.BoolVar(&jsonOut, "json", false, "Emit JSON instead of text where supported")
	flag.Int64Var(&seedVal, "seed", 0, "Random seed for problem generation (0 = time-based)")
	flag.Parse()

	logger := logging.New(logging.ParseLevel(*logLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	provider := buildProvider(*providerName, logger.With("ephem"))
	calc := sight.NewCalculator(provider, logger.With("reduce"))
	solver := sight.NewSolver(logger.With("fix"))

	seed := seedVal
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := sight.NewGenerator(provider, rand.New(rand.NewSource(seed)),
		sight.DefaultGeneratorOptions(), logger.With("generate"))

	headless := sightPath != "" || fixPath != "" || generateN > 0 ||
		almanacBody != "" || twilightMode
	if headless {
		if err := runHeadless(provider, calc, solver, gen); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// TUI mode
	stateMgr := state.NewManager(state.DefaultConfig())
	if speedKnots > 0 {
		stateMgr.SetDeadReckoning(speedKnots, courseDeg)
	}

	model := ui.New(ui.Deps{
		State:      stateMgr,
		Provider:   provider,
		Calculator: calc,
		Solver:     solver,
		Generator:  gen,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// buildProvider selects the ephemeris source. The Horizons provider
// falls back to the local almanac when the API is unreachable.
func buildProvider(name string, logger *logging.Logger) ephem.Provider {
	switch name {
	case "horizons":
		return ephem.NewHorizonsProvider(logger)
	case "almanac":
		return ephem.NewAlmanacProvider(logger)
	default:
		fmt.Fprintf(os.Stderr, "Unknown provider %q, using almanac\n", name)
		return ephem.NewAlmanacProvider(logger)
	}
}

func parseDate() (time.Time, error) {
	if dateStr == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", dateStr)
}

// runHeadless handles all non-TUI modes.
func runHeadless(provider ephem.Provider, calc *sight.Calculator, solver *sight.Solver, gen *sight.Generator) error {
	switch {
	case sightPath != "":
		return reduceSights(calc)
	case fixPath != "":
		return computeFix(calc, solver)
	case generateN > 0:
		return generateProblems(gen)
	case almanacBody != "":
		return printAlmanac(provider)
	case twilightMode:
		return printTwilight(provider)
	}
	return nil
}

// reduceSights reduces each logged sight and prints the intercepts.
func reduceSights(calc *sight.Calculator) error {
	observations, err := sight.LoadSightLog(sightPath)
	if err != nil {
		return err
	}

	for i, obs := range observations {
		result, err := calc.Intercept(obs)
		if err != nil {
			return fmt.Errorf("sight %d (%s): %w", i+1, obs.Body, err)
		}
		dir := "AWAY"
		if result.Toward() {
			dir = "TOWARD"
		}
		fmt.Printf("%-10s %s  Ho %9.4f°  Hc %9.4f°  intercept %5.1f nm %-6s  Zn %05.1f°\n",
			obs.Body, obs.Time.Format("15:04:05"),
			result.CorrectedAltitudeDeg, result.ComputedAltitudeDeg,
			abs(result.InterceptNm), dir, result.AzimuthDeg)
	}
	return nil
}

// computeFix reduces logged sights and solves for position.
func computeFix(calc *sight.Calculator, solver *sight.Solver) error {
	observations, err := sight.LoadSightLog(fixPath)
	if err != nil {
		return err
	}

	lines := make([]sight.SightLine, 0, len(observations))
	for i, obs := range observations {
		result, err := calc.Intercept(obs)
		if err != nil {
			return fmt.Errorf("sight %d (%s): %w", i+1, obs.Body, err)
		}
		lines = append(lines, sight.SightLine{
			Body:        obs.Body,
			InterceptNm: result.InterceptNm,
			AzimuthDeg:  result.AzimuthDeg,
			Assumed:     obs.Assumed,
			Time:        obs.Time,
		})
	}

	var fix sight.Fix
	if runningFix {
		if speedKnots <= 0 {
			return fmt.Errorf("running fix requires -speed")
		}
		fix, err = solver.RunningFix(lines, speedKnots, courseDeg)
	} else {
		fix, err = solver.Solve(lines)
	}
	if err != nil {
		return err
	}

	if jsonOut {
		return sight.ExportFix(fix, lines, time.Now().UTC()).WriteJSON(os.Stdout)
	}
	sight.WriteFixSummary(os.Stdout, fix, lines)
	return nil
}

// generateProblems prints practice worksheets, or JSON when requested.
func generateProblems(gen *sight.Generator) error {
	for i := 0; i < generateN; i++ {
		problem, err := runScenario(gen)
		if err != nil {
			return err
		}
		if jsonOut {
			enc := problemJSON(problem)
			fmt.Println(enc)
			continue
		}
		if i > 0 {
			fmt.Println()
		}
		sight.WriteProblemSheet(os.Stdout, problem)
		fmt.Printf("\nAnswer: position %s, true altitude %.4f°, azimuth %05.1f°\n",
			problem.Truth.Position, problem.Truth.AltitudeDeg, problem.Truth.AzimuthDeg)
	}
	return nil
}

func runScenario(gen *sight.Generator) (sight.Problem, error) {
	switch scenarioName {
	case "", "any":
		return gen.Synthesize(sight.Request{})
	case "morning-sun":
		return gen.MorningSunSight()
	case "evening-sun":
		return gen.EveningSunSight()
	case "twilight-star":
		return gen.TwilightStarSight("sirius")
	case "moon":
		return gen.MoonSight()
	case "multi-body":
		problems, err := gen.MultiBodySet(3, 1.0)
		if err != nil {
			return sight.Problem{}, err
		}
		for _, p := range problems[1:] {
			sight.WriteProblemSheet(os.Stdout, p)
			fmt.Println()
		}
		return problems[0], nil
	default:
		return sight.Problem{}, fmt.Errorf("unknown scenario %q", scenarioName)
	}
}

func problemJSON(p sight.Problem) string {
	o := p.Observation
	return fmt.Sprintf(`{"id":%q,"body":%q,"time":%q,"altitude":%s,"assumed_lat":%s,"assumed_lon":%s,"true_lat":%s,"true_lon":%s}`,
		p.ID, o.Body, o.Time.Format(time.RFC3339),
		fmtF(o.AltitudeDeg), fmtF(o.Assumed.LatDeg), fmtF(o.Assumed.LonDeg),
		fmtF(p.Truth.Position.LatDeg), fmtF(p.Truth.Position.LonDeg))
}

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// printAlmanac prints the hourly GHA/Dec page for one body.
func printAlmanac(provider ephem.Provider) error {
	date, err := parseDate()
	if err != nil {
		return err
	}

	page, err := ephem.DailyPage(provider, almanacBody, date)
	if err != nil {
		return err
	}

	fmt.Printf("%s — %s (%s)\n", page.Body, date.Format("2006-01-02"), provider.Name())
	fmt.Printf("%-4s %-14s %-14s %7s %7s\n", "UT", "GHA", "Dec", "SD", "HP")
	for _, r := range page.Rows {
		sd, hp := "-", "-"
		if r.SDDeg > 0 {
			sd = fmt.Sprintf("%.1f'", r.SDDeg*60)
		}
		if r.HPDeg > 0 {
			hp = fmt.Sprintf("%.1f'", r.HPDeg*60)
		}
		fmt.Printf("%02dh  %-14s %-14s %7s %7s\n",
			r.UT.Hour(),
			astro.FormatDMS(r.GHADeg, ' ', ' '),
			astro.FormatDMS(r.DecDeg, 'N', 'S'),
			sd, hp)
	}
	return nil
}

// printTwilight prints rise, set, and twilight times for the observer.
func printTwilight(provider ephem.Provider) error {
	date, err := parseDate()
	if err != nil {
		return err
	}

	obs := astro.Position{LatDeg: latDeg, LonDeg: lonDeg}
	if err := obs.Validate(); err != nil {
		return err
	}

	times, err := ephem.Twilight(provider, obs, date)
	if err != nil {
		return err
	}

	fmt.Printf("Twilight at %s on %s\n", obs, date.Format("2006-01-02"))
	printEvent := func(label string, t time.Time) {
		if t.IsZero() {
			fmt.Printf("  %-16s none\n", label)
			return
		}
		fmt.Printf("  %-16s %s UT\n", label, t.Format("15:04:05"))
	}
	printEvent("Nautical dawn", times.NauticalDawn)
	printEvent("Civil dawn", times.CivilDawn)
	printEvent("Sunrise", times.Sunrise)
	printEvent("Sunset", times.Sunset)
	printEvent("Civil dusk", times.CivilDusk)
	printEvent("Nautical dusk", times.NauticalDusk)
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
