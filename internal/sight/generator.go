package sight

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/litescript/ls-sextant/internal/astro"
	"github.com/litescript/ls-sextant/internal/ephem"
	"github.com/litescript/ls-sextant/internal/logging"
)

// GeneratorOptions configure problem synthesis. Parameter ranges are the
// documented uniform draws for realistic conditions.
type GeneratorOptions struct {
	MaxRetries       int
	Mode             Mode
	AddRandomError   bool
	ErrorRangeDeg    float64 // Half-width of the uniform random error
	AssumedOffsetDeg float64 // Half-width of the assumed-position offset

	TempRangeC       [2]float64
	PressureRangeHPa [2]float64
	HumidityRangePct [2]float64
	HeightRangeM     [2]float64 // Marine height of eye; aviation uses 0
	InstrumentErrDeg float64    // Half-width of each instrument error draw
	IndexErrDeg      float64
	PersonalErrDeg   float64

	// Marine position draws stay in open-ocean latitudes; aviation can be
	// anywhere.
	LatRangeDeg [2]float64
	LonRangeDeg [2]float64
}

// DefaultGeneratorOptions returns the documented defaults.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		MaxRetries:       10,
		Mode:             ModeMarine,
		AddRandomError:   true,
		ErrorRangeDeg:    0.1,
		AssumedOffsetDeg: 0.5,
		TempRangeC:       [2]float64{-10, 40},
		PressureRangeHPa: [2]float64{980, 1040},
		HumidityRangePct: [2]float64{30, 90},
		HeightRangeM:     [2]float64{2, 30},
		InstrumentErrDeg: 0.2,
		IndexErrDeg:      0.1,
		PersonalErrDeg:   0.1,
		LatRangeDeg:      [2]float64{-40, 40},
		LonRangeDeg:      [2]float64{-150, 10},
	}
}

// Request pins parts of a synthesized problem. Zero values mean "draw
// randomly"; explicitly provided time and body are preserved across
// visibility retries.
type Request struct {
	Position *astro.Position
	Time     time.Time
	Body     string
	Limb     *Limb
}

// Truth is the ground truth behind a generated problem.
type Truth struct {
	Position      astro.Position
	AltitudeDeg   float64
	AzimuthDeg    float64
	TotalErrorDeg float64 // Systematic plus random error injected
}

// Problem is a generated practice sight with its ground truth and the
// correction values a solver would need to reproduce.
type Problem struct {
	ID          uuid.UUID
	Observation Observation
	Truth       Truth

	RefractionDeg float64
	DipDeg        float64
	LimbDeg       float64
}

// Generator synthesizes practice observations by running the correction
// chain forward from a true altitude. Randomness comes from the injected
// source so tests can seed deterministically.
type Generator struct {
	Provider ephem.Provider
	Rand     *rand.Rand
	Opts     GeneratorOptions
	Log      *logging.Logger
}

// NewGenerator creates a Generator with the given randomness source.
func NewGenerator(p ephem.Provider, rng *rand.Rand, opts GeneratorOptions, log *logging.Logger) *Generator {
	if log == nil {
		log = logging.Discard()
	}
	return &Generator{Provider: p, Rand: rng, Opts: opts, Log: log}
}

// genState is the retry state machine for Synthesize.
type genState int

const (
	stateDrawing genState = iota
	stateValidating
	stateAccepted
	stateRetrying
	stateExhausted
)

// Synthesize generates one problem. It retries (bounded by MaxRetries)
// when the body is below the horizon or the synthetic observed altitude
// falls outside (0.1°, 90°); a request-provided time and body are kept
// across retries, while the drawn position is discarded.
func (g *Generator) Synthesize(req Request) (Problem, error) {
	attempts := 0
	state := stateDrawing

	var (
		truePos  astro.Position
		obsTime  time.Time
		body     string
		limb     Limb
		draw     drawnParams
		trueAlt  float64
		trueAz   float64
		observed float64
		totalErr float64
	)

	for {
		switch state {
		case stateDrawing:
			attempts++

			if req.Position != nil {
				truePos = *req.Position
			} else {
				truePos = g.drawPosition()
			}
			if !req.Time.IsZero() {
				obsTime = req.Time
			} else {
				obsTime = g.drawTime()
			}
			if req.Body != "" {
				body = req.Body
			} else {
				body = g.drawBody()
			}
			if req.Limb != nil {
				limb = *req.Limb
			} else {
				limb = g.drawLimb(body)
			}
			draw = g.drawParams()

			state = stateValidating

		case stateValidating:
			aa, err := g.Provider.Observe(body, truePos, obsTime)
			if err != nil {
				return Problem{}, err
			}
			trueAlt, trueAz = aa.AltDeg, aa.AzDeg

			if trueAlt < 0 {
				// Body below the horizon: redraw the position only
				req.Position = nil
				state = stateRetrying
				continue
			}

			randomErr := 0.0
			if g.Opts.AddRandomError {
				randomErr = g.uniform(-g.Opts.ErrorRangeDeg, g.Opts.ErrorRangeDeg)
			}
			totalErr = draw.instrumentErr + draw.indexErr + draw.personalErr + randomErr

			// Forward correction chain: what the sextant would read for
			// this true altitude under these conditions.
			refraction, err := Refraction(RefractionInput{
				AltitudeDeg:       trueAlt,
				TemperatureC:      draw.temp,
				PressureHPa:       draw.pressure,
				ObserverAltitudeM: 0,
			})
			if err != nil {
				return Problem{}, err
			}
			dip := 0.0
			if g.Opts.Mode == ModeMarine {
				if dip, err = Dip(draw.height); err != nil {
					return Problem{}, err
				}
			}
			limbCorr, err := LimbCorrection(body, limb)
			if err != nil {
				return Problem{}, err
			}

			observed = trueAlt + refraction - dip - limbCorr - totalErr

			if observed < 0.1 || observed > 90 {
				req.Position = nil
				state = stateRetrying
				continue
			}

			draw.refraction = refraction
			draw.dip = dip
			draw.limbCorr = limbCorr
			state = stateAccepted

		case stateRetrying:
			if attempts >= g.Opts.MaxRetries {
				state = stateExhausted
				continue
			}
			state = stateDrawing

		case stateExhausted:
			return Problem{}, &ExhaustedError{Attempts: attempts}

		case stateAccepted:
			assumed := astro.Position{
				LatDeg: truePos.LatDeg + g.uniform(-g.Opts.AssumedOffsetDeg, g.Opts.AssumedOffsetDeg),
				LonDeg: astro.NormalizeLon(truePos.LonDeg + g.uniform(-g.Opts.AssumedOffsetDeg, g.Opts.AssumedOffsetDeg)),
			}

			obs := Observation{
				AltitudeDeg:      observed,
				Body:             body,
				Time:             obsTime,
				Assumed:          assumed,
				Limb:             limb,
				Mode:             g.Opts.Mode,
				TemperatureC:     draw.temp,
				PressureHPa:      draw.pressure,
				HumidityPct:      draw.humidity,
				ObserverHeightM:  draw.height,
				InstrumentErrDeg: draw.instrumentErr,
				IndexErrDeg:      draw.indexErr,
				PersonalErrDeg:   draw.personalErr,
				ApplyRefraction:  true,
			}

			g.Log.Debug("generated %s sight: true alt %.3f° az %.1f°, observed %.3f° after %d attempt(s)",
				body, trueAlt, trueAz, observed, attempts)

			return Problem{
				ID:          uuid.New(),
				Observation: obs,
				Truth: Truth{
					Position:      truePos,
					AltitudeDeg:   trueAlt,
					AzimuthDeg:    trueAz,
					TotalErrorDeg: totalErr,
				},
				RefractionDeg: draw.refraction,
				DipDeg:        draw.dip,
				LimbDeg:       draw.limbCorr,
			}, nil
		}
	}
}

// drawnParams are the randomized atmospheric, observer, and instrument
// parameters of one attempt.
type drawnParams struct {
	temp, pressure, humidity, height     float64
	instrumentErr, indexErr, personalErr float64
	refraction, dip, limbCorr            float64
}

func (g *Generator) drawParams() drawnParams {
	height := 0.0
	if g.Opts.Mode == ModeMarine {
		height = g.uniform(g.Opts.HeightRangeM[0], g.Opts.HeightRangeM[1])
	}
	return drawnParams{
		temp:          g.uniform(g.Opts.TempRangeC[0], g.Opts.TempRangeC[1]),
		pressure:      g.uniform(g.Opts.PressureRangeHPa[0], g.Opts.PressureRangeHPa[1]),
		humidity:      g.uniform(g.Opts.HumidityRangePct[0], g.Opts.HumidityRangePct[1]),
		height:        height,
		instrumentErr: g.uniform(-g.Opts.InstrumentErrDeg, g.Opts.InstrumentErrDeg),
		indexErr:      g.uniform(-g.Opts.IndexErrDeg, g.Opts.IndexErrDeg),
		personalErr:   g.uniform(-g.Opts.PersonalErrDeg, g.Opts.PersonalErrDeg),
	}
}

func (g *Generator) drawPosition() astro.Position {
	if g.Opts.Mode == ModeAviation {
		return astro.Position{
			LatDeg: g.uniform(-90, 90),
			LonDeg: g.uniform(-180, 180),
		}
	}
	return astro.Position{
		LatDeg: g.uniform(g.Opts.LatRangeDeg[0], g.Opts.LatRangeDeg[1]),
		LonDeg: g.uniform(g.Opts.LonRangeDeg[0], g.Opts.LonRangeDeg[1]),
	}
}

func (g *Generator) drawTime() time.Time {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	span := end.Sub(start)
	return start.Add(time.Duration(g.Rand.Float64() * float64(span))).Truncate(time.Second)
}

// drawBody picks among bodies bright enough to shoot without preparation.
var generatorBodies = []string{"sun", "moon", "venus", "mars", "jupiter", "saturn"}

func (g *Generator) drawBody() string {
	return generatorBodies[g.Rand.Intn(len(generatorBodies))]
}

// drawLimb picks a random limb for bodies with an appreciable disk.
func (g *Generator) drawLimb(body string) Limb {
	if body == "sun" || body == "moon" {
		return Limb(g.Rand.Intn(3))
	}
	return LimbCenter
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.Rand.Float64()*(hi-lo)
}
