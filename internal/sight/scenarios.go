package sight

import (
	"math"
	"time"
)

// Scenario builders wrap Synthesize with times chosen so the requested
// body is plausibly above the horizon at the drawn longitude. Local solar
// time is approximated as UT + lon/15 hours.

// MorningSunSight generates a sun sight taken mid-morning local time.
func (g *Generator) MorningSunSight() (Problem, error) {
	pos := g.drawPosition()
	localHour := 8.0 + g.Rand.Float64()*3.0 // 08:00–11:00 local
	return g.Synthesize(Request{
		Position: &pos,
		Time:     g.timeAtLocalHour(pos.LonDeg, localHour),
		Body:     "sun",
	})
}

// EveningSunSight generates a sun sight taken mid-afternoon local time.
func (g *Generator) EveningSunSight() (Problem, error) {
	pos := g.drawPosition()
	localHour := 14.0 + g.Rand.Float64()*3.0 // 14:00–17:00 local
	return g.Synthesize(Request{
		Position: &pos,
		Time:     g.timeAtLocalHour(pos.LonDeg, localHour),
		Body:     "sun",
	})
}

// TwilightStarSight generates a sight of the named star during evening
// twilight, when both the star and the horizon are visible.
func (g *Generator) TwilightStarSight(star string) (Problem, error) {
	pos := g.drawPosition()
	localHour := 18.0 + g.Rand.Float64()*1.5
	limb := LimbCenter
	return g.Synthesize(Request{
		Position: &pos,
		Time:     g.timeAtLocalHour(pos.LonDeg, localHour),
		Body:     star,
		Limb:     &limb,
	})
}

// TwilightStarSet generates a round of star sights from one position
// during the same twilight window, a few minutes apart. It tries each
// candidate star and keeps the ones above the horizon, so fewer than n
// problems may come back.
func (g *Generator) TwilightStarSet(stars []string, n int) ([]Problem, error) {
	pos := g.drawPosition()
	localHour := 18.0 + g.Rand.Float64()*1.5
	base := g.timeAtLocalHour(pos.LonDeg, localHour)
	limb := LimbCenter

	var problems []Problem
	for _, star := range stars {
		if len(problems) >= n {
			break
		}
		t := base.Add(time.Duration(len(problems)*3) * time.Minute)
		p, err := g.Synthesize(Request{
			Position: &pos,
			Time:     t,
			Body:     star,
			Limb:     &limb,
		})
		if err != nil {
			// Star not visible from here at this time: skip it
			if _, ok := err.(*ExhaustedError); ok {
				continue
			}
			return nil, err
		}
		problems = append(problems, p)
	}
	if len(problems) == 0 {
		return nil, &ExhaustedError{Attempts: len(stars) * g.Opts.MaxRetries}
	}
	return problems, nil
}

// MoonSight generates a moon sight at a random time of day.
func (g *Generator) MoonSight() (Problem, error) {
	return g.Synthesize(Request{Body: "moon"})
}

// MultiBodySet generates n sights of different bodies from the same true
// position within the given time window, suitable for a position fix.
func (g *Generator) MultiBodySet(n int, windowHours float64) ([]Problem, error) {
	pos := g.drawPosition()
	base := g.drawTime()

	problems := make([]Problem, 0, n)
	for i := 0; i < n; i++ {
		offset := g.Rand.Float64() * windowHours
		t := base.Add(time.Duration(offset * float64(time.Hour))).Truncate(time.Second)
		p, err := g.Synthesize(Request{
			Position: &pos,
			Time:     t,
		})
		if err != nil {
			if _, ok := err.(*ExhaustedError); ok {
				continue
			}
			return nil, err
		}
		problems = append(problems, p)
	}
	if len(problems) < 2 {
		return nil, &ExhaustedError{Attempts: n * g.Opts.MaxRetries}
	}
	return problems, nil
}

// timeAtLocalHour converts a local solar hour at the given longitude to
// UT on a randomly drawn date.
func (g *Generator) timeAtLocalHour(lonDeg, localHour float64) time.Time {
	day := g.drawTime().Truncate(24 * time.Hour)
	utHour := localHour - lonDeg/15.0
	return day.Add(time.Duration(utHour * float64(time.Hour))).Truncate(time.Second)
}

// Solution check tolerances.
const (
	InterceptToleranceNm = 0.5
	AzimuthToleranceDeg  = 1.0
)

// SolutionReport compares a worked solution against the reference sight
// reduction for a generated problem.
type SolutionReport struct {
	ExpectedInterceptNm float64
	ExpectedAzimuthDeg  float64
	InterceptErrorNm    float64
	AzimuthErrorDeg     float64
	InterceptOK         bool
	AzimuthOK           bool
}

// Correct reports whether both intercept and azimuth are within tolerance.
func (r SolutionReport) Correct() bool {
	return r.InterceptOK && r.AzimuthOK
}

// CheckSolution reduces the problem's observation with the given
// calculator and grades the supplied intercept and azimuth against it.
func CheckSolution(calc *Calculator, p Problem, interceptNm, azimuthDeg float64) (SolutionReport, error) {
	ref, err := calc.Intercept(p.Observation)
	if err != nil {
		return SolutionReport{}, err
	}

	azErr := math.Abs(azimuthDeg - ref.AzimuthDeg)
	if azErr > 180 {
		azErr = 360 - azErr
	}
	r := SolutionReport{
		ExpectedInterceptNm: ref.InterceptNm,
		ExpectedAzimuthDeg:  ref.AzimuthDeg,
		InterceptErrorNm:    math.Abs(interceptNm - ref.InterceptNm),
		AzimuthErrorDeg:     azErr,
	}
	r.InterceptOK = r.InterceptErrorNm <= InterceptToleranceNm
	r.AzimuthOK = r.AzimuthErrorDeg <= AzimuthToleranceDeg
	return r, nil
}
