package sight

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/litescript/ls-sextant/internal/astro"
	"github.com/litescript/ls-sextant/internal/ephem"
)

// Atmospheric constants for the observer-altitude adjustment.
const (
	// lapseRatePerKm is the standard tropospheric temperature lapse rate.
	lapseRatePerKm = 6.5 // °C per 1000 m

	// pressureDecayPerM is the barometric decay exponent per meter.
	pressureDecayPerM = 0.00012
)

// planetRadii holds mean angular radii for the naked-eye planets in
// degrees, from the average of minimum and maximum apparent diameters in
// arcseconds.
var planetRadii = map[string]float64{
	"mercury": (3.0 + 13.0) / 2 / 3600,
	"venus":   (9.5 + 68.0) / 2 / 3600,
	"mars":    (3.5 + 25.1) / 2 / 3600,
	"jupiter": (29.8 + 50.1) / 2 / 3600,
	"saturn":  (14.5 + 20.1) / 2 / 3600,
}

// RefractionInput are the parameters of an atmospheric refraction
// correction.
type RefractionInput struct {
	AltitudeDeg       float64
	TemperatureC      float64
	PressureHPa       float64
	ObserverAltitudeM float64 // >0 adjusts temperature and pressure for height
}

// Refraction computes the atmospheric refraction correction in degrees.
// Refraction raises the apparent altitude, so the caller subtracts the
// result from an observed altitude to recover the true altitude. The
// result is always non-negative; altitudes at or below the horizon get
// no correction.
func Refraction(in RefractionInput) (float64, error) {
	if err := checkRange("altitude", in.AltitudeDeg, -1, 90); err != nil {
		return 0, err
	}
	if err := checkRange("temperature", in.TemperatureC, -100, 100); err != nil {
		return 0, err
	}
	if err := checkRange("pressure", in.PressureHPa, 800, 1200); err != nil {
		return 0, err
	}
	if in.ObserverAltitudeM < 0 {
		return 0, &ValidationError{Msg: fmt.Sprintf("observer altitude %.1f m cannot be negative", in.ObserverAltitudeM)}
	}

	if in.AltitudeDeg <= 0 {
		return 0, nil
	}

	temp := in.TemperatureC
	pressure := in.PressureHPa
	if in.ObserverAltitudeM > 0 {
		temp -= lapseRatePerKm * in.ObserverAltitudeM / 1000
		pressure *= math.Exp(-pressureDecayPerM * in.ObserverAltitudeM)
	}
	scale := (pressure / 1010.0) * (273.0 / (273.0 + temp))

	var refractionMin float64
	if in.AltitudeDeg <= 15 {
		// Low-altitude empirical formula with h in arcminutes:
		// R' = 0.96 / tan(h + 7.32/(h + 4.32))
		h := in.AltitudeDeg*60 + 7.32/(in.AltitudeDeg*60+4.32)
		refractionMin = 0.96 / math.Tan(deg2rad(h/60))
	} else {
		refractionMin = 1.02 / math.Tan(deg2rad(in.AltitudeDeg))
	}

	return math.Abs(refractionMin * scale / 60), nil
}

// Dip computes the dip of the horizon in degrees for an observer at the
// given height of eye in meters. The horizon appears depressed, so the
// caller adds the result to an observed altitude. Always non-negative.
func Dip(heightM float64) (float64, error) {
	if heightM < 0 {
		return 0, &ValidationError{Msg: fmt.Sprintf("observer height %.1f m cannot be negative", heightM)}
	}
	if heightM == 0 {
		return 0, nil
	}
	return 0.97 * math.Sqrt(heightM) / 60, nil
}

// LimbCorrection computes the correction in degrees for sighting a
// body's upper or lower limb instead of its center. Lower limb adds the
// body's angular radius, upper limb subtracts it. Stars are point
// sources and get no correction.
func LimbCorrection(body string, limb Limb) (float64, error) {
	entry, ok := ephem.Resolve(body)
	if !ok {
		return 0, &ValidationError{Msg: fmt.Sprintf("celestial body %q is not supported for limb correction", body)}
	}

	var radius float64
	switch entry.Kind {
	case ephem.KindSun, ephem.KindMoon:
		// Sun and Moon both average close to 16' of angular radius
		radius = 16.0 / 60.0
	case ephem.KindPlanet:
		radius = planetRadii[strings.ToLower(entry.Name)]
	case ephem.KindStar:
		return 0, nil
	}

	switch limb {
	case LimbCenter:
		return 0, nil
	case LimbLower:
		return radius, nil
	case LimbUpper:
		return -radius, nil
	default:
		return 0, &ValidationError{Msg: fmt.Sprintf("limb value %d is not supported", int(limb))}
	}
}

// BubbleSextant is the bubble-sextant correction for aviation sights.
// The bubble's artificial horizon removes dip entirely; residual
// acceleration effects are not yet modeled, so the correction is zero.
func BubbleSextant(aircraftAltitudeM, temperatureC, pressureHPa float64) float64 {
	return 0
}

// MovementInput are the parameters of a dead-reckoning position shift.
type MovementInput struct {
	Position   astro.Position
	SpeedKnots float64
	CourseDeg  float64
	Hours      float64 // Signed: negative means before the reference time
}

// MovementCorrection shifts a position by the distance the craft covered
// over the interval, using a flat-earth dead-reckoning approximation.
// The sign of Hours determines whether the shift is applied forward or
// backward along the course. Longitude is normalized to [-180, 180].
func MovementCorrection(in MovementInput) (astro.Position, error) {
	if err := in.Position.Validate(); err != nil {
		return astro.Position{}, &ValidationError{Msg: err.Error()}
	}
	if in.SpeedKnots < 0 {
		return astro.Position{}, &ValidationError{Msg: fmt.Sprintf("speed %.1f kn cannot be negative", in.SpeedKnots)}
	}
	if in.SpeedKnots == 0 || in.Hours == 0 {
		return in.Position, nil
	}

	distanceNm := in.SpeedKnots * math.Abs(in.Hours)
	distanceKm := distanceNm * 1.852
	course := deg2rad(in.CourseDeg)

	dLat := (distanceKm / 111.0) * math.Cos(course)
	dLon := (distanceKm / (111.0 * math.Cos(deg2rad(in.Position.LatDeg)))) * math.Sin(course)

	sign := 1.0
	if in.Hours < 0 {
		sign = -1.0
	}

	return astro.Position{
		LatDeg: in.Position.LatDeg + sign*dLat,
		LonDeg: astro.NormalizeLon(in.Position.LonDeg + sign*dLon),
	}, nil
}

// TimeIntervalInput are the parameters of a time-interval altitude
// correction.
type TimeIntervalInput struct {
	AltitudeDeg   float64
	IntervalHours float64
	Body          string
	Assumed       astro.Position
	Time          time.Time
}

// TimeIntervalCorrection adjusts an altitude for the body's own motion
// over the interval between a reference observation and this one. The
// returned altitude is the input altitude plus the change in the body's
// computed altitude across the interval.
func TimeIntervalCorrection(p ephem.Provider, in TimeIntervalInput) (float64, error) {
	if err := checkRange("altitude", in.AltitudeDeg, -1, 90); err != nil {
		return 0, err
	}

	before, err := p.Observe(in.Body, in.Assumed, in.Time)
	if err != nil {
		return 0, err
	}
	interval := time.Duration(in.IntervalHours * float64(time.Hour))
	after, err := p.Observe(in.Body, in.Assumed, in.Time.Add(interval))
	if err != nil {
		return 0, err
	}

	return in.AltitudeDeg + (after.AltDeg - before.AltDeg), nil
}

// MovementDelta is the dead-reckoning shift applied to an assumed
// position, in degrees.
type MovementDelta struct {
	DLatDeg float64
	DLonDeg float64
}

// CorrectionSet is the full correction breakdown for one observation,
// for reporting. Signs follow the reduction chain: refraction is
// subtracted, dip and limb are added.
type CorrectionSet struct {
	RefractionDeg        float64
	DipDeg               float64
	LimbDeg              float64
	BubbleSextantDeg     float64
	Movement             MovementDelta
	TimeIntervalDeg      float64 // Altitude delta from body drift
	TotalDeg             float64 // Net change applied to the observed altitude
	CorrectedAltitudeDeg float64
}

// Corrections computes every correction for an observation without
// performing the full reduction. Useful for worksheets and the TUI.
func Corrections(p ephem.Provider, obs Observation) (CorrectionSet, error) {
	if err := obs.Validate(); err != nil {
		return CorrectionSet{}, err
	}
	policy := obs.Mode.Policy()

	var set CorrectionSet

	if obs.ApplyRefraction {
		observerAlt := 0.0
		if policy.RefractionAtHgt {
			observerAlt = obs.AircraftAltitudeM
		}
		r, err := Refraction(RefractionInput{
			AltitudeDeg:       obs.AltitudeDeg,
			TemperatureC:      obs.TemperatureC,
			PressureHPa:       obs.PressureHPa,
			ObserverAltitudeM: observerAlt,
		})
		if err != nil {
			return CorrectionSet{}, err
		}
		set.RefractionDeg = r
	}

	if policy.ApplyDip && obs.ObserverHeightM > 0 {
		d, err := Dip(obs.ObserverHeightM)
		if err != nil {
			return CorrectionSet{}, err
		}
		set.DipDeg = d
	}

	limb, err := LimbCorrection(obs.Body, obs.Limb)
	if err != nil {
		return CorrectionSet{}, err
	}
	set.LimbDeg = limb

	if obs.Mode == ModeAviation {
		set.BubbleSextantDeg = BubbleSextant(obs.AircraftAltitudeM, obs.TemperatureC, obs.PressureHPa)

		if policy.TimeInterval && obs.IntervalHours != 0 {
			adjusted, err := TimeIntervalCorrection(p, TimeIntervalInput{
				AltitudeDeg:   obs.AltitudeDeg,
				IntervalHours: obs.IntervalHours,
				Body:          obs.Body,
				Assumed:       obs.Assumed,
				Time:          obs.Time,
			})
			if err != nil {
				return CorrectionSet{}, err
			}
			set.TimeIntervalDeg = adjusted - obs.AltitudeDeg
		}

		if policy.MovementCorrected && (obs.SpeedKnots != 0 || obs.IntervalHours != 0) {
			moved, err := MovementCorrection(MovementInput{
				Position:   obs.Assumed,
				SpeedKnots: obs.SpeedKnots,
				CourseDeg:  obs.CourseDeg,
				Hours:      obs.IntervalHours,
			})
			if err != nil {
				return CorrectionSet{}, err
			}
			set.Movement = MovementDelta{
				DLatDeg: moved.LatDeg - obs.Assumed.LatDeg,
				DLonDeg: moved.LonDeg - obs.Assumed.LonDeg,
			}
		}
	}

	set.TotalDeg = -set.RefractionDeg + set.DipDeg + set.LimbDeg + set.BubbleSextantDeg + set.TimeIntervalDeg
	set.CorrectedAltitudeDeg = obs.AltitudeDeg + set.TotalDeg
	return set, nil
}
