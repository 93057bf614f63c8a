package sight

import (
	"time"

	"github.com/litescript/ls-sextant/internal/astro"
	"github.com/litescript/ls-sextant/internal/ephem"
	"github.com/litescript/ls-sextant/internal/logging"
)

// Calculator reduces raw observations to intercept/azimuth pairs.
type Calculator struct {
	Provider ephem.Provider
	Log      *logging.Logger
}

// NewCalculator creates a Calculator. A nil logger discards output.
func NewCalculator(p ephem.Provider, log *logging.Logger) *Calculator {
	if log == nil {
		log = logging.Discard()
	}
	return &Calculator{Provider: p, Log: log}
}

// Intercept reduces one observation to a SightResult. The correction
// chain runs in a fixed order: refraction is subtracted, dip added
// (marine only), limb added, then the aviation-only time-interval and
// movement corrections. The body's computed altitude and azimuth are
// taken at the (possibly movement-shifted) assumed position at the
// original observation time, and the intercept is the corrected-minus-
// computed altitude difference converted to nautical miles.
//
// A body below the horizon at the assumed position still yields a
// sign-meaningful intercept; judging usefulness is the caller's concern.
func (c *Calculator) Intercept(obs Observation) (SightResult, error) {
	if err := obs.Validate(); err != nil {
		return SightResult{}, err
	}
	policy := obs.Mode.Policy()

	corrected := obs.AltitudeDeg

	if obs.ApplyRefraction {
		observerAlt := 0.0
		if policy.RefractionAtHgt {
			observerAlt = obs.AircraftAltitudeM
		}
		refraction, err := Refraction(RefractionInput{
			AltitudeDeg:       obs.AltitudeDeg,
			TemperatureC:      obs.TemperatureC,
			PressureHPa:       obs.PressureHPa,
			ObserverAltitudeM: observerAlt,
		})
		if err != nil {
			return SightResult{}, err
		}
		corrected -= refraction
	}

	if policy.ApplyDip && obs.ObserverHeightM > 0 {
		dip, err := Dip(obs.ObserverHeightM)
		if err != nil {
			return SightResult{}, err
		}
		corrected += dip
	}

	limb, err := LimbCorrection(obs.Body, obs.Limb)
	if err != nil {
		return SightResult{}, err
	}
	corrected += limb

	assumed := obs.Assumed
	if obs.Mode == ModeAviation {
		if policy.TimeInterval && obs.IntervalHours != 0 {
			corrected, err = TimeIntervalCorrection(c.Provider, TimeIntervalInput{
				AltitudeDeg:   corrected,
				IntervalHours: obs.IntervalHours,
				Body:          obs.Body,
				Assumed:       obs.Assumed,
				Time:          obs.Time,
			})
			if err != nil {
				return SightResult{}, err
			}
		}
		if policy.MovementCorrected && (obs.SpeedKnots != 0 || obs.IntervalHours != 0) {
			assumed, err = MovementCorrection(MovementInput{
				Position:   obs.Assumed,
				SpeedKnots: obs.SpeedKnots,
				CourseDeg:  obs.CourseDeg,
				Hours:      obs.IntervalHours,
			})
			if err != nil {
				return SightResult{}, err
			}
		}
	}

	computed, err := c.Provider.Observe(obs.Body, assumed, obs.Time)
	if err != nil {
		return SightResult{}, err
	}

	result := SightResult{
		InterceptNm:          (corrected - computed.AltDeg) * astro.NmPerDegree,
		AzimuthDeg:           astro.NormalizeDeg(computed.AzDeg),
		CorrectedAltitudeDeg: corrected,
		ComputedAltitudeDeg:  computed.AltDeg,
	}

	c.Log.Debug("reduced %s sight at %s: Ho %.4f° Hc %.4f° → intercept %.2f nm, Zn %.1f°",
		obs.Body, obs.Time.Format(time.RFC3339), corrected, computed.AltDeg,
		result.InterceptNm, result.AzimuthDeg)

	return result, nil
}

// Breakdown returns the per-correction breakdown for an observation.
func (c *Calculator) Breakdown(obs Observation) (CorrectionSet, error) {
	return Corrections(c.Provider, obs)
}
