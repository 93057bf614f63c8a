package ephem

import (
	"time"

	"github.com/litescript/ls-sextant/internal/astro"
)

// Sun altitude thresholds for twilight events, in degrees. Sunrise and
// sunset use the standard -50' (refraction plus solar semi-diameter).
const (
	SunriseAltDeg       = -50.0 / 60.0
	CivilTwilightDeg    = -6.0
	NauticalTwilightDeg = -12.0
)

// TwilightTimes holds the twilight events for one observer and UT date.
// A zero time means the event did not occur (polar day/night).
type TwilightTimes struct {
	NauticalDawn time.Time
	CivilDawn    time.Time
	Sunrise      time.Time
	Sunset       time.Time
	CivilDusk    time.Time
	NauticalDusk time.Time
}

// twilightSearchSteps samples the day finely enough to bracket crossings
// even at high latitudes.
const twilightSearchSteps = 96

// Twilight computes sunrise, sunset, and civil/nautical twilight times
// for an observer on the UT date of the given time. Events that do not
// occur are left as zero times; an all-zero result means the Sun never
// crossed any threshold that day.
func Twilight(p Provider, obs astro.Position, date time.Time) (TwilightTimes, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	end := day.Add(24 * time.Hour)

	// Probe once so unknown-provider errors surface instead of being
	// swallowed by the crossing search.
	if _, err := p.Observe("sun", obs, day); err != nil {
		return TwilightTimes{}, err
	}

	alt := func(t time.Time) float64 {
		aa, err := p.Observe("sun", obs, t)
		if err != nil {
			return -90
		}
		return aa.AltDeg
	}

	find := func(target float64, dir astro.CrossingDir) time.Time {
		t, err := astro.FindAltitudeCrossing(alt, day, end, target, dir, twilightSearchSteps, time.Second)
		if err != nil {
			return time.Time{}
		}
		return t
	}

	return TwilightTimes{
		NauticalDawn: find(NauticalTwilightDeg, astro.CrossRising),
		CivilDawn:    find(CivilTwilightDeg, astro.CrossRising),
		Sunrise:      find(SunriseAltDeg, astro.CrossRising),
		Sunset:       find(SunriseAltDeg, astro.CrossSetting),
		CivilDusk:    find(CivilTwilightDeg, astro.CrossSetting),
		NauticalDusk: find(NauticalTwilightDeg, astro.CrossSetting),
	}, nil
}
