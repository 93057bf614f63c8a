package ephem

import (
	"math"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/litescript/ls-sextant/internal/astro"
	"github.com/litescript/ls-sextant/internal/logging"
)

// raDeg and angleDeg unwrap meeus unit types into plain degrees.
func raDeg(ra unit.RA) float64      { return astro.NormalizeDeg(rad2deg(ra.Rad())) }
func angleDeg(a unit.Angle) float64 { return rad2deg(a.Rad()) }

const (
	// SunSDDeg is the mean solar semi-diameter (16.0') in degrees.
	SunSDDeg = 16.0 / 60.0

	// moonRadiusKm and earthRadiusKm feed the Moon's semi-diameter and
	// horizontal parallax from its instantaneous distance.
	moonRadiusKm  = 1737.4
	earthRadiusKm = 6378.14
)

// AlmanacProvider computes body positions from a built-in low-precision
// almanac: Sun and Moon from standard ephemeris series, planets from
// Keplerian mean elements, stars from the J2000 catalog. Accuracy is on
// the order of an arcminute, adequate for sight reduction practice.
type AlmanacProvider struct {
	log *logging.Logger
}

// NewAlmanacProvider creates the built-in almanac provider.
func NewAlmanacProvider(log *logging.Logger) *AlmanacProvider {
	if log == nil {
		log = logging.Discard()
	}
	return &AlmanacProvider{log: log}
}

// Name implements Provider.
func (p *AlmanacProvider) Name() string {
	return "Almanac"
}

// Available implements Provider. The built-in almanac needs no network.
func (p *AlmanacProvider) Available() bool {
	return true
}

// Equatorial implements Provider.
func (p *AlmanacProvider) Equatorial(body string, t time.Time) (Equatorial, error) {
	entry, ok := Resolve(body)
	if !ok {
		return Equatorial{}, &NotFoundError{Body: body}
	}

	jd := astro.JulianDate(t)
	var eq Equatorial

	switch entry.Kind {
	case KindSun:
		ra, dec := solar.ApparentEquatorial(jd)
		eq.RADeg = raDeg(ra)
		eq.DecDeg = angleDeg(dec)
		eq.SDDeg = SunSDDeg

	case KindMoon:
		lon, lat, distKm := moonposition.Position(jd)
		eq.RADeg, eq.DecDeg = astro.EclipticToEquatorial(
			astro.NormalizeDeg(angleDeg(lon)), angleDeg(lat), jd)
		eq.HPDeg = rad2deg(math.Asin(earthRadiusKm / distKm))
		eq.SDDeg = rad2deg(math.Asin(moonRadiusKm / distKm))

	case KindPlanet:
		ra, dec, _, ok := planetGeocentric(strings.ToLower(entry.Name), jd)
		if !ok {
			return Equatorial{}, &NotFoundError{Body: body}
		}
		eq.RADeg = ra
		eq.DecDeg = dec

	case KindStar:
		ra, err := astro.ParseRA(entry.RA)
		if err != nil {
			return Equatorial{}, err
		}
		dec, err := astro.ParseDec(entry.Dec)
		if err != nil {
			return Equatorial{}, err
		}
		eq.RADeg = ra
		eq.DecDeg = dec
	}

	eq.GHADeg = ghaFromRA(eq.RADeg, t)
	return eq, nil
}

// Observe implements Provider.
func (p *AlmanacProvider) Observe(body string, obs astro.Position, t time.Time) (AltAz, error) {
	eq, err := p.Equatorial(body, t)
	if err != nil {
		return AltAz{}, err
	}
	aa := observe(eq, obs)
	p.log.Debug("almanac: %s at %s → alt %.4f° az %.4f°", body, t.Format(time.RFC3339), aa.AltDeg, aa.AzDeg)
	return aa, nil
}
