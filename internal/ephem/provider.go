// Package ephem provides celestial body positions for sight reduction.
package ephem

import (
	"fmt"
	"time"

	"github.com/litescript/ls-sextant/internal/astro"
)

// Equatorial is a body's apparent equatorial position at an instant.
type Equatorial struct {
	RADeg  float64 // Right ascension in degrees [0, 360)
	DecDeg float64 // Declination in degrees [-90, 90]
	GHADeg float64 // Greenwich hour angle in degrees [0, 360)
	SDDeg  float64 // Semi-diameter in degrees (0 for point sources)
	HPDeg  float64 // Horizontal parallax in degrees (0 for distant bodies)
}

// AltAz is a body's topocentric position for an observer.
type AltAz struct {
	AltDeg float64 // Altitude above the horizon in degrees
	AzDeg  float64 // Azimuth in degrees [0, 360), clockwise from true north
}

// Provider defines the interface for celestial position sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Equatorial returns the body's apparent RA/Dec, GHA, semi-diameter,
	// and horizontal parallax at a time instant.
	Equatorial(body string, t time.Time) (Equatorial, error)

	// Observe returns the body's topocentric altitude and azimuth for an
	// observer position and time.
	Observe(body string, obs astro.Position, t time.Time) (AltAz, error)

	// Available reports whether the provider can currently supply data.
	Available() bool
}

// NotFoundError indicates a body identifier the provider cannot resolve.
// Unknown bodies are always an error; there is no fallback body.
type NotFoundError struct {
	Body string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("celestial body %q is not supported", e.Body)
}

// observe converts an equatorial position into topocentric altitude and
// azimuth by solving the navigational triangle at the observer's meridian.
func observe(eq Equatorial, obs astro.Position) AltAz {
	lha := astro.HourAngle(eq.GHADeg, obs.LonDeg)
	alt, az := astro.AltAz(obs.LatDeg, eq.DecDeg, lha)
	return AltAz{AltDeg: alt, AzDeg: az}
}

// ghaFromRA derives the Greenwich hour angle from apparent sidereal time
// and right ascension.
func ghaFromRA(raDeg float64, t time.Time) float64 {
	return astro.NormalizeDeg(astro.GAST(t) - raDeg)
}
