package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
)

// JulianDate returns the Julian Date for a time instant.
func JulianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// JulianCenturies returns the count of Julian centuries since J2000.0.
func JulianCenturies(jd float64) float64 {
	return (jd - 2451545.0) / 36525.0
}

// GAST returns the Greenwich Apparent Sidereal Time in degrees [0, 360).
func GAST(t time.Time) float64 {
	jd := JulianDate(t)
	return NormalizeDeg(radToDeg(sidereal.Apparent(jd).Angle().Rad()))
}

// MeanObliquity returns the mean obliquity of the ecliptic in degrees
// for a Julian Date (IAU 1980 polynomial).
func MeanObliquity(jd float64) float64 {
	T := JulianCenturies(jd)
	return 23.4392911111 - 0.0130041667*T - 1.6389e-7*T*T + 5.0361e-7*T*T*T
}

// EclipticToEquatorial rotates ecliptic longitude/latitude into
// equatorial right ascension/declination, all in degrees.
func EclipticToEquatorial(lonDeg, latDeg, jd float64) (raDeg, decDeg float64) {
	eps := degToRad(MeanObliquity(jd))
	lon := degToRad(lonDeg)
	lat := degToRad(latDeg)

	sinDec := math.Sin(lat)*math.Cos(eps) + math.Cos(lat)*math.Sin(eps)*math.Sin(lon)
	dec := math.Asin(sinDec)

	y := math.Sin(lon)*math.Cos(eps) - math.Tan(lat)*math.Sin(eps)
	x := math.Cos(lon)
	ra := math.Atan2(y, x)

	return NormalizeDeg(radToDeg(ra)), radToDeg(dec)
}
