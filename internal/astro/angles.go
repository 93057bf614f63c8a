// Package astro provides angular math, time scales, and spherical geometry
// for celestial navigation.
package astro

import (
	"fmt"
	"math"
)

// NmPerDegree is the number of nautical miles in one degree of great-circle arc.
const NmPerDegree = 60.0

// NormalizeDeg normalizes an angle to [0, 360).
func NormalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// NormalizeLon normalizes a longitude to [-180, 180].
func NormalizeLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// Position is a geographic position in decimal degrees.
type Position struct {
	LatDeg float64 // Latitude, north positive
	LonDeg float64 // Longitude, east positive
}

// Validate checks that the position is on the globe.
func (p Position) Validate() error {
	if p.LatDeg < -90 || p.LatDeg > 90 {
		return fmt.Errorf("latitude %.4f° is not in valid range [-90°, 90°]", p.LatDeg)
	}
	if p.LonDeg < -180 || p.LonDeg > 180 {
		return fmt.Errorf("longitude %.4f° is not in valid range [-180°, 180°]", p.LonDeg)
	}
	return nil
}

// String formats the position in degrees-minutes-seconds with hemisphere letters.
func (p Position) String() string {
	return FormatPosition(p)
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
