package astro

import "math"

// AngularSeparation returns the great-circle angle between two positions
// in degrees, computed with the haversine formula for stability at small
// separations.
func AngularSeparation(a, b Position) float64 {
	lat1 := degToRad(a.LatDeg)
	lat2 := degToRad(b.LatDeg)
	dLat := degToRad(b.LatDeg - a.LatDeg)
	dLon := degToRad(b.LonDeg - a.LonDeg)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return radToDeg(2 * math.Asin(math.Min(1, math.Sqrt(h))))
}

// DistanceNm returns the great-circle distance between two positions in
// nautical miles.
func DistanceNm(a, b Position) float64 {
	return AngularSeparation(a, b) * NmPerDegree
}

// Offset returns the position reached by travelling distanceNm along the
// great circle with the given initial bearing (degrees from true north).
// Longitude of the result is normalized to [-180, 180].
func Offset(p Position, bearingDeg, distanceNm float64) Position {
	lat := degToRad(p.LatDeg)
	lon := degToRad(p.LonDeg)
	brg := degToRad(bearingDeg)
	d := degToRad(distanceNm / NmPerDegree)

	sinLat := math.Sin(lat)*math.Cos(d) + math.Cos(lat)*math.Sin(d)*math.Cos(brg)
	newLat := math.Asin(sinLat)

	dLon := math.Atan2(
		math.Sin(brg)*math.Sin(d)*math.Cos(lat),
		math.Cos(d)-math.Sin(lat)*sinLat,
	)

	return Position{
		LatDeg: radToDeg(newLat),
		LonDeg: NormalizeLon(radToDeg(lon + dLon)),
	}
}
