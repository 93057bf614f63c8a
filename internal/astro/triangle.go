package astro

import "math"

// HourAngle returns the local hour angle in degrees [0, 360) from a
// Greenwich hour angle and an observer longitude (east positive).
func HourAngle(ghaDeg, lonDeg float64) float64 {
	return NormalizeDeg(ghaDeg + lonDeg)
}

// AltAz solves the navigational triangle for computed altitude (Hc) and
// azimuth (Zn), both in degrees. Inputs are the observer latitude, the
// body declination, and the local hour angle.
//
//	sin Hc = sin φ · sin δ + cos φ · cos δ · cos LHA
//	tan Z  = sin LHA / (cos LHA · sin φ − tan δ · cos φ)
//
// Azimuth is normalized to [0, 360) measured clockwise from true north.
func AltAz(latDeg, decDeg, lhaDeg float64) (hcDeg, znDeg float64) {
	lat := degToRad(latDeg)
	dec := degToRad(decDeg)
	lha := degToRad(lhaDeg)

	sinHc := math.Sin(lat)*math.Sin(dec) + math.Cos(lat)*math.Cos(dec)*math.Cos(lha)
	// Clamp to [-1, 1] to handle floating point errors
	if sinHc > 1 {
		sinHc = 1
	} else if sinHc < -1 {
		sinHc = -1
	}
	hc := math.Asin(sinHc)

	num := math.Sin(lha)
	den := math.Cos(lha)*math.Sin(lat) - math.Tan(dec)*math.Cos(lat)

	var zn float64
	if math.Abs(den) < 1e-10 && math.Abs(num) < 1e-10 {
		// Body on the observer's meridian: azimuth is due north or south
		if decDeg > latDeg {
			zn = 0
		} else {
			zn = 180
		}
	} else {
		// atan2 gives azimuth from south, westward positive; shift to Zn
		// measured from true north.
		zn = NormalizeDeg(radToDeg(math.Atan2(num, den)) + 180)
	}

	return radToDeg(hc), zn
}
