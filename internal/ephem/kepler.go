package ephem

import (
	"math"

	"github.com/litescript/ls-sextant/internal/astro"
)

// orbitalElements holds Keplerian mean elements at J2000 plus per-century
// rates: semi-major axis (AU), eccentricity, inclination, mean longitude,
// longitude of perihelion, and longitude of the ascending node (degrees).
// Values follow the standard low-precision planetary tables valid for
// 1800-2050.
type orbitalElements struct {
	a, e, i, l, lonPeri, lonNode             float64
	aDot, eDot, iDot, lDot, periDot, nodeDot float64
}

var planetElements = map[string]orbitalElements{
	"mercury": {
		0.38709927, 0.20563593, 7.00497902, 252.25032350, 77.45779628, 48.33076593,
		0.00000037, 0.00001906, -0.00594749, 149472.67411175, 0.16047689, -0.12534081,
	},
	"venus": {
		0.72333566, 0.00677672, 3.39467605, 181.97909950, 131.60246718, 76.67984255,
		0.00000390, -0.00004107, -0.00078890, 58517.81538729, 0.00268329, -0.27769418,
	},
	// Earth-Moon barycenter, used to translate heliocentric to geocentric.
	"earth": {
		1.00000261, 0.01671123, -0.00001531, 100.46457166, 102.93768193, 0.0,
		0.00000562, -0.00004392, -0.01294668, 35999.37244981, 0.32327364, 0.0,
	},
	"mars": {
		1.52371034, 0.09339410, 1.84969142, -4.55343205, -23.94362959, 49.55953891,
		0.00001847, 0.00007882, -0.00813131, 19140.30268499, 0.44441088, -0.29257343,
	},
	"jupiter": {
		5.20288700, 0.04838624, 1.30439695, 34.39644051, 14.72847983, 100.47390909,
		-0.00011607, -0.00013253, -0.00183714, 3034.74612775, 0.21252668, 0.20469106,
	},
	"saturn": {
		9.53667594, 0.05386179, 2.48599187, 49.95424423, 92.59887831, 113.66242448,
		-0.00125060, -0.00050991, 0.00193609, 1222.49362201, -0.41897216, -0.28867794,
	},
}

// keplerIterations bounds the Newton-Raphson solution of Kepler's equation.
const keplerIterations = 20

// helioVec is a heliocentric ecliptic position in AU.
type helioVec struct {
	X, Y, Z float64
}

// helioPosition computes a planet's heliocentric ecliptic position at a
// Julian Date from its mean orbital elements.
func helioPosition(el orbitalElements, jd float64) helioVec {
	T := astro.JulianCenturies(jd)

	a := el.a + el.aDot*T
	e := el.e + el.eDot*T
	i := deg2rad(el.i + el.iDot*T)
	l := el.l + el.lDot*T
	lonPeri := el.lonPeri + el.periDot*T
	node := deg2rad(el.lonNode + el.nodeDot*T)

	argPeri := deg2rad(lonPeri) - node

	// Mean anomaly, wrapped to (-180, 180] for the Newton iteration.
	m := math.Mod(l-lonPeri, 360)
	if m > 180 {
		m -= 360
	} else if m < -180 {
		m += 360
	}
	mRad := deg2rad(m)

	// Kepler's equation: E - e sin E = M
	E := mRad + e*math.Sin(mRad)
	for n := 0; n < keplerIterations; n++ {
		dE := (E - e*math.Sin(E) - mRad) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < 1e-12 {
			break
		}
	}

	// Position in the orbital plane
	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	cosW, sinW := math.Cos(argPeri), math.Sin(argPeri)
	cosO, sinO := math.Cos(node), math.Sin(node)
	cosI, sinI := math.Cos(i), math.Sin(i)

	return helioVec{
		X: (cosW*cosO-sinW*sinO*cosI)*xp + (-sinW*cosO-cosW*sinO*cosI)*yp,
		Y: (cosW*sinO+sinW*cosO*cosI)*xp + (-sinW*sinO+cosW*cosO*cosI)*yp,
		Z: sinW*sinI*xp + cosW*sinI*yp,
	}
}

// planetGeocentric returns a planet's geocentric apparent RA/Dec in
// degrees and its distance in AU.
func planetGeocentric(planet string, jd float64) (raDeg, decDeg, distAU float64, ok bool) {
	el, found := planetElements[planet]
	if !found || planet == "earth" {
		return 0, 0, 0, false
	}

	p := helioPosition(el, jd)
	e := helioPosition(planetElements["earth"], jd)

	gx, gy, gz := p.X-e.X, p.Y-e.Y, p.Z-e.Z
	dist := math.Sqrt(gx*gx + gy*gy + gz*gz)

	lon := rad2deg(math.Atan2(gy, gx))
	lat := rad2deg(math.Asin(gz / dist))

	ra, dec := astro.EclipticToEquatorial(astro.NormalizeDeg(lon), lat, jd)
	return ra, dec, dist, true
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }
