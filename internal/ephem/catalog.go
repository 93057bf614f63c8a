package ephem

import "strings"

// Kind classifies a catalog body.
type Kind int

const (
	KindSun Kind = iota
	KindMoon
	KindPlanet
	KindStar
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSun:
		return "sun"
	case KindMoon:
		return "moon"
	case KindPlanet:
		return "planet"
	case KindStar:
		return "star"
	default:
		return "unknown"
	}
}

// Body is a catalog entry for a celestial body usable in sight reduction.
type Body struct {
	Name        string
	Kind        Kind
	RA          string  // J2000 right ascension, e.g. "6h45m8.9s" (stars only)
	Dec         string  // J2000 declination, e.g. "-16d42m58s" (stars only)
	Magnitude   float64 // Apparent visual magnitude (stars only)
	Description string
}

// Resolve looks up a body by name, case-insensitively. The second return
// is false for unknown bodies.
func Resolve(name string) (Body, bool) {
	b, ok := bodies[strings.ToLower(strings.TrimSpace(name))]
	return b, ok
}

// Stars returns the navigation star catalog sorted as declared
// (roughly by magnitude, brightest first).
func Stars() []Body {
	out := make([]Body, len(navigationStars))
	copy(out, navigationStars)
	return out
}

// bodies maps lowercase body names to catalog entries.
var bodies = func() map[string]Body {
	m := map[string]Body{
		"sun":  {Name: "Sun", Kind: KindSun},
		"moon": {Name: "Moon", Kind: KindMoon},
	}
	for _, p := range []string{"Mercury", "Venus", "Mars", "Jupiter", "Saturn"} {
		m[strings.ToLower(p)] = Body{Name: p, Kind: KindPlanet}
	}
	for _, s := range navigationStars {
		m[strings.ToLower(s.Name)] = s
	}
	return m
}()

// navigationStars is the star catalog for sight reduction. Coordinates are
// J2000.0, sourced from standard nautical almanac values.
var navigationStars = []Body{
	{Name: "Sirius", Kind: KindStar, RA: "6h45m8.9s", Dec: "-16d42m58s", Magnitude: -1.46, Description: "Brightest star in the sky, in Canis Major"},
	{Name: "Canopus", Kind: KindStar, RA: "6h23m57.1s", Dec: "-52d41m44s", Magnitude: -0.74, Description: "Second brightest star, in Carina"},
	{Name: "Rigil Kentaurus", Kind: KindStar, RA: "14h39m36.5s", Dec: "-60d50m02s", Magnitude: -0.01, Description: "Alpha Centauri A, closest star system to the Sun"},
	{Name: "Arcturus", Kind: KindStar, RA: "14h15m39.7s", Dec: "19d10m57s", Magnitude: -0.05, Description: "Bright star in Bootes"},
	{Name: "Vega", Kind: KindStar, RA: "18h36m56.3s", Dec: "38d47m01s", Magnitude: 0.03, Description: "Bright star in Lyra"},
	{Name: "Capella", Kind: KindStar, RA: "5h16m41.4s", Dec: "45d59m53s", Magnitude: 0.08, Description: "Bright star in Auriga"},
	{Name: "Rigel", Kind: KindStar, RA: "5h14m32.3s", Dec: "-8d12m6s", Magnitude: 0.13, Description: "Left foot of Orion"},
	{Name: "Procyon", Kind: KindStar, RA: "7h39m18.1s", Dec: "5d13m30s", Magnitude: 0.34, Description: "Bright star in Canis Minor"},
	{Name: "Achernar", Kind: KindStar, RA: "1h37m42.8s", Dec: "-57d14m12s", Magnitude: 0.46, Description: "End of the river Eridanus"},
	{Name: "Betelgeuse", Kind: KindStar, RA: "5h55m10.3s", Dec: "7d24m25s", Magnitude: 0.50, Description: "Red supergiant, shoulder of Orion"},
	{Name: "Acrux", Kind: KindStar, RA: "12h26m35.9s", Dec: "-63d07m29s", Magnitude: 0.76, Description: "Brightest star of the Southern Cross"},
	{Name: "Altair", Kind: KindStar, RA: "19h50m46.7s", Dec: "8d52m06s", Magnitude: 0.77, Description: "Bright star in Aquila"},
	{Name: "Aldebaran", Kind: KindStar, RA: "4h35m55.2s", Dec: "16d30m33s", Magnitude: 0.87, Description: "Eye of Taurus"},
	{Name: "Spica", Kind: KindStar, RA: "13h25m11.6s", Dec: "-11d09m41s", Magnitude: 0.98, Description: "Bright star in Virgo"},
	{Name: "Antares", Kind: KindStar, RA: "16h29m24.5s", Dec: "-26d25m55s", Magnitude: 1.09, Description: "Red heart of Scorpius"},
	{Name: "Pollux", Kind: KindStar, RA: "7h45m18.9s", Dec: "28d01m34s", Magnitude: 1.14, Description: "One of the Gemini twins"},
	{Name: "Fomalhaut", Kind: KindStar, RA: "22h57m39.0s", Dec: "-29d37m20s", Magnitude: 1.16, Description: "Bright star in Piscis Austrinus"},
	{Name: "Deneb", Kind: KindStar, RA: "20h41m25.9s", Dec: "45d16m49s", Magnitude: 1.25, Description: "Tail of Cygnus"},
	{Name: "Regulus", Kind: KindStar, RA: "10h08m22.3s", Dec: "11d58m02s", Magnitude: 1.40, Description: "Heart of Leo"},
	{Name: "Adhara", Kind: KindStar, RA: "6h58m37.6s", Dec: "-28d58m32s", Magnitude: 1.50, Description: "Bright star in Canis Major"},
	{Name: "Castor", Kind: KindStar, RA: "7h34m35.9s", Dec: "31d53m18s", Magnitude: 1.58, Description: "One of the Gemini twins"},
	{Name: "Gacrux", Kind: KindStar, RA: "12h31m09.9s", Dec: "-57d07m07s", Magnitude: 1.60, Description: "Top of the Southern Cross"},
	{Name: "Bellatrix", Kind: KindStar, RA: "5h25m07.9s", Dec: "6d20m59s", Magnitude: 1.64, Description: "Left shoulder of Orion"},
	{Name: "Alnilam", Kind: KindStar, RA: "5h36m12.8s", Dec: "-1d12m07s", Magnitude: 1.69, Description: "Center of Orion's Belt"},
	{Name: "Alnair", Kind: KindStar, RA: "22h8m13.7s", Dec: "-46d57m39s", Magnitude: 1.73, Description: "Bright star in Grus"},
	{Name: "Dubhe", Kind: KindStar, RA: "11h2m47.5s", Dec: "61d45m03s", Magnitude: 1.79, Description: "One of the pointers in Ursa Major"},
	{Name: "Mirfak", Kind: KindStar, RA: "3h24m19.4s", Dec: "49d51m40s", Magnitude: 1.80, Description: "Bright star in Perseus"},
	{Name: "Wezen", Kind: KindStar, RA: "7h07m56.0s", Dec: "-26d23m42s", Magnitude: 1.83, Description: "Bright star in Canis Major"},
	{Name: "Sargas", Kind: KindStar, RA: "17h37m34.2s", Dec: "-43d01m12s", Magnitude: 1.85, Description: "Tail of Scorpius"},
	{Name: "Polaris", Kind: KindStar, RA: "2h31m47.1s", Dec: "89d15m51s", Magnitude: 1.98, Description: "North Star in Ursa Minor"},
	{Name: "Hamal", Kind: KindStar, RA: "2h07m10.4s", Dec: "23d27m45s", Magnitude: 2.00, Description: "Brightest star in Aries"},
	{Name: "Alpheratz", Kind: KindStar, RA: "0h8m23.3s", Dec: "29d5m05s", Magnitude: 2.07, Description: "Head of Andromeda"},
	{Name: "Kochab", Kind: KindStar, RA: "14h50m42.3s", Dec: "74d09m12s", Magnitude: 2.08, Description: "Bright star in Ursa Minor"},
	{Name: "Alphecca", Kind: KindStar, RA: "16h25m56.2s", Dec: "26d25m56s", Magnitude: 2.35, Description: "Jewel of Corona Borealis"},
	{Name: "Enif", Kind: KindStar, RA: "21h44m11.8s", Dec: "9d52m06s", Magnitude: 2.38, Description: "Nose of Pegasus"},
	{Name: "Scheat", Kind: KindStar, RA: "23h03m46.5s", Dec: "28d04m34s", Magnitude: 2.42, Description: "Bright star in Pegasus"},
	{Name: "Markab", Kind: KindStar, RA: "23h04m45.7s", Dec: "15d12m19s", Magnitude: 2.49, Description: "Corner of the Great Square of Pegasus"},
	{Name: "Alphard", Kind: KindStar, RA: "9h27m35.2s", Dec: "-8d39m31s", Magnitude: 2.00, Description: "Solitary star in Hydra"},
	{Name: "Algenib", Kind: KindStar, RA: "0h13m14.2s", Dec: "15d11m00s", Magnitude: 2.83, Description: "Corner of the Great Square of Pegasus"},
	{Name: "Alcyone", Kind: KindStar, RA: "3h47m29.1s", Dec: "24d07m26s", Magnitude: 2.87, Description: "Brightest star of the Pleiades"},
	{Name: "Sadalmelik", Kind: KindStar, RA: "22h5m47.0s", Dec: "-0d19m11s", Magnitude: 2.96, Description: "Bright star in Aquarius"},
}
