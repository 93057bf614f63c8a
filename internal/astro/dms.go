package astro

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FormatDMS formats an angle as degrees, minutes, and seconds with a
// hemisphere letter (hemiPos for non-negative values, hemiNeg otherwise).
func FormatDMS(deg float64, hemiPos, hemiNeg byte) string {
	hemi := hemiPos
	if deg < 0 {
		hemi = hemiNeg
		deg = -deg
	}
	d := int(deg)
	minFloat := (deg - float64(d)) * 60
	m := int(minFloat)
	s := (minFloat - float64(m)) * 60

	return fmt.Sprintf("%d°%02d'%05.2f\"%c", d, m, s, hemi)
}

// FormatPosition formats a position as paired DMS strings, e.g.
// 40°42'46.08"N, 74°00'21.60"W.
func FormatPosition(p Position) string {
	return FormatDMS(p.LatDeg, 'N', 'S') + ", " + FormatDMS(p.LonDeg, 'E', 'W')
}

var (
	raPattern  = regexp.MustCompile(`^(\d+(?:\.\d+)?)h(?:\s*(\d+(?:\.\d+)?)m)?(?:\s*(\d+(?:\.\d+)?)s)?$`)
	decPattern = regexp.MustCompile(`^([+-]?\d+(?:\.\d+)?)d(?:\s*(\d+(?:\.\d+)?)m)?(?:\s*(\d+(?:\.\d+)?)s)?$`)
)

// ParseRA parses a right ascension in hour-minute-second notation, e.g.
// "6h45m8.9s", and returns degrees.
func ParseRA(s string) (float64, error) {
	m := raPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid right ascension %q", s)
	}
	h, _ := strconv.ParseFloat(m[1], 64)
	var mins, secs float64
	if m[2] != "" {
		mins, _ = strconv.ParseFloat(m[2], 64)
	}
	if m[3] != "" {
		secs, _ = strconv.ParseFloat(m[3], 64)
	}
	if h >= 24 || mins >= 60 || secs >= 60 {
		return 0, fmt.Errorf("right ascension %q out of range", s)
	}
	return (h + mins/60 + secs/3600) * 15, nil
}

// ParseDec parses a declination in degree-minute-second notation, e.g.
// "-16d42m58s", and returns degrees.
func ParseDec(s string) (float64, error) {
	m := decPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid declination %q", s)
	}
	d, _ := strconv.ParseFloat(m[1], 64)
	var mins, secs float64
	if m[2] != "" {
		mins, _ = strconv.ParseFloat(m[2], 64)
	}
	if m[3] != "" {
		secs, _ = strconv.ParseFloat(m[3], 64)
	}
	if mins >= 60 || secs >= 60 {
		return 0, fmt.Errorf("declination %q out of range", s)
	}
	mag := (abs(d) + mins/60 + secs/3600)
	if mag > 90 {
		return 0, fmt.Errorf("declination %q out of range", s)
	}
	if strings.HasPrefix(strings.TrimSpace(s), "-") {
		return -mag, nil
	}
	return mag, nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
