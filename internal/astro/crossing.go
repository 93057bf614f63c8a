package astro

import (
	"errors"
	"time"
)

// AltitudeFunc returns the altitude of a body in degrees at a given time.
type AltitudeFunc func(t time.Time) float64

// CrossingDir selects which direction of horizon crossing to search for.
type CrossingDir int

const (
	// CrossRising matches an altitude increasing through the target.
	CrossRising CrossingDir = iota
	// CrossSetting matches an altitude decreasing through the target.
	CrossSetting
)

// Errors for crossing searches.
var (
	ErrNoCrossing = errors.New("no altitude crossing found in time range")
	ErrBadWindow  = errors.New("invalid search window")
)

// FindAltitudeCrossing locates the time at which f crosses targetDeg in the
// requested direction within [start, end]. The window is sampled at steps
// points to bracket the crossing, then refined by bisection until the
// bracket is narrower than tol.
func FindAltitudeCrossing(f AltitudeFunc, start, end time.Time, targetDeg float64, dir CrossingDir, steps int, tol time.Duration) (time.Time, error) {
	if !end.After(start) || steps < 2 {
		return time.Time{}, ErrBadWindow
	}
	if tol <= 0 {
		tol = time.Second
	}

	span := end.Sub(start)
	step := span / time.Duration(steps)

	prevT := start
	prevAlt := f(start)

	for i := 1; i <= steps; i++ {
		currT := start.Add(step * time.Duration(i))
		if currT.After(end) {
			currT = end
		}
		currAlt := f(currT)

		bracketed := false
		switch dir {
		case CrossRising:
			bracketed = prevAlt <= targetDeg && currAlt > targetDeg
		case CrossSetting:
			bracketed = prevAlt >= targetDeg && currAlt < targetDeg
		}

		if bracketed {
			return bisectCrossing(f, prevT, currT, targetDeg, dir, tol), nil
		}

		prevT = currT
		prevAlt = currAlt
	}

	return time.Time{}, ErrNoCrossing
}

// bisectCrossing refines a bracketed crossing by interval halving.
func bisectCrossing(f AltitudeFunc, lo, hi time.Time, targetDeg float64, dir CrossingDir, tol time.Duration) time.Time {
	for hi.Sub(lo) > tol {
		mid := lo.Add(hi.Sub(lo) / 2)
		alt := f(mid)

		above := alt > targetDeg
		if (dir == CrossRising) == above {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo.Add(hi.Sub(lo) / 2)
}
