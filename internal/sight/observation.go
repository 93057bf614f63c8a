package sight

import (
	"fmt"
	"strings"
	"time"

	"github.com/litescript/ls-sextant/internal/astro"
	"github.com/litescript/ls-sextant/internal/ephem"
)

// Limb selects which part of a body's disk was brought to the horizon.
type Limb int

const (
	LimbCenter Limb = iota
	LimbLower
	LimbUpper
)

// String returns the limb name.
func (l Limb) String() string {
	switch l {
	case LimbCenter:
		return "center"
	case LimbLower:
		return "lower"
	case LimbUpper:
		return "upper"
	default:
		return "unknown"
	}
}

// ParseLimb parses a limb name.
func ParseLimb(s string) (Limb, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "":
		return LimbCenter, nil
	case "lower":
		return LimbLower, nil
	case "upper":
		return LimbUpper, nil
	default:
		return LimbCenter, &ValidationError{Msg: fmt.Sprintf("limb %q is not supported; use center, upper, or lower", s)}
	}
}

// Mode is the navigation mode, which drives the correction policy.
type Mode int

const (
	ModeMarine Mode = iota
	ModeAviation
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeMarine:
		return "marine"
	case ModeAviation:
		return "aviation"
	default:
		return "unknown"
	}
}

// ParseMode parses a navigation mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "marine", "":
		return ModeMarine, nil
	case "aviation":
		return ModeAviation, nil
	default:
		return ModeMarine, &ValidationError{Msg: fmt.Sprintf("navigation mode %q is not supported; use marine or aviation", s)}
	}
}

// correctionPolicy states which corrections a navigation mode applies.
type correctionPolicy struct {
	ApplyDip          bool // Natural horizon: dip applies
	RefractionAtHgt   bool // Refraction accounts for observer altitude
	MovementCorrected bool // Assumed position shifted for craft movement
	TimeInterval      bool // Altitude adjusted for body drift over interval
}

// policies is a closed table keyed by Mode; a bubble sextant provides an
// artificial horizon, so aviation mode never applies dip.
var policies = map[Mode]correctionPolicy{
	ModeMarine:   {ApplyDip: true},
	ModeAviation: {RefractionAtHgt: true, MovementCorrected: true, TimeInterval: true},
}

// Policy returns the correction policy for a mode.
func (m Mode) Policy() correctionPolicy {
	return policies[m]
}

// Observation is one raw sextant sight with everything needed to reduce
// it. Values are set at construction and never mutated by the reduction
// pipeline.
type Observation struct {
	AltitudeDeg float64   // Raw sextant altitude, degrees [-1, 90]
	Body        string    // Celestial body name
	Time        time.Time // UTC observation time
	Assumed     astro.Position
	Limb        Limb
	Mode        Mode

	TemperatureC    float64 // Air temperature, °C [-100, 100]
	PressureHPa     float64 // Atmospheric pressure, hPa [800, 1200]
	HumidityPct     float64 // Relative humidity, % [0, 100]
	ObserverHeightM float64 // Height of eye above sea level, meters ≥ 0

	InstrumentErrDeg float64 // Sextant arc error, degrees [-1, 1]
	IndexErrDeg      float64 // Index mirror error, degrees [-1, 1]
	PersonalErrDeg   float64 // Observer's habitual error, degrees [-1, 1]

	ApplyRefraction bool

	// Aviation-only fields
	AircraftAltitudeM float64 // Height above sea level, meters
	SpeedKnots        float64 // Ground speed
	CourseDeg         float64 // True course
	IntervalHours     float64 // Hours from the reference observation
}

// DefaultObservation returns an observation with the documented default
// parameters: a 45° Sun center-limb sight from the default assumed
// position under standard atmosphere.
func DefaultObservation() Observation {
	return Observation{
		AltitudeDeg:     45.0,
		Body:            "sun",
		Time:            time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC),
		Assumed:         astro.Position{LatDeg: 40.7128, LonDeg: -74.0060},
		Limb:            LimbCenter,
		Mode:            ModeMarine,
		TemperatureC:    10.0,
		PressureHPa:     1010.0,
		HumidityPct:     60.0,
		ApplyRefraction: true,
	}
}

// Validate checks every scalar field against its documented range and
// the body name against the catalog. It fails fast on the first
// violation.
func (o Observation) Validate() error {
	if err := checkRange("altitude", o.AltitudeDeg, -1, 90); err != nil {
		return err
	}
	if err := o.Assumed.Validate(); err != nil {
		return &ValidationError{Msg: err.Error()}
	}
	if err := checkRange("temperature", o.TemperatureC, -100, 100); err != nil {
		return err
	}
	if err := checkRange("pressure", o.PressureHPa, 800, 1200); err != nil {
		return err
	}
	if err := checkRange("humidity", o.HumidityPct, 0, 100); err != nil {
		return err
	}
	if o.ObserverHeightM < 0 {
		return &ValidationError{Msg: fmt.Sprintf("observer height %.1f m cannot be negative", o.ObserverHeightM)}
	}
	if err := checkRange("instrument error", o.InstrumentErrDeg, -1, 1); err != nil {
		return err
	}
	if err := checkRange("index error", o.IndexErrDeg, -1, 1); err != nil {
		return err
	}
	if err := checkRange("personal error", o.PersonalErrDeg, -1, 1); err != nil {
		return err
	}
	if o.Mode == ModeAviation && o.AircraftAltitudeM < 0 {
		return &ValidationError{Msg: fmt.Sprintf("aircraft altitude %.1f m cannot be negative", o.AircraftAltitudeM)}
	}
	if _, ok := ephem.Resolve(o.Body); !ok {
		return &ValidationError{Msg: fmt.Sprintf("celestial body %q is not supported", o.Body)}
	}
	if o.Limb != LimbCenter && o.Limb != LimbLower && o.Limb != LimbUpper {
		return &ValidationError{Msg: fmt.Sprintf("limb value %d is not supported", int(o.Limb))}
	}
	if o.Mode != ModeMarine && o.Mode != ModeAviation {
		return &ValidationError{Msg: fmt.Sprintf("navigation mode value %d is not supported", int(o.Mode))}
	}
	return nil
}

// SightResult is the outcome of reducing one observation: the intercept
// (nautical miles, positive toward the body) and the azimuth of the body
// at the assumed position.
type SightResult struct {
	InterceptNm          float64
	AzimuthDeg           float64
	CorrectedAltitudeDeg float64
	ComputedAltitudeDeg  float64
}

// Toward reports whether the position line lies toward the body from the
// assumed position.
func (r SightResult) Toward() bool {
	return r.InterceptNm >= 0
}
