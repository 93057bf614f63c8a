package sight

import (
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-sextant/internal/astro"
)

func TestRefraction(t *testing.T) {
	std := func(alt float64) RefractionInput {
		return RefractionInput{AltitudeDeg: alt, TemperatureC: 10, PressureHPa: 1010}
	}

	t.Run("at 45 degrees", func(t *testing.T) {
		// 1.02/tan(45°) arcmin scaled by 273/283 at standard pressure.
		r, err := Refraction(std(45))
		if err != nil {
			t.Fatalf("Refraction error: %v", err)
		}
		want := 1.02 * (273.0 / 283.0) / 60
		if math.Abs(r-want) > 1e-9 {
			t.Errorf("refraction = %.8f, want %.8f", r, want)
		}
	})

	t.Run("horizon and below", func(t *testing.T) {
		for _, alt := range []float64{0, -0.5, -1} {
			r, err := Refraction(std(alt))
			if err != nil {
				t.Fatalf("Refraction(%.1f) error: %v", alt, err)
			}
			if r != 0 {
				t.Errorf("Refraction(%.1f) = %v, want 0", alt, r)
			}
		}
	})

	t.Run("low altitude formula", func(t *testing.T) {
		// Below 15° the empirical arcminute formula takes over; at 5° the
		// correction is near 10' rather than the 1.02/tan value.
		r, err := Refraction(std(5))
		if err != nil {
			t.Fatalf("Refraction error: %v", err)
		}
		if r < 0.15 || r > 0.20 {
			t.Errorf("refraction at 5° = %.4f deg, want roughly 10 arcmin", r)
		}
		naive := 1.02 / math.Tan(5*math.Pi/180) * (273.0 / 283.0) / 60
		if math.Abs(r-naive) < 1e-4 {
			t.Error("low-altitude branch did not engage")
		}
	})

	t.Run("decreases with altitude", func(t *testing.T) {
		prev := math.Inf(1)
		for _, alt := range []float64{2, 5, 10, 20, 45, 70, 89} {
			r, err := Refraction(std(alt))
			if err != nil {
				t.Fatalf("Refraction(%.0f) error: %v", alt, err)
			}
			if r >= prev {
				t.Errorf("refraction at %.0f° (%.6f) not below the previous altitude's", alt, r)
			}
			prev = r
		}
	})

	t.Run("monotonic in conditions", func(t *testing.T) {
		base, _ := Refraction(std(20))
		colder, _ := Refraction(RefractionInput{AltitudeDeg: 20, TemperatureC: -20, PressureHPa: 1010})
		denser, _ := Refraction(RefractionInput{AltitudeDeg: 20, TemperatureC: 10, PressureHPa: 1040})
		if colder <= base {
			t.Errorf("cold air should refract more: %.6f vs %.6f", colder, base)
		}
		if denser <= base {
			t.Errorf("high pressure should refract more: %.6f vs %.6f", denser, base)
		}
	})

	t.Run("observer altitude thins the air", func(t *testing.T) {
		seaLevel, _ := Refraction(std(45))
		aloft, err := Refraction(RefractionInput{
			AltitudeDeg: 45, TemperatureC: 10, PressureHPa: 1010,
			ObserverAltitudeM: 10000,
		})
		if err != nil {
			t.Fatalf("Refraction error: %v", err)
		}
		if aloft >= seaLevel {
			t.Errorf("refraction at altitude %.6f should be below sea level %.6f", aloft, seaLevel)
		}
		if aloft <= 0 {
			t.Errorf("refraction at altitude = %.6f, want positive", aloft)
		}
	})

	t.Run("validation", func(t *testing.T) {
		bad := []RefractionInput{
			{AltitudeDeg: 91, TemperatureC: 10, PressureHPa: 1010},
			{AltitudeDeg: -2, TemperatureC: 10, PressureHPa: 1010},
			{AltitudeDeg: 45, TemperatureC: 150, PressureHPa: 1010},
			{AltitudeDeg: 45, TemperatureC: 10, PressureHPa: 700},
			{AltitudeDeg: 45, TemperatureC: 10, PressureHPa: 1010, ObserverAltitudeM: -1},
		}
		for i, in := range bad {
			if _, err := Refraction(in); err == nil {
				t.Errorf("case %d: expected validation error", i)
			}
		}
	})
}

func TestDip(t *testing.T) {
	tests := []struct {
		heightM float64
		want    float64
		wantErr bool
	}{
		{0, 0, false},
		{9, 0.97 * 3 / 60, false},
		{25, 0.97 * 5 / 60, false},
		{-1, 0, true},
	}
	for _, tt := range tests {
		got, err := Dip(tt.heightM)
		if (err != nil) != tt.wantErr {
			t.Errorf("Dip(%.1f) err = %v, wantErr %v", tt.heightM, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Dip(%.1f) = %.6f, want %.6f", tt.heightM, got, tt.want)
		}
	}
}

func TestLimbCorrection(t *testing.T) {
	sunRadius := 16.0 / 60.0
	venusRadius := (9.5 + 68.0) / 2 / 3600

	tests := []struct {
		name    string
		body    string
		limb    Limb
		want    float64
		wantErr bool
	}{
		{"sun center", "sun", LimbCenter, 0, false},
		{"sun lower", "sun", LimbLower, sunRadius, false},
		{"sun upper", "sun", LimbUpper, -sunRadius, false},
		{"moon lower", "moon", LimbLower, sunRadius, false},
		{"venus lower", "venus", LimbLower, venusRadius, false},
		{"star lower is zero", "sirius", LimbLower, 0, false},
		{"unknown body", "phobos", LimbCenter, 0, true},
		{"bad limb", "sun", Limb(9), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LimbCorrection(tt.body, tt.limb)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("LimbCorrection = %.6f, want %.6f", got, tt.want)
			}
		})
	}
}

func TestMovementCorrection(t *testing.T) {
	t.Run("north at 60 knots for an hour", func(t *testing.T) {
		got, err := MovementCorrection(MovementInput{
			Position:   astro.Position{LatDeg: 0, LonDeg: 0},
			SpeedKnots: 60,
			CourseDeg:  0,
			Hours:      1,
		})
		if err != nil {
			t.Fatalf("MovementCorrection error: %v", err)
		}
		wantDLat := 60 * 1.852 / 111.0
		if math.Abs(got.LatDeg-wantDLat) > 1e-9 {
			t.Errorf("dLat = %.6f, want %.6f", got.LatDeg, wantDLat)
		}
		if math.Abs(got.LonDeg) > 1e-9 {
			t.Errorf("dLon = %.6f, want 0", got.LonDeg)
		}
	})

	t.Run("east shift grows with latitude", func(t *testing.T) {
		atEquator, _ := MovementCorrection(MovementInput{
			Position: astro.Position{LatDeg: 0, LonDeg: 0}, SpeedKnots: 60, CourseDeg: 90, Hours: 1,
		})
		atSixty, _ := MovementCorrection(MovementInput{
			Position: astro.Position{LatDeg: 60, LonDeg: 0}, SpeedKnots: 60, CourseDeg: 90, Hours: 1,
		})
		if atSixty.LonDeg <= atEquator.LonDeg {
			t.Errorf("meridian convergence: dLon at 60N %.4f should exceed equator %.4f",
				atSixty.LonDeg, atEquator.LonDeg)
		}
	})

	t.Run("negative hours reverses the shift", func(t *testing.T) {
		fwd, _ := MovementCorrection(MovementInput{
			Position: astro.Position{LatDeg: 30, LonDeg: 10}, SpeedKnots: 20, CourseDeg: 45, Hours: 2,
		})
		back, _ := MovementCorrection(MovementInput{
			Position: astro.Position{LatDeg: 30, LonDeg: 10}, SpeedKnots: 20, CourseDeg: 45, Hours: -2,
		})
		if math.Abs((fwd.LatDeg-30)+(back.LatDeg-30)) > 1e-9 {
			t.Errorf("latitude shifts not symmetric: %.6f vs %.6f", fwd.LatDeg, back.LatDeg)
		}
		if math.Abs((fwd.LonDeg-10)+(back.LonDeg-10)) > 1e-9 {
			t.Errorf("longitude shifts not symmetric: %.6f vs %.6f", fwd.LonDeg, back.LonDeg)
		}
	})

	t.Run("stationary", func(t *testing.T) {
		pos := astro.Position{LatDeg: 12, LonDeg: 34}
		got, err := MovementCorrection(MovementInput{Position: pos, SpeedKnots: 0, CourseDeg: 90, Hours: 5})
		if err != nil {
			t.Fatalf("MovementCorrection error: %v", err)
		}
		if got != pos {
			t.Errorf("stationary craft moved to %+v", got)
		}
	})

	t.Run("validation", func(t *testing.T) {
		if _, err := MovementCorrection(MovementInput{
			Position: astro.Position{LatDeg: 95}, SpeedKnots: 10,
		}); err == nil {
			t.Error("expected error for invalid position")
		}
		if _, err := MovementCorrection(MovementInput{
			Position: astro.Position{}, SpeedKnots: -5,
		}); err == nil {
			t.Error("expected error for negative speed")
		}
	})
}

func TestTimeIntervalCorrection(t *testing.T) {
	ref := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	// The body climbs one degree per hour in this script.
	p := altitudeRamp(ref, 40, 1)

	got, err := TimeIntervalCorrection(p, TimeIntervalInput{
		AltitudeDeg:   45,
		IntervalHours: 0.5,
		Body:          "sun",
		Assumed:       astro.Position{LatDeg: 40, LonDeg: -74},
		Time:          ref,
	})
	if err != nil {
		t.Fatalf("TimeIntervalCorrection error: %v", err)
	}
	if math.Abs(got-45.5) > 1e-9 {
		t.Errorf("corrected altitude = %.6f, want 45.5", got)
	}

	if _, err := TimeIntervalCorrection(p, TimeIntervalInput{AltitudeDeg: 99}); err == nil {
		t.Error("expected validation error for out-of-range altitude")
	}
}

func TestCorrections_Marine(t *testing.T) {
	obs := DefaultObservation()
	obs.ObserverHeightM = 9
	obs.Limb = LimbLower

	set, err := Corrections(nil, obs)
	if err != nil {
		t.Fatalf("Corrections error: %v", err)
	}

	wantRefraction := 1.02 * (273.0 / 283.0) / 60
	wantDip := 0.97 * 3 / 60
	wantLimb := 16.0 / 60.0

	if math.Abs(set.RefractionDeg-wantRefraction) > 1e-9 {
		t.Errorf("RefractionDeg = %.6f, want %.6f", set.RefractionDeg, wantRefraction)
	}
	if math.Abs(set.DipDeg-wantDip) > 1e-9 {
		t.Errorf("DipDeg = %.6f, want %.6f", set.DipDeg, wantDip)
	}
	if math.Abs(set.LimbDeg-wantLimb) > 1e-9 {
		t.Errorf("LimbDeg = %.6f, want %.6f", set.LimbDeg, wantLimb)
	}

	wantTotal := -wantRefraction + wantDip + wantLimb
	if math.Abs(set.TotalDeg-wantTotal) > 1e-9 {
		t.Errorf("TotalDeg = %.6f, want %.6f", set.TotalDeg, wantTotal)
	}
	if math.Abs(set.CorrectedAltitudeDeg-(45+wantTotal)) > 1e-9 {
		t.Errorf("CorrectedAltitudeDeg = %.6f, want %.6f", set.CorrectedAltitudeDeg, 45+wantTotal)
	}
}

func TestCorrections_AviationSkipsDip(t *testing.T) {
	obs := DefaultObservation()
	obs.Mode = ModeAviation
	obs.ObserverHeightM = 9 // Ignored: bubble horizon
	obs.AircraftAltitudeM = 3000

	set, err := Corrections(nil, obs)
	if err != nil {
		t.Fatalf("Corrections error: %v", err)
	}
	if set.DipDeg != 0 {
		t.Errorf("DipDeg = %.6f, want 0 for a bubble sextant", set.DipDeg)
	}

	// Refraction at 3000 m is weaker than at sea level.
	marineSet, _ := Corrections(nil, DefaultObservation())
	if set.RefractionDeg >= marineSet.RefractionDeg {
		t.Errorf("aloft refraction %.6f should be below sea-level %.6f",
			set.RefractionDeg, marineSet.RefractionDeg)
	}
}

func TestCorrections_AviationMovement(t *testing.T) {
	ref := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	obs := DefaultObservation()
	obs.Mode = ModeAviation
	obs.Time = ref
	obs.SpeedKnots = 300
	obs.CourseDeg = 90
	obs.IntervalHours = 0.25

	set, err := Corrections(altitudeRamp(ref, 40, 2), obs)
	if err != nil {
		t.Fatalf("Corrections error: %v", err)
	}
	if math.Abs(set.TimeIntervalDeg-0.5) > 1e-9 {
		t.Errorf("TimeIntervalDeg = %.6f, want 0.5", set.TimeIntervalDeg)
	}
	if set.Movement.DLonDeg <= 0 {
		t.Errorf("eastbound movement dLon = %.6f, want positive", set.Movement.DLonDeg)
	}
	if math.Abs(set.Movement.DLatDeg) > 1e-6 {
		t.Errorf("eastbound movement dLat = %.6f, want ~0", set.Movement.DLatDeg)
	}
}
