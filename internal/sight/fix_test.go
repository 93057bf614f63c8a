package sight

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-sextant/internal/astro"
)

// syntheticLine builds a sight line whose intercept is exactly consistent
// with the given true position.
func syntheticLine(truth, assumed astro.Position, azimuthDeg float64, body string) SightLine {
	l := SightLine{Body: body, AzimuthDeg: azimuthDeg, Assumed: assumed}
	l.InterceptNm = predictedIntercept(truth.LatDeg, truth.LonDeg, l)
	return l
}

func TestSolver_Solve_RecoversTruePosition(t *testing.T) {
	truth := astro.Position{LatDeg: 40.5, LonDeg: -73.8}
	lines := []SightLine{
		syntheticLine(truth, astro.Position{LatDeg: 40.3, LonDeg: -74.0}, 40, "sun"),
		syntheticLine(truth, astro.Position{LatDeg: 40.6, LonDeg: -73.6}, 160, "venus"),
		syntheticLine(truth, astro.Position{LatDeg: 40.7, LonDeg: -73.9}, 280, "moon"),
	}

	fix, err := NewSolver(nil).Solve(lines)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	if !fix.Converged {
		t.Fatal("fix did not converge")
	}
	if d := astro.DistanceNm(fix.Position, truth); d > 0.1 {
		t.Errorf("fix %.4f nm from truth, want under 0.1", d)
	}
	if fix.RMSENm > 0.01 {
		t.Errorf("RMSE = %.4f nm, want ~0 for consistent lines", fix.RMSENm)
	}
	if fix.Lines != 3 || len(fix.ResidualsNm) != 3 {
		t.Errorf("Lines/residuals = %d/%d, want 3/3", fix.Lines, len(fix.ResidualsNm))
	}
	if fix.Quality != QualityExcellent {
		t.Errorf("Quality = %s, want excellent for spread azimuths and tiny RMSE", fix.Quality)
	}
	if fix.Ellipse.ConfidencePct != 95 {
		t.Errorf("ellipse confidence = %.0f, want 95", fix.Ellipse.ConfidencePct)
	}
	if fix.Ellipse.SemiMajorNm < fix.Ellipse.SemiMinorNm {
		t.Errorf("ellipse axes inverted: major %.4f < minor %.4f",
			fix.Ellipse.SemiMajorNm, fix.Ellipse.SemiMinorNm)
	}
}

func TestSolver_Solve_TwoLines(t *testing.T) {
	truth := astro.Position{LatDeg: -20.25, LonDeg: 30.1}
	lines := []SightLine{
		syntheticLine(truth, astro.Position{LatDeg: -20.0, LonDeg: 30.0}, 0, "sun"),
		syntheticLine(truth, astro.Position{LatDeg: -20.4, LonDeg: 30.3}, 90, "moon"),
	}

	fix, err := NewSolver(nil).Solve(lines)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	if !fix.Converged {
		t.Fatal("fix did not converge")
	}
	if d := astro.DistanceNm(fix.Position, truth); d > 0.1 {
		t.Errorf("fix %.4f nm from truth, want under 0.1", d)
	}
}

func TestSolver_Solve_FixedIntercepts(t *testing.T) {
	// Classic plotting-sheet case: two perpendicular lines through the
	// same assumed position with known intercepts. The fix sits 10 nm
	// toward 090 and 5 nm away from 000.
	assumed := astro.Position{LatDeg: 40, LonDeg: -74}
	lines := []SightLine{
		{Body: "sun", AzimuthDeg: 90, InterceptNm: 10, Assumed: assumed},
		{Body: "moon", AzimuthDeg: 0, InterceptNm: -5, Assumed: assumed},
	}

	fix, err := NewSolver(nil).Solve(lines)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	if !fix.Converged {
		t.Fatal("fix did not converge")
	}
	if fix.RMSENm < 0 {
		t.Errorf("RMSENm = %.4f, want non-negative", fix.RMSENm)
	}

	wantLat := 40 - 5.0/60
	wantLon := -74 + 10.0/(60*math.Cos(wantLat*math.Pi/180))
	if math.Abs(fix.Position.LatDeg-wantLat) > 0.01 {
		t.Errorf("lat = %.4f, want %.4f", fix.Position.LatDeg, wantLat)
	}
	if math.Abs(fix.Position.LonDeg-wantLon) > 0.01 {
		t.Errorf("lon = %.4f, want %.4f", fix.Position.LonDeg, wantLon)
	}
	if fix.Position == assumed {
		t.Error("fix should move off the assumed position")
	}
	if astro.DistanceNm(fix.Position, assumed) > 15 {
		t.Error("fix implausibly far from the assumed position")
	}
}

func TestSolver_Solve_Underdetermined(t *testing.T) {
	_, err := NewSolver(nil).Solve([]SightLine{{AzimuthDeg: 90}})
	if !errors.Is(err, ErrUnderdetermined) {
		t.Errorf("error = %v, want ErrUnderdetermined", err)
	}
}

func TestSolver_Solve_ParallelLinesArePoor(t *testing.T) {
	// Two nearly parallel azimuths pin the position across the lines but
	// not along them: geometry grades poor even with zero residuals.
	truth := astro.Position{LatDeg: 10, LonDeg: 10}
	lines := []SightLine{
		syntheticLine(truth, astro.Position{LatDeg: 10.1, LonDeg: 9.9}, 90, "sun"),
		syntheticLine(truth, astro.Position{LatDeg: 9.9, LonDeg: 10.1}, 91, "sun"),
	}

	fix, err := NewSolver(nil).Solve(lines)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	if fix.GeometricFactor > 2 {
		t.Errorf("GeometricFactor = %.4f, want under 2 for near-parallel lines", fix.GeometricFactor)
	}
	if fix.Quality != QualityPoor {
		t.Errorf("Quality = %s, want poor", fix.Quality)
	}
}

func TestGeometricFactor(t *testing.T) {
	line := func(az float64) SightLine { return SightLine{AzimuthDeg: az} }

	tests := []struct {
		name  string
		lines []SightLine
		want  float64
	}{
		{"perpendicular pair", []SightLine{line(0), line(90)}, 50},
		{"three-way spread", []SightLine{line(0), line(120), line(240)}, 75},
		{"parallel pair", []SightLine{line(45), line(45)}, 0},
		{"reciprocal pair", []SightLine{line(0), line(180)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GeometricFactor(tt.lines)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("GeometricFactor = %.4f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestQualityThresholds_Grade(t *testing.T) {
	th := DefaultQualityThresholds()
	tests := []struct {
		factor float64
		rmseNm float64
		want   Quality
	}{
		{15, 0.3, QualityExcellent},
		{15, 0.7, QualityGood}, // Tight geometry, loose residuals
		{8, 0.3, QualityGood},
		{3, 1.5, QualityFair},
		{15, 3.0, QualityPoor},
		{1, 0.1, QualityPoor},
	}
	for _, tt := range tests {
		if got := th.grade(tt.factor, tt.rmseNm); got != tt.want {
			t.Errorf("grade(%.1f, %.1f) = %s, want %s", tt.factor, tt.rmseNm, got, tt.want)
		}
	}
}

func TestQualityString(t *testing.T) {
	if QualityExcellent.String() != "excellent" || QualityPoor.String() != "poor" {
		t.Error("quality names do not match grades")
	}
}

func TestSolver_RunningFix(t *testing.T) {
	// Two sights two hours apart from a vessel making 12 knots due east.
	// The second line is built against the advanced position; advancing
	// it back to the epoch must recover the epoch position.
	epoch := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	truth := astro.Position{LatDeg: 35, LonDeg: -40}

	first := syntheticLine(truth, astro.Position{LatDeg: 34.9, LonDeg: -40.1}, 120, "sun")
	first.Time = epoch

	laterAssumed := astro.Position{LatDeg: 35.1, LonDeg: -39.9}
	second := syntheticLine(truth, laterAssumed, 210, "sun")
	second.Time = epoch.Add(2 * time.Hour)
	second.Assumed = astro.Offset(laterAssumed, 90, 24)

	fix, err := NewSolver(nil).RunningFix([]SightLine{second, first}, 12, 90)
	if err != nil {
		t.Fatalf("RunningFix error: %v", err)
	}
	if !fix.Converged {
		t.Fatal("running fix did not converge")
	}
	if d := astro.DistanceNm(fix.Position, truth); d > 1 {
		t.Errorf("running fix %.4f nm from epoch truth, want under 1", d)
	}

	// Without advancing, the stale assumed position drags the fix east.
	direct, err := NewSolver(nil).Solve([]SightLine{second, first})
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	if astro.DistanceNm(direct.Position, truth) < astro.DistanceNm(fix.Position, truth) {
		t.Error("running fix should beat the uncorrected solve")
	}
}

func TestSolver_RunningFix_Underdetermined(t *testing.T) {
	_, err := NewSolver(nil).RunningFix([]SightLine{{AzimuthDeg: 45}}, 10, 90)
	if !errors.Is(err, ErrUnderdetermined) {
		t.Errorf("error = %v, want ErrUnderdetermined", err)
	}
}

func TestLOPEndpoints(t *testing.T) {
	l := SightLine{
		AzimuthDeg:  45,
		InterceptNm: 6,
		Assumed:     astro.Position{LatDeg: 40, LonDeg: -73},
	}
	a, b := LOPEndpoints(l, 20)

	if d := astro.DistanceNm(a, b); math.Abs(d-20) > 0.05 {
		t.Errorf("endpoint separation = %.3f nm, want 20", d)
	}

	ip := astro.Offset(l.Assumed, l.AzimuthDeg, l.InterceptNm)
	if d := astro.DistanceNm(a, ip); math.Abs(d-10) > 0.05 {
		t.Errorf("endpoint to intercept point = %.3f nm, want 10", d)
	}
	if d := astro.DistanceNm(b, ip); math.Abs(d-10) > 0.05 {
		t.Errorf("endpoint to intercept point = %.3f nm, want 10", d)
	}
}
