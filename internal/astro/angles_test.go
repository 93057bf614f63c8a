package astro

import (
	"math"
	"strings"
	"testing"
)

func TestNormalizeDeg(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"in range", 137.5, 137.5},
		{"full turn", 360, 0},
		{"over full turn", 450, 90},
		{"negative", -90, 270},
		{"large negative", -720, 0},
		{"many turns", 3600 + 15, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDeg(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("NormalizeDeg(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeLon(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"east", 120, 120},
		{"west", -75, -75},
		{"wraps east", 190, -170},
		{"wraps west", -190, 170},
		{"full turn", 360, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLon(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("NormalizeLon(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPosition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		pos     Position
		wantErr bool
	}{
		{"valid", Position{LatDeg: 40.7, LonDeg: -74.0}, false},
		{"poles", Position{LatDeg: 90, LonDeg: 0}, false},
		{"antimeridian", Position{LatDeg: 0, LonDeg: -180}, false},
		{"lat too high", Position{LatDeg: 90.1, LonDeg: 0}, true},
		{"lat too low", Position{LatDeg: -91, LonDeg: 0}, true},
		{"lon too high", Position{LatDeg: 0, LonDeg: 181}, true},
		{"lon too low", Position{LatDeg: 0, LonDeg: -180.5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pos.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPosition_String(t *testing.T) {
	s := Position{LatDeg: 40.7128, LonDeg: -74.0060}.String()
	if !strings.Contains(s, "N") || !strings.Contains(s, "W") {
		t.Errorf("String() = %q, want N and W hemispheres", s)
	}
}
