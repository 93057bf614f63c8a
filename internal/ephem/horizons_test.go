package ephem

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func horizonsBody(t *testing.T, result string) []byte {
	t.Helper()
	b, err := json.Marshal(horizonsResponse{Result: result})
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return b
}

func TestParseHorizonsRADec(t *testing.T) {
	result := `*******************************************************************************
$$SOE
 2023-Jun-15 12:00 *   83.605025  23.291712
 2023-Jun-15 12:01 *   83.605900  23.291800
$$EOE
*******************************************************************************`

	ra, dec, err := parseHorizonsRADec(horizonsBody(t, result))
	if err != nil {
		t.Fatalf("parseHorizonsRADec error: %v", err)
	}
	if math.Abs(ra-83.605025) > 1e-9 {
		t.Errorf("RA = %.6f, want 83.605025", ra)
	}
	if math.Abs(dec-23.291712) > 1e-9 {
		t.Errorf("Dec = %.6f, want 23.291712", dec)
	}
}

func TestParseHorizonsRADec_SkipsUnparseableLines(t *testing.T) {
	result := `$$SOE
 Date__(UT)__HR:MN     R.A._(a-appar)  DEC_(a-appar)
 2023-Jun-15 12:00 C   120.500000  -10.250000
$$EOE`

	ra, dec, err := parseHorizonsRADec(horizonsBody(t, result))
	if err != nil {
		t.Fatalf("parseHorizonsRADec error: %v", err)
	}
	if ra != 120.5 || dec != -10.25 {
		t.Errorf("RA/Dec = %.4f/%.4f, want 120.5/-10.25", ra, dec)
	}
}

func TestParseHorizonsRADec_Errors(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"bad json", []byte("not json")},
		{"missing markers", horizonsBody(t, "no ephemeris table here")},
		{"markers reversed", horizonsBody(t, "$$EOE\n$$SOE")},
		{"no data rows", horizonsBody(t, "$$SOE\n\n$$EOE")},
		{"no numeric fields", horizonsBody(t, "$$SOE\n a b c d e\n$$EOE")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parseHorizonsRADec(tt.body); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseRADecLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantRA  float64
		wantDec float64
		wantErr bool
	}{
		{"plain", "2023-Jun-15 12:00 83.605025 23.291712", 83.605025, 23.291712, false},
		{"with flag", "2023-Jun-15 12:00 *m 83.605025 -23.291712", 83.605025, -23.291712, false},
		{"too few fields", "2023-Jun-15 12:00", 0, 0, true},
		{"no numbers", "2023-Jun-15 12:00 a b c", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra, dec, err := parseRADecLine(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if ra != tt.wantRA || dec != tt.wantDec {
				t.Errorf("RA/Dec = %v/%v, want %v/%v", ra, dec, tt.wantRA, tt.wantDec)
			}
		})
	}
}

func TestCacheKey(t *testing.T) {
	base := time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)

	// Sub-minute differences share a key; different minutes do not.
	if cacheKey("Sun", base) != cacheKey("Sun", base.Add(45*time.Second)) {
		t.Error("times within the same minute should share a cache key")
	}
	if cacheKey("Sun", base) == cacheKey("Sun", base.Add(time.Minute)) {
		t.Error("different minutes should not share a cache key")
	}
	if cacheKey("Sun", base) == cacheKey("Moon", base) {
		t.Error("different bodies should not share a cache key")
	}
}

func TestHorizonsProvider_StarsUseCatalog(t *testing.T) {
	// Star positions never hit the network, so this works offline.
	p := NewHorizonsProvider(nil)
	eq, err := p.Equatorial("vega", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Equatorial(vega) error: %v", err)
	}

	want, err := p.fallback.Equatorial("vega", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("fallback error: %v", err)
	}
	if eq != want {
		t.Errorf("star position = %+v, want almanac fallback %+v", eq, want)
	}
}

func TestHorizonsProvider_Unknown(t *testing.T) {
	p := NewHorizonsProvider(nil)
	if _, err := p.Equatorial("unobtainium", time.Now()); err == nil {
		t.Error("expected error for unknown body")
	}
}

func TestFormatHorizonsTime(t *testing.T) {
	got := formatHorizonsTime(time.Date(2024, 6, 15, 18, 4, 59, 0, time.UTC))
	if got != "2024-06-15 18:04" {
		t.Errorf("formatHorizonsTime = %q, want %q", got, "2024-06-15 18:04")
	}
}
