package ephem

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/litescript/ls-sextant/internal/astro"
)

// fakeProvider returns scripted positions for tests that should not
// depend on real ephemeris series.
type fakeProvider struct {
	equatorial func(body string, t time.Time) (Equatorial, error)
	altitude   func(body string, obs astro.Position, t time.Time) (AltAz, error)
}

func (f *fakeProvider) Name() string    { return "fake" }
func (f *fakeProvider) Available() bool { return true }

func (f *fakeProvider) Equatorial(body string, t time.Time) (Equatorial, error) {
	if f.equatorial == nil {
		return Equatorial{}, fmt.Errorf("no equatorial script")
	}
	return f.equatorial(body, t)
}

func (f *fakeProvider) Observe(body string, obs astro.Position, t time.Time) (AltAz, error) {
	if f.altitude == nil {
		return AltAz{}, fmt.Errorf("no altitude script")
	}
	return f.altitude(body, obs, t)
}

func TestDailyPage(t *testing.T) {
	p := &fakeProvider{
		equatorial: func(body string, ut time.Time) (Equatorial, error) {
			h := float64(ut.Hour())
			return Equatorial{
				GHADeg: astro.NormalizeDeg(h * 15),
				DecDeg: h * 0.1,
				SDDeg:  SunSDDeg,
			}, nil
		},
	}

	page, err := DailyPage(p, "sun", time.Date(2024, 6, 15, 13, 45, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DailyPage error: %v", err)
	}
	if page.Body != "Sun" {
		t.Errorf("Body = %q, want Sun", page.Body)
	}
	if !page.Date.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v, want midnight UT of the request date", page.Date)
	}
	if len(page.Rows) != 24 {
		t.Fatalf("got %d rows, want 24", len(page.Rows))
	}
	for h, row := range page.Rows {
		if row.UT.Hour() != h {
			t.Errorf("row %d: UT hour = %d", h, row.UT.Hour())
		}
		if row.GHADeg != astro.NormalizeDeg(float64(h)*15) {
			t.Errorf("row %d: GHA = %.4f", h, row.GHADeg)
		}
		if row.DecDeg != float64(h)*0.1 {
			t.Errorf("row %d: Dec = %.4f", h, row.DecDeg)
		}
	}
}

func TestDailyPage_UnknownBody(t *testing.T) {
	p := &fakeProvider{}
	_, err := DailyPage(p, "nibiru", time.Now())
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
}

func TestDailyPage_ProviderError(t *testing.T) {
	p := &fakeProvider{
		equatorial: func(body string, ut time.Time) (Equatorial, error) {
			return Equatorial{}, fmt.Errorf("upstream down")
		},
	}
	if _, err := DailyPage(p, "sun", time.Now()); err == nil {
		t.Error("expected provider error to propagate")
	}
}
