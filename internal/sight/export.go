package sight

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/naoina/toml"

	"github.com/litescript/ls-sextant/internal/astro"
)

// FixExport is the JSON-serializable representation of a position fix
// and the sight lines behind it.
type FixExport struct {
	ComputedAt      time.Time          `json:"computed_at"`
	Latitude        float64            `json:"latitude"`
	Longitude       float64            `json:"longitude"`
	Position        string             `json:"position"`
	Converged       bool               `json:"converged"`
	RMSENm          float64            `json:"rmse_nm"`
	GeometricFactor float64            `json:"geometric_factor"`
	Quality         string             `json:"quality"`
	Ellipse         ErrorEllipseExport `json:"error_ellipse"`
	Lines           []SightLineExport  `json:"sight_lines"`
}

// ErrorEllipseExport is a JSON-friendly confidence ellipse.
type ErrorEllipseExport struct {
	SemiMajorNm    float64 `json:"semi_major_nm"`
	SemiMinorNm    float64 `json:"semi_minor_nm"`
	OrientationDeg float64 `json:"orientation_deg"`
	ConfidencePct  float64 `json:"confidence_pct"`
}

// SightLineExport is a JSON-friendly sight line with its residual.
type SightLineExport struct {
	Body        string    `json:"body"`
	Time        time.Time `json:"time"`
	InterceptNm float64   `json:"intercept_nm"`
	AzimuthDeg  float64   `json:"azimuth_deg"`
	AssumedLat  float64   `json:"assumed_lat"`
	AssumedLon  float64   `json:"assumed_lon"`
	ResidualNm  float64   `json:"residual_nm,omitempty"`
}

// ExportFix converts a fix and its sight lines to an exportable format.
func ExportFix(fix Fix, lines []SightLine, computedAt time.Time) *FixExport {
	export := &FixExport{
		ComputedAt:      computedAt,
		Latitude:        fix.Position.LatDeg,
		Longitude:       fix.Position.LonDeg,
		Position:        fix.Position.String(),
		Converged:       fix.Converged,
		RMSENm:          fix.RMSENm,
		GeometricFactor: fix.GeometricFactor,
		Quality:         fix.Quality.String(),
		Ellipse: ErrorEllipseExport{
			SemiMajorNm:    fix.Ellipse.SemiMajorNm,
			SemiMinorNm:    fix.Ellipse.SemiMinorNm,
			OrientationDeg: fix.Ellipse.OrientationDeg,
			ConfidencePct:  fix.Ellipse.ConfidencePct,
		},
	}

	for i, l := range lines {
		exp := SightLineExport{
			Body:        l.Body,
			Time:        l.Time,
			InterceptNm: l.InterceptNm,
			AzimuthDeg:  l.AzimuthDeg,
			AssumedLat:  l.Assumed.LatDeg,
			AssumedLon:  l.Assumed.LonDeg,
		}
		if i < len(fix.ResidualsNm) {
			exp.ResidualNm = fix.ResidualsNm[i]
		}
		export.Lines = append(export.Lines, exp)
	}
	return export
}

// WriteJSON writes the fix as indented JSON to the given writer.
func (f *FixExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// WriteFixSummary writes a text summary of a fix to the given writer.
func WriteFixSummary(w io.Writer, fix Fix, lines []SightLine) {
	fmt.Fprintf(w, "Position Fix @ %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 72))

	fmt.Fprintf(w, "Position:  %s\n", fix.Position)
	fmt.Fprintf(w, "Quality:   %s (geometry %.1f, rmse %.2f nm)\n",
		fix.Quality, fix.GeometricFactor, fix.RMSENm)
	fmt.Fprintf(w, "Ellipse:   %.1f × %.1f nm @ %.0f° (%.0f%% confidence)\n",
		fix.Ellipse.SemiMajorNm, fix.Ellipse.SemiMinorNm,
		fix.Ellipse.OrientationDeg, fix.Ellipse.ConfidencePct)
	if !fix.Converged {
		fmt.Fprintln(w, "Warning:   solver did not converge; position is the best estimate")
	}

	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "%-10s %-18s %10s %8s %9s\n",
		"Body", "Time (UT)", "Intercept", "Azimuth", "Residual")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for i, l := range lines {
		residual := "-"
		if i < len(fix.ResidualsNm) {
			residual = fmt.Sprintf("%+.2f nm", fix.ResidualsNm[i])
		}
		fmt.Fprintf(w, "%-10s %-18s %6.1f nm %7.1f° %9s\n",
			truncateStr(l.Body, 10),
			l.Time.Format("01-02 15:04:05"),
			l.InterceptNm, l.AzimuthDeg, residual)
	}
	fmt.Fprintf(w, "\nTotal: %d sight lines\n", len(lines))
}

// WriteProblemSheet writes a practice problem as a worksheet, without
// revealing the true position or the injected errors.
func WriteProblemSheet(w io.Writer, p Problem) {
	o := p.Observation
	fmt.Fprintf(w, "Practice Sight %s\n", p.ID)
	fmt.Fprintln(w, strings.Repeat("─", 56))
	fmt.Fprintf(w, "Body:              %s (%s limb)\n", o.Body, o.Limb)
	fmt.Fprintf(w, "Time (UT):         %s\n", o.Time.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Sextant altitude:  %s\n", astro.FormatDMS(o.AltitudeDeg, '+', '-'))
	fmt.Fprintf(w, "Assumed position:  %s\n", o.Assumed)
	fmt.Fprintf(w, "Mode:              %s\n", o.Mode)
	fmt.Fprintf(w, "Height of eye:     %.1f m\n", o.ObserverHeightM)
	fmt.Fprintf(w, "Temperature:       %.1f °C\n", o.TemperatureC)
	fmt.Fprintf(w, "Pressure:          %.1f hPa\n", o.PressureHPa)
	fmt.Fprintf(w, "Index error:       %+.2f°\n", o.IndexErrDeg)
	fmt.Fprintf(w, "Instrument error:  %+.2f°\n", o.InstrumentErrDeg)
	fmt.Fprintf(w, "Personal error:    %+.2f°\n", o.PersonalErrDeg)
	fmt.Fprintln(w, strings.Repeat("─", 56))
	fmt.Fprintln(w, "Find: intercept (nm, toward/away) and azimuth Zn.")
}

// sightLogFile is the on-disk TOML layout for a batch of recorded sights.
type sightLogFile struct {
	Sight []sightLogEntry `toml:"sight"`
}

type sightLogEntry struct {
	Body        string  `toml:"body"`
	Time        string  `toml:"time"`
	Altitude    float64 `toml:"altitude"`
	AssumedLat  float64 `toml:"assumed_lat"`
	AssumedLon  float64 `toml:"assumed_lon"`
	Limb        string  `toml:"limb"`
	Mode        string  `toml:"mode"`
	Temperature float64 `toml:"temperature"`
	Pressure    float64 `toml:"pressure"`
	Humidity    float64 `toml:"humidity"`
	Height      float64 `toml:"height"`
	IndexErr    float64 `toml:"index_error"`
	InstrErr    float64 `toml:"instrument_error"`
	PersonalErr float64 `toml:"personal_error"`
}

// LoadSightLog reads observations from a TOML file of [[sight]] blocks.
// Unset atmospheric fields fall back to the standard defaults.
func LoadSightLog(path string) ([]Observation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sight log: %w", err)
	}

	var file sightLogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing sight log: %w", err)
	}
	if len(file.Sight) == 0 {
		return nil, fmt.Errorf("sight log %s contains no [[sight]] entries", path)
	}

	obs := make([]Observation, 0, len(file.Sight))
	for i, e := range file.Sight {
		o := DefaultObservation()
		o.Body = strings.ToLower(strings.TrimSpace(e.Body))
		o.AltitudeDeg = e.Altitude
		o.Assumed = astro.Position{LatDeg: e.AssumedLat, LonDeg: e.AssumedLon}

		t, err := time.Parse(time.RFC3339, e.Time)
		if err != nil {
			return nil, fmt.Errorf("sight %d: bad time %q: %w", i+1, e.Time, err)
		}
		o.Time = t.UTC()

		if e.Limb != "" {
			if o.Limb, err = ParseLimb(e.Limb); err != nil {
				return nil, fmt.Errorf("sight %d: %w", i+1, err)
			}
		}
		if e.Mode != "" {
			if o.Mode, err = ParseMode(e.Mode); err != nil {
				return nil, fmt.Errorf("sight %d: %w", i+1, err)
			}
		}
		if e.Temperature != 0 {
			o.TemperatureC = e.Temperature
		}
		if e.Pressure != 0 {
			o.PressureHPa = e.Pressure
		}
		if e.Humidity != 0 {
			o.HumidityPct = e.Humidity
		}
		o.ObserverHeightM = e.Height
		o.IndexErrDeg = e.IndexErr
		o.InstrumentErrDeg = e.InstrErr
		o.PersonalErrDeg = e.PersonalErr

		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("sight %d: %w", i+1, err)
		}
		obs = append(obs, o)
	}
	return obs, nil
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
