package sight

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/litescript/ls-sextant/internal/astro"
	"github.com/litescript/ls-sextant/internal/logging"
)

// SightLine is one line of position: an intercept and azimuth relative
// to an assumed position.
type SightLine struct {
	Body        string
	InterceptNm float64 // Positive toward the body
	AzimuthDeg  float64
	Assumed     astro.Position
	Time        time.Time
}

// Quality grades a fix by sight geometry and residual spread.
type Quality int

const (
	QualityPoor Quality = iota
	QualityFair
	QualityGood
	QualityExcellent
)

func (q Quality) String() string {
	switch q {
	case QualityExcellent:
		return "excellent"
	case QualityGood:
		return "good"
	case QualityFair:
		return "fair"
	default:
		return "poor"
	}
}

// QualityThresholds set the geometry-factor floor and RMSE ceiling for
// each grade. A fix must clear both to earn the grade.
type QualityThresholds struct {
	ExcellentFactor, ExcellentRMSENm float64
	GoodFactor, GoodRMSENm           float64
	FairFactor, FairRMSENm           float64
}

// DefaultQualityThresholds returns the standard grading tiers.
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		ExcellentFactor: 10, ExcellentRMSENm: 0.5,
		GoodFactor: 5, GoodRMSENm: 1.0,
		FairFactor: 2, FairRMSENm: 2.0,
	}
}

func (t QualityThresholds) grade(factor, rmseNm float64) Quality {
	switch {
	case factor > t.ExcellentFactor && rmseNm < t.ExcellentRMSENm:
		return QualityExcellent
	case factor > t.GoodFactor && rmseNm < t.GoodRMSENm:
		return QualityGood
	case factor > t.FairFactor && rmseNm < t.FairRMSENm:
		return QualityFair
	default:
		return QualityPoor
	}
}

// ErrorEllipse is the 95% confidence ellipse around a fix.
type ErrorEllipse struct {
	SemiMajorNm    float64
	SemiMinorNm    float64
	OrientationDeg float64 // Major axis bearing from true north
	ConfidencePct  float64
}

// Fix is a least-squares position estimate from two or more sight lines.
type Fix struct {
	Position        astro.Position
	Converged       bool
	RMSENm          float64
	GeometricFactor float64
	Quality         Quality
	Ellipse         ErrorEllipse
	ResidualsNm     []float64
	Lines           int
}

// Solver computes position fixes from sight lines.
type Solver struct {
	Thresholds QualityThresholds
	Log        *logging.Logger
}

// NewSolver creates a Solver with default quality grading.
func NewSolver(log *logging.Logger) *Solver {
	if log == nil {
		log = logging.Discard()
	}
	return &Solver{Thresholds: DefaultQualityThresholds(), Log: log}
}

// predictedIntercept is the intercept a sight line would show if the
// true position were (lat, lon): the component of the offset from the
// line's assumed position along the azimuth, in nautical miles.
func predictedIntercept(latDeg, lonDeg float64, l SightLine) float64 {
	z := deg2rad(l.AzimuthDeg)
	dLat := latDeg - l.Assumed.LatDeg
	dLon := lonDeg - l.Assumed.LonDeg
	return (dLat*math.Cos(z) + dLon*math.Sin(z)*math.Cos(deg2rad(latDeg))) * astro.NmPerDegree
}

// Solve finds the position minimizing the squared mismatch between
// observed and predicted intercepts. Fewer than two lines is an error;
// a failed minimization returns a fix with Converged false rather than
// an error, so callers can still inspect the best estimate.
func (s *Solver) Solve(lines []SightLine) (Fix, error) {
	if len(lines) < 2 {
		return Fix{}, ErrUnderdetermined
	}

	x0 := make([]float64, 2)
	for _, l := range lines {
		x0[0] += l.Assumed.LatDeg
		x0[1] += l.Assumed.LonDeg
	}
	x0[0] /= float64(len(lines))
	x0[1] /= float64(len(lines))

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			var sum float64
			for _, l := range lines {
				r := predictedIntercept(x[0], x[1], l) - l.InterceptNm
				sum += r * r
			}
			return sum
		},
	}

	fix := Fix{Lines: len(lines)}
	result, err := optimize.Minimize(problem, x0, nil, nil)
	if err != nil || result == nil {
		s.Log.Warn("fix minimization did not converge: %v", err)
		fix.Position = astro.Position{LatDeg: x0[0], LonDeg: astro.NormalizeLon(x0[1])}
		fix.Quality = QualityPoor
		return fix, nil
	}

	lat, lon := result.X[0], result.X[1]
	fix.Position = astro.Position{LatDeg: lat, LonDeg: astro.NormalizeLon(lon)}
	fix.Converged = true

	fix.ResidualsNm = make([]float64, len(lines))
	var rss float64
	for i, l := range lines {
		r := predictedIntercept(lat, lon, l) - l.InterceptNm
		fix.ResidualsNm[i] = r
		rss += r * r
	}
	fix.RMSENm = math.Sqrt(rss / float64(len(lines)))
	fix.GeometricFactor = GeometricFactor(lines)
	fix.Quality = s.Thresholds.grade(fix.GeometricFactor, fix.RMSENm)
	fix.Ellipse = s.errorEllipse(lat, lines, rss, fix.RMSENm, fix.GeometricFactor)

	s.Log.Info("fix %s from %d lines: rmse %.2f nm, geometry %.1f, %s",
		fix.Position, len(lines), fix.RMSENm, fix.GeometricFactor, fix.Quality)
	return fix, nil
}

// GeometricFactor scores azimuth spread. Rows of the design matrix are
// the azimuth direction cosines; the determinant-to-trace ratio of AᵀA
// rewards wide cuts and punishes near-parallel lines.
func GeometricFactor(lines []SightLine) float64 {
	var a, b, c float64 // AᵀA = [[a, b], [b, c]]
	for _, l := range lines {
		z := deg2rad(l.AzimuthDeg)
		cz, sz := math.Cos(z), math.Sin(z)
		a += cz * cz
		b += cz * sz
		c += sz * sz
	}
	det := a*c - b*b
	trace := a + c
	return math.Abs(det/(trace+1e-10)) * 100
}

// chi2Scale95 scales 1-sigma axes to the 95% ellipse for 2 degrees of
// freedom.
const chi2Scale95 = 2.4477

func (s *Solver) errorEllipse(latDeg float64, lines []SightLine, rss, rmseNm, factor float64) ErrorEllipse {
	// Jacobian rows in nm per degree of latitude and longitude.
	cosLat := math.Cos(deg2rad(latDeg))
	var a, b, c float64 // JᵀJ
	for _, l := range lines {
		z := deg2rad(l.AzimuthDeg)
		jLat := math.Cos(z) * astro.NmPerDegree
		jLon := math.Sin(z) * cosLat * astro.NmPerDegree
		a += jLat * jLat
		b += jLat * jLon
		c += jLon * jLon
	}

	variance := rmseNm * rmseNm
	if n := len(lines); n > 2 {
		variance = rss / float64(n-2)
	}

	det := a*c - b*b
	if det <= 1e-12 {
		return fallbackEllipse(rmseNm, factor)
	}

	// Covariance in degrees², scaled back to nm along each axis.
	cov := mat.NewSymDense(2, []float64{
		variance * c / det, variance * -b / det,
		variance * -b / det, variance * a / det,
	})

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return fallbackEllipse(rmseNm, factor)
	}
	vals := eig.Values(nil) // Ascending
	if vals[0] < 0 {
		vals[0] = 0
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Major-axis eigenvector, as a bearing from north.
	vLat, vLon := vecs.At(0, 1), vecs.At(1, 1)
	orientation := astro.NormalizeDeg(rad2deg(math.Atan2(vLon, vLat)))
	if orientation >= 180 {
		orientation -= 180
	}

	return ErrorEllipse{
		SemiMajorNm:    math.Sqrt(vals[1]) * astro.NmPerDegree * chi2Scale95,
		SemiMinorNm:    math.Sqrt(vals[0]) * astro.NmPerDegree * chi2Scale95,
		OrientationDeg: orientation,
		ConfidencePct:  95,
	}
}

// fallbackEllipse approximates the ellipse from the scalar geometry
// factor when the normal equations are singular.
func fallbackEllipse(rmseNm, factor float64) ErrorEllipse {
	base := math.Max(rmseNm, 0.5) * chi2Scale95
	major := base / math.Max(factor/100, 0.1)
	return ErrorEllipse{
		SemiMajorNm:   major,
		SemiMinorNm:   major / 2,
		ConfidencePct: 95,
	}
}

// RunningFix advances each sight line's assumed position back to the
// earliest observation time along the reciprocal of the craft's course,
// then solves. This lets sights taken over several hours of steady
// travel combine as if simultaneous.
func (s *Solver) RunningFix(lines []SightLine, speedKnots, courseDeg float64) (Fix, error) {
	if len(lines) < 2 {
		return Fix{}, ErrUnderdetermined
	}

	sorted := make([]SightLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	epoch := sorted[0].Time
	back := astro.NormalizeDeg(courseDeg + 180)
	for i := range sorted {
		hours := sorted[i].Time.Sub(epoch).Hours()
		if hours > 0 {
			sorted[i].Assumed = astro.Offset(sorted[i].Assumed, back, speedKnots*hours)
		}
	}
	return s.Solve(sorted)
}

// LOPEndpoints returns the two ends of a plotted line of position: the
// segment of the given length through the intercept point, perpendicular
// to the azimuth.
func LOPEndpoints(l SightLine, lengthNm float64) (astro.Position, astro.Position) {
	ip := astro.Offset(l.Assumed, l.AzimuthDeg, l.InterceptNm)
	half := lengthNm / 2
	return astro.Offset(ip, astro.NormalizeDeg(l.AzimuthDeg+90), half),
		astro.Offset(ip, astro.NormalizeDeg(l.AzimuthDeg-90), half)
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }
