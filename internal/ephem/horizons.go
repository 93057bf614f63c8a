package ephem

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/litescript/ls-sextant/internal/astro"
	"github.com/litescript/ls-sextant/internal/logging"
)

const (
	// HorizonsAPIURL is the JPL Horizons JSON API endpoint.
	HorizonsAPIURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

	// PositionCacheTTL is how long a queried position stays fresh.
	PositionCacheTTL = 10 * time.Minute

	// RequestTimeout is the HTTP request timeout.
	RequestTimeout = 30 * time.Second
)

// horizonsCommands maps body names to Horizons COMMAND identifiers.
// Stars are not queryable through Horizons and fall back to the catalog.
var horizonsCommands = map[string]string{
	"sun":     "10",
	"moon":    "301",
	"mercury": "199",
	"venus":   "299",
	"mars":    "499",
	"jupiter": "599",
	"saturn":  "699",
}

// HorizonsProvider queries JPL Horizons for Sun, Moon, and planet
// positions, delegating stars (and semi-diameter/parallax values) to the
// built-in almanac.
type HorizonsProvider struct {
	client   *http.Client
	fallback *AlmanacProvider
	log      *logging.Logger

	mu    sync.RWMutex
	cache map[string]*cachedEquatorial
}

// cachedEquatorial stores a queried position.
type cachedEquatorial struct {
	eq        Equatorial
	at        time.Time
	fetchedAt time.Time
}

// NewHorizonsProvider creates a new Horizons API client.
func NewHorizonsProvider(log *logging.Logger) *HorizonsProvider {
	if log == nil {
		log = logging.Discard()
	}
	return &HorizonsProvider{
		client:   &http.Client{Timeout: RequestTimeout},
		fallback: NewAlmanacProvider(log),
		log:      log,
		cache:    make(map[string]*cachedEquatorial),
	}
}

// Name implements Provider.
func (p *HorizonsProvider) Name() string {
	return "Horizons"
}

// Available implements Provider. Online use is assumed; failures surface
// per-request.
func (p *HorizonsProvider) Available() bool {
	return true
}

// Equatorial implements Provider.
func (p *HorizonsProvider) Equatorial(body string, t time.Time) (Equatorial, error) {
	entry, ok := Resolve(body)
	if !ok {
		return Equatorial{}, &NotFoundError{Body: body}
	}

	cmd, online := horizonsCommands[strings.ToLower(entry.Name)]
	if !online {
		// Star positions come from the catalog either way.
		return p.fallback.Equatorial(body, t)
	}

	key := cacheKey(entry.Name, t)
	p.mu.RLock()
	cached, hit := p.cache[key]
	p.mu.RUnlock()
	if hit && time.Since(cached.fetchedAt) < PositionCacheTTL {
		return cached.eq, nil
	}

	raDeg, decDeg, err := p.queryRADec(cmd, t)
	if err != nil {
		return Equatorial{}, err
	}

	// SD and HP are not part of the RA/Dec query; reuse the almanac's.
	base, err := p.fallback.Equatorial(body, t)
	if err != nil {
		return Equatorial{}, err
	}

	eq := Equatorial{
		RADeg:  raDeg,
		DecDeg: decDeg,
		GHADeg: ghaFromRA(raDeg, t),
		SDDeg:  base.SDDeg,
		HPDeg:  base.HPDeg,
	}

	p.mu.Lock()
	p.cache[key] = &cachedEquatorial{eq: eq, at: t, fetchedAt: time.Now()}
	p.mu.Unlock()

	return eq, nil
}

// Observe implements Provider.
func (p *HorizonsProvider) Observe(body string, obs astro.Position, t time.Time) (AltAz, error) {
	eq, err := p.Equatorial(body, t)
	if err != nil {
		return AltAz{}, err
	}
	return observe(eq, obs), nil
}

// InvalidateCache clears all cached positions.
func (p *HorizonsProvider) InvalidateCache() {
	p.mu.Lock()
	p.cache = make(map[string]*cachedEquatorial)
	p.mu.Unlock()
}

// cacheKey buckets requests by body and minute so repeated reductions of
// the same sight share one query.
func cacheKey(name string, t time.Time) string {
	return name + "@" + t.UTC().Format("2006-01-02T15:04")
}

// queryRADec makes a request to the Horizons API for apparent RA/Dec.
func (p *HorizonsProvider) queryRADec(command string, t time.Time) (raDeg, decDeg float64, err error) {
	// Values must be quoted with single quotes
	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", fmt.Sprintf("'%s'", command))
	params.Set("OBJ_DATA", "NO")
	params.Set("MAKE_EPHEM", "YES")
	params.Set("EPHEM_TYPE", "OBSERVER")
	params.Set("CENTER", "'500@399'") // Geocentric
	params.Set("QUANTITIES", "'2'")   // Apparent RA/Dec
	params.Set("ANG_FORMAT", "DEG")
	params.Set("START_TIME", fmt.Sprintf("'%s'", formatHorizonsTime(t)))
	params.Set("STOP_TIME", fmt.Sprintf("'%s'", formatHorizonsTime(t.Add(time.Minute))))
	params.Set("STEP_SIZE", "'1 m'")

	reqURL := HorizonsAPIURL + "?" + params.Encode()

	p.log.Debug("horizons: querying body %s at %s", command, formatHorizonsTime(t))

	resp, err := p.client.Get(reqURL)
	if err != nil {
		return 0, 0, fmt.Errorf("horizons request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, 0, fmt.Errorf("horizons returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read response: %w", err)
	}

	return parseHorizonsRADec(body)
}

// horizonsResponse represents the JSON API envelope.
type horizonsResponse struct {
	Signature struct {
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"signature"`
	Result string `json:"result"`
}

// parseHorizonsRADec extracts the first RA/Dec row from the response.
func parseHorizonsRADec(body []byte) (raDeg, decDeg float64, err error) {
	var resp horizonsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, 0, fmt.Errorf("failed to parse JSON: %w", err)
	}

	// The ephemeris table is a text blob between $$SOE and $$EOE markers
	soeIdx := strings.Index(resp.Result, "$$SOE")
	eoeIdx := strings.Index(resp.Result, "$$EOE")
	if soeIdx == -1 || eoeIdx == -1 || soeIdx >= eoeIdx {
		return 0, 0, fmt.Errorf("could not find ephemeris data markers")
	}

	for _, line := range strings.Split(resp.Result[soeIdx+5:eoeIdx], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ra, dec, err := parseRADecLine(line)
		if err != nil {
			continue // Skip unparseable lines
		}
		return ra, dec, nil
	}

	return 0, 0, fmt.Errorf("no ephemeris rows in response")
}

// parseRADecLine parses a single data line. Format for QUANTITIES='2'
// with ANG_FORMAT=DEG:
//
//	2023-Jun-15 12:00 *   83.605025  23.291712
//
// Fields: date, time, optional flags, RA, Dec. RA/Dec are the last two
// numeric fields.
func parseRADecLine(line string) (raDeg, decDeg float64, err error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return 0, 0, fmt.Errorf("insufficient fields: %d", len(fields))
	}

	var vals []float64
	for i := 2; i < len(fields); i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err == nil {
			vals = append(vals, v)
		}
	}
	if len(vals) < 2 {
		return 0, 0, fmt.Errorf("could not find RA/Dec values")
	}

	return vals[0], vals[1], nil
}

// formatHorizonsTime formats a time for the Horizons API.
func formatHorizonsTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}
