// Package state provides thread-safe session state for the application.
package state

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/litescript/ls-sextant/internal/astro"
	"github.com/litescript/ls-sextant/internal/sight"
)

// EventType represents the type of session event.
type EventType string

const (
	EventSightLogged      EventType = "SIGHT_LOGGED"
	EventSightDiscarded   EventType = "SIGHT_DISCARDED"
	EventFixComputed      EventType = "FIX_COMPUTED"
	EventProblemGenerated EventType = "PROBLEM_GENERATED"
)

// Event represents a change in the navigation session.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Body      string    `json:"body,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// LoggedSight is an observation together with its reduction.
type LoggedSight struct {
	ID          uuid.UUID
	Observation sight.Observation
	Result      sight.SightResult
	LoggedAt    time.Time
}

// Line converts the logged sight to a sight line for fixing.
func (s LoggedSight) Line() sight.SightLine {
	return sight.SightLine{
		Body:        s.Observation.Body,
		InterceptNm: s.Result.InterceptNm,
		AzimuthDeg:  s.Result.AzimuthDeg,
		Assumed:     s.Observation.Assumed,
		Time:        s.Observation.Time,
	}
}

// Manager handles all shared session state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	sights  []LoggedSight
	lastFix *sight.Fix
	fixedAt time.Time

	problem *sight.Problem

	// Dead reckoning for running fixes
	drSpeedKnots float64
	drCourseDeg  float64

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	maxSights int
}

// Config holds configuration for the session manager.
type Config struct {
	MaxSights int
	MaxEvents int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxSights: 50, // A long twilight round is well under this
		MaxEvents: 50,
	}
}

// NewManager creates a new session manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxSights := cfg.MaxSights
	if maxSights <= 0 {
		maxSights = 50
	}
	return &Manager{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		maxSights: maxSights,
	}
}

// LogSight records a reduced observation. The oldest sight is dropped
// once the log is full. A new sight invalidates the current fix.
func (m *Manager) LogSight(obs sight.Observation, result sight.SightResult) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := LoggedSight{
		ID:          uuid.New(),
		Observation: obs,
		Result:      result,
		LoggedAt:    time.Now(),
	}
	m.sights = append(m.sights, entry)
	if len(m.sights) > m.maxSights {
		m.sights = m.sights[1:]
	}
	m.lastFix = nil

	detail := "away"
	if result.Toward() {
		detail = "toward"
	}
	m.addEvent(Event{
		Type:      EventSightLogged,
		Timestamp: entry.LoggedAt,
		Body:      obs.Body,
		Detail:    detail,
	})
	return entry.ID
}

// DiscardSight removes a sight by ID. It reports whether one was removed.
func (m *Manager) DiscardSight(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.sights {
		if s.ID == id {
			body := s.Observation.Body
			m.sights = append(m.sights[:i], m.sights[i+1:]...)
			m.lastFix = nil
			m.addEvent(Event{
				Type:      EventSightDiscarded,
				Timestamp: time.Now(),
				Body:      body,
			})
			return true
		}
	}
	return false
}

// ClearSights empties the sight log and drops any fix.
func (m *Manager) ClearSights() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sights = nil
	m.lastFix = nil
}

// Lines returns the logged sights as sight lines, oldest first.
func (m *Manager) Lines() []sight.SightLine {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lines := make([]sight.SightLine, len(m.sights))
	for i, s := range m.sights {
		lines[i] = s.Line()
	}
	return lines
}

// SetFix records a computed fix.
func (m *Manager) SetFix(fix sight.Fix) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := fix
	m.lastFix = &f
	m.fixedAt = time.Now()
	m.addEvent(Event{
		Type:      EventFixComputed,
		Timestamp: m.fixedAt,
		Detail:    fix.Position.String(),
	})
}

// SetProblem records the active practice problem.
func (m *Manager) SetProblem(p sight.Problem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prob := p
	m.problem = &prob
	m.addEvent(Event{
		Type:      EventProblemGenerated,
		Timestamp: time.Now(),
		Body:      p.Observation.Body,
	})
}

// SetDeadReckoning records craft speed and course for running fixes.
func (m *Manager) SetDeadReckoning(speedKnots, courseDeg float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drSpeedKnots = speedKnots
	m.drCourseDeg = astro.NormalizeDeg(courseDeg)
}

// DeadReckoning returns the configured speed and course.
func (m *Manager) DeadReckoning() (speedKnots, courseDeg float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drSpeedKnots, m.drCourseDeg
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of session state.
type Snapshot struct {
	Sights  []LoggedSight
	Fix     *sight.Fix
	FixedAt time.Time
	Problem *sight.Problem
	Events  []Event
}

// Snapshot returns a consistent snapshot of session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sights := make([]LoggedSight, len(m.sights))
	copy(sights, m.sights)

	var fix *sight.Fix
	if m.lastFix != nil {
		f := *m.lastFix
		fix = &f
	}
	var problem *sight.Problem
	if m.problem != nil {
		p := *m.problem
		problem = &p
	}

	return Snapshot{
		Sights:  sights,
		Fix:     fix,
		FixedAt: m.fixedAt,
		Problem: problem,
		Events:  m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// SightCount returns the number of logged sights.
func (m *Manager) SightCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sights)
}

// HasFix reports whether a fix has been computed for the current log.
func (m *Manager) HasFix() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastFix != nil
}
