package state

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/litescript/ls-sextant/internal/astro"
	"github.com/litescript/ls-sextant/internal/sight"
)

func testObservation(body string) sight.Observation {
	o := sight.DefaultObservation()
	o.Body = body
	return o
}

func TestNewManager(t *testing.T) {
	m := NewManager(DefaultConfig())

	if m == nil {
		t.Fatal("NewManager returned nil")
	}
	if m.SightCount() != 0 {
		t.Errorf("SightCount = %d, want 0", m.SightCount())
	}
	if m.HasFix() {
		t.Error("HasFix should be false initially")
	}
}

func TestManager_LogSight(t *testing.T) {
	m := NewManager(DefaultConfig())

	id := m.LogSight(testObservation("sun"), sight.SightResult{
		InterceptNm: 3.2,
		AzimuthDeg:  145.0,
	})
	if id == uuid.Nil {
		t.Error("LogSight returned zero ID")
	}

	if m.SightCount() != 1 {
		t.Errorf("SightCount = %d, want 1", m.SightCount())
	}

	lines := m.Lines()
	if len(lines) != 1 {
		t.Fatalf("Lines length = %d, want 1", len(lines))
	}
	if lines[0].Body != "sun" {
		t.Errorf("line body = %q, want sun", lines[0].Body)
	}
	if lines[0].InterceptNm != 3.2 {
		t.Errorf("intercept = %v, want 3.2", lines[0].InterceptNm)
	}
}

func TestManager_LogSight_InvalidatesFix(t *testing.T) {
	m := NewManager(DefaultConfig())

	m.SetFix(sight.Fix{Converged: true})
	if !m.HasFix() {
		t.Fatal("HasFix should be true after SetFix")
	}

	m.LogSight(testObservation("moon"), sight.SightResult{})
	if m.HasFix() {
		t.Error("logging a new sight should drop the fix")
	}
}

func TestManager_DiscardSight(t *testing.T) {
	m := NewManager(DefaultConfig())

	id1 := m.LogSight(testObservation("sun"), sight.SightResult{})
	m.LogSight(testObservation("moon"), sight.SightResult{})

	if !m.DiscardSight(id1) {
		t.Error("DiscardSight should report true for a known ID")
	}
	if m.SightCount() != 1 {
		t.Errorf("SightCount = %d, want 1", m.SightCount())
	}
	if m.DiscardSight(id1) {
		t.Error("DiscardSight should report false for a removed ID")
	}

	lines := m.Lines()
	if len(lines) != 1 || lines[0].Body != "moon" {
		t.Errorf("remaining sight = %+v, want moon", lines)
	}
}

func TestManager_SightLogBound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSights = 3
	m := NewManager(cfg)

	bodies := []string{"sun", "moon", "venus", "mars", "jupiter"}
	for _, b := range bodies {
		m.LogSight(testObservation(b), sight.SightResult{})
	}

	lines := m.Lines()
	if len(lines) != 3 {
		t.Fatalf("Lines length = %d, want 3", len(lines))
	}
	// Oldest two dropped
	if lines[0].Body != "venus" {
		t.Errorf("oldest retained sight = %q, want venus", lines[0].Body)
	}
}

func TestManager_SetFix(t *testing.T) {
	m := NewManager(DefaultConfig())

	fix := sight.Fix{
		Position:  astro.Position{LatDeg: 40.5, LonDeg: -73.9},
		Converged: true,
		RMSENm:    0.4,
	}
	m.SetFix(fix)

	snap := m.Snapshot()
	if snap.Fix == nil {
		t.Fatal("Snapshot Fix is nil")
	}
	if snap.Fix.Position.LatDeg != 40.5 {
		t.Errorf("fix lat = %v, want 40.5", snap.Fix.Position.LatDeg)
	}
	if snap.FixedAt.IsZero() {
		t.Error("FixedAt should be set")
	}
}

func TestManager_SetDeadReckoning(t *testing.T) {
	m := NewManager(DefaultConfig())

	m.SetDeadReckoning(12.5, 370)
	speed, course := m.DeadReckoning()
	if speed != 12.5 {
		t.Errorf("speed = %v, want 12.5", speed)
	}
	if course != 10 {
		t.Errorf("course = %v, want 10 (normalized)", course)
	}
}

func TestManager_Events(t *testing.T) {
	m := NewManager(DefaultConfig())

	m.LogSight(testObservation("sun"), sight.SightResult{InterceptNm: 1})
	m.SetFix(sight.Fix{Converged: true})

	events := m.RecentEvents(10)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != EventSightLogged {
		t.Errorf("first event = %q, want SIGHT_LOGGED", events[0].Type)
	}
	if events[0].Detail != "toward" {
		t.Errorf("first event detail = %q, want toward", events[0].Detail)
	}
	if events[1].Type != EventFixComputed {
		t.Errorf("second event = %q, want FIX_COMPUTED", events[1].Type)
	}
}

func TestManager_EventRingBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEvents = 5
	m := NewManager(cfg)

	for i := 0; i < 10; i++ {
		m.LogSight(testObservation("sun"), sight.SightResult{})
	}

	events := m.RecentEvents(100)
	if len(events) != 5 {
		t.Errorf("events count = %d, want 5 (max)", len(events))
	}

	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.Before(events[i-1].Timestamp) {
			t.Errorf("events not in chronological order at index %d", i)
		}
	}
}

func TestManager_Snapshot_IsCopy(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.LogSight(testObservation("sun"), sight.SightResult{InterceptNm: 2})

	snap := m.Snapshot()
	snap.Sights[0].Result.InterceptNm = 999

	snap2 := m.Snapshot()
	if snap2.Sights[0].Result.InterceptNm == 999 {
		t.Error("Snapshot modification affected manager state")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())

	var wg sync.WaitGroup
	iterations := 100

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			m.LogSight(testObservation("sun"), sight.SightResult{InterceptNm: float64(i)})
			if i%10 == 0 {
				m.SetFix(sight.Fix{Converged: true})
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				_ = m.Snapshot()
				_ = m.Lines()
				_ = m.HasFix()
				_ = m.SightCount()
				_, _ = m.DeadReckoning()
			}
		}()
	}

	wg.Wait()
}
