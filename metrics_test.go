package ironsession

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMetricsDisabledByDefault(t *testing.T) {
	m := NewMetrics(MetricsConfig{})

	m.Inc(MetricSave)
	m.Observe(MetricSealLatency, time.Millisecond)

	if m.Enabled() {
		t.Fatal("metrics enabled without config")
	}
	if m.Value(MetricSave) != 0 {
		t.Fatal("disabled metrics counted")
	}

	snap := m.Snapshot()
	if len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Fatal("disabled snapshot not empty")
	}
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricRestoreHit)
	m.Inc(MetricRestoreHit)
	m.Inc(MetricDestroy)

	if got := m.Value(MetricRestoreHit); got != 2 {
		t.Fatalf("restore hit = %d", got)
	}
	if got := m.Value(MetricDestroy); got != 1 {
		t.Fatalf("destroy = %d", got)
	}

	snap := m.Snapshot()
	if snap.Counters[MetricRestoreHit] != 2 {
		t.Fatal("snapshot missing counters")
	}
}

func TestMetricsLatencyHistogram(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricSealLatency, 2*time.Millisecond)
	m.Observe(MetricSealLatency, 30*time.Millisecond)
	m.Observe(MetricSealLatency, time.Second)

	// Only the seal latency id is histogrammed.
	m.Observe(MetricSave, time.Millisecond)

	snap := m.Snapshot()
	buckets, ok := snap.Histograms[MetricSealLatency]
	if !ok {
		t.Fatal("latency histogram missing")
	}

	var total uint64
	for _, b := range buckets {
		total += b
	}
	if total != 3 {
		t.Fatalf("histogram observations = %d, want 3", total)
	}
}

func TestManagerLifecycleMetrics(t *testing.T) {
	m := newTestManager(t, func(b *Builder) {
		b.WithMetricsEnabled(true)
	})

	// Miss: no cookie.
	sess := m.NewSession(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := sess.Restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}

	// Save + hit.
	cookie := sealedCookie(t, m, func(s *Session) {
		_ = s.Set("k", "v")
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	if _, err := m.Session(httptest.NewRecorder(), r); err != nil {
		t.Fatalf("session: %v", err)
	}

	// Reject: tampered token.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "test_session", Value: "1.garbage"})
	if _, err := m.Session(httptest.NewRecorder(), r); err != nil {
		t.Fatalf("session: %v", err)
	}

	snap := m.MetricsSnapshot()
	if snap.Counters[MetricRestoreMiss] != 1 {
		t.Fatalf("restore miss = %d", snap.Counters[MetricRestoreMiss])
	}
	if snap.Counters[MetricRestoreHit] != 1 {
		t.Fatalf("restore hit = %d", snap.Counters[MetricRestoreHit])
	}
	if snap.Counters[MetricRestoreReject] != 1 {
		t.Fatalf("restore reject = %d", snap.Counters[MetricRestoreReject])
	}
	if snap.Counters[MetricSave] != 1 {
		t.Fatalf("save = %d", snap.Counters[MetricSave])
	}
}
