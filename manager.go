package ironsession

import (
	"net/http"

	"github.com/ironpack/ironsession/seal"
)

// Manager defines a public type used by ironsession APIs.
//
// Manager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Manager struct {
	config       Config
	cookieMaxAge int
	sealer       *seal.Sealer
	metrics      *Metrics
}

// NewSession describes the newsession operation and its observable behavior.
//
// NewSession may return an error when input validation, dependency calls, or security checks fail.
// NewSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) NewSession(w http.ResponseWriter, r *http.Request) *Session {
	return &Session{
		mgr:   m,
		w:     w,
		r:     r,
		store: m.sealer.NewStore(),
	}
}

// Session describes the session operation and its observable behavior.
//
// Session constructs a fresh session for the request/response pair and
// restores it from the request cookie before returning, so typical call
// sites get an already-hydrated session in one step. A missing, expired, or
// invalid cookie is not an error; the returned session is simply empty.
func (m *Manager) Session(w http.ResponseWriter, r *http.Request) (*Session, error) {
	s := m.NewSession(w, r)
	if _, err := s.Restore(); err != nil {
		return nil, err
	}
	return s, nil
}

// Config describes the config operation and its observable behavior.
//
// Config may return an error when input validation, dependency calls, or security checks fail.
// Config does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Config() Config {
	return cloneConfig(m.config)
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	return m.metrics.Snapshot()
}
