package ironsession

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ironpack/ironsession/seal"
)

// Session defines a public type used by ironsession APIs.
//
// A Session binds one seal.Store to one request/response pair. It is scoped
// to a single in-flight request, is not safe for concurrent use, and must
// not be retained beyond the response.
type Session struct {
	mgr   *Manager
	w     http.ResponseWriter
	r     *http.Request
	store *seal.Store
}

// Get returns a deep copy of the session value stored at key. The second
// return is false when the key is unset.
func (s *Session) Get(key string) (any, bool) {
	return s.store.Get(key)
}

// Set deep-copies value into the session at key, replacing any prior value.
func (s *Session) Set(key string, value any) error {
	return s.store.Set(key, value)
}

// Unset removes key from the session. Removing an absent key is a no-op.
func (s *Session) Unset(key string) {
	s.store.Unset(key)
}

// Clear empties the session bag. The cookie is untouched until Save or
// Destroy is called.
func (s *Session) Clear() {
	s.store.Clear()
}

// Len returns the number of keys in the session bag.
func (s *Session) Len() int {
	return s.store.Len()
}

// Restore describes the restore operation and its observable behavior.
//
// Restore reads the session cookie from the request and unseals it into the
// bag, returning whether a valid session was found. A missing cookie, an
// expired or tampered token, and a token under a retired key id all return
// (false, nil): the expected logged-out state. Errors indicate a system
// fault, never normal session absence.
func (s *Session) Restore() (bool, error) {
	value, present := s.cookieValue()
	if !present {
		s.mgr.metrics.Inc(MetricRestoreMiss)
		log.Tracef("restore: no %q cookie on request", s.mgr.config.Cookie.Name)
		return false, nil
	}

	ok, err := s.store.Unseal(value)
	switch {
	case err != nil:
		s.mgr.metrics.Inc(MetricRestoreFault)
		return false, fmt.Errorf("restore: %w", err)
	case !ok:
		s.mgr.metrics.Inc(MetricRestoreReject)
		return false, nil
	}

	s.mgr.metrics.Inc(MetricRestoreHit)
	log.Debugf("restore: session hydrated with %d keys", s.store.Len())
	return true, nil
}

// Save describes the save operation and its observable behavior.
//
// Save seals the current bag and appends it to the response as a Set-Cookie
// header. An empty bag is still sealed and written. Save fails with
// ErrPayloadTooLarge when the serialized cookie exceeds 4096 bytes; nothing
// is written in that case.
func (s *Session) Save() error {
	start := time.Now()

	token, err := s.store.Seal()
	if err != nil {
		s.mgr.metrics.Inc(MetricSealFailure)
		return fmt.Errorf("save: %w", err)
	}

	cookie := s.newCookie(token)
	if len(cookie.String()) > maxCookieSize {
		s.mgr.metrics.Inc(MetricSaveTooLarge)
		return ErrPayloadTooLarge
	}

	// http.SetCookie appends; existing Set-Cookie headers on the
	// response are preserved.
	http.SetCookie(s.w, cookie)

	s.mgr.metrics.Inc(MetricSave)
	s.mgr.metrics.Observe(MetricSealLatency, time.Since(start))
	log.Debugf("save: wrote %d byte cookie", len(cookie.String()))
	return nil
}

// Destroy describes the destroy operation and its observable behavior.
//
// Destroy clears the bag and writes an immediately-expiring cookie (empty
// value, Max-Age=0) so the client deletes it.
func (s *Session) Destroy() {
	s.store.Clear()

	cookie := s.newCookie("")
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(1, 0).UTC()
	http.SetCookie(s.w, cookie)

	s.mgr.metrics.Inc(MetricDestroy)
	log.Debugf("destroy: expired %q cookie", s.mgr.config.Cookie.Name)
}

// cookieValue extracts the session cookie from the request. A pre-parsed
// cookie mapping attached by upstream middleware takes priority over the
// raw Cookie header; when the mapping is present the header is not
// consulted at all.
func (s *Session) cookieValue() (string, bool) {
	name := s.mgr.config.Cookie.Name

	if parsed := parsedCookiesFromContext(s.r.Context()); parsed != nil {
		v, ok := parsed[name]
		return v, ok
	}

	c, err := s.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (s *Session) newCookie(value string) *http.Cookie {
	cfg := &s.mgr.config.Cookie
	maxAge := s.mgr.cookieMaxAge

	return &http.Cookie{
		Name:     cfg.Name,
		Value:    value,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   maxAge,
		Expires:  time.Now().Add(time.Duration(maxAge) * time.Second),
		HttpOnly: cfg.HTTPOnly,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	}
}
