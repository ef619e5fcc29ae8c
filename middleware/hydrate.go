package middleware

import (
	"context"
	"net/http"

	"github.com/ironpack/ironsession"
)

type sessionContextKey struct{}

// FromContext returns the session injected by Hydrate, or false when the
// request did not pass through it.
func FromContext(ctx context.Context) (*ironsession.Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*ironsession.Session)
	return s, ok
}

// Hydrate restores the session from the request cookie and injects it into
// the request context. A missing or invalid cookie yields an empty session,
// not a rejection; only a system fault aborts the request.
func Hydrate(manager *ironsession.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			sess, err := manager.Session(w, r)
			if err != nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseCookies parses the Cookie header once and attaches the resulting
// name/value mapping to the request context, where Session.Restore reads it
// in preference to the raw header.
func ParseCookies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parsed := map[string]string{}
		for _, c := range r.Cookies() {
			parsed[c.Name] = c.Value
		}

		ctx := ironsession.WithParsedCookies(r.Context(), parsed)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
