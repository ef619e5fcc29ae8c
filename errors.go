package ironsession

import "errors"

var (
	// ErrMissingCookieName is an exported constant or variable used by the session engine.
	ErrMissingCookieName = errors.New("cookie name not configured")
	// ErrMissingPassword is an exported constant or variable used by the session engine.
	ErrMissingPassword = errors.New("session password not configured")
	// ErrPayloadTooLarge is an exported constant or variable used by the session engine.
	ErrPayloadTooLarge = errors.New("sealed cookie exceeds 4096 bytes")
)
