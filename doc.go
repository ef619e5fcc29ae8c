// Package ironsession provides encrypted, stateless, cookie-backed sessions
// for HTTP handlers. A session's key/value bag is sealed (serialized,
// encrypted, and MAC-protected) into a single opaque token stored
// client-side in a cookie; the server holds no session state between
// requests.
//
// The package is designed for concurrent server workloads: [Manager] is
// immutable and safe to share across goroutines after initialization
// through [Builder.Build]. Each [Session] is scoped to exactly one
// request/response pair and must not be shared or retained.
//
// # Architecture boundaries
//
// ironsession is the public surface. It exposes [Manager], [Builder],
// [Config], [Session], and value types (MetricsSnapshot). The seal/unseal
// protocol itself (password normalization, key derivation, the token
// envelope, failure classification) lives in the seal sub-package.
//
// # What this package must NOT do
//
//   - Expose securecookie codecs, derived keys, or the token envelope in
//     its public API.
//   - Persist session data anywhere but the cookie token (no server-side
//     stores).
//   - Raise errors for expired, missing, or tampered cookies; those are the
//     boolean "no session" result of [Session.Restore].
package ironsession
