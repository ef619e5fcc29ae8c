// Package seal provides encrypted, integrity-checked, expiring key/value
// storage serialized to and from a single opaque string token.
//
// # Token protocol
//
// A sealed token is "<keyID>.<payload>" where payload is produced by a
// gorilla/securecookie codec (AES-CTR encryption, HMAC-SHA256
// authentication, JSON serialization). The payload carries the session bag
// together with an absolute expiry in Unix milliseconds; expiry is enforced
// by this package, not by the codec. Codec keys are derived from the
// configured password secrets with PBKDF2-SHA256.
//
// # Key rotation
//
// Sealing always uses the first configured key. Unsealing accepts a token
// produced under any configured key id; a token carrying a retired id is
// rejected as "no session" rather than raising an error, so old cookies
// fail closed after a key is dropped from the list.
//
// # Architecture boundaries
//
// This package owns the [Store] (bag operations, deep-copy isolation) and
// the [Sealer] (seal/unseal protocol). It does NOT read or write HTTP
// cookies, resolve configuration, or touch the environment; those
// responsibilities belong to the ironsession root package.
//
// # What this package must NOT do
//
//   - Import ironsession or net/http (no upward imports).
//   - Surface expired, tampered, or unknown-key tokens as errors; those are
//     the boolean "no session" result.
//   - Log token or secret material.
package seal
