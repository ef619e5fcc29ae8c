package seal

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/pbkdf2"
)

// ErrTTLTooLarge is returned when the configured time to live exceeds the
// 2^31-1 second bound of the token expiry field.
var ErrTTLTooLarge = errors.New("ttl exceeds maximum of 2^31-1 seconds")

const (
	tokenSeparator = "."

	// tokenName binds the securecookie MAC to this package's token
	// protocol rather than to any particular cookie name.
	tokenName = "ironsession"

	hashKeySalt  = "ironsession/hash"
	blockKeySalt = "ironsession/block"
	derivedLen   = 32

	// DefaultIterations is the PBKDF2 iteration count used when Options
	// does not specify one.
	DefaultIterations = 4096

	// MaxTTL is the largest representable time to live. A zero TTL is
	// mapped to this value, matching the "no practical expiry" behavior
	// of the cookie side.
	MaxTTL = math.MaxInt32 * time.Second
)

// Options carries the sealing parameters that are not password material.
type Options struct {
	// TTL is the seal lifetime. Zero means MaxTTL.
	TTL time.Duration

	// Iterations is the PBKDF2 iteration count for key derivation. Zero
	// means DefaultIterations.
	Iterations int
}

// envelope is the structure protected by the securecookie codec. ExpiresAt
// is Unix milliseconds; zero means no expiry.
type envelope struct {
	Data      map[string]any `json:"d"`
	ExpiresAt int64          `json:"e,omitempty"`
}

// Sealer turns key/value bags into opaque tokens and back. It is immutable
// after construction and safe for concurrent use; the per-request mutable
// state lives in [Store].
type Sealer struct {
	sealID    string
	sealCodec *securecookie.SecureCookie
	codecs    map[string]*securecookie.SecureCookie

	ttl time.Duration
	now func() time.Time
}

// New derives one securecookie codec per configured key and returns a
// Sealer that seals under the first key and unseals under any of them.
func New(keys Keys, opts Options) (*Sealer, error) {
	if err := keys.Validate(); err != nil {
		return nil, err
	}

	sk, err := SealKey(keys)
	if err != nil {
		return nil, err
	}
	um, err := UnsealKeys(keys)
	if err != nil {
		return nil, err
	}

	ttl := opts.TTL
	if ttl == 0 {
		ttl = MaxTTL
	}
	if ttl < 0 || ttl > MaxTTL {
		return nil, ErrTTLTooLarge
	}

	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	codecs := make(map[string]*securecookie.SecureCookie, len(um))
	for id, secret := range um {
		codecs[id] = newCodec(secret, iterations)
	}

	return &Sealer{
		sealID:    sk.ID,
		sealCodec: codecs[sk.ID],
		codecs:    codecs,
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

func newCodec(secret string, iterations int) *securecookie.SecureCookie {
	hashKey := pbkdf2.Key([]byte(secret), []byte(hashKeySalt), iterations, derivedLen, sha256.New)
	blockKey := pbkdf2.Key([]byte(secret), []byte(blockKeySalt), iterations, derivedLen, sha256.New)

	c := securecookie.New(hashKey, blockKey)
	c.SetSerializer(securecookie.JSONEncoder{})
	// Expiry is carried inside the envelope and checked by Unseal; the
	// codec's own age window must not interfere.
	c.MaxAge(0)
	c.MaxLength(0)
	return c
}

// TTL returns the seal lifetime the Sealer was built with.
func (s *Sealer) TTL() time.Duration {
	return s.ttl
}

// Seal encrypts and MAC-protects the given bag under the sealing key and
// the configured TTL. Any codec failure (for instance a value the JSON
// serializer cannot represent) propagates as an error.
func (s *Sealer) Seal(bag map[string]any) (string, error) {
	env := envelope{
		Data:      bag,
		ExpiresAt: s.now().Add(s.ttl).UnixMilli(),
	}

	token, err := s.sealCodec.Encode(tokenName, env)
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}

	return s.sealID + tokenSeparator + token, nil
}

// Unseal verifies, decrypts, and deserializes a token. It returns the bag
// and true on success. Expired tokens, failed MAC verification, corrupted
// tokens, and unrecognized key ids all return (nil, false, nil): the
// caller treats them as "no session". Any other failure is an error.
func (s *Sealer) Unseal(token string) (map[string]any, bool, error) {
	id, payload, found := strings.Cut(token, tokenSeparator)
	if !found || id == "" || payload == "" {
		log.Debugf("unseal rejected: malformed token")
		return nil, false, nil
	}

	codec, ok := s.codecs[id]
	if !ok {
		log.Debugf("unseal rejected: unknown key id %q", id)
		return nil, false, nil
	}

	var env envelope
	if err := codec.Decode(tokenName, payload, &env); err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			log.Debugf("unseal rejected: %v", err)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("unseal: %w", err)
	}

	if env.ExpiresAt > 0 && !s.now().Before(time.UnixMilli(env.ExpiresAt)) {
		log.Debugf("unseal rejected: token expired")
		return nil, false, nil
	}

	if env.Data == nil {
		env.Data = map[string]any{}
	}
	return env.Data, true, nil
}
