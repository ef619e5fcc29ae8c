package ironsession

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/ironpack/ironsession/seal"
)

const (
	// EnvCookieName is an exported constant or variable used by the session engine.
	EnvCookieName = "IRON_SESSION_COOKIE_NAME"
	// EnvPassword is an exported constant or variable used by the session engine.
	EnvPassword = "IRON_SESSION_PASSWORD"
)

// clockSkewAllowance is subtracted from the client-visible cookie lifetime
// so the cookie expires client-side strictly before the seal expires
// server-side, tolerating up to a minute of clock disagreement.
const clockSkewAllowance = 60 * time.Second

// maxCookieSize is the de facto browser limit on a serialized cookie.
const maxCookieSize = 4096

// Config defines a public type used by ironsession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Cookie  CookieConfig
	Seal    SealConfig
	Metrics MetricsConfig

	// ProductionMode drives the Secure cookie default: production-like
	// deployments get Secure cookies unless explicitly overridden.
	ProductionMode bool
}

/*
====================================
COOKIE CONFIG
====================================
*/

// CookieConfig defines a public type used by ironsession APIs.
//
// CookieConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	HTTPOnly bool
	Secure   bool
	SameSite http.SameSite

	// MaxAge overrides the derived cookie lifetime, in seconds. Zero
	// derives it from Seal.TTL minus the clock-skew allowance.
	MaxAge int
}

/*
====================================
SEAL CONFIG
====================================
*/

// SealConfig defines a public type used by ironsession APIs.
//
// SealConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SealConfig struct {
	// Password is a single secret under the implicit key id "1". Ignored
	// when Keys is set.
	Password string

	// Keys is the ordered key-rotation list. The first entry seals; every
	// entry unseals.
	Keys seal.Keys

	// TTL is the seal lifetime. Zero means no practical expiry (2^31-1
	// seconds).
	TTL time.Duration

	// Iterations is the PBKDF2 iteration count for key derivation.
	Iterations int
}

// MetricsConfig defines a public type used by ironsession APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Cookie: CookieConfig{
			Path:     "/",
			HTTPOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
		Seal: SealConfig{
			TTL:        30 * 24 * time.Hour,
			Iterations: seal.DefaultIterations,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Seal.Keys = cloneKeys(cfg.Seal.Keys)
	return out
}

func cloneKeys(keys seal.Keys) seal.Keys {
	if len(keys) == 0 {
		return nil
	}
	out := make(seal.Keys, len(keys))
	copy(out, keys)
	return out
}

// keys resolves the denormalized password input to the ordered key list.
// An empty result means no password material was configured.
func (c *SealConfig) keys() seal.Keys {
	if len(c.Keys) > 0 {
		return c.Keys
	}
	if c.Password != "" {
		return seal.SingleSecret(c.Password)
	}
	return nil
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if c.Cookie.Name == "" {
		return ErrMissingCookieName
	}

	keys := c.Seal.keys()
	if len(keys) == 0 {
		return ErrMissingPassword
	}
	if err := keys.Validate(); err != nil {
		return err
	}

	if c.Seal.TTL < 0 || c.Seal.TTL > seal.MaxTTL {
		return seal.ErrTTLTooLarge
	}

	if c.Cookie.MaxAge < 0 {
		return errors.New("Cookie MaxAge must be >= 0")
	}

	switch c.Cookie.SameSite {
	case 0, http.SameSiteDefaultMode, http.SameSiteLaxMode,
		http.SameSiteStrictMode, http.SameSiteNoneMode:
		// valid
	default:
		return errors.New("Cookie SameSite is invalid")
	}

	return nil
}

// cookieMaxAge derives the client-visible cookie lifetime in seconds:
// min(explicit override, TTL minus skew allowance, int32 max).
func (c *Config) cookieMaxAge() int {
	ttl := c.Seal.TTL
	if ttl == 0 {
		ttl = seal.MaxTTL
	}

	secs := int64(ttl/time.Second) - int64(clockSkewAllowance/time.Second)
	if c.Cookie.MaxAge > 0 && int64(c.Cookie.MaxAge) < secs {
		secs = int64(c.Cookie.MaxAge)
	}
	if secs > math.MaxInt32 {
		secs = math.MaxInt32
	}
	return int(secs)
}
