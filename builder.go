package ironsession

import (
	"errors"
	"os"
	"time"

	"github.com/ironpack/ironsession/seal"
)

// Builder defines a public type used by ironsession APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	secureSet bool
	built     bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	b.secureSet = true
	return b
}

// WithCookieName describes the withcookiename operation and its observable behavior.
//
// WithCookieName may return an error when input validation, dependency calls, or security checks fail.
// WithCookieName does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithCookieName(name string) *Builder {
	b.config.Cookie.Name = name
	return b
}

// WithPassword describes the withpassword operation and its observable behavior.
//
// WithPassword may return an error when input validation, dependency calls, or security checks fail.
// WithPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithPassword(secret string) *Builder {
	b.config.Seal.Password = secret
	return b
}

// WithKeys describes the withkeys operation and its observable behavior.
//
// WithKeys may return an error when input validation, dependency calls, or security checks fail.
// WithKeys does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithKeys(keys seal.Keys) *Builder {
	b.config.Seal.Keys = cloneKeys(keys)
	return b
}

// WithTTL describes the withttl operation and its observable behavior.
//
// WithTTL may return an error when input validation, dependency calls, or security checks fail.
// WithTTL does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithTTL(ttl time.Duration) *Builder {
	b.config.Seal.TTL = ttl
	return b
}

// WithCookieOptions describes the withcookieoptions operation and its observable behavior.
//
// WithCookieOptions may return an error when input validation, dependency calls, or security checks fail.
// WithCookieOptions does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithCookieOptions(cookie CookieConfig) *Builder {
	name := b.config.Cookie.Name
	b.config.Cookie = cookie
	if cookie.Name == "" {
		b.config.Cookie.Name = name
	}
	b.secureSet = true
	return b
}

// WithSecureCookies describes the withsecurecookies operation and its observable behavior.
//
// WithSecureCookies may return an error when input validation, dependency calls, or security checks fail.
// WithSecureCookies does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithSecureCookies(secure bool) *Builder {
	b.config.Cookie.Secure = secure
	b.secureSet = true
	return b
}

// WithProductionMode describes the withproductionmode operation and its observable behavior.
//
// WithProductionMode may return an error when input validation, dependency calls, or security checks fail.
// WithProductionMode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithProductionMode(enabled bool) *Builder {
	b.config.ProductionMode = enabled
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	// Two-tier resolution: explicit option first, then the environment.
	if cfg.Cookie.Name == "" {
		cfg.Cookie.Name = os.Getenv(EnvCookieName)
	}
	if len(cfg.Seal.Keys) == 0 && cfg.Seal.Password == "" {
		cfg.Seal.Password = os.Getenv(EnvPassword)
	}

	if !b.secureSet && cfg.ProductionMode {
		cfg.Cookie.Secure = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sealer, err := seal.New(cfg.Seal.keys(), seal.Options{
		TTL:        cfg.Seal.TTL,
		Iterations: cfg.Seal.Iterations,
	})
	if err != nil {
		return nil, err
	}

	b.built = true

	return &Manager{
		config:       cfg,
		cookieMaxAge: cfg.cookieMaxAge(),
		sealer:       sealer,
		metrics:      NewMetrics(cfg.Metrics),
	}, nil
}
