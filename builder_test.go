package ironsession

import (
	"errors"
	"testing"
	"time"

	"github.com/ironpack/ironsession/seal"
)

// testIterations keeps key derivation cheap in tests.
const testIterations = 16

func newTestManager(t *testing.T, opts ...func(*Builder)) *Manager {
	t.Helper()

	b := New().
		WithCookieName("test_session").
		WithPassword(testSecret).
		WithTTL(time.Hour)
	b.config.Seal.Iterations = testIterations

	for _, opt := range opts {
		opt(b)
	}

	m, err := b.Build()
	if err != nil {
		t.Fatalf("manager build: %v", err)
	}
	return m
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvCookieName, "")
	t.Setenv(EnvPassword, "")
}

func TestBuildMissingConfig(t *testing.T) {
	clearEnv(t)

	if _, err := New().WithPassword(testSecret).Build(); !errors.Is(err, ErrMissingCookieName) {
		t.Fatalf("expected ErrMissingCookieName, got %v", err)
	}
	if _, err := New().WithCookieName("s").Build(); !errors.Is(err, ErrMissingPassword) {
		t.Fatalf("expected ErrMissingPassword, got %v", err)
	}
}

func TestBuildEnvFallback(t *testing.T) {
	t.Setenv(EnvCookieName, "env_session")
	t.Setenv(EnvPassword, testSecret)

	m, err := New().Build()
	if err != nil {
		t.Fatalf("build with env fallback: %v", err)
	}

	cfg := m.Config()
	if cfg.Cookie.Name != "env_session" {
		t.Fatalf("cookie name = %q, want env value", cfg.Cookie.Name)
	}
	if cfg.Seal.Password != testSecret {
		t.Fatal("password not resolved from environment")
	}
}

func TestBuildExplicitBeatsEnv(t *testing.T) {
	t.Setenv(EnvCookieName, "env_session")
	t.Setenv(EnvPassword, "env-password-0123456789abcdef012345")

	m, err := New().
		WithCookieName("explicit_session").
		WithPassword(testSecret).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	cfg := m.Config()
	if cfg.Cookie.Name != "explicit_session" {
		t.Fatalf("explicit option lost to env: %q", cfg.Cookie.Name)
	}
	if cfg.Seal.Password != testSecret {
		t.Fatal("explicit password lost to env")
	}
}

func TestBuilderReuseRejected(t *testing.T) {
	clearEnv(t)

	b := New().WithCookieName("s").WithPassword(testSecret)
	if _, err := b.Build(); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("second build succeeded")
	}
}

func TestBuildSecureCookieDefaults(t *testing.T) {
	clearEnv(t)

	// Development: secure off by default.
	m := newTestManager(t)
	if m.Config().Cookie.Secure {
		t.Fatal("secure default should be off outside production mode")
	}

	// Production mode flips the default.
	m = newTestManager(t, func(b *Builder) {
		b.WithProductionMode(true)
	})
	if !m.Config().Cookie.Secure {
		t.Fatal("production mode should default to secure cookies")
	}

	// An explicit override beats the production default.
	m = newTestManager(t, func(b *Builder) {
		b.WithProductionMode(true).WithSecureCookies(false)
	})
	if m.Config().Cookie.Secure {
		t.Fatal("explicit secure override lost to production default")
	}
}

func TestBuildKeysTakePrecedence(t *testing.T) {
	clearEnv(t)

	keys := seal.Keys{
		{ID: "2", Secret: "new-" + testSecret},
		{ID: "1", Secret: "old-" + testSecret},
	}

	m := newTestManager(t, func(b *Builder) {
		b.WithKeys(keys)
	})

	cfg := m.Config()
	if len(cfg.Seal.Keys) != 2 || cfg.Seal.Keys[0].ID != "2" {
		t.Fatalf("rotation keys not preserved: %+v", cfg.Seal.Keys)
	}

	// The returned config is a clone; mutating it must not reach the
	// manager.
	cfg.Seal.Keys[0].Secret = "poisoned"
	if m.Config().Seal.Keys[0].Secret != "new-"+testSecret {
		t.Fatal("config clone aliased manager state")
	}
}
