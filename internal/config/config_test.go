package config

import (
	"log/slog"
	"os"
	"slices"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, name := range []string{"ADDR", "STORE_DRIVER", "STORE_DSN", "JWT_SECRET", "SESSION_SECRET", "SEED", "LOG_LEVEL", "OTEL_ENDPOINT", "SECURE_COOKIES"} {
		// Setenv restores the original value on cleanup.
		t.Setenv(EnvPrefix+name, "")
		os.Unsetenv(EnvPrefix + name)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.StoreDriver != "memory" || !cfg.Seed || cfg.SecureCookies {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWTSecret == "" || cfg.SessionSecret == "" {
		t.Error("expected generated secrets")
	}
	if cfg.JWTSecret == cfg.SessionSecret {
		t.Error("expected distinct secrets")
	}
	if !slices.Equal(cfg.GeneratedSecrets, []string{"JWT", "session"}) {
		t.Errorf("expected both secrets reported as generated, got %v", cfg.GeneratedSecrets)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WASTEWISE_ADDR", ":9000")
	t.Setenv("WASTEWISE_STORE_DRIVER", "sqlite")
	t.Setenv("WASTEWISE_JWT_SECRET", "jwt")
	t.Setenv("WASTEWISE_SESSION_SECRET", "session")
	t.Setenv("WASTEWISE_SEED", "false")
	t.Setenv("WASTEWISE_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.StoreDriver != "sqlite" || cfg.Seed {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.JWTSecret != "jwt" || cfg.SessionSecret != "session" {
		t.Errorf("secrets were overridden: %+v", cfg)
	}
	if len(cfg.GeneratedSecrets) != 0 {
		t.Errorf("expected no generated secrets, got %v", cfg.GeneratedSecrets)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.SlogLevel())
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for in, want := range tests {
		c := Config{LogLevel: in}
		if got := c.SlogLevel(); got != want {
			t.Errorf("%q: expected %v, got %v", in, want, got)
		}
	}
}

func TestLoadReportsPartiallyGeneratedSecrets(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WASTEWISE_JWT_SECRET", "jwt")
	t.Setenv("WASTEWISE_SESSION_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.JWTSecret != "jwt" || cfg.SessionSecret == "" {
		t.Errorf("unexpected secrets: %+v", cfg)
	}
	if !slices.Equal(cfg.GeneratedSecrets, []string{"session"}) {
		t.Errorf("expected only the session secret reported, got %v", cfg.GeneratedSecrets)
	}
}
