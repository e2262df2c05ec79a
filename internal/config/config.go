// Package config loads server settings from the environment.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	Addr          string `env:"ADDR" envDefault:":8080"`
	StoreDriver   string `env:"STORE_DRIVER" envDefault:"memory"`
	StoreDSN      string `env:"STORE_DSN" envDefault:"wastewise.sqlite3"`
	JWTSecret     string `env:"JWT_SECRET"`
	SessionSecret string `env:"SESSION_SECRET"`
	Seed          bool   `env:"SEED" envDefault:"true"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	OTelEndpoint  string `env:"OTEL_ENDPOINT"`
	SecureCookies bool   `env:"SECURE_COOKIES" envDefault:"false"`

	// GeneratedSecrets names the secrets Load filled with random values.
	GeneratedSecrets []string
}

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "WASTEWISE_"

// Load reads an optional .env file and parses the environment into a
// Config. Empty secrets are replaced with random ones, which invalidates
// issued credentials on every restart; their names are recorded in
// GeneratedSecrets so the caller can warn once logging is set up.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: EnvPrefix})
	if err != nil {
		return nil, fmt.Errorf("parsing env: %w", err)
	}
	if err := cfg.fillSecrets(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) fillSecrets() error {
	for _, s := range []struct {
		name  string
		value *string
	}{
		{"JWT", &c.JWTSecret},
		{"session", &c.SessionSecret},
	} {
		if *s.value != "" {
			continue
		}
		secret, err := randomSecret()
		if err != nil {
			return err
		}
		*s.value = secret
		c.GeneratedSecrets = append(c.GeneratedSecrets, s.name)
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
