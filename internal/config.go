package internal

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-provided configuration. Flags override it.
type Config struct {
	Profile         string `env:"EVENTPUSH_PROFILE"`
	NoPause         bool   `env:"EVENTPUSH_NO_PAUSE"`
	LogLevel        string `env:"EVENTPUSH_LOG_LEVEL" envDefault:"warn"`
	ConfigFile      string `env:"AWS_CONFIG_FILE"`
	CredentialsFile string `env:"AWS_SHARED_CREDENTIALS_FILE"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Resolver returns a CredentialResolver reading the configured AWS files.
func (c Config) Resolver() *CredentialResolver {
	r := &CredentialResolver{Region: Region}
	if c.ConfigFile != "" {
		r.ConfigFiles = []string{c.ConfigFile}
	}
	if c.CredentialsFile != "" {
		r.CredentialsFiles = []string{c.CredentialsFile}
	}
	return r
}

// ParseLogLevel maps debug/info/warn/error onto slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level '%s'", s)
	}
	return level, nil
}
