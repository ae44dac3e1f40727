package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type SessionBackend string

const (
	SessionMemory SessionBackend = "memory"
	SessionSQL    SessionBackend = "sql"
)

type Config struct {
	Mode     Mode   `env:"MODE" envDefault:"offline"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	SessionStore    SessionBackend `env:"SESSION_STORE" envDefault:"memory"`
	SessionTTL      time.Duration  `env:"SESSION_TTL" envDefault:"24h"`
	SessionCapacity int            `env:"SESSION_CAPACITY" envDefault:"10000"`
	SessionSecret   string         `env:"SESSION_SECRET" envDefault:"permah-dev-session-key"`
	PurgeInterval   time.Duration  `env:"SESSION_PURGE_INTERVAL" envDefault:"10m"`

	// Only read when SessionStore is sql.
	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"DB_DSN"`

	ExportDir string `env:"EXPORT_DIR" envDefault:"./out"`

	CORSOriginsOnline  []string `env:"CORS_ORIGINS_ONLINE" envSeparator:"," envDefault:"https://permah.mindengage.ai"`
	CORSOriginsOffline []string `env:"CORS_ORIGINS_OFFLINE" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:8080"`
}

// FromEnv loads configuration from environment variables.
func FromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeOffline, ModeOnline:
	default:
		return fmt.Errorf("MODE must be offline or online, got %q", c.Mode)
	}
	switch c.SessionStore {
	case SessionMemory, SessionSQL:
	default:
		return fmt.Errorf("SESSION_STORE must be memory or sql, got %q", c.SessionStore)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Mode == ModeOnline && c.SessionSecret == "permah-dev-session-key" {
		return fmt.Errorf("SESSION_SECRET must be set in online mode")
	}
	return nil
}

// CORSOrigins picks the origin list for the current mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}
