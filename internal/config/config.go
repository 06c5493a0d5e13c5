package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Env             string        `env:"ENV" envDefault:"development"` // "development" or "production"
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// GameConfig holds the default room settings and hub tuning. Per-room timers
// remain host-adjustable within their clamps.
type GameConfig struct {
	DiscussionMinutes int           `env:"DEFAULT_DISCUSSION_MINUTES" envDefault:"3"`
	NightSeconds      int           `env:"DEFAULT_NIGHT_SECONDS" envDefault:"30"`
	VoteSeconds       int           `env:"DEFAULT_VOTE_SECONDS" envDefault:"30"`
	RoomCodeLength    int           `env:"ROOM_CODE_LENGTH" envDefault:"5"`
	StaleRoomTimeout  time.Duration `env:"STALE_ROOM_TIMEOUT" envDefault:"2h"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// Load reads configuration from the environment, after loading a .env file
// when one is present
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// Addr returns the server address in host:port format
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
