package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	Upstream Upstream `envPrefix:"UPSTREAM_"`
	Game     Game     `envPrefix:"GAME_"`
	Round    Round    `envPrefix:"ROUND_"`
	Playback Playback `envPrefix:"PLAYBACK_"`
	Metrics  Metrics  `envPrefix:"METRICS_"`

	// GatewayBaseURL is where the round engine reaches the gateway. It
	// normally points back at this process.
	GatewayBaseURL string `env:"GATEWAY_BASE_URL" envDefault:"http://localhost:8080"`
}

// Upstream is the content provider relayed by the gateway.
type Upstream struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://radio.garden/api/ara/content"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type Game struct {
	Enabled     bool `env:"ENABLED" envDefault:"true"`
	MaxSessions int  `env:"MAX_SESSIONS" envDefault:"1000"`
}

// Round is the retry policy for loading a round.
type Round struct {
	MaxAttempts    int           `env:"MAX_ATTEMPTS" envDefault:"5"`
	InitialBackoff time.Duration `env:"INITIAL_BACKOFF" envDefault:"200ms"`
	MaxBackoff     time.Duration `env:"MAX_BACKOFF" envDefault:"5s"`
	SelectTimeout  time.Duration `env:"SELECT_TIMEOUT" envDefault:"10s"`
}

type Playback struct {
	StartupTimeout time.Duration `env:"STARTUP_TIMEOUT" envDefault:"10s"`
}

type Metrics struct {
	Enabled      bool   `env:"ENABLED" envDefault:"false"`
	ServiceName  string `env:"SERVICE_NAME" envDefault:"radioguessr"`
	OtlpEndpoint string `env:"OTLP_ENDPOINT"`
	OtlpInsecure bool   `env:"OTLP_INSECURE" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	if c.Round.MaxAttempts < 1 {
		return fmt.Errorf("ROUND_MAX_ATTEMPTS must be at least 1, got %d", c.Round.MaxAttempts)
	}
	if c.Game.MaxSessions < 1 {
		return fmt.Errorf("GAME_MAX_SESSIONS must be at least 1, got %d", c.Game.MaxSessions)
	}
	return nil
}
