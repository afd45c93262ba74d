package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"holdem-arena/server/engine"
)

type Config struct {
	SB         int   `env:"SB" env-default:"10" env-description:"small blind"`
	BB         int   `env:"BB" env-default:"20" env-description:"big blind"`
	StartStack int   `env:"START_STACK" env-default:"1000"`
	DeckSeed   int64 `env:"DECK_SEED" env-description:"0 seeds from crypto/rand"`

	BluffProb   float64       `env:"BLUFF_PROB" env-default:"0.1"`
	OpenRaiseTo int           `env:"OPEN_RAISE_TO" env-default:"50"`
	ThinkDelay  time.Duration `env:"THINK_DELAY" env-default:"1s"`

	PlayerName string `env:"PLAYER_NAME" env-default:"You"`
	AgentName  string `env:"AGENT_NAME" env-default:"AI"`
	DuelHands  int    `env:"DUEL_HANDS" env-default:"200"`

	Port        string `env:"PORT" env-default:"8080"`
	DatabaseURL string `env:"DATABASE_URL" env-description:"empty disables the store"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" env-default:"false"`

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	NoColor  string `env:"NO_COLOR"`
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.SB <= 0 || c.BB <= 0 {
		errs = append(errs, fmt.Errorf("blinds must be positive (SB=%d BB=%d)", c.SB, c.BB))
	}
	if c.BB < c.SB {
		errs = append(errs, fmt.Errorf("BB %d below SB %d", c.BB, c.SB))
	}
	if c.StartStack <= 0 {
		errs = append(errs, fmt.Errorf("START_STACK must be positive, got %d", c.StartStack))
	}
	if c.BluffProb < 0 || c.BluffProb > 1 {
		errs = append(errs, fmt.Errorf("BLUFF_PROB %v outside [0,1]", c.BluffProb))
	}
	if c.DuelHands < 0 {
		errs = append(errs, fmt.Errorf("DUEL_HANDS must not be negative"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	return errors.Join(errs...)
}

func (c *Config) Engine() engine.Config {
	return engine.Config{SB: c.SB, BB: c.BB, StartStack: c.StartStack}
}

func (c *Config) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// Color follows the NO_COLOR convention: any non-empty value disables color.
func (c *Config) Color() bool { return c.NoColor == "" }

// Usage describes every variable, for --help.
func Usage() string {
	s, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return s
}
