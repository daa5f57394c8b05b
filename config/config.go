package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/minaorangina/rundown/game"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is read from RUNDOWN_* environment variables
type Config struct {
	Addr         string        `env:"RUNDOWN_ADDR,default=:8000"`
	RoundSeconds int           `env:"RUNDOWN_ROUND_SECONDS,default=180"`
	StartDelay   time.Duration `env:"RUNDOWN_START_DELAY,default=1s"`
	TurnDelay    time.Duration `env:"RUNDOWN_TURN_DELAY,default=500ms"`
	EndDelay     time.Duration `env:"RUNDOWN_END_DELAY,default=1s"`
	LogLevel     string        `env:"RUNDOWN_LOG_LEVEL,default=info"`
	Dev          bool          `env:"RUNDOWN_DEV,default=false"`
}

// Default is the configuration with nothing set
func Default() Config {
	return Config{
		Addr:         ":8000",
		RoundSeconds: game.DefaultRoundSeconds,
		StartDelay:   game.DefaultStartDelay,
		TurnDelay:    game.DefaultTurnDelay,
		EndDelay:     game.DefaultEndDelay,
		LogLevel:     "info",
	}
}

// Load reads the given .env files, or ./.env if none are given, and then the
// environment. Missing files are skipped. Variables already in the
// environment win over the files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := Default()
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the values make a playable game
func (c Config) Validate() error {
	switch {
	case c.RoundSeconds <= 0:
		return fmt.Errorf("%w: round must last at least a second, got %d", ErrInvalidConfig, c.RoundSeconds)
	case c.StartDelay <= 0 || c.TurnDelay <= 0 || c.EndDelay <= 0:
		return fmt.Errorf("%w: delays must be positive", ErrInvalidConfig)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

// GameOpts are the game settings this config asks for
func (c Config) GameOpts() game.Opts {
	return game.Opts{
		RoundSeconds: c.RoundSeconds,
		StartDelay:   c.StartDelay,
		TurnDelay:    c.TurnDelay,
		EndDelay:     c.EndDelay,
	}
}

// Logger builds a zap logger at the configured level.
// Dev mode logs readable text instead of JSON.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Dev {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

func (c Config) level() (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return level, nil
}
