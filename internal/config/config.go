package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/ugaemi/zombie-escape-server/internal/game"
)

type Config struct {
	Port        int    `mapstructure:"PORT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogFormat   string `mapstructure:"LOG_FORMAT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	GridWidth     int `mapstructure:"GRID_WIDTH"`
	GridHeight    int `mapstructure:"GRID_HEIGHT"`
	ObstacleCount int `mapstructure:"OBSTACLE_COUNT"`
	ZombieCount   int `mapstructure:"ZOMBIE_COUNT"`
	// TickRate is the number of session frames per second.
	TickRate int `mapstructure:"TICK_RATE"`
}

var defaults = map[string]any{
	"PORT":           8080,
	"LOG_LEVEL":      "info",
	"LOG_FORMAT":     "text",
	"DATABASE_URL":   "",
	"GRID_WIDTH":     game.DefaultGridSize,
	"GRID_HEIGHT":    game.DefaultGridSize,
	"OBSTACLE_COUNT": game.DefaultObstacleCount,
	"ZOMBIE_COUNT":   game.DefaultZombieCount,
	"TICK_RATE":      10,
}

// Load reads configuration from defaults, an optional .env.<APP_ENV> file in
// the working directory and the environment, in increasing precedence.
func Load() (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(fmt.Sprintf(".env.%s", env))
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.TickRate <= 0 {
		return nil, fmt.Errorf("TICK_RATE must be positive, got %d", cfg.TickRate)
	}
	if err := cfg.Settings().Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Settings returns the game setup described by the configuration.
func (c *Config) Settings() game.Settings {
	return game.Settings{
		Width:         c.GridWidth,
		Height:        c.GridHeight,
		ObstacleCount: c.ObstacleCount,
		ZombieCount:   c.ZombieCount,
	}
}

// TickInterval is the time between session frames.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
