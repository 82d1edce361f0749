package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

// ServerConfig holds the websocket gateway settings.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig holds the chain-log store settings. An empty URL disables
// persistence.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// GameConfig tunes the rules engine.
type GameConfig struct {
	CardFile     string        `mapstructure:"card_file"`
	LaneNameCap  int           `mapstructure:"lane_name_cap"`
	TriggerPause time.Duration `mapstructure:"trigger_pause"`
}

// Load reads configuration from the given file, with DRONEFALL_-prefixed
// environment variables overriding file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("server.address", ":8443")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("game.card_file", "config/cards.yaml")
	v.SetDefault("game.lane_name_cap", 2)
	v.SetDefault("game.trigger_pause", 900*time.Millisecond)

	v.SetEnvPrefix("DRONEFALL")
	v.AutomaticEnv()

	// A missing config file runs on defaults and environment overrides.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
