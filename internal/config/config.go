package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Room    RoomConfig    `mapstructure:"room"`
}

// ServerConfig configures the HTTP/WebSocket listener.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	ReadBufferSize  int           `mapstructure:"read_buffer_size"`
	WriteBufferSize int           `mapstructure:"write_buffer_size"`
	SendQueueSize   int           `mapstructure:"send_queue_size"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// RoomConfig configures room directory limits.
type RoomConfig struct {
	MaxPlayers int `mapstructure:"max_players"`
}

// Load reads configuration from the given YAML file, applying defaults and
// ASHAKK_-prefixed environment overrides. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", ":3001")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.read_buffer_size", 1024)
	v.SetDefault("server.write_buffer_size", 1024)
	v.SetDefault("server.send_queue_size", 256)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("room.max_players", 4)

	v.SetEnvPrefix("ASHAKK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
