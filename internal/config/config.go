package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "INORDER_"

	// ConfigPathEnvVar names an optional YAML file layered between defaults and env.
	ConfigPathEnvVar = "INORDER_CONFIG"
)

type Config struct {
	Port    string `koanf:"port"`
	BaseURL string `koanf:"base_url"`

	DBPath            string        `koanf:"db_path"`
	DBMaxOpenConns    int           `koanf:"db_max_open_conns"`
	DBConnMaxIdleTime time.Duration `koanf:"db_conn_max_idle_time"`
	QueryTimeout      time.Duration `koanf:"query_timeout"`

	FlushInterval time.Duration `koanf:"flush_interval"`
	BufferSize    int           `koanf:"buffer_size"`
	BotCacheSize  int           `koanf:"bot_cache_size"`

	TrackRateLimit  int           `koanf:"track_rate_limit"`
	TrackRateWindow time.Duration `koanf:"track_rate_window"`

	TrendingLimit        int `koanf:"trending_limit"`
	TrendingFallbackSize int `koanf:"trending_fallback_size"`
	PopularTodayLimit    int `koanf:"popular_today_limit"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

func defaults() Config {
	return Config{
		Port:                 "8080",
		BaseURL:              "https://inorderbookseries.com",
		DBPath:               "./inorder.db",
		DBMaxOpenConns:       2,
		DBConnMaxIdleTime:    time.Second,
		QueryTimeout:         5 * time.Second,
		FlushInterval:        2 * time.Second,
		BufferSize:           10000,
		BotCacheSize:         4096,
		TrackRateLimit:       120,
		TrackRateWindow:      time.Minute,
		TrendingLimit:        3,
		TrendingFallbackSize: 6,
		PopularTodayLimit:    5,
		LogLevel:             "info",
		LogFormat:            "json",
	}
}

// Load layers defaults, the optional YAML file named by INORDER_CONFIG and
// INORDER_* environment variables, in that order.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("INORDER_PORT is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("INORDER_DB_PATH is required")
	}
	if c.DBMaxOpenConns <= 0 {
		return fmt.Errorf("INORDER_DB_MAX_OPEN_CONNS must be positive")
	}
	if c.DBConnMaxIdleTime <= 0 {
		return fmt.Errorf("INORDER_DB_CONN_MAX_IDLE_TIME must be positive")
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("INORDER_QUERY_TIMEOUT must be positive")
	}
	if c.FlushInterval <= 0 {
		return fmt.Errorf("INORDER_FLUSH_INTERVAL must be positive")
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("INORDER_BUFFER_SIZE must be positive")
	}
	if c.BotCacheSize <= 0 {
		return fmt.Errorf("INORDER_BOT_CACHE_SIZE must be positive")
	}
	if c.TrackRateLimit <= 0 {
		return fmt.Errorf("INORDER_TRACK_RATE_LIMIT must be positive")
	}
	if c.TrackRateWindow <= 0 {
		return fmt.Errorf("INORDER_TRACK_RATE_WINDOW must be positive")
	}
	if c.TrendingLimit <= 0 || c.TrendingFallbackSize <= 0 || c.PopularTodayLimit <= 0 {
		return fmt.Errorf("trending and popular-today limits must be positive")
	}
	return nil
}

// envKey maps INORDER_DB_PATH to db_path. Empty values are skipped so an
// unset-but-exported variable does not clobber a default.
func envKey(key, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	return strings.ToLower(strings.TrimPrefix(key, envPrefix)), value
}
