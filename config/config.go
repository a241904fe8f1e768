package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Matching  MatchingConfig
	Cache     CacheConfig
	Feed      FeedConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds PostgreSQL connection configuration
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// MatchingConfig holds reconciliation policy configuration
type MatchingConfig struct {
	// MergeThreshold is the similarity an incoming listing must strictly
	// exceed to merge onto an existing canonical product.
	MergeThreshold float64 `mapstructure:"merge_threshold"`
	MaxConcurrency int     `mapstructure:"max_concurrency"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// FeedConfig holds vendor feed client configuration
type FeedConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/supptrack/")

	v.SetEnvPrefix("SUPPTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover the rest.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := validate(&config); err != nil {
		return nil, eris.Wrap(err, "config: validate")
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database defaults
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)

	// Matching defaults
	v.SetDefault("matching.merge_threshold", 0.70)
	v.SetDefault("matching.max_concurrency", 8)

	// Cache defaults
	v.SetDefault("cache.ttl", "5m")

	// Vendor feed defaults; vendor sites tolerate only modest pull rates.
	v.SetDefault("feed.timeout", "30s")
	v.SetDefault("feed.rate_per_second", 1)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 10)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.URL == "" {
		return eris.New("database URL is required (set SUPPTRACK_DATABASE_URL)")
	}

	if config.Matching.MergeThreshold <= 0 || config.Matching.MergeThreshold > 1 {
		return eris.Errorf("matching merge threshold must be in (0, 1], got: %v", config.Matching.MergeThreshold)
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return eris.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
