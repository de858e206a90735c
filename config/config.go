package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "ECHO"

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Recommender RecommenderConfig `mapstructure:"recommender"`
	Cache       CacheConfig       `mapstructure:"cache"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Matching    MatchingConfig    `mapstructure:"matching"`
	Log         LogConfig         `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// IsDevelopment reports whether the server runs in development mode
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development"
}

// RecommenderConfig holds settings for the upstream recommendation service
type RecommenderConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
	MaxRetries    int           `mapstructure:"max_retries"`
	UserAgent     string        `mapstructure:"user_agent"`
}

// LookupBudget is the longest one recommendation lookup can take: every
// attempt timing out plus the backoff between attempts (500ms, 1s, 2s, ...).
func (r RecommenderConfig) LookupBudget() time.Duration {
	attempts := max(r.MaxRetries, 1)
	backoff := time.Duration((1<<(attempts-1))-1) * 500 * time.Millisecond
	return time.Duration(attempts)*r.Timeout + backoff
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL     time.Duration `mapstructure:"ttl"`
	MaxSize int           `mapstructure:"max_size"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// MatchingConfig controls how recommendation results are presented
type MatchingConfig struct {
	FeaturedCount int  `mapstructure:"featured_count"`
	DebugLogging  bool `mapstructure:"debug_logging"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/echo-recommender/")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env if present; variables already set are kept
func loadEnvFile() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values.
// Every key needs a default so AutomaticEnv can bind it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:8501"})

	v.SetDefault("recommender.base_url", "")
	v.SetDefault("recommender.timeout", "10s")
	v.SetDefault("recommender.rate_per_second", 5)
	v.SetDefault("recommender.burst", 10)
	v.SetDefault("recommender.max_retries", 3)
	v.SetDefault("recommender.user_agent", "EchoRecommender/1.0")

	v.SetDefault("cache.ttl", "15m")
	v.SetDefault("cache.max_size", 10000)

	v.SetDefault("ratelimit.per_ip", 100)

	v.SetDefault("matching.featured_count", 3)
	v.SetDefault("matching.debug_logging", false)

	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Recommender.BaseURL == "" {
		return fmt.Errorf("recommender base URL is required (set %s_RECOMMENDER_BASE_URL)", envPrefix)
	}

	if config.Recommender.Timeout <= 0 {
		return fmt.Errorf("recommender timeout must be positive, got: %s", config.Recommender.Timeout)
	}

	if config.Recommender.MaxRetries < 1 {
		return fmt.Errorf("recommender max_retries must be at least 1, got: %d", config.Recommender.MaxRetries)
	}

	if config.Matching.FeaturedCount < 0 {
		return fmt.Errorf("matching featured_count must not be negative, got: %d", config.Matching.FeaturedCount)
	}

	if config.Log.Level != "" {
		if _, err := zapcore.ParseLevel(config.Log.Level); err != nil {
			return fmt.Errorf("unknown log level: %s", config.Log.Level)
		}
	}

	return nil
}
