package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server         ServerConfig
	Gemini         GeminiConfig
	Storage        StorageConfig
	Cache          CacheConfig
	RateLimit      RateLimitConfig
	Recommendation RecommendationConfig
	Log            LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

// GeminiConfig holds vision model API configuration
type GeminiConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Model             string        `mapstructure:"model"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	MaxRetries        int           `mapstructure:"max_retries"`
}

// StorageConfig holds persistence configuration
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// CacheConfig holds profile cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// RecommendationConfig tunes the ranker and the catalog source
type RecommendationConfig struct {
	TopN               int `mapstructure:"top_n"`
	Workers            int `mapstructure:"workers"`
	MaxResultsPerStore int `mapstructure:"max_results_per_store"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/stylesphere/")

	v.SetEnvPrefix("STYLESPHERE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.max_upload_bytes", 10<<20)

	// Gemini defaults; api_key has no default
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.model", "gemini-1.5-pro")
	v.SetDefault("gemini.timeout", "60s")
	v.SetDefault("gemini.requests_per_minute", 60)
	v.SetDefault("gemini.max_retries", 3)

	v.SetDefault("storage.data_dir", "./data")

	v.SetDefault("cache.ttl", "10m")

	v.SetDefault("ratelimit.per_ip", 100)

	v.SetDefault("recommendation.top_n", 10)
	v.SetDefault("recommendation.workers", 4)
	v.SetDefault("recommendation.max_results_per_store", 20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")
}

func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Recommendation.TopN <= 0 {
		return fmt.Errorf("recommendation top_n must be positive, got: %d", config.Recommendation.TopN)
	}

	if config.Recommendation.Workers <= 0 {
		return fmt.Errorf("recommendation workers must be positive, got: %d", config.Recommendation.Workers)
	}

	if config.Recommendation.MaxResultsPerStore <= 0 {
		return fmt.Errorf("recommendation max_results_per_store must be positive, got: %d", config.Recommendation.MaxResultsPerStore)
	}

	if config.Gemini.RequestsPerMinute <= 0 {
		return fmt.Errorf("gemini requests_per_minute must be positive, got: %d", config.Gemini.RequestsPerMinute)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}

// RequireGemini checks the settings needed by commands that call the vision model.
func (c *Config) RequireGemini() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("Gemini API key is required (set STYLESPHERE_GEMINI_API_KEY)")
	}
	return nil
}

// LogFormat resolves the log format, defaulting to console output in development.
func (c *Config) LogFormat() string {
	if c.Log.Format != "" {
		return c.Log.Format
	}
	if c.Server.Environment == "development" {
		return "console"
	}
	return "json"
}
