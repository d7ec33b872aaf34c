package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/shoefinder/backend/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Image     ImageConfig
	Cache     CacheConfig
	Search    SearchConfig
	RateLimit RateLimitConfig
	MCP       MCPConfig
	Docs      DocsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds upstream storefront configuration
type CatalogConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ProductsPath string        `mapstructure:"products_path"`
	PageLimit    int           `mapstructure:"page_limit"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

// ImageConfig holds thumbnail fetch configuration
type ImageConfig struct {
	Width    int           `mapstructure:"width"`
	Format   string        `mapstructure:"format"`
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxBytes int64         `mapstructure:"max_bytes"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type       string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL   string        `mapstructure:"redis_url"`
	CatalogTTL time.Duration `mapstructure:"catalog_ttl"`
	ImageTTL   time.Duration `mapstructure:"image_ttl"`
}

// SearchConfig holds search behaviour configuration
type SearchConfig struct {
	MaxResults       int  `mapstructure:"max_results"`
	ImageConcurrency int  `mapstructure:"image_concurrency"`
	DebugLogging     bool `mapstructure:"debug_logging"`
}

// RateLimitConfig holds rate limiting configuration (requests per minute)
type RateLimitConfig struct {
	PerIP   int `mapstructure:"per_ip"`
	Catalog int `mapstructure:"catalog"`
}

// MCPConfig holds Model Context Protocol tool server configuration
type MCPConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Name    string `mapstructure:"name"`
}

// DocsConfig holds API reference page configuration
type DocsConfig struct {
	SpecDir string `mapstructure:"spec_dir"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shoefinder/")

	// Environment variable settings
	v.SetEnvPrefix("SHOEFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
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

// loadEnvFile loads a .env file from the working directory if one exists.
// Variables already present in the environment are left alone.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values.
// Every key needs a default so AutomaticEnv can bind it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Catalog defaults
	v.SetDefault("catalog.base_url", "https://www.allbirds.com")
	v.SetDefault("catalog.products_path", "/products.json")
	v.SetDefault("catalog.page_limit", 250)
	v.SetDefault("catalog.timeout", "30s")
	v.SetDefault("catalog.max_retries", 3)

	// Image defaults
	v.SetDefault("image.width", 200)
	v.SetDefault("image.format", "jpg")
	v.SetDefault("image.timeout", "10s")
	v.SetDefault("image.max_bytes", 2<<20)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.catalog_ttl", "5m")
	v.SetDefault("cache.image_ttl", "24h")

	// Search defaults
	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.image_concurrency", 5)
	v.SetDefault("search.debug_logging", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.catalog", 60)

	// MCP defaults
	v.SetDefault("mcp.enabled", true)
	v.SetDefault("mcp.name", "shoe-finder")

	v.SetDefault("docs.spec_dir", "./docs")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL is required (set SHOEFINDER_CATALOG_BASE_URL)")
	}

	u, err := url.Parse(config.Catalog.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("catalog base URL must be absolute, got: %s", config.Catalog.BaseURL)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Cache.CatalogTTL <= 0 {
		return fmt.Errorf("catalog cache TTL must be positive, got: %s", config.Cache.CatalogTTL)
	}

	if config.Search.MaxResults <= 0 || config.Search.MaxResults > domain.MaxShoeResults {
		return fmt.Errorf("search max results must be between 1 and %d, got: %d", domain.MaxShoeResults, config.Search.MaxResults)
	}

	return nil
}
