package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	GraphQL   GraphQLConfig   `mapstructure:"graphql"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Page      PageConfig      `mapstructure:"page"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	// BaseURL is the public origin used in QR codes; empty means the request host
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path         string `mapstructure:"path"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// GraphQLConfig holds GraphQL configuration
type GraphQLConfig struct {
	Playground bool `mapstructure:"playground"`
	// Endpoint is a remote GraphQL URL pages fetch from; empty executes in-process
	Endpoint string `mapstructure:"endpoint"`
}

// FetchConfig holds page data fetching configuration
type FetchConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	RenderWait time.Duration `mapstructure:"render_wait"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

// PageConfig holds page rendering configuration
type PageConfig struct {
	SiteTitle       string `mapstructure:"site_title"`
	DedicatedCards  bool   `mapstructure:"dedicated_cards"`
	ParagraphBlocks bool   `mapstructure:"paragraph_blocks"`
	QRSize          int    `mapstructure:"qr_size"`
	PageSize        int    `mapstructure:"page_size"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.base_url", "")
	v.SetDefault("database.path", "poetry.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("graphql.playground", false)
	v.SetDefault("graphql.endpoint", "")
	v.SetDefault("fetch.timeout", "5s")
	v.SetDefault("fetch.render_wait", "300ms")
	v.SetDefault("fetch.cache_ttl", "0s")
	v.SetDefault("page.site_title", "古诗文")
	v.SetDefault("page.dedicated_cards", true)
	v.SetDefault("page.paragraph_blocks", true)
	v.SetDefault("page.qr_size", 160)
	v.SetDefault("page.page_size", 20)
}

func bindEnvVars(v *viper.Viper) {
	// Server
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("server.port", p)
		}
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		v.Set("server.mode", mode)
	}
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		v.Set("server.base_url", baseURL)
	}

	// Database
	if path := os.Getenv("DATABASE_PATH"); path != "" {
		v.Set("database.path", path)
	}

	// GraphQL
	if endpoint := os.Getenv("GRAPHQL_ENDPOINT"); endpoint != "" {
		v.Set("graphql.endpoint", endpoint)
	}

	// Rate Limit
	if enabled := os.Getenv("RATE_LIMIT_ENABLED"); enabled != "" {
		v.Set("rate_limit.enabled", enabled == "true")
	}
	if rps := os.Getenv("RATE_LIMIT_RPS"); rps != "" {
		if r, err := strconv.ParseFloat(rps, 64); err == nil {
			v.Set("rate_limit.requests_per_second", r)
		}
	}
	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		if b, err := strconv.Atoi(burst); err == nil {
			v.Set("rate_limit.burst", b)
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.Mode != "debug" && c.Server.Mode != "release" && c.Server.Mode != "test" {
		return fmt.Errorf("invalid server mode: %s (must be 'debug', 'release', or 'test')", c.Server.Mode)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database max_open_conns must be positive")
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit requests_per_second must be positive")
	}

	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}

	if c.Fetch.RenderWait < 0 || c.Fetch.RenderWait > c.Fetch.Timeout {
		return fmt.Errorf("fetch render_wait must be between 0 and the fetch timeout")
	}

	if c.Fetch.CacheTTL < 0 {
		return fmt.Errorf("fetch cache_ttl cannot be negative")
	}

	if c.Page.QRSize < 0 {
		return fmt.Errorf("page qr_size cannot be negative")
	}

	if c.Page.PageSize < 1 || c.Page.PageSize > 100 {
		return fmt.Errorf("invalid page size: %d (must be between 1 and 100)", c.Page.PageSize)
	}

	return nil
}
