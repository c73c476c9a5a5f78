package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	scerrors "sjsage522/productscraper/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Application
	AppName     string
	Environment string

	// Scraping configuration
	Proxy        string
	MaxPageLimit int
	ImagesFolder string
	BaseURL      string
	MaxRetries   int
	HTTPTimeout  time.Duration

	// API configuration
	StaticToken string
	ListenAddr  string

	// Cache configuration
	CacheBackend   string
	CacheNamespace string
	RedisHost      string
	RedisPort      int
	RedisDB        int
	MemcacheAddr   string

	// Logging configuration
	LogLevel string
	LogFile  string

	// Output configuration
	OutputFile string

	// Notification configuration
	Notifier     string
	NotifyStream string

	// integer settings that failed to parse, reported by Validate
	parseErrors []error
}

// LoadEnvFiles loads .env and the environment specific file.
// Missing files are ignored and variables already set are never overridden.
func LoadEnvFiles() {
	godotenv.Load()
	if getEnv("ENVIRONMENT", "development") == "production" {
		godotenv.Load(".env.prod")
	} else {
		godotenv.Load(".env.dev")
	}
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	var parseErrors []error
	getInt := func(key, defaultValue string) int {
		value, err := strconv.Atoi(strings.TrimSpace(getEnv(key, defaultValue)))
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("%s: %w", key, err))
		}
		return value
	}

	maxPageLimit := getInt("MAX_PAGE_LIMIT", "10")
	maxRetries := getInt("DENTALSTALL_MAX_RETRIES", "3")
	httpTimeout := getInt("HTTP_TIMEOUT_SECONDS", "30")
	redisPort := getInt("REDIS_PORT", "6379")
	redisDB := getInt("REDIS_DB", "0")

	return &Config{
		AppName:        getEnv("APP_NAME", "Dentalstall Scraper Tool"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		Proxy:          getEnv("PROXY", ""),
		MaxPageLimit:   maxPageLimit,
		ImagesFolder:   getEnv("IMAGES_FOLDER", "images"),
		BaseURL:        strings.TrimRight(getEnv("DENTALSTALL_BASE_URL", "https://dentalstall.com/shop"), "/"),
		MaxRetries:     maxRetries,
		HTTPTimeout:    time.Duration(httpTimeout) * time.Second,
		StaticToken:    getEnv("STATIC_TOKEN", ""),
		ListenAddr:     getEnv("LISTEN_ADDR", ":8000"),
		CacheBackend:   strings.ToLower(getEnv("CACHE_BACKEND", "redis")),
		CacheNamespace: getEnv("CACHE_NAMESPACE", "atlys_scraper"),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      redisPort,
		RedisDB:        redisDB,
		MemcacheAddr:   getEnv("MEMCACHE_ADDR", "localhost:11211"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", "app.log"),
		OutputFile:     getEnv("OUTPUT_JSON_FILENAME", "outputs.json"),
		Notifier:       strings.ToLower(getEnv("NOTIFIER", "log")),
		NotifyStream:   getEnv("NOTIFY_STREAM", "scrape_notifications"),
		parseErrors:    parseErrors,
	}
}

// RedisAddr returns the host:port address of the redis server
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsProduction reports whether the application runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	if len(c.parseErrors) > 0 {
		return scerrors.NewConfiguration("invalid integer setting", errors.Join(c.parseErrors...))
	}
	if c.StaticToken == "" {
		return scerrors.NewConfiguration("STATIC_TOKEN is required", nil)
	}
	if c.MaxPageLimit < 1 {
		return scerrors.NewConfiguration("MAX_PAGE_LIMIT must be at least 1", nil)
	}
	if c.MaxRetries < 1 {
		return scerrors.NewConfiguration("DENTALSTALL_MAX_RETRIES must be at least 1", nil)
	}
	if c.HTTPTimeout <= 0 {
		return scerrors.NewConfiguration("HTTP_TIMEOUT_SECONDS must be positive", nil)
	}

	switch c.CacheBackend {
	case "redis", "memcache":
	default:
		return scerrors.NewConfiguration(fmt.Sprintf("unknown CACHE_BACKEND %q", c.CacheBackend), nil)
	}

	switch c.Notifier {
	case "log", "redis":
	default:
		return scerrors.NewConfiguration(fmt.Sprintf("unknown NOTIFIER %q", c.Notifier), nil)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return scerrors.NewConfiguration("invalid DENTALSTALL_BASE_URL", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return scerrors.NewConfiguration(fmt.Sprintf("DENTALSTALL_BASE_URL must be http(s), got %q", c.BaseURL), nil)
	}

	if c.OutputFile == "" {
		return scerrors.NewConfiguration("OUTPUT_JSON_FILENAME must not be empty", nil)
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
