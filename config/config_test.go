package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	scerrors "sjsage522/productscraper/pkg/errors"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "Dentalstall Scraper Tool", config.AppName)
	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 10, config.MaxPageLimit)
	assert.Equal(t, 3, config.MaxRetries)
	assert.Equal(t, "images", config.ImagesFolder)
	assert.Equal(t, "https://dentalstall.com/shop", config.BaseURL)
	assert.Equal(t, "redis", config.CacheBackend)
	assert.Equal(t, "localhost:6379", config.RedisAddr())
	assert.Equal(t, 0, config.RedisDB)
	assert.Equal(t, "outputs.json", config.OutputFile)
	assert.Equal(t, 30*time.Second, config.HTTPTimeout)
	assert.Equal(t, "log", config.Notifier)

	// Test with environment variables
	t.Setenv("STATIC_TOKEN", "secret")
	t.Setenv("MAX_PAGE_LIMIT", "4")
	t.Setenv("REDIS_HOST", "redis.example.com")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CACHE_BACKEND", "Memcache")
	t.Setenv("DENTALSTALL_BASE_URL", "https://example.com/shop/")
	t.Setenv("PROXY", "http://proxy.local:3128")

	config = LoadConfig()
	assert.Equal(t, "secret", config.StaticToken)
	assert.Equal(t, 4, config.MaxPageLimit)
	assert.Equal(t, "redis.example.com:6380", config.RedisAddr())
	assert.Equal(t, 2, config.RedisDB)
	assert.Equal(t, "memcache", config.CacheBackend)
	assert.Equal(t, "https://example.com/shop", config.BaseURL)
	assert.Equal(t, "http://proxy.local:3128", config.Proxy)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := LoadConfig()
		c.StaticToken = "secret"
		return c
	}

	assert.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing token", func(c *Config) { c.StaticToken = "" }},
		{"zero page limit", func(c *Config) { c.MaxPageLimit = 0 }},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }},
		{"unknown cache backend", func(c *Config) { c.CacheBackend = "etcd" }},
		{"unknown notifier", func(c *Config) { c.Notifier = "pager" }},
		{"non http base url", func(c *Config) { c.BaseURL = "ftp://example.com" }},
		{"empty output file", func(c *Config) { c.OutputFile = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			assert.Error(t, err)
			assert.True(t, scerrors.IsType(err, scerrors.ErrorTypeConfiguration))
		})
	}
}

func TestValidateRejectsMalformedIntegers(t *testing.T) {
	t.Setenv("STATIC_TOKEN", "secret")
	t.Setenv("REDIS_PORT", "63x9")
	t.Setenv("MAX_PAGE_LIMIT", " 7 ")

	c := LoadConfig()
	assert.Equal(t, 7, c.MaxPageLimit)

	err := c.Validate()
	assert.True(t, scerrors.IsType(err, scerrors.ErrorTypeConfiguration))
	assert.ErrorContains(t, err, "REDIS_PORT")
}
