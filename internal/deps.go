package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sjsage522/productscraper/config"
	"sjsage522/productscraper/helpers"
	"sjsage522/productscraper/logger"
	scerrors "sjsage522/productscraper/pkg/errors"
	"sjsage522/productscraper/services/cache"
	"sjsage522/productscraper/services/notifier"
	"sjsage522/productscraper/services/proxy"
	"sjsage522/productscraper/services/storage"
)

// pingTimeout bounds the startup cache health check
const pingTimeout = 5 * time.Second

// InitializeServices connects every backing service named by the configuration.
// An unreachable cache backend is a startup error.
func InitializeServices(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{}

	pm, err := proxy.NewProxyManager(cfg.Proxy)
	if err != nil {
		return nil, err
	}
	deps.Proxy = pm
	deps.HTTPClient = helpers.NewHTTPClient(pm, cfg.HTTPTimeout)
	logger.LogInfo("proxy", "Using proxy: %s (stats: %v)", describeProxy(pm), pm.GetProxyStats())

	var redisClient *redis.Client
	switch cfg.CacheBackend {
	case "memcache":
		deps.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
	default:
		svc := cache.NewRedisService(cfg.RedisAddr(), cfg.RedisDB)
		redisClient = svc.Client()
		deps.Cache = svc
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := deps.Cache.Ping(pingCtx); err != nil {
		logger.Error("Cache backend %s unreachable: %v", cfg.CacheBackend, err)
		deps.Cleanup()
		return nil, scerrors.NewCache("cache", fmt.Sprintf("cannot reach %s backend", cfg.CacheBackend), err)
	}
	deps.ProductCache = cache.NewProductCache(deps.Cache, cfg.CacheNamespace)
	logger.LogInfo("cache", "Connected to %s cache", cfg.CacheBackend)

	store, err := storage.NewJSONStorage(cfg.OutputFile)
	if err != nil {
		deps.Cleanup()
		return nil, err
	}
	deps.Storage = store
	logger.Debug("Snapshot file: %s", store.Path())

	n, err := notifier.New(cfg, redisClient)
	if err != nil {
		deps.Cleanup()
		return nil, err
	}
	deps.Notifier = n

	return deps, nil
}

// describeProxy names the proxy route without credentials
func describeProxy(pm proxy.ProxyManager) string {
	info := pm.GetProxyInfo()
	if info == nil {
		return "direct"
	}
	return fmt.Sprintf("%s://%s", info.Type, info.Address())
}
