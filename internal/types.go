package internal

import (
	"net/http"

	"sjsage522/productscraper/services/cache"
	"sjsage522/productscraper/services/notifier"
	"sjsage522/productscraper/services/proxy"
	"sjsage522/productscraper/services/storage"
)

// Dependencies holds all service dependencies
type Dependencies struct {
	Cache        cache.CacheService
	ProductCache *cache.ProductCache
	Storage      storage.ProductStorage
	Notifier     notifier.Notifier
	Proxy        proxy.ProxyManager
	HTTPClient   *http.Client
}

// Cleanup closes every service that holds a connection
func (d *Dependencies) Cleanup() {
	if d.Notifier != nil {
		d.Notifier.Close()
	}
	if d.Cache != nil {
		d.Cache.Close()
	}
}
