package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sjsage522/productscraper/internal/models"
	"sjsage522/productscraper/logger"
	scerrors "sjsage522/productscraper/pkg/errors"
)

// ProductCacheTTL is how long a cached product snapshot stays valid
const ProductCacheTTL = 3600 * time.Second

// ProductCache tracks the last seen price of each product
type ProductCache struct {
	svc       CacheService
	namespace string
	ttl       time.Duration
	log       *logger.Logger
}

// NewProductCache creates a product cache on top of a cache service
func NewProductCache(svc CacheService, namespace string) *ProductCache {
	return &ProductCache{
		svc:       svc,
		namespace: namespace,
		ttl:       ProductCacheTTL,
		log:       logger.ForCache(),
	}
}

// Key returns the cache key for a product
func (c *ProductCache) Key(productID string) string {
	return fmt.Sprintf("%s_product__%s", c.namespace, productID)
}

// Put caches the product snapshot, replacing any previous entry
func (c *ProductCache) Put(ctx context.Context, product models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return scerrors.NewCache("cache", "encode product "+product.ProductID, err)
	}

	if err := c.svc.Set(ctx, c.Key(product.ProductID), data, c.ttl); err != nil {
		return scerrors.NewCache("cache", "set product "+product.ProductID, err)
	}
	return nil
}

// IsCachedUnchanged reports whether the product is cached with the same price
func (c *ProductCache) IsCachedUnchanged(ctx context.Context, product models.Product) (bool, error) {
	data, err := c.svc.Get(ctx, c.Key(product.ProductID))
	if errors.Is(err, ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, scerrors.NewCache("cache", "get product "+product.ProductID, err)
	}

	var cached models.Product
	if err := json.Unmarshal(data, &cached); err != nil {
		c.log.Warn().
			Err(err).
			Str("product_id", product.ProductID).
			Msg("Ignoring malformed cache entry")
		return false, nil
	}

	return cached.Price == product.Price, nil
}
