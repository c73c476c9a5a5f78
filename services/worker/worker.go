package worker

import (
	"context"
	"sync"
	"time"

	"sjsage522/productscraper/internal/crawler"
	"sjsage522/productscraper/internal/models"
	"sjsage522/productscraper/logger"
	scerrors "sjsage522/productscraper/pkg/errors"
	"sjsage522/productscraper/services/notifier"
	"sjsage522/productscraper/services/storage"
)

// ProductCache is the part of the product cache the worker needs
type ProductCache interface {
	IsCachedUnchanged(ctx context.Context, product models.Product) (bool, error)
	Put(ctx context.Context, product models.Product) error
}

// Worker runs one scrape at a time: scrape, filter through the cache,
// persist, refresh the cache, then notify
type Worker struct {
	mu       sync.Mutex
	crawler  crawler.Crawler
	cache    ProductCache
	storage  storage.ProductStorage
	notifier notifier.Notifier
	logger   *logger.Logger
}

// NewWorker creates a new worker
func NewWorker(
	c crawler.Crawler,
	cache ProductCache,
	store storage.ProductStorage,
	n notifier.Notifier,
) *Worker {
	return &Worker{
		crawler:  c,
		cache:    cache,
		storage:  store,
		notifier: n,
		logger:   logger.ForWorker(),
	}
}

// Run scrapes up to totalPages pages and persists changed products.
// Overlapping calls are serialized.
func (w *Worker) Run(ctx context.Context, totalPages int) (models.ScrapeResult, error) {
	if totalPages < 1 {
		return models.ScrapeResult{}, scerrors.NewValidation("worker", "total_pages must be a positive integer")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	log := w.logger.WithFields(logger.Fields{
		"crawler":     w.crawler.GetName(),
		"total_pages": totalPages,
	})

	products, err := w.crawler.Scrape(ctx, totalPages)
	if err != nil {
		log.WithError(err).Error().Msg("Scrape failed")
		return models.ScrapeResult{}, err
	}

	var newCount, updatedCount int
	for _, product := range products {
		cached, err := w.cache.IsCachedUnchanged(ctx, product)
		if err != nil {
			log.WithError(err).Error().Str("product_id", product.ProductID).Msg("Cache check failed")
			return models.ScrapeResult{}, err
		}
		if cached {
			log.Debug().Str("product_id", product.ProductID).Msg("Product unchanged, not persisting")
			continue
		}

		n, u, err := w.storage.SaveMerge([]models.Product{product})
		if err != nil {
			log.WithError(err).Error().Str("product_id", product.ProductID).Msg("Failed to persist product")
			return models.ScrapeResult{}, err
		}

		if err := w.cache.Put(ctx, product); err != nil {
			log.WithError(err).Error().Str("product_id", product.ProductID).Msg("Failed to cache product")
			return models.ScrapeResult{}, err
		}

		newCount += n
		updatedCount += u
	}

	if err := w.notifier.Notify(ctx, newCount, updatedCount); err != nil {
		log.WithError(err).Warn().Msg("Failed to send notification")
	}

	log.Info().
		Int("scraped", len(products)).
		Int("new", newCount).
		Int("updated", updatedCount).
		Dur("elapsed", time.Since(start)).
		Msg("Scrape run finished")

	return models.ScrapeResult{Success: true, New: newCount, Updated: updatedCount}, nil
}
