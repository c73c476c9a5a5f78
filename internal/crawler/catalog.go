package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"sjsage522/productscraper/internal/models"
	"sjsage522/productscraper/logger"
	scerrors "sjsage522/productscraper/pkg/errors"
)

// CatalogCrawler scrapes a paginated product catalog
type CatalogCrawler struct {
	BaseCrawler
	BaseURL      string
	MaxPageLimit int
	extractor    PageExtractor
	checker      ProductChecker
	images       ImageStore
}

var _ Crawler = (*CatalogCrawler)(nil)

// NewCatalogCrawler creates a catalog crawler. checker may be nil to disable the cache pre-filter.
func NewCatalogCrawler(cfg CrawlerConfig, client *http.Client, checker ProductChecker) *CatalogCrawler {
	return &CatalogCrawler{
		BaseCrawler: BaseCrawler{
			Name:    cfg.Name,
			Client:  client,
			Retrier: NewRetrier(cfg.MaxRetries),
			log:     logger.ForCrawler(cfg.Name),
		},
		BaseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		MaxPageLimit: cfg.MaxPageLimit,
		extractor:    NewGoqueryExtractor(cfg.Selectors),
		checker:      checker,
		images:       NewImageDownloader(client, cfg.ImagesFolder),
	}
}

// PageURL returns the URL of a catalog page (1-based)
func (c *CatalogCrawler) PageURL(page int) string {
	if page <= 1 {
		return c.BaseURL
	}
	return fmt.Sprintf("%s/page/%d", c.BaseURL, page)
}

// Scrape scrapes pages 1..min(totalPages, MaxPageLimit) in order.
// A page whose fetch exhausts its retries contributes no products.
func (c *CatalogCrawler) Scrape(ctx context.Context, totalPages int) ([]models.Product, error) {
	if totalPages < 1 {
		return nil, scerrors.NewValidation(c.GetName(), "total_pages must be a positive integer")
	}

	pages := min(totalPages, c.MaxPageLimit)

	c.log.Info().
		Int("max_page_limit", c.MaxPageLimit).
		Int("total_pages", totalPages).
		Msg("Starting scraping process")

	var all []models.Product
	for page := 1; page <= pages; page++ {
		products, err := c.scrapePage(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, products...)
	}

	c.log.Info().
		Int("products", len(all)).
		Int("pages", pages).
		Msgf("Scraping complete. Total products scraped: %d from %d pages.", len(all), pages)

	return all, nil
}

// scrapePage fetches and processes one page. Only structural failures are returned.
func (c *CatalogCrawler) scrapePage(ctx context.Context, page int) ([]models.Product, error) {
	pageURL := c.PageURL(page)
	c.log.Info().Int("page", page).Str("url", pageURL).Msg("Scraping page")

	body, err := c.fetchWithRetry(ctx, pageURL, page)
	if err != nil {
		if errors.Is(err, ErrRetriesExhausted) {
			return nil, nil
		}
		return nil, err
	}

	nodes, err := c.extractor.Extract(body)
	if err != nil {
		c.log.Error().Err(err).Int("page", page).Msg("Failed to parse page")
		return nil, nil
	}

	var products []models.Product
	for _, node := range nodes {
		product, err := c.processNode(ctx, pageURL, node)
		if err != nil {
			return nil, err
		}
		if product != nil {
			products = append(products, *product)
		}
	}

	return products, nil
}

// processNode turns a raw node into a product. A nil product means the node was skipped.
func (c *CatalogCrawler) processNode(ctx context.Context, pageURL string, node RawProductNode) (*models.Product, error) {
	if node.Title == "" || node.ProductID == "" {
		c.log.Warn().
			Str("title", node.Title).
			Str("product_id", node.ProductID).
			Msg("Product without title or id, skipping")
		return nil, nil
	}

	if !node.HasPrice {
		c.log.Warn().Str("product_id", node.ProductID).Msgf("No price found for product: %s", node.Title)
		return nil, nil
	}

	price, err := ParsePrice(node.PriceText)
	if err != nil {
		c.log.Warn().Err(err).Str("product_id", node.ProductID).Msgf("Invalid price for product: %s", node.Title)
		return nil, nil
	}

	product := models.Product{
		ProductID: node.ProductID,
		Title:     node.Title,
		Price:     price,
	}

	// Skip the image download for products we already have at this price
	if c.checker != nil {
		cached, err := c.checker.IsCachedUnchanged(ctx, product)
		if err != nil {
			return nil, err
		}
		if cached {
			c.log.Debug().Str("product_id", product.ProductID).Msg("Product unchanged, skipping")
			return nil, nil
		}
	}

	if node.ImageURL == "" {
		c.log.Info().Str("product_id", product.ProductID).Msgf("Image not found for product: %s - %v", product.Title, product.Price)
		return nil, nil
	}

	imageURL := resolveURL(pageURL, node.ImageURL)
	c.log.Info().Str("product_id", product.ProductID).Msgf("Downloading image for product: %s", product.Title)

	path, err := c.images.Download(ctx, imageURL, product.Title)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.log.Warn().Err(err).Str("product_id", product.ProductID).Msgf("Image download failed for product: %s, skipping", product.Title)
		return nil, nil
	}
	product.ImagePath = path

	c.log.Info().Str("product_id", product.ProductID).Msgf("Scraped product: %s - %v", product.Title, product.Price)
	return &product, nil
}

// resolveURL resolves ref against base, returning ref unchanged if either fails to parse
func resolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
