package crawler

import (
	"context"
	"io"

	"sjsage522/productscraper/internal/models"
)

// Crawler interface defines the contract for catalog crawlers
type Crawler interface {
	// Scrape retrieves products from up to totalPages catalog pages
	Scrape(ctx context.Context, totalPages int) ([]models.Product, error)

	// GetName returns the crawler's name for logging and identification
	GetName() string
}

// PageExtractor turns a catalog page into raw product nodes
type PageExtractor interface {
	Extract(r io.Reader) ([]RawProductNode, error)
}

// ProductChecker reports whether a product is already known with the same price
type ProductChecker interface {
	IsCachedUnchanged(ctx context.Context, product models.Product) (bool, error)
}

// ImageStore downloads a product image and returns its local path
type ImageStore interface {
	Download(ctx context.Context, imageURL, title string) (string, error)
}

// RawProductNode is what the extractor found inside one product container
type RawProductNode struct {
	Title      string
	ProductID  string
	PriceText  string
	HasPrice   bool
	Discounted bool
	ImageURL   string
}

// Selectors contains CSS selectors for the catalog page
type Selectors struct {
	ProductList     string
	Title           string
	AddToCart       string
	ProductIDAttr   string
	Price           string
	DiscountedPrice string
	RegularPrice    string
	Image           string
	ImageAttr       string
}

// CrawlerConfig contains configuration for a catalog crawler
type CrawlerConfig struct {
	Name         string
	BaseURL      string
	MaxPageLimit int
	MaxRetries   int
	ImagesFolder string
	Selectors    Selectors
}
