package crawler

import (
	"net/http"

	"sjsage522/productscraper/config"
)

// DentalStallSelectors returns the selectors for the dentalstall catalog markup
func DentalStallSelectors() Selectors {
	return Selectors{
		ProductList:     "div.product-inner",
		Title:           "h2.woo-loop-product__title",
		AddToCart:       "div.addtocart-buynow-btn a",
		ProductIDAttr:   "data-product_id",
		Price:           "span.price",
		DiscountedPrice: "ins",
		RegularPrice:    "span.amount",
		Image:           "img",
		ImageAttr:       "data-lazy-src",
	}
}

// CreateCrawler creates the catalog crawler based on the configuration
func CreateCrawler(cfg *config.Config, client *http.Client, checker ProductChecker) *CatalogCrawler {
	return NewCatalogCrawler(CrawlerConfig{
		Name:         "DentalStallCrawler",
		BaseURL:      cfg.BaseURL,
		MaxPageLimit: cfg.MaxPageLimit,
		MaxRetries:   cfg.MaxRetries,
		ImagesFolder: cfg.ImagesFolder,
		Selectors:    DentalStallSelectors(),
	}, client, checker)
}
