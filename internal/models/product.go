package models

// Product represents a scraped catalog product
type Product struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"product_title"`
	Price     float64 `json:"product_price"`
	ImagePath string  `json:"path_to_image"`
}

// ScrapeRequest is the inbound request to start a scrape
type ScrapeRequest struct {
	TotalPages int `json:"total_pages"`
}

// ScrapeResult summarizes a finished scrape run
type ScrapeResult struct {
	Success bool `json:"success"`
	New     int  `json:"new"`
	Updated int  `json:"updated"`
}
