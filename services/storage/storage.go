package storage

import (
	"sjsage522/productscraper/internal/models"
)

// ProductStorage is the durable system of record for scraped products
type ProductStorage interface {
	// LoadAll returns every persisted product in stored order
	LoadAll() ([]models.Product, error)

	// SaveMerge upserts products and returns how many were new and how many were updated
	SaveMerge(products []models.Product) (newCount int, updatedCount int, err error)
}
