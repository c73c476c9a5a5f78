package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sjsage522/productscraper/internal/models"
	"sjsage522/productscraper/logger"
)

// MockProductChecker implements ProductChecker with an in-memory price map
type MockProductChecker struct {
	mu     sync.Mutex
	prices map[string]float64
	err    error
	calls  int
}

var _ ProductChecker = (*MockProductChecker)(nil)

func NewMockProductChecker() *MockProductChecker {
	return &MockProductChecker{prices: make(map[string]float64)}
}

func (m *MockProductChecker) IsCachedUnchanged(_ context.Context, p models.Product) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	price, ok := m.prices[p.ProductID]
	return ok && price == p.Price, nil
}

// MockImageStore records downloads without touching the network
type MockImageStore struct {
	downloads []string
	failURLs  map[string]bool
}

var _ ImageStore = (*MockImageStore)(nil)

func (m *MockImageStore) Download(_ context.Context, imageURL, title string) (string, error) {
	if m.failURLs[imageURL] {
		return "", errors.New("image fetch failed")
	}
	m.downloads = append(m.downloads, imageURL)
	return fmt.Sprintf("images/%s.jpg", title), nil
}

// noSleep returns immediately and records waits
type noSleep struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *noSleep) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	return nil
}

// newTestCrawler builds a crawler for baseURL with mocks and a captured log
func newTestCrawler(baseURL string, maxPages int) (*CatalogCrawler, *MockImageStore, *noSleep, *bytes.Buffer) {
	c := NewCatalogCrawler(CrawlerConfig{
		Name:         "TestCrawler",
		BaseURL:      baseURL,
		MaxPageLimit: maxPages,
		MaxRetries:   3,
		ImagesFolder: "unused",
		Selectors:    DentalStallSelectors(),
	}, &http.Client{Timeout: 5 * time.Second}, nil)

	images := &MockImageStore{failURLs: map[string]bool{}}
	sleeper := &noSleep{}
	var buf bytes.Buffer

	c.images = images
	c.Retrier.Sleep = sleeper.Sleep
	c.log = logger.New(zerolog.New(&buf))

	return c, images, sleeper, &buf
}
