package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scerrors "sjsage522/productscraper/pkg/errors"
)

// catalogServer serves pages by path and counts hits per path
type catalogServer struct {
	*httptest.Server
	mu    sync.Mutex
	pages map[string]string
	fail  map[string]bool
	hits  map[string]int
}

func newCatalogServer(t *testing.T) *catalogServer {
	cs := &catalogServer{
		pages: make(map[string]string),
		fail:  make(map[string]bool),
		hits:  make(map[string]int),
	}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.mu.Lock()
		defer cs.mu.Unlock()
		cs.hits[r.URL.Path]++
		if cs.fail[r.URL.Path] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body, ok := cs.pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(cs.Close)
	return cs
}

func (cs *catalogServer) totalHits() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	total := 0
	for _, n := range cs.hits {
		total += n
	}
	return total
}

func simpleProduct(id, title, price string) string {
	return productHTML(id, title, fmt.Sprintf(regularPrice, price), fmt.Sprintf(`data-lazy-src="/img/%s.jpg"`, id))
}

func TestCatalogCrawlerPageURL(t *testing.T) {
	c, _, _, _ := newTestCrawler("https://dentalstall.com/shop/", 5)

	assert.Equal(t, "https://dentalstall.com/shop", c.PageURL(1))
	assert.Equal(t, "https://dentalstall.com/shop/page/2", c.PageURL(2))
	assert.Equal(t, "https://dentalstall.com/shop/page/17", c.PageURL(17))
}

func TestScrapeSkipsProductWithoutPrice(t *testing.T) {
	cs := newCatalogServer(t)
	cs.pages["/shop"] = pageHTML(
		simpleProduct("1", "Dental Mirror", "1,299.00"),
		productHTML("2", "Mystery Box", "", `data-lazy-src="/img/2.jpg"`),
	)

	c, images, _, buf := newTestCrawler(cs.URL+"/shop", 5)
	products, err := c.Scrape(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "1", products[0].ProductID)
	assert.Equal(t, "Dental Mirror", products[0].Title)
	assert.Equal(t, 1299.0, products[0].Price)
	assert.Equal(t, "images/Dental Mirror.jpg", products[0].ImagePath)
	assert.Equal(t, []string{cs.URL + "/img/1.jpg"}, images.downloads)
	assert.Contains(t, buf.String(), "No price found for product: Mystery Box")
}

func TestScrapeUsesDiscountedPrice(t *testing.T) {
	cs := newCatalogServer(t)
	cs.pages["/shop"] = pageHTML(
		productHTML("7", "Scaler Tip", fmt.Sprintf(discountedPrice, "2,000.00", "1,499.00"), `data-lazy-src="https://cdn.example/7.jpg"`),
	)

	c, images, _, _ := newTestCrawler(cs.URL+"/shop", 5)
	products, err := c.Scrape(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, 1499.0, products[0].Price)
	assert.Equal(t, []string{"https://cdn.example/7.jpg"}, images.downloads)
}

func TestScrapeRespectsPageLimit(t *testing.T) {
	cs := newCatalogServer(t)
	cs.pages["/shop"] = pageHTML(simpleProduct("1", "A", "10"))
	for page := 2; page <= 10; page++ {
		id := fmt.Sprint(page)
		cs.pages["/shop/page/"+id] = pageHTML(simpleProduct(id, "P"+id, "10"))
	}

	c, _, _, _ := newTestCrawler(cs.URL+"/shop", 3)
	products, err := c.Scrape(context.Background(), 10)
	require.NoError(t, err)

	assert.Len(t, products, 3)
	assert.Equal(t, 3, cs.totalHits())
	assert.Equal(t, []string{"1", "2", "3"}, []string{products[0].ProductID, products[1].ProductID, products[2].ProductID})

	c, _, _, _ = newTestCrawler(cs.URL+"/shop", 3)
	products, err = c.Scrape(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 5, cs.totalHits())
}

func TestScrapeSkipsFailingPage(t *testing.T) {
	cs := newCatalogServer(t)
	cs.pages["/shop"] = pageHTML(simpleProduct("1", "A", "10"))
	cs.fail["/shop/page/2"] = true
	cs.pages["/shop/page/3"] = pageHTML(simpleProduct("3", "C", "30"))

	c, _, sleeper, buf := newTestCrawler(cs.URL+"/shop", 5)
	products, err := c.Scrape(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "1", products[0].ProductID)
	assert.Equal(t, "3", products[1].ProductID)

	cs.mu.Lock()
	assert.Equal(t, 3, cs.hits["/shop/page/2"])
	cs.mu.Unlock()

	assert.Equal(t, []time.Duration{6 * time.Second, 9 * time.Second, 12 * time.Second}, sleeper.waits)
	assert.Contains(t, buf.String(), "Failed to fetch page 2 after 3 attempts. Skipping this page.")
}

func TestScrapeSkipsCachedProducts(t *testing.T) {
	cs := newCatalogServer(t)
	cs.pages["/shop"] = pageHTML(
		simpleProduct("1", "Unchanged", "100"),
		simpleProduct("2", "Repriced", "250"),
		simpleProduct("3", "Fresh", "75"),
	)

	c, images, _, _ := newTestCrawler(cs.URL+"/shop", 5)
	checker := NewMockProductChecker()
	checker.prices["1"] = 100
	checker.prices["2"] = 200
	c.checker = checker

	products, err := c.Scrape(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "2", products[0].ProductID)
	assert.Equal(t, "3", products[1].ProductID)
	assert.Len(t, images.downloads, 2, "cached products must not download images")
	assert.Equal(t, 3, checker.calls)
}

func TestScrapeSkipsProductWithoutImage(t *testing.T) {
	cs := newCatalogServer(t)
	cs.pages["/shop"] = pageHTML(
		productHTML("1", "Imageless", fmt.Sprintf(regularPrice, "10"), ""),
		simpleProduct("2", "Pictured", "20"),
	)

	c, _, _, buf := newTestCrawler(cs.URL+"/shop", 5)
	products, err := c.Scrape(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "2", products[0].ProductID)
	assert.Contains(t, buf.String(), "Image not found for product: Imageless")
}

func TestScrapeSkipsFailedImageDownload(t *testing.T) {
	cs := newCatalogServer(t)
	cs.pages["/shop"] = pageHTML(
		simpleProduct("1", "Broken", "10"),
		simpleProduct("2", "Fine", "20"),
	)

	c, images, _, buf := newTestCrawler(cs.URL+"/shop", 5)
	images.failURLs[cs.URL+"/img/1.jpg"] = true

	products, err := c.Scrape(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "2", products[0].ProductID)
	assert.Contains(t, buf.String(), "Image download failed for product: Broken")
}

func TestScrapeSkipsProductWithoutID(t *testing.T) {
	cs := newCatalogServer(t)
	noID := strings.Replace(simpleProduct("9", "Anonymous", "10"), `data-product_id="9"`, "", 1)
	cs.pages["/shop"] = pageHTML(noID, simpleProduct("2", "Known", "20"))

	c, _, _, _ := newTestCrawler(cs.URL+"/shop", 5)
	products, err := c.Scrape(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "2", products[0].ProductID)
}

func TestScrapePropagatesCheckerError(t *testing.T) {
	cs := newCatalogServer(t)
	cs.pages["/shop"] = pageHTML(simpleProduct("1", "A", "10"))

	c, _, _, _ := newTestCrawler(cs.URL+"/shop", 5)
	checker := NewMockProductChecker()
	checker.err = scerrors.NewCache("cache", "get", errors.New("connection refused"))
	c.checker = checker

	products, err := c.Scrape(context.Background(), 1)
	assert.Nil(t, products)
	assert.True(t, scerrors.IsType(err, scerrors.ErrorTypeCache))
}

func TestScrapeRejectsInvalidPageCount(t *testing.T) {
	cs := newCatalogServer(t)

	c, _, _, _ := newTestCrawler(cs.URL+"/shop", 5)
	for _, pages := range []int{0, -3} {
		_, err := c.Scrape(context.Background(), pages)
		assert.True(t, scerrors.IsType(err, scerrors.ErrorTypeValidation), "pages=%d", pages)
	}
	assert.Equal(t, 0, cs.totalHits())
}
