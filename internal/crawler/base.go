package crawler

import (
	"context"
	"io"
	"net/http"
	"time"

	"sjsage522/productscraper/helpers"
	"sjsage522/productscraper/logger"
	scerrors "sjsage522/productscraper/pkg/errors"
)

// BaseCrawler provides the retrying page fetch shared by crawlers
type BaseCrawler struct {
	Name    string
	Client  *http.Client
	Retrier *Retrier
	log     *logger.Logger
}

// fetchWithRetry fetches a page, retrying transient failures with backoff
func (c *BaseCrawler) fetchWithRetry(ctx context.Context, url string, page int) (io.Reader, error) {
	var body io.Reader

	retrier := *c.Retrier
	observe := c.Retrier.OnTransition
	logTransition := c.logTransition(page)
	retrier.OnTransition = func(attempt int, state FetchState, err error, wait time.Duration) {
		logTransition(attempt, state, err, wait)
		if observe != nil {
			observe(attempt, state, err, wait)
		}
	}

	err := retrier.Do(ctx, func(attempt int) error {
		c.log.Debug().Int("page", page).Int("attempt", attempt).Str("url", url).Msg("Fetching page")
		reader, err := helpers.FetchWithRandomHeaders(ctx, c.Client, url)
		if err != nil {
			return scerrors.NewNetwork(c.GetName(), "fetch page", err)
		}
		body = reader
		return nil
	})
	if err != nil {
		return nil, err
	}

	return body, nil
}

// logTransition logs the retry state machine of a page fetch
func (c *BaseCrawler) logTransition(page int) func(int, FetchState, error, time.Duration) {
	return func(attempt int, state FetchState, err error, wait time.Duration) {
		switch state {
		case StateRetryWait:
			c.log.Error().
				Err(err).
				Int("page", page).
				Int("attempt", attempt).
				Dur("retry_in", wait).
				Msgf("Error fetching page %d. Retrying in %s...", page, wait)
		case StateExhausted:
			c.log.Warn().
				Int("page", page).
				Int("attempts", attempt).
				Msgf("Failed to fetch page %d after %d attempts. Skipping this page.", page, attempt)
		}
	}
}

// GetName returns the crawler's name for logging
func (c *BaseCrawler) GetName() string {
	if c.Name == "" {
		return "BaseCrawler"
	}
	return c.Name
}
