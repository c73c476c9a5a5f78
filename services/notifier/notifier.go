package notifier

import (
	"context"

	"sjsage522/productscraper/logger"
)

// Notifier reports the outcome of a scrape run
type Notifier interface {
	// Notify announces how many products were new and how many were updated
	Notify(ctx context.Context, newCount, updatedCount int) error

	// Close releases any connection held by the notifier
	Close() error
}

// LogNotifier writes the notification to the log
type LogNotifier struct {
	log *logger.Logger
}

var _ Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a notifier that only logs
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logger.ForNotifier()}
}

// Notify logs one line with both counts
func (n *LogNotifier) Notify(_ context.Context, newCount, updatedCount int) error {
	n.log.Info().
		Int("new", newCount).
		Int("updated", updatedCount).
		Msgf("SENDING_NOTIFICATION: %d new products scraped and %d products updated.", newCount, updatedCount)
	return nil
}

// Close is a no-op
func (n *LogNotifier) Close() error {
	return nil
}
