package notifier

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"sjsage522/productscraper/logger"
	scerrors "sjsage522/productscraper/pkg/errors"
)

// DefaultStreamMaxLength bounds the notification stream
const DefaultStreamMaxLength = 1000

// RedisStreamNotifier publishes run summaries to a redis stream
type RedisStreamNotifier struct {
	client          *redis.Client
	stream          string
	app             string
	streamMaxLength int64
	ownsClient      bool
	log             *logger.Logger
	now             func() time.Time
}

var _ Notifier = (*RedisStreamNotifier)(nil)

// NewRedisStreamNotifier creates a notifier with its own redis connection
func NewRedisStreamNotifier(addr string, db int, stream, app string) *RedisStreamNotifier {
	n := NewRedisStreamNotifierFromClient(redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	}), stream, app)
	n.ownsClient = true
	return n
}

// NewRedisStreamNotifierFromClient creates a notifier sharing an existing redis client.
// Close does not close a shared client.
func NewRedisStreamNotifierFromClient(client *redis.Client, stream, app string) *RedisStreamNotifier {
	return &RedisStreamNotifier{
		client:          client,
		stream:          stream,
		app:             app,
		streamMaxLength: DefaultStreamMaxLength,
		log:             logger.ForNotifier(),
		now:             time.Now,
	}
}

// Notify appends an entry with the run counts to the stream
func (n *RedisStreamNotifier) Notify(ctx context.Context, newCount, updatedCount int) error {
	id, err := n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		MaxLen: n.streamMaxLength,
		Approx: true,
		Values: map[string]interface{}{
			"new":     newCount,
			"updated": updatedCount,
			"app":     n.app,
			"at":      n.now().UTC().Format(time.RFC3339),
		},
	}).Result()
	if err != nil {
		return scerrors.NewNotifier("notifier", "publish to stream "+n.stream, err)
	}

	n.log.Info().
		Str("stream", n.stream).
		Str("id", id).
		Msgf("SENDING_NOTIFICATION: %d new products scraped and %d products updated.", newCount, updatedCount)
	return nil
}

// Close closes the redis connection if the notifier created it
func (n *RedisStreamNotifier) Close() error {
	if !n.ownsClient {
		return nil
	}
	return n.client.Close()
}
