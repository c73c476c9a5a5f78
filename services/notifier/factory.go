package notifier

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"sjsage522/productscraper/config"
	scerrors "sjsage522/productscraper/pkg/errors"
)

// New selects the notifier named by the configuration.
// shared may be nil, in which case the redis notifier dials its own connection.
func New(cfg *config.Config, shared *redis.Client) (Notifier, error) {
	switch cfg.Notifier {
	case "", "log":
		return NewLogNotifier(), nil
	case "redis":
		if shared != nil {
			return NewRedisStreamNotifierFromClient(shared, cfg.NotifyStream, cfg.AppName), nil
		}
		return NewRedisStreamNotifier(cfg.RedisAddr(), cfg.RedisDB, cfg.NotifyStream, cfg.AppName), nil
	default:
		return nil, scerrors.NewConfiguration(fmt.Sprintf("unknown notifier %q", cfg.Notifier), nil)
	}
}
