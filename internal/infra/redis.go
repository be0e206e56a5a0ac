package infra

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// CanalNotificaciones is the pub/sub channel of an institution group.
func CanalNotificaciones(grupo string) string { return "notificaciones:" + grupo }

// Notifier delivers fire-and-forget messages to an institution group over
// Redis pub/sub. Socket gateways subscribe to notificaciones:{grupo}.
type Notifier struct {
	rdb *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier { return &Notifier{rdb: rdb} }

// Notify publishes message as JSON. It reports how many subscribers received it.
func (n *Notifier) Notify(ctx context.Context, grupo string, message interface{}) (int64, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return 0, err
	}
	return n.rdb.Publish(ctx, CanalNotificaciones(grupo), data).Result()
}
