package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const RedisChannel = "scheduler:changes"

// Redis broadcasts changes over a Redis pub/sub channel so several API
// instances invalidate each other's working sets.
type Redis struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedis(rdb *redis.Client, logger *zap.Logger) *Redis {
	return &Redis{rdb: rdb, logger: logger}
}

func (r *Redis) Publish(ctx context.Context, c Change) error {
	body, err := encode(c)
	if err != nil {
		return err
	}
	if err := r.rdb.Publish(ctx, RedisChannel, body).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (r *Redis) Subscribe(ctx context.Context) (<-chan Change, error) {
	ps := r.rdb.Subscribe(ctx, RedisChannel)
	// дожидаемся подтверждения подписки, иначе первые сообщения теряются
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan Change, subscriberBuffer)
	go func() {
		defer close(out)
		defer ps.Close()

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- decode([]byte(msg.Payload)):
				default:
					r.logger.Debug("dropping change for slow subscriber")
				}
			}
		}
	}()
	return out, nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
