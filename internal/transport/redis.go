package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a Redis pub/sub endpoint.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	ChannelPrefix string
	LinkID        string
}

// Redis is an endpoint publishing to <prefix>:<link>:<outbox|inbox>.
type Redis struct {
	client     *redis.Client
	pubsub     *redis.PubSub
	outChannel string
	inChannel  string
	messages   <-chan *redis.Message
	queue      *queue
}

// NewRedis connects, verifies the server with PING and subscribes to the
// inbound channel for side.
func NewRedis(ctx context.Context, cfg RedisConfig, side Side) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	r := &Redis{
		client:     rdb,
		outChannel: linkName(":", cfg.ChannelPrefix, cfg.LinkID, side.outboxName()),
		inChannel:  linkName(":", cfg.ChannelPrefix, cfg.LinkID, side.inboxName()),
		queue:      newQueue(0),
	}
	r.pubsub = rdb.Subscribe(ctx, r.inChannel)
	if _, err := r.pubsub.Receive(ctx); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to subscribe to Redis channel %s: %w", r.inChannel, err)
	}
	r.messages = r.pubsub.Channel()
	return r, nil
}

func (r *Redis) Send(ctx context.Context, payload []byte) error {
	if r.queue.closed() {
		return ErrClosed
	}
	if err := r.client.Publish(ctx, r.outChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis channel %s: %w", r.outChannel, err)
	}
	return nil
}

func (r *Redis) Receive(ctx context.Context) ([]byte, error) {
	select {
	case msg, ok := <-r.messages:
		if !ok {
			return nil, ErrClosed
		}
		return []byte(msg.Payload), nil
	case <-r.queue.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Redis) Close() error {
	r.queue.close()
	if err := r.pubsub.Close(); err != nil {
		r.client.Close()
		return err
	}
	return r.client.Close()
}
