package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/demand-queue/internal/config"
)

// Redis wraps the go-redis client used for cross-instance feed invalidation.
type Redis struct {
	Client  *redis.Client
	Channel string
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client, Channel: cfg.Channel}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// PublishChange notifies all instances that the demand set changed.
func (r *Redis) PublishChange(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Publish(ctx, r.Channel, "changed").Err()
}

// SubscribeChanges opens a pub/sub subscription on the feed channel and
// adapts it to a plain notes channel. The notes channel closes when the
// subscription drops; pending notes coalesce since every note triggers a
// full re-query anyway.
func (r *Redis) SubscribeChanges(ctx context.Context) (<-chan struct{}, func() error) {
	if r == nil || r.Client == nil {
		return nil, nil
	}
	pubsub := r.Client.Subscribe(ctx, r.Channel)
	notes := make(chan struct{}, 1)
	go func() {
		defer close(notes)
		for range pubsub.Channel() {
			select {
			case notes <- struct{}{}:
			default:
			}
		}
	}()
	return notes, pubsub.Close
}
