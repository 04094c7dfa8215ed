package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"limo/internal/config"
)

// pingTimeout bounds the startup connectivity check so a misconfigured Redis
// address fails fast instead of stalling boot.
const pingTimeout = 5 * time.Second

// NewClient connects to the Redis instance backing the idempotent-response
// cache. Commands are instrumented when a New Relic application is supplied.
func NewClient(ctx context.Context, cfg config.RedisConfig, nrApp *newrelic.Application) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if nrApp != nil {
		client.AddHook(cacheHook{})
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// cacheHook reports cache commands as New Relic datastore segments.
type cacheHook struct{}

func (cacheHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (cacheHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		defer segment(ctx, cmd.Name()).End()
		return next(ctx, cmd)
	}
}

func (cacheHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		defer segment(ctx, "pipeline").End()
		return next(ctx, cmds)
	}
}

func segment(ctx context.Context, operation string) *newrelic.DatastoreSegment {
	txn := newrelic.FromContext(ctx)
	if txn == nil {
		return &newrelic.DatastoreSegment{}
	}
	return &newrelic.DatastoreSegment{
		StartTime:  txn.StartSegmentNow(),
		Product:    newrelic.DatastoreRedis,
		Operation:  operation,
		Collection: "idempotency",
	}
}
