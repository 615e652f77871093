package redistools

import (
	"context"
	"fmt"
	"time"

	"github.com/Leopold1975/finscore/internal/pkg/config"
	"github.com/redis/go-redis/v9"
)

// New creates a client for cfg and waits until the server answers a ping.
func New(ctx context.Context, cfg config.RedisCache) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{ //nolint:exhaustruct
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := Connect(ctx, rdb); err != nil {
		rdb.Close()

		return nil, fmt.Errorf("connect error: %w", err)
	}

	return rdb, nil
}

func Connect(ctx context.Context, rdb *redis.Client) error {
	errCh := make(chan error)
	go func() {
		defer close(errCh)

		delay := time.Second

		for {
			err := rdb.Ping(ctx).Err()
			if err == nil {
				return
			}

			time.Sleep(delay)
			delay += time.Second

			if delay > time.Second*10 {
				errCh <- fmt.Errorf("cannot ping redis db error: %w", err)

				return
			}
		}
	}()
	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case err := <-errCh:
		return err
	}
}
