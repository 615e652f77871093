package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/finscore/internal/finscore/domain/models"
	"github.com/Leopold1975/finscore/internal/finscore/repository/productrepo"
	"github.com/redis/go-redis/v9"
)

// ProductCache keeps detailed product reads keyed by product id.
type ProductCache struct {
	rdb     *redis.Client
	expTime time.Duration
}

func New(rdb *redis.Client, expTime time.Duration) ProductCache {
	return ProductCache{
		rdb:     rdb,
		expTime: expTime,
	}
}

func key(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func (pc ProductCache) SetProduct(ctx context.Context, p models.Product) error {
	productJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := pc.rdb.Set(ctx, key(p.ID), productJSON, pc.expTime).Err(); err != nil {
		return fmt.Errorf("set error: %w", err)
	}

	return nil
}

func (pc ProductCache) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	productJSON, err := pc.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Product{}, productrepo.ErrNotFound
	} else if err != nil {
		return models.Product{}, fmt.Errorf("get error: %w", err)
	}

	var p models.Product
	if err := json.Unmarshal(productJSON, &p); err != nil {
		return models.Product{}, fmt.Errorf("unmarshal error: %w", err)
	}

	return p, nil
}

func (pc ProductCache) DeleteProduct(ctx context.Context, id int64) error {
	if err := pc.rdb.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("del error: %w", err)
	}

	return nil
}
