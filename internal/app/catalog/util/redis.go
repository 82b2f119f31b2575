package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"productmanagement/internal/app/catalog/entity"
	"productmanagement/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	dropdownCacheKey    = "categories:dropdown"
	dropdownCachePrefix = "categories"
	serviceName         = "catalog-service"
)

// RedisClient кеширует выпадающий список категорий
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientWithClient оборачивает уже созданный клиент (для тестов с miniredis)
func NewRedisClientWithClient(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

func (r *RedisClient) GetDropdown(ctx context.Context) ([]entity.DropDownItem, error) {
	data, err := r.client.Get(ctx, dropdownCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss(serviceName, dropdownCachePrefix)
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get dropdown from cache: %w", err)
	}

	var items []entity.DropDownItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dropdown: %w", err)
	}

	metrics.RecordCacheHit(serviceName, dropdownCachePrefix)
	return items, nil
}

func (r *RedisClient) SetDropdown(ctx context.Context, items []entity.DropDownItem, ttl time.Duration) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal dropdown: %w", err)
	}

	if err := r.client.Set(ctx, dropdownCacheKey, data, ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set dropdown in cache: %w", err)
	}

	return nil
}

func (r *RedisClient) DeleteDropdown(ctx context.Context) error {
	if err := r.client.Del(ctx, dropdownCacheKey).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete dropdown from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
