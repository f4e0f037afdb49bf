package caching

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"callpanel/internal/sipuni"

	"github.com/redis/go-redis/v9"
)

// CacheService caches slow-changing vendor directory data (outbound lines,
// employees) so the UI doesn't hammer the vendor on every page load.
type CacheService interface {
	GetLines(ctx context.Context) ([]sipuni.Line, error)
	SetLines(ctx context.Context, lines []sipuni.Line, ttl time.Duration) error
	GetEmployees(ctx context.Context) ([]sipuni.Operator, error)
	SetEmployees(ctx context.Context, employees []sipuni.Operator, ttl time.Duration) error

	// Generic string operations.
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

const (
	linesKey     = "callpanel:lines"
	employeesKey = "callpanel:employees"
)

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", err, addr)
	}

	return &redisCacheService{client: client}
}

// GetLines returns (nil, nil) on cache miss.
func (r *redisCacheService) GetLines(ctx context.Context) ([]sipuni.Line, error) {
	return getJSON[sipuni.Line](ctx, r.client, linesKey)
}

func (r *redisCacheService) SetLines(ctx context.Context, lines []sipuni.Line, ttl time.Duration) error {
	return setJSON(ctx, r.client, linesKey, lines, ttl)
}

// GetEmployees returns (nil, nil) on cache miss.
func (r *redisCacheService) GetEmployees(ctx context.Context) ([]sipuni.Operator, error) {
	return getJSON[sipuni.Operator](ctx, r.client, employeesKey)
}

func (r *redisCacheService) SetEmployees(ctx context.Context, employees []sipuni.Operator, ttl time.Duration) error {
	return setJSON(ctx, r.client, employeesKey, employees, ttl)
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func getJSON[T any](ctx context.Context, client *redis.Client, key string) ([]T, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func setJSON[T any](ctx context.Context, client *redis.Client, key string, items []T, ttl time.Duration) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, ttl).Err()
}
