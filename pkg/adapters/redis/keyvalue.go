package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// KeyValue implements ports.KeyValue using Redis strings.
type KeyValue struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*KeyValue)

// WithTTL sets the expiration for saved slots.
func WithTTL(ttl time.Duration) Option {
	return func(kv *KeyValue) {
		kv.ttl = ttl
	}
}

// WithPrefix sets the key prefix for saved slots.
func WithPrefix(prefix string) Option {
	return func(kv *KeyValue) {
		kv.prefix = prefix
	}
}

// New creates a new Redis key-value store with options.
func New(address, password string, db int, opts ...Option) *KeyValue {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis key-value store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *KeyValue {
	kv := &KeyValue{
		client: client,
		prefix: "arbor:slot:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(kv)
	}

	return kv
}

func (kv *KeyValue) key(key string) string {
	return kv.prefix + key
}

// Get retrieves the value from Redis.
func (kv *KeyValue) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := kv.client.Get(ctx, kv.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// Set stores the value, refreshing the TTL when one is configured.
func (kv *KeyValue) Set(ctx context.Context, key string, value []byte) error {
	// 0 means no expiration.
	if err := kv.client.Set(ctx, kv.key(key), value, kv.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Delete removes the slot.
func (kv *KeyValue) Delete(ctx context.Context, key string) error {
	if err := kv.client.Del(ctx, kv.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (kv *KeyValue) Ping(ctx context.Context) error {
	return kv.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (kv *KeyValue) Close() error {
	return kv.client.Close()
}
