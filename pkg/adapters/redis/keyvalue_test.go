package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisKeyValue_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunKeyValueContract(t, redis.NewFromClient(client))
}

func TestRedisKeyValue_Prefix(t *testing.T) {
	mr, client := setup(t)
	kv := redis.NewFromClient(client, redis.WithPrefix("game:"))

	require.NoError(t, kv.Set(context.Background(), "alice", []byte("{}")))
	assert.True(t, mr.Exists("game:alice"))
	assert.False(t, mr.Exists("arbor:slot:alice"))
}

func TestRedisKeyValue_TTL(t *testing.T) {
	mr, client := setup(t)
	kv := redis.NewFromClient(client, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "alice", []byte("{}")))
	assert.Equal(t, time.Minute, mr.TTL("arbor:slot:alice"))

	mr.FastForward(2 * time.Minute)

	_, err := kv.Get(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrSlotNotFound)
}

func TestRedisKeyValue_Unavailable(t *testing.T) {
	mr, client := setup(t)
	kv := redis.NewFromClient(client)
	mr.Close()

	_, err := kv.Get(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSlotNotFound)
}
