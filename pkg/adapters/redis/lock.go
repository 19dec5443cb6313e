package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/arbor/pkg/ports"
	"github.com/google/uuid"
)

const lockPoll = 100 * time.Millisecond

// Releases the lock only while it still carries our token.
const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// Extends the lock only while it still carries our token.
const refreshScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
else
	return 0
end
`

func (kv *KeyValue) lockKey(key string) string {
	return kv.prefix + "lock:" + key
}

// Lock implements ports.SlotLocker using SET NX PX, polling until the lock
// is free or ctx is done.
//
// While held, the lock is extended to ttl every ttl/3, so it only expires
// when the holder stops without unlocking. Refreshing stops on unlock or
// once the lock turns out to belong to someone else.
func (kv *KeyValue) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := kv.lockKey(key)
	token := uuid.NewString()

	ticker := time.NewTicker(lockPoll)
	defer ticker.Stop()

	for {
		ok, err := kv.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock on %q: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	if ttl > 0 {
		go kv.refresh(lockKey, token, ttl, stop, done)
	} else {
		close(done)
	}

	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() { close(stop) })
		<-done
		return kv.client.Eval(ctx, unlockScript, []string{lockKey}, token).Err()
	}, nil
}

func (kv *KeyValue) refresh(lockKey, token string, ttl time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(max(ttl/3, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			held, err := kv.client.Eval(context.Background(), refreshScript, []string{lockKey}, token, ttl.Milliseconds()).Int()
			if err == nil && held == 0 {
				return
			}
		}
	}
}

var _ ports.SlotLocker = (*KeyValue)(nil)
