package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/pkg/adapters/file"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/adapters/sqlite"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/persistence"
	"github.com/aretw0/arbor/pkg/persistence/middleware"
	"github.com/aretw0/arbor/pkg/ports"
)

// lockWait is how long Play waits for another process to release a slot.
var lockWait = 2 * time.Second

// slots is a KeyValue together with whatever must be released after use.
type slots struct {
	ports.KeyValue
	close  func() error
	locker ports.SlotLocker
}

func (s slots) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// openSlots connects the configured KeyValue backend, wrapping it with
// encryption when a key is configured.
func openSlots(ctx context.Context, cfg config.Config) (slots, error) {
	if err := cfg.Validate(); err != nil {
		return slots{}, err
	}

	var s slots
	switch cfg.Store {
	case config.StoreMemory:
		s = slots{KeyValue: memory.NewKeyValue()}

	case config.StoreFile:
		s = slots{KeyValue: file.NewKeyValue(filepath.Join(cfg.DataDir, "saves"))}

	case config.StoreRedis:
		kv := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithTTL(cfg.RedisTTL))
		if err := kv.Ping(ctx); err != nil {
			_ = kv.Close()
			return slots{}, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		s = slots{KeyValue: kv, close: kv.Close, locker: kv}

	case config.StoreSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return slots{}, fmt.Errorf("failed to create %s: %w", dir, err)
			}
		}
		kv, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return slots{}, err
		}
		s = slots{KeyValue: kv, close: kv.Close}
	}

	key, err := cfg.Key()
	if err != nil {
		_ = s.Close()
		return slots{}, err
	}
	if key != nil {
		s.KeyValue = middleware.Chain(s.KeyValue, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	return s, nil
}

// openStore opens the configured slot as a persisting store.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*persistence.Store, slots, error) {
	kv, err := openSlots(ctx, cfg)
	if err != nil {
		return nil, slots{}, err
	}
	if kv.locker != nil {
		if kv, err = lockSlot(ctx, kv, cfg); err != nil {
			return nil, slots{}, err
		}
	}
	store, err := persistence.Open(ctx, kv, cfg.Slot, persistence.WithLogger(logger), persistence.WithHooks(hooks))
	if err != nil {
		_ = kv.Close()
		return nil, slots{}, err
	}
	return store, kv, nil
}

// lockSlot takes the slot lock so that a second player cannot interleave
// writes. The lock is released before the backend is closed.
func lockSlot(ctx context.Context, kv slots, cfg config.Config) (slots, error) {
	waitCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	unlock, err := kv.locker.Lock(waitCtx, cfg.Slot, cfg.RedisLockTTL)
	if err != nil {
		_ = kv.Close()
		if errors.Is(err, context.DeadlineExceeded) {
			return slots{}, fmt.Errorf("slot %q is in use by another player", cfg.Slot)
		}
		return slots{}, err
	}

	release := kv.close
	kv.close = func() error {
		unlockErr := unlock(context.Background())
		if release == nil {
			return unlockErr
		}
		return errors.Join(unlockErr, release())
	}
	return kv, nil
}
