package ports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunKeyValueContract runs a suite of tests to verify that a KeyValue implementation
// adheres to the defined interface contract.
func RunKeyValueContract(t *testing.T, kv KeyValue) {
	ctx := context.Background()
	key := "contract-test-slot-" + time.Now().Format("20060102150405.000000")

	t.Run("Get Missing", func(t *testing.T) {
		_, err := kv.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrSlotNotFound)
	})

	t.Run("Set and Get", func(t *testing.T) {
		value := []byte(`{"qualities":{"gold":3}}`)
		require.NoError(t, kv.Set(ctx, key, value), "Set should not return error")

		loaded, err := kv.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, value, loaded)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, key, []byte("first")))
		require.NoError(t, kv.Set(ctx, key, []byte("second")))

		loaded, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), loaded)
	})

	t.Run("Binary Values", func(t *testing.T) {
		value := []byte{0x00, 0xff, 0x10, '\n', 0x7f}
		require.NoError(t, kv.Set(ctx, key+"-bin", value))
		defer func() { _ = kv.Delete(ctx, key+"-bin") }()

		loaded, err := kv.Get(ctx, key+"-bin")
		require.NoError(t, err)
		assert.True(t, bytes.Equal(value, loaded))
	})

	t.Run("Returned Values Are Copies", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, key, []byte("stable")))

		loaded, err := kv.Get(ctx, key)
		require.NoError(t, err)
		loaded[0] = 'X'

		again, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("stable"), again)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, key, []byte("doomed")))
		require.NoError(t, kv.Delete(ctx, key), "Delete should not return error")

		_, err := kv.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrSlotNotFound, "Get after Delete should return ErrSlotNotFound")

		assert.NoError(t, kv.Delete(ctx, key), "Deleting a missing key should not fail")
	})
}

// RunStoreContract runs a suite of tests to verify that a Store implementation
// honours the transaction, ratchet and serialization contract.
// newStore must return an empty store on every call.
func RunStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	// tx runs fn in its own transaction and fails the test on error.
	tx := func(t *testing.T, s Store, fn func(context.Context, Transaction) error) {
		t.Helper()
		require.NoError(t, s.WithTransaction(ctx, fn))
	}

	t.Run("Get Absent Is Zero", func(t *testing.T) {
		s := newStore(t)
		tx(t, s, func(ctx context.Context, x Transaction) error {
			v, err := x.Get(ctx, "nothing")
			require.NoError(t, err)
			assert.Equal(t, 0, v)
			return nil
		})
	})

	t.Run("Set Ratchets Upward", func(t *testing.T) {
		s := newStore(t)
		tx(t, s, func(ctx context.Context, x Transaction) error {
			e, err := x.Set(ctx, "q", 3)
			require.NoError(t, err)
			assert.Equal(t, &domain.Effect{Before: 0, After: 3}, e)

			e, err = x.Set(ctx, "q", 3)
			require.NoError(t, err)
			assert.Nil(t, e, "setting the same value twice must not produce an effect")

			e, err = x.Set(ctx, "q", 2)
			require.NoError(t, err)
			assert.Nil(t, e, "set never lowers a value")
			return nil
		})
	})

	t.Run("Unset Ratchets Downward", func(t *testing.T) {
		s := newStore(t)
		tx(t, s, func(ctx context.Context, x Transaction) error {
			_, err := x.Set(ctx, "q", 5)
			require.NoError(t, err)

			e, err := x.Unset(ctx, "q", 0)
			require.NoError(t, err)
			assert.Nil(t, e, "unset to zero is a no-op")

			e, err = x.Unset(ctx, "q", 7)
			require.NoError(t, err)
			assert.Nil(t, e, "unset never raises a value")

			e, err = x.Unset(ctx, "q", 2)
			require.NoError(t, err)
			assert.Equal(t, &domain.Effect{Before: 5, After: 2}, e)
			return nil
		})
	})

	t.Run("Increment and Decrement", func(t *testing.T) {
		s := newStore(t)
		tx(t, s, func(ctx context.Context, x Transaction) error {
			e, err := x.Increment(ctx, "q", 4)
			require.NoError(t, err)
			assert.Equal(t, &domain.Effect{Before: 0, After: 4}, e)

			e, err = x.Increment(ctx, "q", 0)
			require.NoError(t, err)
			assert.Nil(t, e)

			e, err = x.Decrement(ctx, "q", 10)
			require.NoError(t, err)
			assert.Equal(t, &domain.Effect{Before: 4, After: 0}, e, "decrement floors at zero")

			e, err = x.Decrement(ctx, "q", 1)
			require.NoError(t, err)
			assert.Nil(t, e)
			return nil
		})
	})

	t.Run("Location Visits", func(t *testing.T) {
		s := newStore(t)
		tx(t, s, func(ctx context.Context, x Transaction) error {
			_, ok, err := x.GetLocation(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, x.SetLocation(ctx, "harbour"))
			require.NoError(t, x.SetLocation(ctx, "harbour"))

			loc, ok, err := x.GetLocation(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "harbour", loc)

			visits, err := x.Get(ctx, "harbour")
			require.NoError(t, err)
			assert.Equal(t, 2, visits)

			require.NoError(t, x.UnsetLocation(ctx))
			_, ok, err = x.GetLocation(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
			return nil
		})
	})

	t.Run("Storylet Bookkeeping", func(t *testing.T) {
		s := newStore(t)
		tx(t, s, func(ctx context.Context, x Transaction) error {
			require.NoError(t, x.CommitStorylet(ctx), "commit without a pending storylet is a no-op")

			require.NoError(t, x.SetStorylet(ctx, "first"))
			require.NoError(t, x.SetStorylet(ctx, "second"))

			first, err := x.Get(ctx, "first")
			require.NoError(t, err)
			assert.Equal(t, 1, first, "setting a storylet commits the pending one")

			pending, ok, err := x.GetStorylet(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "second", pending)

			require.NoError(t, x.CommitStorylet(ctx))
			_, ok, err = x.GetStorylet(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			second, err := x.Get(ctx, "second")
			require.NoError(t, err)
			assert.Equal(t, 1, second)
			return nil
		})
	})

	t.Run("Commit Becomes Baseline", func(t *testing.T) {
		s := newStore(t)
		tx(t, s, func(ctx context.Context, x Transaction) error {
			_, err := x.Set(ctx, "gold", 3)
			require.NoError(t, err)
			return x.SetStorylet(ctx, "intro")
		})
		tx(t, s, func(ctx context.Context, x Transaction) error {
			v, err := x.Get(ctx, "gold")
			require.NoError(t, err)
			assert.Equal(t, 3, v)

			id, ok, err := x.GetStorylet(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "intro", id)
			return nil
		})
	})

	t.Run("Failure Rolls Back", func(t *testing.T) {
		s := newStore(t)
		boom := errors.New("boom")
		err := s.WithTransaction(ctx, func(ctx context.Context, x Transaction) error {
			if _, err := x.Set(ctx, "gold", 9); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		tx(t, s, func(ctx context.Context, x Transaction) error {
			v, err := x.Get(ctx, "gold")
			require.NoError(t, err)
			assert.Equal(t, 0, v, "a failed transaction must leave the baseline untouched")
			return nil
		})
	})

	t.Run("Panic Rolls Back", func(t *testing.T) {
		s := newStore(t)
		err := s.WithTransaction(ctx, func(ctx context.Context, x Transaction) error {
			_, _ = x.Set(ctx, "gold", 9)
			panic("content exploded")
		})
		assert.Error(t, err)

		tx(t, s, func(ctx context.Context, x Transaction) error {
			v, err := x.Get(ctx, "gold")
			require.NoError(t, err)
			assert.Equal(t, 0, v)
			return nil
		})
	})

	t.Run("Clear", func(t *testing.T) {
		s := newStore(t)
		tx(t, s, func(ctx context.Context, x Transaction) error {
			_, _ = x.Set(ctx, "gold", 2)
			_ = x.SetLocation(ctx, "harbour")
			return x.SetStorylet(ctx, "intro")
		})
		tx(t, s, func(ctx context.Context, x Transaction) error {
			return x.Clear(ctx)
		})
		tx(t, s, func(ctx context.Context, x Transaction) error {
			v, _ := x.Get(ctx, "gold")
			assert.Equal(t, 0, v)
			_, ok, _ := x.GetLocation(ctx)
			assert.False(t, ok)
			_, ok, _ = x.GetStorylet(ctx)
			assert.False(t, ok)
			return nil
		})
	})

	t.Run("Transactions Never Interleave", func(t *testing.T) {
		s := newStore(t)
		started := make(chan struct{})
		release := make(chan struct{})
		firstDone := make(chan error, 1)

		go func() {
			firstDone <- s.WithTransaction(ctx, func(ctx context.Context, x Transaction) error {
				if _, err := x.Set(ctx, "a", 1); err != nil {
					return err
				}
				close(started)
				<-release
				_, err := x.Set(ctx, "b", 1)
				return err
			})
		}()

		<-started
		secondDone := make(chan [2]int, 1)
		go func() {
			_ = s.WithTransaction(ctx, func(ctx context.Context, x Transaction) error {
				a, _ := x.Get(ctx, "a")
				b, _ := x.Get(ctx, "b")
				secondDone <- [2]int{a, b}
				return nil
			})
		}()

		close(release)
		require.NoError(t, <-firstDone)
		assert.Equal(t, [2]int{1, 1}, <-secondDone, "the second transaction must observe the first's full commit")
	})

	t.Run("Concurrent Read-Modify-Write", func(t *testing.T) {
		s := newStore(t)
		const writers = 25

		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := s.WithTransaction(ctx, func(ctx context.Context, x Transaction) error {
					v, err := x.Get(ctx, "counter")
					if err != nil {
						return err
					}
					if _, err := x.Set(ctx, "counter", v+1); err != nil {
						return fmt.Errorf("writer %d: %w", i, err)
					}
					return nil
				})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		tx(t, s, func(ctx context.Context, x Transaction) error {
			v, err := x.Get(ctx, "counter")
			require.NoError(t, err)
			assert.Equal(t, writers, v)
			return nil
		})
	})
}
