package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, func(t *testing.T) ports.Store {
		return memory.NewStore()
	})
}

func TestMemoryKeyValue_Contract(t *testing.T) {
	ports.RunKeyValueContract(t, memory.NewKeyValue())
}

func TestMemoryStore_SnapshotIsACopy(t *testing.T) {
	store := memory.NewStore(memory.WithInitial(domain.Snapshot{
		Location:  "harbour",
		Qualities: map[string]int{"gold": 2},
	}))

	snap := store.Snapshot()
	snap.Qualities["gold"] = 99

	assert.Equal(t, 2, store.Snapshot().Qualities["gold"])
	assert.Equal(t, "harbour", store.Snapshot().Location)
}

func TestMemoryStore_CommitHookCanAbort(t *testing.T) {
	boom := errors.New("persist failed")
	var seen []domain.Snapshot
	store := memory.NewStore(memory.WithCommitHook(func(ctx context.Context, s domain.Snapshot) error {
		seen = append(seen, s)
		if s.Qualities["gold"] > 5 {
			return boom
		}
		return nil
	}))
	ctx := context.Background()

	require.NoError(t, store.WithTransaction(ctx, func(ctx context.Context, tx ports.Transaction) error {
		_, err := tx.Set(ctx, "gold", 3)
		return err
	}))

	err := store.WithTransaction(ctx, func(ctx context.Context, tx ports.Transaction) error {
		_, err := tx.Set(ctx, "gold", 8)
		return err
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, store.Snapshot().Qualities["gold"], "an aborted commit keeps the previous baseline")
	assert.Len(t, seen, 2)
}

func TestMemoryStore_TransactionExpires(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	var leaked ports.Transaction
	require.NoError(t, store.WithTransaction(ctx, func(ctx context.Context, tx ports.Transaction) error {
		leaked = tx
		return nil
	}))

	_, err := leaked.Set(ctx, "gold", 1)
	assert.ErrorIs(t, err, domain.ErrNoTransaction)
}

func TestMemoryStore_Close(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Close())

	err := store.WithTransaction(context.Background(), func(ctx context.Context, tx ports.Transaction) error {
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
}

func TestLoaderFromSource(t *testing.T) {
	loader := memory.NewLoaderFromSource(`
qualities: [{name: gold}]
locations: []
storylets: [{name: intro, body: "Hello"}]
`)
	model, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, model.Storylets, 1)
	assert.Equal(t, domain.Plain("Hello"), model.Storylets[0].Body)

	_, err = memory.NewLoaderFromSource(`qualities: {`).Load(context.Background())
	assert.Error(t, err)
}
