package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/arbor/pkg/adapters/sqlite"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T, path string) *sqlite.KeyValue {
	t.Helper()
	kv, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, kv.Close())
	})
	return kv
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := sqlite.Open(" ")
	assert.Error(t, err)
}

func TestSQLiteKeyValue_Contract(t *testing.T) {
	kv := open(t, filepath.Join(t.TempDir(), "saves.db"))
	ports.RunKeyValueContract(t, kv)
}

func TestSQLiteKeyValue_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves.db")
	ctx := context.Background()

	first, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "alice", []byte(`{"qualities":{}}`)))
	require.NoError(t, first.Close())

	second := open(t, path)
	value, err := second.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"qualities":{}}`), value)
}

func TestSQLiteKeyValue_NilReceiver(t *testing.T) {
	var kv *sqlite.KeyValue
	_, err := kv.Get(context.Background(), "x")
	assert.Error(t, err)
	assert.NoError(t, kv.Close())
}
