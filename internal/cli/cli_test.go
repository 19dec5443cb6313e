package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harbour = `
meta:
  title: The Harbour
qualities:
  - name: gold
    pluralLabel: coins
    style: {currency: true, personal: true}
locations:
  - name: harbour
    label: Harbour
    body: Gulls wheel overhead.
storylets:
  - name: arrive
    condition: [not, arrive]
    body: You step off the boat.
    navigation: harbour
  - name: fish
    label: Go fishing
    body: You cast a line.
    assignments:
      - assignments:
          - {subject: gold, operation: increment, operand: 2}
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	content := filepath.Join(dir, "harbour.yaml")
	require.NoError(t, os.WriteFile(content, []byte(harbour), 0o644))
	return config.Config{
		Content:    content,
		Store:      config.StoreFile,
		Slot:       "alice",
		DataDir:    filepath.Join(dir, "data"),
		SQLitePath: filepath.Join(dir, "data", "saves.db"),
		LogLevel:   "error",
	}
}

func play(t *testing.T, opts PlayOptions, input string) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Play(context.Background(), opts, Streams{In: strings.NewReader(input), Out: &out, Err: &errOut})
	require.NoError(t, err)
	return out.String(), errOut.String()
}

func inspect(t *testing.T, cfg config.Config) SlotReport {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Inspect(context.Background(), cfg, &buf))
	var report SlotReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	return report
}

func TestPlay_PersistsBetweenRuns(t *testing.T) {
	cfg := testConfig(t)

	out, _ := play(t, PlayOptions{Config: cfg}, "1\nquit\n")
	assert.Contains(t, out, "You step off the boat.")
	assert.Contains(t, out, "You now have 2 coins.")

	report := inspect(t, cfg)
	assert.False(t, report.Empty)
	assert.Equal(t, "harbour", report.State.Location)
	assert.Equal(t, 2, report.State.Qualities["gold"])

	out, _ = play(t, PlayOptions{Config: cfg}, "")
	assert.NotContains(t, out, "You step off the boat.")
	assert.Contains(t, out, "Gulls wheel overhead.")

	require.NoError(t, Reset(context.Background(), cfg))
	assert.True(t, inspect(t, cfg).Empty)
}

func TestPlay_JSON(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store = config.StoreMemory

	out, _ := play(t, PlayOptions{Config: cfg, JSON: true}, `{"choose": 1}`+"\n")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.True(t, json.Valid([]byte(line)), line)
	}
	assert.NotContains(t, out, `/_/`, "no banner in JSON mode")
	assert.Contains(t, lines[0], `"type":"state"`)
	assert.Contains(t, lines[1], `"value":2`, "the choice was read from the JSON input")
}

func TestPlay_Stats(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store = config.StoreMemory

	_, errOut := play(t, PlayOptions{Config: cfg, Stats: true}, "1\n")
	assert.Contains(t, errOut, "arbor_choices_total 1")
	assert.Contains(t, errOut, `arbor_transactions_total{outcome="committed"} 2`)
}

func TestPlay_NewSlot(t *testing.T) {
	cfg := testConfig(t)

	_, errOut := play(t, PlayOptions{Config: cfg, New: true}, "1\n")
	assert.Contains(t, errOut, "New slot")
	assert.True(t, inspect(t, cfg).Empty, "the configured slot is untouched")
}

func TestPlay_Errors(t *testing.T) {
	cfg := testConfig(t)
	streams := Streams{In: strings.NewReader(""), Out: &bytes.Buffer{}, Err: &bytes.Buffer{}}

	noContent := cfg
	noContent.Content = ""
	assert.Error(t, Play(context.Background(), PlayOptions{Config: noContent}, streams))

	badLevel := cfg
	badLevel.LogLevel = "loud"
	assert.Error(t, Play(context.Background(), PlayOptions{Config: badLevel}, streams))

	badStore := cfg
	badStore.Store = "tape"
	assert.Error(t, Play(context.Background(), PlayOptions{Config: badStore}, streams))
}

func TestOpenSlots_Backends(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	for _, store := range []string{config.StoreMemory, config.StoreFile, config.StoreSQLite, config.StoreRedis} {
		t.Run(store, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Store = store
			cfg.RedisAddr = mr.Addr()

			kv, err := openSlots(ctx, cfg)
			require.NoError(t, err)
			defer kv.Close()

			require.NoError(t, kv.Set(ctx, "slot", []byte(`{"qualities":{}}`)))
			got, err := kv.Get(ctx, "slot")
			require.NoError(t, err)
			assert.Equal(t, `{"qualities":{}}`, string(got))
		})
	}
}

func TestOpenSlots_RedisUnreachable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store = config.StoreRedis
	cfg.RedisAddr = "127.0.0.1:1"

	_, err := openSlots(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOpenSlots_Encryption(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.EncryptionKey = strings.Repeat("0f", 32)

	kv, err := openSlots(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "alice", []byte(`{"qualities":{"gold":2}}`)))

	raw, err := os.ReadFile(filepath.Join(cfg.DataDir, "saves", "alice.slot"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "__encrypted__")
	assert.NotContains(t, string(raw), "gold")

	assert.Equal(t, 2, inspect(t, cfg).State.Qualities["gold"])
}

func TestOpenStore_RedisSlotLock(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Store = config.StoreRedis
	cfg.RedisAddr = mr.Addr()
	cfg.RedisLockTTL = time.Minute

	wait := lockWait
	lockWait = 200 * time.Millisecond
	t.Cleanup(func() { lockWait = wait })

	store, kv, err := openStore(ctx, cfg, logging.NewNop(), domain.LifecycleHooks{})
	require.NoError(t, err)
	assert.True(t, mr.Exists("arbor:slot:lock:alice"))

	_, _, err = openStore(ctx, cfg, logging.NewNop(), domain.LifecycleHooks{})
	assert.ErrorContains(t, err, `slot "alice" is in use`)

	other := cfg
	other.Slot = "bob"
	_, otherKV, err := openStore(ctx, other, logging.NewNop(), domain.LifecycleHooks{})
	require.NoError(t, err)
	require.NoError(t, otherKV.Close())

	require.NoError(t, store.Close())
	require.NoError(t, kv.Close())
	assert.False(t, mr.Exists("arbor:slot:lock:alice"))

	_, kv, err = openStore(ctx, cfg, logging.NewNop(), domain.LifecycleHooks{})
	require.NoError(t, err)
	assert.NoError(t, kv.Close())
}
