package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
)

// SlotReport is what inspect prints.
type SlotReport struct {
	Slot  string          `json:"slot"`
	Store string          `json:"store"`
	Empty bool            `json:"empty"`
	State domain.Snapshot `json:"state"`
}

// Inspect prints the saved player state of the configured slot as JSON.
// Unreadable slots show as empty, exactly as play would see them.
func Inspect(ctx context.Context, cfg config.Config, out io.Writer) error {
	store, kv, err := openStore(ctx, cfg, logging.NewNop(), domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	defer kv.Close()
	defer store.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(SlotReport{
		Slot:  cfg.Slot,
		Store: cfg.Store,
		Empty: store.IsNew(),
		State: store.Snapshot().Compact(),
	})
}

// Reset deletes the configured slot.
func Reset(ctx context.Context, cfg config.Config) error {
	kv, err := openSlots(ctx, cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	if err := kv.Delete(ctx, cfg.Slot); err != nil {
		return fmt.Errorf("failed to delete slot %q: %w", cfg.Slot, err)
	}
	return nil
}
