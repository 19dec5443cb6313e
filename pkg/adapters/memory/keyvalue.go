package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
)

// KeyValue implements ports.KeyValue in memory.
// Values are copied on the way in and out.
type KeyValue struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewKeyValue creates an empty in-memory key-value store.
func NewKeyValue() *KeyValue {
	return &KeyValue{data: make(map[string][]byte)}
}

func (kv *KeyValue) Get(ctx context.Context, key string) ([]byte, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()

	value, ok := kv.data[key]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	return bytes.Clone(value), nil
}

func (kv *KeyValue) Set(ctx context.Context, key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = bytes.Clone(value)
	return nil
}

func (kv *KeyValue) Delete(ctx context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.data, key)
	return nil
}
