package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

// envelope is what actually lands in the wrapped KeyValue.
type envelope struct {
	Encrypted string `json:"__encrypted__"`
}

type encryptionMiddleware struct {
	next ports.KeyValue
	// active seals; open tries active first, then the fallbacks in order.
	active cipher.AEAD
	open   []cipher.AEAD
}

// NewEncryptionMiddleware creates a middleware that seals slot values with AES-GCM.
// The slot key is bound as additional data, so a value copied to another slot
// does not open. Values that cannot be opened with any configured key read
// back as domain.ErrCorruptSlot.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	active := mustAEAD(config.ActiveKey)
	open := []cipher.AEAD{active}
	for _, key := range config.FallbackKeys {
		open = append(open, mustAEAD(key))
	}
	return func(next ports.KeyValue) ports.KeyValue {
		return &encryptionMiddleware{
			next:   next,
			active: active,
			open:   open,
		}
	}
}

func (m *encryptionMiddleware) Set(ctx context.Context, key string, value []byte) error {
	nonce := make([]byte, m.active.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to encrypt slot: %w", err)
	}
	sealed := m.active.Seal(nonce, nonce, value, []byte(key))

	data, err := json.Marshal(envelope{Encrypted: base64.StdEncoding.EncodeToString(sealed)})
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return m.next.Set(ctx, key, data)
}

func (m *encryptionMiddleware) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := m.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	// Plain slots written before encryption was enabled are rejected rather than trusted.
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Encrypted == "" {
		return nil, fmt.Errorf("%w: missing encrypted data envelope", domain.ErrCorruptSlot)
	}

	sealed, err := base64.StdEncoding.DecodeString(env.Encrypted)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode ciphertext base64: %v", domain.ErrCorruptSlot, err)
	}

	for _, aead := range m.open {
		if plain, err := unseal(aead, sealed, key); err == nil {
			return plain, nil
		}
	}
	return nil, fmt.Errorf("%w: decryption failed with all available keys", domain.ErrCorruptSlot)
}

func (m *encryptionMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func mustAEAD(key []byte) cipher.AEAD {
	block, err := aes.NewCipher(key)
	if err != nil {
		panic(fmt.Sprintf("invalid encryption key: %v", err))
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		panic(fmt.Sprintf("invalid encryption key: %v", err))
	}
	return aead
}

func unseal(aead cipher.AEAD, sealed []byte, key string) ([]byte, error) {
	if len(sealed) < aead.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, []byte(key))
}
