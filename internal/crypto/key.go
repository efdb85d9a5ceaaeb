package crypto

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/awnumar/memguard"
)

var (
	ErrInvalidKey   = errors.New("invalid key material")
	ErrKeyDestroyed = errors.New("key destroyed")
)

// Key holds symmetric key material in guarded memory
type Key struct {
	buf *memguard.LockedBuffer
}

// NewKey moves raw into guarded memory. raw is wiped.
func NewKey(raw []byte) (*Key, error) {
	if len(raw) != KeySize {
		ClearBytes(raw)
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(raw), KeySize)
	}
	return &Key{buf: memguard.NewBufferFromBytes(raw)}, nil
}

// GenerateKey creates a fresh random key
func GenerateKey() (*Key, error) {
	raw, err := GenerateRandom(KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return NewKey(raw)
}

// DecodeKey parses a token produced by Encode
func DecodeKey(token string) (*Key, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return NewKey(raw)
}

// Encode returns the printable token persisted for this key
func (k *Key) Encode() (string, error) {
	raw, err := k.bytes()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Equal reports whether both keys hold the same material
func (k *Key) Equal(other *Key) bool {
	a, err := k.bytes()
	if err != nil {
		return false
	}
	b, err := other.bytes()
	if err != nil {
		return false
	}
	return ConstantTimeCompare(a, b)
}

// Destroy wipes the key material. Safe to call more than once.
func (k *Key) Destroy() {
	if k != nil && k.buf != nil {
		k.buf.Destroy()
	}
}

func (k *Key) bytes() ([]byte, error) {
	if k == nil || k.buf == nil || !k.buf.IsAlive() {
		return nil, ErrKeyDestroyed
	}
	return k.buf.Bytes(), nil
}
