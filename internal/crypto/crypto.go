package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	KeySize   = 32 // 256-bit key for both suites
	NonceSize = 12 // AEAD nonce size
	TagSize   = 16 // AEAD authentication tag size
)

var ErrUnknownSuite = errors.New("unknown cipher suite")

// Suite identifies an AEAD construction
type Suite byte

const (
	AES256GCM        Suite = 0x01
	ChaCha20Poly1305 Suite = 0x02
)

// DefaultSuite is used when nothing else is configured
const DefaultSuite = AES256GCM

func (s Suite) String() string {
	switch s {
	case AES256GCM:
		return "aes-256-gcm"
	case ChaCha20Poly1305:
		return "chacha20-poly1305"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(s))
	}
}

// Valid reports whether s names a supported suite
func (s Suite) Valid() bool {
	return s == AES256GCM || s == ChaCha20Poly1305
}

// ParseSuite maps a configuration name to a Suite
func ParseSuite(name string) (Suite, error) {
	switch name {
	case "", "aes-256-gcm":
		return AES256GCM, nil
	case "chacha20-poly1305":
		return ChaCha20Poly1305, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownSuite, name)
	}
}

// AEAD builds the cipher for this suite keyed with k
func (s Suite) AEAD(k *Key) (cipher.AEAD, error) {
	raw, err := k.bytes()
	if err != nil {
		return nil, err
	}

	switch s {
	case AES256GCM:
		block, err := aes.NewCipher(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to create cipher: %w", err)
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("failed to create GCM: %w", err)
		}
		return gcm, nil
	case ChaCha20Poly1305:
		aead, err := chacha20poly1305.New(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to create cipher: %w", err)
		}
		return aead, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSuite, s)
	}
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
