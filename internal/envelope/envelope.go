// Package envelope implements the sealed profile wire format.
//
// A token is the standard base64 encoding of
//
//	version (1 byte) || nonce (12 bytes) || ciphertext+tag (>= 16 bytes)
//
// The version byte names the crypto.Suite used to seal. Open rejects input
// that cannot be split into these fields with ErrFormat before any
// decryption is attempted. Decoding is strict: line breaks and non-zero
// padding bits are rejected, so every textual change to a token changes its
// bytes. A structurally complete token whose version is
// unknown, or whose tag does not verify, fails with ErrIntegrity.
package envelope

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/illarion/profilevault/internal/crypto"
)

const (
	headerSize = 1
	// MinSize is the smallest decoded envelope: header, nonce and an empty plaintext's tag
	MinSize = headerSize + crypto.NonceSize + crypto.TagSize
)

var (
	ErrFormat    = errors.New("malformed envelope")
	ErrIntegrity = errors.New("envelope failed integrity check")
)

// Seal encrypts plaintext under key with a fresh random nonce
func Seal(suite crypto.Suite, key *crypto.Key, plaintext []byte) (string, error) {
	aead, err := suite.AEAD(key)
	if err != nil {
		return "", err
	}

	nonce, err := crypto.GenerateRandom(crypto.NonceSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// version || nonce || ciphertext+tag, sealed in place after the header
	out := make([]byte, headerSize+crypto.NonceSize, MinSize+len(plaintext))
	out[0] = byte(suite)
	copy(out[headerSize:], nonce)
	out = aead.Seal(out, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Open authenticates and decrypts a token produced by Seal
func Open(key *crypto.Key, token string) ([]byte, error) {
	data, err := decode(token)
	if err != nil {
		return nil, err
	}

	suite := crypto.Suite(data[0])
	if !suite.Valid() {
		return nil, fmt.Errorf("%w: unknown version 0x%02x", ErrIntegrity, data[0])
	}

	aead, err := suite.AEAD(key)
	if err != nil {
		return nil, err
	}

	nonce := data[headerSize : headerSize+crypto.NonceSize]
	ciphertext := data[headerSize+crypto.NonceSize:]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrIntegrity
	}
	return plaintext, nil
}

// Version returns the suite byte of a token without decrypting it
func Version(token string) (crypto.Suite, error) {
	data, err := decode(token)
	if err != nil {
		return 0, err
	}
	return crypto.Suite(data[0]), nil
}

// decode unwraps the base64 framing and checks the minimum length
func decode(token string) ([]byte, error) {
	// The decoder skips CR and LF even in strict mode
	if strings.ContainsAny(token, "\r\n") {
		return nil, fmt.Errorf("%w: line break in token", ErrFormat)
	}
	data, err := base64.StdEncoding.Strict().DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if len(data) < MinSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrFormat, len(data), MinSize)
	}
	return data, nil
}
