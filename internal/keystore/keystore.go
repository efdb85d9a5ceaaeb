// Package keystore keeps the single vault key in a storage.Store.
//
// The key is persisted as a base64 token under one storage key. It is
// created on first use and never regenerated implicitly, with one
// exception: a token that is present but malformed (bad base64 or wrong
// length) is treated as absent and silently replaced with a fresh key.
// Anything sealed under the lost key becomes unreadable. This favours
// availability over strict key continuity; the replacement is logged as a
// warning.
//
// There is no cross-process exclusion. Two processes creating a key at
// the same time race, the last writer wins, and the other may hold a stale
// key until its next read.
package keystore

import (
	"errors"
	"fmt"

	"github.com/illarion/profilevault/internal/crypto"
	"github.com/illarion/profilevault/internal/logger"
	"github.com/illarion/profilevault/internal/storage"
)

// KeyStore manages the persisted key token
type KeyStore struct {
	store storage.Store
	name  string
	log   logger.Logger
}

// New creates a KeyStore persisting its token under name
func New(store storage.Store, name string, log logger.Logger) *KeyStore {
	return &KeyStore{
		store: store,
		name:  name,
		log:   log,
	}
}

// GetOrCreate returns the persisted key, generating and persisting one when
// the token is absent or malformed. The caller must Destroy the key.
func (ks *KeyStore) GetOrCreate() (*crypto.Key, error) {
	token, err := ks.store.Get(ks.name)
	switch {
	case err == nil:
		key, decodeErr := crypto.DecodeKey(token)
		if decodeErr == nil {
			return key, nil
		}
		ks.log.Warnf("stored vault key is malformed (%v), generating a new one; data sealed under the old key is lost", decodeErr)
	case errors.Is(err, storage.ErrNotFound):
		ks.log.Debugf("no vault key found, generating one")
	default:
		return nil, fmt.Errorf("failed to read key: %w", err)
	}

	return ks.Replace()
}

// Replace unconditionally generates a new key and overwrites the persisted token
func (ks *KeyStore) Replace() (*crypto.Key, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	if err := ks.Put(key); err != nil {
		key.Destroy()
		return nil, err
	}
	return key, nil
}

// Put persists key, overwriting any previous token
func (ks *KeyStore) Put(key *crypto.Key) error {
	token, err := key.Encode()
	if err != nil {
		return err
	}
	if err := ks.store.Set(ks.name, token); err != nil {
		return fmt.Errorf("failed to store key: %w", err)
	}
	return nil
}

// Token returns the persisted token as stored, without decoding it.
// A missing token is storage.ErrNotFound.
func (ks *KeyStore) Token() (string, error) {
	return ks.store.Get(ks.name)
}

// Restore puts back a token previously read with Token. When present is
// false the token is removed instead.
func (ks *KeyStore) Restore(token string, present bool) error {
	if !present {
		return ks.Clear()
	}
	if err := ks.store.Set(ks.name, token); err != nil {
		return fmt.Errorf("failed to restore key: %w", err)
	}
	return nil
}

// Clear removes the persisted token
func (ks *KeyStore) Clear() error {
	if err := ks.store.Remove(ks.name); err != nil {
		return fmt.Errorf("failed to remove key: %w", err)
	}
	return nil
}

// Exists reports whether a token is persisted, without validating it
func (ks *KeyStore) Exists() (bool, error) {
	_, err := ks.store.Get(ks.name)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read key: %w", err)
	}
	return true, nil
}
