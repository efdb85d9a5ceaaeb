// Package keyring stores vault entries in the OS keyring.
package keyring

import (
	"errors"
	"fmt"

	"github.com/illarion/profilevault/internal/storage"
	"github.com/zalando/go-keyring"
)

// DefaultService is the keyring service name entries are filed under
const DefaultService = "profilevault"

// Store keeps every entry as a keyring secret under one service name.
// Remove is not atomic: entries are deleted in argument order.
type Store struct {
	service string
}

// New creates a keyring-backed store for the given service name
func New(service string) *Store {
	if service == "" {
		service = DefaultService
	}
	return &Store{service: service}
}

// Service returns the keyring service name
func (s *Store) Service() string {
	return s.service
}

// Get retrieves a value from the OS keyring
func (s *Store) Get(key string) (string, error) {
	v, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s from keyring: %w", key, err)
	}
	return v, nil
}

// Set stores a value in the OS keyring
func (s *Store) Set(key, value string) error {
	if err := keyring.Set(s.service, key, value); err != nil {
		return fmt.Errorf("failed to write %s to keyring: %w", key, err)
	}
	return nil
}

// Remove deletes entries from the OS keyring, skipping missing ones
func (s *Store) Remove(keys ...string) error {
	for _, k := range keys {
		err := keyring.Delete(s.service, k)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("failed to delete %s from keyring: %w", k, err)
		}
	}
	return nil
}

// ClearAll deletes every entry filed under the service name
func (s *Store) ClearAll() error {
	if err := keyring.DeleteAll(s.service); err != nil {
		return fmt.Errorf("failed to clear keyring service %s: %w", s.service, err)
	}
	return nil
}
