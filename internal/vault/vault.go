package vault

import (
	"errors"
	"fmt"
	"sync"

	"github.com/illarion/profilevault/internal/crypto"
	"github.com/illarion/profilevault/internal/envelope"
	"github.com/illarion/profilevault/internal/keystore"
	"github.com/illarion/profilevault/internal/logger"
	"github.com/illarion/profilevault/internal/storage"
)

// MarkerValue is stored under the marker key while an envelope exists
const MarkerValue = "encrypted"

// State is the vault lifecycle state as observable from storage
type State int

const (
	Uninitialized State = iota // no marker, no envelope
	Sealed                     // marker and envelope present
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Sealed:
		return "sealed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Service protects plaintext with a locally persisted key
type Service struct {
	mu        sync.Mutex
	store     storage.Store
	keys      *keystore.KeyStore
	suite     crypto.Suite
	namespace string
	log       logger.Logger
}

// New creates a Service over store
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		suite:     crypto.DefaultSuite,
		namespace: DefaultNamespace,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.keys = keystore.New(store, s.KeyName(), s.log)
	return s
}

// KeyName is the storage key holding the encoded key token
func (s *Service) KeyName() string {
	return s.namespace + "_vault_key"
}

// EnvelopeName is the storage key holding the sealed profile
func (s *Service) EnvelopeName() string {
	return s.namespace + "_encrypted_profile"
}

// MarkerName is the storage key of the presence marker
func (s *Service) MarkerName() string {
	return s.namespace + "_vault_meta"
}

// Suite returns the cipher suite used for new envelopes
func (s *Service) Suite() crypto.Suite {
	return s.suite
}

// Protect seals plaintext under the current key, creating the key on first use.
// A failure here comes from the crypto primitive or the store and is not
// expected in normal operation.
func (s *Service) Protect(plaintext string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.activeKey()
	if err != nil {
		return "", err
	}
	defer key.Destroy()

	return s.seal(key, plaintext)
}

// Reveal opens an envelope under the current key. Malformed or
// unauthenticated envelopes fail with ErrUnreadable; the input is never
// returned as if it were plaintext.
func (s *Service) Reveal(env string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.activeKey()
	if err != nil {
		return "", err
	}
	defer key.Destroy()

	plaintext, err := envelope.Open(key, env)
	if errors.Is(err, envelope.ErrFormat) || errors.Is(err, envelope.ErrIntegrity) {
		s.log.Debugf("envelope rejected: %v", err)
		return "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if err != nil {
		return "", fmt.Errorf("failed to open envelope: %w", err)
	}
	defer crypto.ClearBytes(plaintext)

	return string(plaintext), nil
}

// Rotate replaces the key, seals plaintext under the new key and commits the
// new envelope. Old envelopes cannot be opened afterwards, so the caller
// passes the plaintext it already holds. If the commit fails the previous
// key and envelope are put back.
func (s *Service) Rotate(plaintext string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevKey, hadKey, err := lookup(s.keys.Token())
	if err != nil {
		return "", fmt.Errorf("failed to read key: %w", err)
	}
	prevEnv, hadEnv, err := lookup(s.store.Get(s.EnvelopeName()))
	if err != nil {
		return "", fmt.Errorf("failed to read envelope: %w", err)
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return "", err
	}
	defer key.Destroy()

	env, err := s.seal(key, plaintext)
	if err != nil {
		return "", err
	}

	if err := s.keys.Put(key); err != nil {
		return "", fmt.Errorf("failed to replace key: %w", err)
	}
	if err := s.commit(env); err != nil {
		rbErr := errors.Join(
			s.keys.Restore(prevKey, hadKey),
			s.restore(s.EnvelopeName(), prevEnv, hadEnv),
		)
		if rbErr != nil {
			s.log.Errorf("rotation rollback failed, the stored profile may be unreadable: %v", rbErr)
			return "", errors.Join(err, rbErr)
		}
		s.log.Warnf("rotation aborted, previous key restored: %v", err)
		return "", err
	}

	s.log.Infof("vault key rotated, envelope re-sealed with %s", s.suite)
	return env, nil
}

// Commit stores env and then the presence marker
func (s *Service) Commit(env string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(env)
}

// Load returns the stored envelope. ok is false when the marker or the
// envelope is missing.
func (s *Service) Load() (env string, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Get(s.MarkerName()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read marker: %w", err)
	}

	env, err = s.store.Get(s.EnvelopeName())
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Warnf("vault marker present without an envelope")
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read envelope: %w", err)
	}
	return env, true, nil
}

// State reports Sealed when both marker and envelope are stored
func (s *Service) State() (State, error) {
	_, ok, err := s.Load()
	if err != nil {
		return Uninitialized, err
	}
	if ok {
		return Sealed, nil
	}
	return Uninitialized, nil
}

// HasKey reports whether a key token is persisted
func (s *Service) HasKey() (bool, error) {
	return s.keys.Exists()
}

// Destroy removes marker, envelope and key in one store call. On stores
// that cannot remove atomically the ciphertext goes before the key, so a
// partial failure never leaves an envelope without its key.
func (s *Service) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Remove(s.MarkerName(), s.EnvelopeName(), s.KeyName()); err != nil {
		return fmt.Errorf("failed to destroy vault: %w", err)
	}
	s.log.Infof("vault destroyed")
	return nil
}

// Reset drops every entry in the underlying store, not only this
// namespace's key, envelope and marker.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearAll(); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	s.log.Infof("vault store cleared")
	return nil
}

// activeKey is the single key accessor shared by Protect and Reveal
func (s *Service) activeKey() (*crypto.Key, error) {
	key, err := s.keys.GetOrCreate()
	if err != nil {
		return nil, fmt.Errorf("failed to load vault key: %w", err)
	}
	return key, nil
}

func (s *Service) seal(key *crypto.Key, plaintext string) (string, error) {
	env, err := envelope.Seal(s.suite, key, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("failed to seal: %w", err)
	}
	s.log.Debugf("sealed %d bytes with %s", len(plaintext), s.suite)
	return env, nil
}

func (s *Service) commit(env string) error {
	if err := s.store.Set(s.EnvelopeName(), env); err != nil {
		return fmt.Errorf("failed to store envelope: %w", err)
	}
	if err := s.store.Set(s.MarkerName(), MarkerValue); err != nil {
		return fmt.Errorf("failed to store marker: %w", err)
	}
	return nil
}

// restore puts back a value read before a failed write
func (s *Service) restore(name, value string, present bool) error {
	if !present {
		return s.store.Remove(name)
	}
	return s.store.Set(name, value)
}

// lookup folds storage.ErrNotFound into present=false
func lookup(value string, err error) (string, bool, error) {
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
