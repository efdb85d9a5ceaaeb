package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/illarion/profilevault/internal/vault"
)

// ErrNoProfile means there is no usable stored profile
var ErrNoProfile = errors.New("no stored profile")

// Repository persists a Profile through a vault.Service
type Repository struct {
	vault *vault.Service
}

// NewRepository creates a Repository over v
func NewRepository(v *vault.Service) *Repository {
	return &Repository{vault: v}
}

// Vault returns the underlying service
func (r *Repository) Vault() *vault.Service {
	return r.vault
}

// Save validates, seals and stores p
func (r *Repository) Save(ctx context.Context, p *Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	env, err := r.vault.Protect(string(data))
	if err != nil {
		return fmt.Errorf("failed to protect profile: %w", err)
	}

	if err := r.vault.Commit(env); err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}
	return nil
}

// Load reveals the stored profile. Both an empty vault and an unreadable one
// return ErrNoProfile.
func (r *Repository) Load(ctx context.Context) (*Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	env, ok, err := r.vault.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoProfile
	}

	plaintext, err := r.vault.Reveal(env)
	if errors.Is(err, vault.ErrUnreadable) {
		return nil, fmt.Errorf("%w: %w", ErrNoProfile, err)
	}
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := json.Unmarshal([]byte(plaintext), &p); err != nil {
		return nil, fmt.Errorf("%w: stored record is not a profile: %v", ErrNoProfile, err)
	}
	return &p, nil
}

// Rotate re-seals the stored profile under a new key
func (r *Repository) Rotate(ctx context.Context) error {
	p, err := r.Load(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if _, err := r.vault.Rotate(string(data)); err != nil {
		return fmt.Errorf("failed to rotate vault key: %w", err)
	}
	return nil
}

// Wipe destroys the key, envelope and marker
func (r *Repository) Wipe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.vault.Destroy()
}

// WipeAll clears the whole backing store
func (r *Repository) WipeAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.vault.Reset()
}
