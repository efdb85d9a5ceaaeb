// Package profile stores the user's profile record through the vault.
//
// The Repository is the only code that decides when to seal: on every
// Save it marshals the profile to JSON, protects it and commits the
// envelope with its presence marker. Plaintext is never written to the
// store.
//
// On Load an absent vault and an unreadable vault both surface as
// ErrNoProfile so callers fall back to onboarding. The unreadable case
// additionally wraps vault.ErrUnreadable.
package profile
