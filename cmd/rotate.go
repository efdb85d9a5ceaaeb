package cmd

import (
	"context"
)

// Rotate re-encrypts the stored profile under a new key
func Rotate(ctx context.Context, opts Options) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.repo.Rotate(ctx); err != nil {
		return err
	}

	success("Vault key rotated")
	return nil
}
