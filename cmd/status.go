package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/illarion/profilevault/internal/envelope"
	"github.com/illarion/profilevault/internal/vault"
)

// Status shows where the vault lives and whether it holds a profile.
// Nothing is decrypted.
func Status(_ context.Context, opts Options) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	svc := s.repo.Vault()

	state, err := svc.State()
	if err != nil {
		return err
	}
	hasKey, err := svc.HasKey()
	if err != nil {
		return err
	}

	fmt.Printf("Backend:  %s\n", s.cfg.Backend)
	fmt.Printf("Location: %s\n", s.location())
	fmt.Printf("Cipher:   %s\n", svc.Suite())

	if s.bolt != nil {
		if id, err := s.bolt.InstanceID(); err == nil {
			fmt.Printf("Instance: %s\n", id)
		}
	}

	switch state {
	case vault.Sealed:
		fmt.Printf("Vault:    %s\n", color.GreenString(state.String()))
		if env, ok, err := svc.Load(); err == nil && ok {
			if suite, err := envelope.Version(env); err == nil {
				fmt.Printf("Envelope: %s, %d bytes\n", suite, len(env))
			} else {
				fmt.Printf("Envelope: %s\n", color.RedString("malformed"))
			}
		}
	default:
		fmt.Printf("Vault:    %s\n", color.YellowString(state.String()))
		fmt.Println("Run 'profilevault set' to store a profile")
	}

	if hasKey {
		fmt.Println("Key:      present")
	} else {
		fmt.Println("Key:      not created")
	}
	return nil
}
