package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var errWipeNeedsForce = errors.New("refusing to wipe without confirmation; pass -force when not running interactively")

// Wipe destroys the stored profile, its marker and the vault key. With all
// set every entry in the backend is dropped, including other namespaces.
func Wipe(ctx context.Context, opts Options, force, all bool) error {
	if !force {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errWipeNeedsForce
		}
		prompt := "This permanently deletes the stored profile and its key."
		if all {
			prompt = "This permanently deletes every entry in the vault backend."
		}
		fmt.Print(prompt + " Type 'yes' to continue: ")
		if !confirmed(os.Stdin) {
			fmt.Println("Aborted")
			return nil
		}
	}

	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if all {
		if err := s.repo.WipeAll(ctx); err != nil {
			return err
		}
		success("Vault backend cleared")
		return nil
	}

	if err := s.repo.Wipe(ctx); err != nil {
		return err
	}
	success("Vault wiped")
	return nil
}

// confirmed reads one line and reports whether it is "yes"
func confirmed(r io.Reader) bool {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes")
}
