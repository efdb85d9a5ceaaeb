package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/illarion/profilevault/internal/profile"
)

// Show decrypts and prints the stored profile
func Show(ctx context.Context, opts Options, asJSON bool) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	printProfile(os.Stdout, p)
	return nil
}

func printProfile(w io.Writer, p *profile.Profile) {
	label := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", label("Name:         "), p.Name)
	fmt.Fprintf(w, "%s %s\n", label("Class year:   "), p.ClassYear)
	fmt.Fprintf(w, "%s %s\n", label("Concentration:"), orNone(p.Concentration))
	fmt.Fprintf(w, "%s %s\n", label("GPA:          "), orNone(p.GPA))
	fmt.Fprintf(w, "%s %s\n", label("Interests:    "), orNone(p.Interests))

	cities := p.Cities()
	if len(cities) == 0 {
		fmt.Fprintf(w, "%s %s\n", label("Cities:       "), "(none)")
	} else {
		fmt.Fprintf(w, "%s\n", label("Cities:"))
		for _, c := range cities {
			fmt.Fprintf(w, "  - %s\n", c)
		}
	}

	resume := "no"
	if p.HasResume {
		resume = "yes"
	}
	fmt.Fprintf(w, "%s %s\n", label("Resume:       "), resume)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
