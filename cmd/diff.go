package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/illarion/profilevault/internal/profile"
)

// Diff compares the stored profile with a JSON profile file
func Diff(ctx context.Context, opts Options, file string) error {
	candidate, err := readProfileFile(file)
	if err != nil {
		return err
	}

	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	stored, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	out, err := profile.Diff(stored, candidate)
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Println("No differences")
		return nil
	}
	fmt.Print(colorizeDiff(out))
	return nil
}

// colorizeDiff colors removed and added lines
func colorizeDiff(diff string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		text := strings.TrimSuffix(line, "\n")
		b.WriteString(colorLine(text))
		if len(text) != len(line) {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func colorLine(line string) string {
	switch {
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		return color.New(color.Bold).Sprint(line)
	case strings.HasPrefix(line, "-"):
		return color.RedString("%s", line)
	case strings.HasPrefix(line, "+"):
		return color.GreenString("%s", line)
	default:
		return line
	}
}
