package profile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a line diff from stored to candidate over their indented
// JSON forms, or "" when they are equal
func Diff(stored, candidate *Profile) (string, error) {
	a, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal stored profile: %w", err)
	}
	b, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal candidate profile: %w", err)
	}

	storedStr, candidateStr := string(a)+"\n", string(b)+"\n"
	if storedStr == candidateStr {
		return "", nil
	}

	dmp := diffmatchpatch.New()

	// Line-mode diff for better output
	x, y, lineArray := dmp.DiffLinesToChars(storedStr, candidateStr)
	diffs := dmp.DiffMain(x, y, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var result strings.Builder
	result.WriteString("--- vault\n")
	result.WriteString("+++ candidate\n")
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			result.WriteString(prefix + line)
		}
	}

	return result.String(), nil
}
