package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/illarion/profilevault/internal/config"
	"github.com/illarion/profilevault/internal/profile"
	"github.com/illarion/profilevault/internal/storage"
)

func TestApplyFields(t *testing.T) {
	p := &profile.Profile{Name: "Old"}
	err := applyFields(p, map[string]string{
		FieldName:      "Grace Hopper",
		FieldClassYear: "Senior",
		FieldGPA:       "3.95",
		FieldCities:    "Arlington, New York",
		FieldResume:    "true",
	})
	if err != nil {
		t.Fatalf("applyFields failed: %v", err)
	}
	if p.Name != "Grace Hopper" || p.ClassYear != profile.Senior || p.GPA != "3.95" || !p.HasResume {
		t.Errorf("Unexpected profile: %+v", p)
	}
	if p.PreferredCities != "Arlington, New York" {
		t.Errorf("Cities: got %q", p.PreferredCities)
	}

	if err := applyFields(p, map[string]string{FieldResume: "maybe"}); !errors.Is(err, profile.ErrInvalidProfile) {
		t.Errorf("Expected ErrInvalidProfile, got %v", err)
	}
	if err := applyFields(p, map[string]string{"shoe-size": "9"}); err == nil {
		t.Error("Expected error for unknown field")
	}
}

func TestReadProfileFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	os.WriteFile(good, []byte(`{"name":"Ada","classYear":"Junior","gpa":"3.7","hasResume":true}`), 0600)
	p, err := readProfileFile(good)
	if err != nil {
		t.Fatalf("readProfileFile failed: %v", err)
	}
	if p.Name != "Ada" || p.ClassYear != profile.Junior || !p.HasResume {
		t.Errorf("Unexpected profile: %+v", p)
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`name: Ada`), 0600)
	if _, err := readProfileFile(bad); !errors.Is(err, profile.ErrInvalidProfile) {
		t.Errorf("Expected ErrInvalidProfile, got %v", err)
	}

	if _, err := readProfileFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestConfirmed(t *testing.T) {
	tests := map[string]bool{
		"yes\n":   true,
		"YES\n":   true,
		" yes ":   true,
		"y\n":     false,
		"no\n":    false,
		"":        false,
		"yesss\n": false,
	}
	for in, want := range tests {
		if got := confirmed(strings.NewReader(in)); got != want {
			t.Errorf("confirmed(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestColorizeDiffKeepsText(t *testing.T) {
	color.NoColor = true
	in := "--- vault\n+++ candidate\n {\n-  \"gpa\": \"3.8\",\n+  \"gpa\": \"3.9\",\n }\n"
	if got := colorizeDiff(in); got != in {
		t.Errorf("Without color the diff should be unchanged:\n%s", got)
	}
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		512:             "512 bytes",
		2048:            "2.0 KB",
		3 * 1024 * 1024: "3.0 MB",
	}
	for in, want := range tests {
		if got := formatSize(in); got != want {
			t.Errorf("formatSize(%d) = %s, want %s", in, got, want)
		}
	}
}

func TestOpenSessionBolt(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvBackend, config.BackendBolt)
	t.Setenv(config.EnvPath, filepath.Join(dir, "data", "profile.db"))
	t.Setenv(config.EnvCipher, "chacha20-poly1305")

	s, err := openSession(Options{ConfigPath: filepath.Join(dir, "none.toml")})
	if err != nil {
		t.Fatalf("openSession failed: %v", err)
	}
	defer s.Close()

	if s.bolt == nil {
		t.Fatal("Expected bolt store")
	}
	if s.repo.Vault().Suite().String() != "chacha20-poly1305" {
		t.Errorf("Unexpected suite %s", s.repo.Vault().Suite())
	}

	ctx := context.Background()
	p := &profile.Profile{Name: "Ada", ClassYear: profile.FirstYear}
	if err := s.repo.Save(ctx, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Name != "Ada" {
		t.Errorf("Got %+v", got)
	}
}

func TestOpenSessionInvalidConfig(t *testing.T) {
	t.Setenv(config.EnvBackend, "floppy")
	t.Setenv(config.EnvPath, "")
	t.Setenv(config.EnvCipher, "")

	_, err := openSession(Options{ConfigPath: filepath.Join(t.TempDir(), "none.toml")})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func boltOptions(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvBackend, config.BackendBolt)
	t.Setenv(config.EnvPath, filepath.Join(dir, "profile.db"))
	t.Setenv(config.EnvCipher, "")
	color.NoColor = true
	return Options{ConfigPath: filepath.Join(dir, "none.toml")}
}

func TestCommandLifecycle(t *testing.T) {
	ctx := context.Background()
	opts := boltOptions(t)

	if err := Show(ctx, opts, false); !errors.Is(err, profile.ErrNoProfile) {
		t.Fatalf("Show on empty vault: expected ErrNoProfile, got %v", err)
	}

	fields := map[string]string{FieldName: "Ada Lovelace", FieldClassYear: "Senior"}
	if err := Set(ctx, opts, "", fields); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := Show(ctx, opts, true); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if err := Rotate(ctx, opts); err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if err := Status(ctx, opts); err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if err := Compact(ctx, opts); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}

	// Profile survives rotate and compact
	s, err := openSession(opts)
	if err != nil {
		t.Fatalf("openSession failed: %v", err)
	}
	p, err := s.repo.Load(ctx)
	s.Close()
	if err != nil || p.Name != "Ada Lovelace" {
		t.Fatalf("Load = %+v, %v", p, err)
	}

	if err := Wipe(ctx, opts, true, false); err != nil {
		t.Fatalf("Wipe failed: %v", err)
	}
	if err := Show(ctx, opts, false); !errors.Is(err, profile.ErrNoProfile) {
		t.Errorf("Show after wipe: expected ErrNoProfile, got %v", err)
	}
}

func TestSetRejectsInvalidProfile(t *testing.T) {
	opts := boltOptions(t)
	err := Set(context.Background(), opts, "", map[string]string{FieldGPA: "3.0"})
	if !errors.Is(err, profile.ErrInvalidProfile) {
		t.Errorf("Expected ErrInvalidProfile for a nameless profile, got %v", err)
	}
}

func TestWipeAllClearsBackend(t *testing.T) {
	ctx := context.Background()
	opts := boltOptions(t)

	if err := Set(ctx, opts, "", map[string]string{FieldName: "Ada", FieldClassYear: "Junior"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s, err := openSession(opts)
	if err != nil {
		t.Fatalf("openSession failed: %v", err)
	}
	if err := s.store.Set("other_entry", "x"); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	s.Close()

	if err := Wipe(ctx, opts, true, true); err != nil {
		t.Fatalf("Wipe -all failed: %v", err)
	}

	s, err = openSession(opts)
	if err != nil {
		t.Fatalf("openSession failed: %v", err)
	}
	defer s.Close()
	if _, err := s.store.Get("other_entry"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected every entry cleared, got %v", err)
	}
	if state, _ := s.repo.Vault().State(); state.String() != "uninitialized" {
		t.Errorf("Expected uninitialized vault, got %s", state)
	}
}

func TestCompactNeedsBolt(t *testing.T) {
	t.Setenv(config.EnvBackend, config.BackendMemory)
	t.Setenv(config.EnvPath, "")
	t.Setenv(config.EnvCipher, "")

	err := Compact(context.Background(), Options{ConfigPath: filepath.Join(t.TempDir(), "none.toml")})
	if !errors.Is(err, errCompactNeedsBolt) {
		t.Errorf("Expected errCompactNeedsBolt, got %v", err)
	}
}

func TestCompletionUnknownShell(t *testing.T) {
	if err := Completion("powershell"); !errors.Is(err, errUnknownShell) {
		t.Errorf("Expected errUnknownShell, got %v", err)
	}
}
