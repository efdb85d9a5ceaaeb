package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/illarion/profilevault/internal/crypto"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvBackend, "")
	t.Setenv(EnvPath, "")
	t.Setenv(EnvCipher, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != BackendBolt {
		t.Errorf("Expected bolt backend, got %s", cfg.Backend)
	}
	if cfg.Cipher != "aes-256-gcm" {
		t.Errorf("Expected aes-256-gcm, got %s", cfg.Cipher)
	}
	if cfg.Path == "" {
		t.Error("Expected a default path")
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `backend = "bolt"
path = "` + filepath.ToSlash(filepath.Join(dir, "file.db")) + `"
cipher = "chacha20-poly1305"
namespace = "skidmore"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	t.Setenv(EnvBackend, "")
	t.Setenv(EnvCipher, "")
	t.Setenv(EnvPath, filepath.Join(dir, "env.db"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Path != filepath.Join(dir, "env.db") {
		t.Errorf("Env path should win, got %s", cfg.Path)
	}
	if cfg.Namespace != "skidmore" {
		t.Errorf("Expected namespace from file, got %s", cfg.Namespace)
	}
	suite, err := cfg.Suite()
	if err != nil || suite != crypto.ChaCha20Poly1305 {
		t.Errorf("Suite() = %v, %v", suite, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"default", Default(), true},
		{"keyring", Config{Backend: BackendKeyring, Cipher: "aes-256-gcm"}, true},
		{"memory", Config{Backend: BackendMemory}, true},
		{"bolt without path", Config{Backend: BackendBolt}, false},
		{"unknown backend", Config{Backend: "s3", Path: "x"}, false},
		{"unknown cipher", Config{Backend: BackendMemory, Cipher: "des"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Expected valid, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv(EnvBackend, "")
	t.Setenv(EnvPath, "")
	t.Setenv(EnvCipher, "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Config{Backend: BackendKeyring, Cipher: "chacha20-poly1305", Namespace: "ns", Path: "/tmp/x.db"}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != want {
		t.Errorf("Got %+v, want %+v", got, want)
	}
}
