// Package config loads profilevault settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/illarion/profilevault/internal/crypto"
	"github.com/illarion/profilevault/internal/vault"
)

// Backends
const (
	BackendBolt    = "bolt"
	BackendKeyring = "keyring"
	BackendMemory  = "memory"
)

// Environment variables
const (
	EnvConfig  = "PROFILEVAULT_CONFIG"
	EnvBackend = "PROFILEVAULT_BACKEND"
	EnvPath    = "PROFILEVAULT_PATH"
	EnvCipher  = "PROFILEVAULT_CIPHER"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the storage and cipher settings
type Config struct {
	Backend   string `toml:"backend"`
	Path      string `toml:"path"`
	Cipher    string `toml:"cipher"`
	Namespace string `toml:"namespace"`
}

// Default returns the settings used when no file exists
func Default() Config {
	return Config{
		Backend:   BackendBolt,
		Path:      defaultDBPath(),
		Cipher:    crypto.DefaultSuite.String(),
		Namespace: vault.DefaultNamespace,
	}
}

// DefaultPath returns the config file location: $PROFILEVAULT_CONFIG, else
// profilevault/config.toml under the user config dir
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "profilevault", "config.toml")
}

// Load reads path (or DefaultPath when empty) over the defaults and applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv(EnvPath); v != "" {
		cfg.Path = v
	}
	if v := os.Getenv(EnvCipher); v != "" {
		cfg.Cipher = v
	}

	cfg.Path = expandHome(cfg.Path)
	return cfg, cfg.Validate()
}

// Save writes cfg as TOML, creating the parent directory
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(cfg)
}

// Validate checks backend, cipher and path
func (c Config) Validate() error {
	switch c.Backend {
	case BackendBolt:
		if c.Path == "" {
			return fmt.Errorf("%w: bolt backend needs a path", ErrInvalidConfig)
		}
	case BackendKeyring, BackendMemory:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}

	if _, err := c.Suite(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Suite returns the configured cipher suite
func (c Config) Suite() (crypto.Suite, error) {
	return crypto.ParseSuite(c.Cipher)
}

func defaultDBPath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "profilevault.db"
	}
	return filepath.Join(dir, ".local", "share", "profilevault", "profile.db")
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
