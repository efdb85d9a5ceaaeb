package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/illarion/profilevault/internal/config"
	"github.com/illarion/profilevault/internal/keyring"
	"github.com/illarion/profilevault/internal/logger"
	"github.com/illarion/profilevault/internal/profile"
	"github.com/illarion/profilevault/internal/storage"
	"github.com/illarion/profilevault/internal/vault"
)

// Options are the flags shared by every command
type Options struct {
	ConfigPath string
	Verbose    bool
	Debug      bool
}

// session is an opened vault and the settings it was opened with
type session struct {
	cfg   config.Config
	log   logger.Logger
	store storage.Store
	bolt  *storage.Bolt // nil unless the bolt backend is in use
	repo  *profile.Repository
}

func (s *session) Close() {
	if s.bolt != nil {
		s.bolt.Close()
	}
}

// location describes where the backend keeps its data
func (s *session) location() string {
	switch s.cfg.Backend {
	case config.BackendBolt:
		return s.cfg.Path
	case config.BackendKeyring:
		if kr, ok := s.store.(*keyring.Store); ok {
			return "OS keyring, service " + kr.Service()
		}
		return "OS keyring"
	default:
		return "process memory (not persisted)"
	}
}

// openSession loads configuration and opens the configured backend
func openSession(opts Options) (*session, error) {
	log := logger.Logger{Verbose: opts.Verbose, Debug: opts.Debug}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	suite, err := cfg.Suite()
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: log}

	switch cfg.Backend {
	case config.BackendBolt:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		db, err := storage.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		s.bolt = db
		s.store = db
	case config.BackendKeyring:
		s.store = keyring.New(cfg.Namespace)
	case config.BackendMemory:
		log.Warnf("memory backend selected, nothing will be persisted")
		s.store = storage.NewMemory()
	}

	log.Debugf("backend=%s location=%s cipher=%s", cfg.Backend, s.location(), suite)

	svc := vault.New(s.store,
		vault.WithLogger(log),
		vault.WithSuite(suite),
		vault.WithNamespace(cfg.Namespace),
	)
	s.repo = profile.NewRepository(svc)
	return s, nil
}

// success prints a confirmation line
func success(format string, args ...any) {
	fmt.Println(color.GreenString("✓ ") + fmt.Sprintf(format, args...))
}

// HandleError prints err with a hint for the errors users can act on
func HandleError(err error) {
	switch {
	case errors.Is(err, vault.ErrUnreadable):
		fmt.Fprintf(os.Stderr, "Error: the stored profile cannot be decrypted (%s)\n", err)
		fmt.Fprintf(os.Stderr, "The vault key was lost or the data was altered.\n")
		fmt.Fprintf(os.Stderr, "Run 'profilevault wipe' and then 'profilevault set' to start over\n")
	case errors.Is(err, profile.ErrNoProfile):
		fmt.Fprintf(os.Stderr, "Error: no profile stored\n")
		fmt.Fprintf(os.Stderr, "Run 'profilevault set' first\n")
	case errors.Is(err, profile.ErrInvalidProfile):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	case errors.Is(err, config.ErrInvalidConfig):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Check %s or the PROFILEVAULT_* environment variables\n", config.DefaultPath())
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
