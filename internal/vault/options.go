package vault

import (
	"github.com/illarion/profilevault/internal/crypto"
	"github.com/illarion/profilevault/internal/logger"
)

// DefaultNamespace prefixes the storage keys the vault uses
const DefaultNamespace = "profilevault"

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger used for warnings and debug output
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithSuite selects the cipher suite for new envelopes. Existing envelopes
// open with whatever suite their version byte names.
func WithSuite(suite crypto.Suite) Option {
	return func(s *Service) {
		s.suite = suite
	}
}

// WithNamespace changes the prefix of the three storage keys
func WithNamespace(ns string) Option {
	return func(s *Service) {
		if ns != "" {
			s.namespace = ns
		}
	}
}
