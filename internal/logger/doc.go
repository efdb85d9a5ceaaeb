// Package logger provides leveled, colored logging for profilevault.
//
// Verbosity is controlled by two flags:
//
//   - -v: shows info messages
//   - -debug: shows info and debug messages
//
// Warnings and errors are always shown on stderr.
//
//	log := logger.Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Sealed profile (%d bytes)", n)
//
// Library packages receive a Logger through their options and never
// print on their own.
package logger
