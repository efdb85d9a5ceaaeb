package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
)

var errCompactNeedsBolt = errors.New("compact only applies to the bolt backend")

// Compact compacts the bolt database to reclaim unused space
func Compact(_ context.Context, opts Options) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.bolt == nil {
		return errCompactNeedsBolt
	}

	info, err := os.Stat(s.bolt.Path())
	if err != nil {
		return err
	}
	sizeBefore := info.Size()

	if err := s.bolt.Compact(); err != nil {
		return err
	}

	info, err = os.Stat(s.bolt.Path())
	if err != nil {
		return err
	}

	fmt.Printf("Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(info.Size()))
	return nil
}
