package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/illarion/profilevault/internal/profile"
	"github.com/illarion/profilevault/internal/vault"
)

// Field flag names accepted by set
const (
	FieldName          = "name"
	FieldClassYear     = "class-year"
	FieldConcentration = "concentration"
	FieldGPA           = "gpa"
	FieldInterests     = "interests"
	FieldCities        = "cities"
	FieldResume        = "resume"
)

// Set creates or updates the stored profile. The stored profile (if
// readable) is the base, file replaces it, fields overlay the result.
func Set(ctx context.Context, opts Options, file string, fields map[string]string) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.repo.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, profile.ErrNoProfile):
		if errors.Is(err, vault.ErrUnreadable) {
			s.log.Warnf("existing profile is unreadable and will be replaced: %v", err)
		}
		p = &profile.Profile{}
	default:
		return err
	}

	if file != "" {
		p, err = readProfileFile(file)
		if err != nil {
			return err
		}
	}

	if err := applyFields(p, fields); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return err
	}

	success("Profile for %s sealed", p.Name)
	return nil
}

// readProfileFile parses a JSON profile
func readProfileFile(path string) (*profile.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %s is not valid profile JSON: %v", profile.ErrInvalidProfile, path, err)
	}
	return &p, nil
}

// applyFields copies flag values onto p
func applyFields(p *profile.Profile, fields map[string]string) error {
	for name, value := range fields {
		switch name {
		case FieldName:
			p.Name = value
		case FieldClassYear:
			p.ClassYear = profile.ClassYear(value)
		case FieldConcentration:
			p.Concentration = value
		case FieldGPA:
			p.GPA = value
		case FieldInterests:
			p.Interests = value
		case FieldCities:
			p.PreferredCities = value
		case FieldResume:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("%w: -resume expects true or false", profile.ErrInvalidProfile)
			}
			p.HasResume = b
		default:
			return fmt.Errorf("unknown field %s", name)
		}
	}
	return nil
}
