package profile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidProfile = errors.New("invalid profile")

// ClassYear is the student's standing
type ClassYear string

const (
	FirstYear ClassYear = "First-Year"
	Sophomore ClassYear = "Sophomore"
	Junior    ClassYear = "Junior"
	Senior    ClassYear = "Senior"
)

// ClassYears lists the accepted values in order
var ClassYears = []ClassYear{FirstYear, Sophomore, Junior, Senior}

// MaxGPA is the top of the grading scale
const MaxGPA = 4.0

// Profile is the record protected by the vault
type Profile struct {
	Name            string    `json:"name"`
	ClassYear       ClassYear `json:"classYear"`
	Concentration   string    `json:"concentration"`
	GPA             string    `json:"gpa"`
	Interests       string    `json:"interests"`
	PreferredCities string    `json:"preferredCities"`
	HasResume       bool      `json:"hasResume"`
}

// Validate checks required fields and value ranges
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}

	if !p.ClassYear.Valid() {
		return fmt.Errorf("%w: class year %q is not one of %s", ErrInvalidProfile, p.ClassYear, classYearList())
	}

	if gpa := strings.TrimSpace(p.GPA); gpa != "" {
		v, err := strconv.ParseFloat(gpa, 64)
		if err != nil || v < 0 || v > MaxGPA {
			return fmt.Errorf("%w: gpa %q must be a number between 0 and %.1f", ErrInvalidProfile, p.GPA, MaxGPA)
		}
	}
	return nil
}

// Valid reports whether c is one of ClassYears
func (c ClassYear) Valid() bool {
	for _, y := range ClassYears {
		if c == y {
			return true
		}
	}
	return false
}

// Cities splits PreferredCities on commas
func (p *Profile) Cities() []string {
	var cities []string
	for _, c := range strings.Split(p.PreferredCities, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cities = append(cities, c)
		}
	}
	return cities
}

func classYearList() string {
	names := make([]string, len(ClassYears))
	for i, y := range ClassYears {
		names[i] = string(y)
	}
	return strings.Join(names, ", ")
}
