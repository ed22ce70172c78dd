// Package validation checks user-submitted mission parameters before a mission
// is created. Checks are pure and never touch storage.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"mission-backend/internal/catalog"
)

const (
	NameMinLength        = 3
	NameMaxLength        = 200
	DescriptionMaxLength = 1000
	DurationMinDays      = 1
	DurationMaxDays      = 3650
	CrewSizeMin          = 0
	CrewSizeMax          = 20
	PayloadMassMaxKg     = 100000
	FuelRequirementMaxKg = 1000000
	LaunchHorizonYears   = 50
)

var (
	ErrNameLength        = errors.New("name length out of range")
	ErrNameCharacters    = errors.New("name contains invalid characters")
	ErrDescriptionLength = errors.New("description too long")
	ErrDestination       = errors.New("invalid destination")
	ErrLaunchDateMissing = errors.New("launch date missing")
	ErrLaunchDateFormat  = errors.New("launch date malformed")
	ErrLaunchDatePast    = errors.New("launch date in the past")
	ErrLaunchDateTooFar  = errors.New("launch date too far in the future")
	ErrDurationRange     = errors.New("duration out of range")
	ErrCrewSizeRange     = errors.New("crew size out of range")
	ErrSpacecraftType    = errors.New("invalid spacecraft type")
	ErrPayloadMassRange  = errors.New("payload mass out of range")
	ErrFuelRange         = errors.New("fuel requirement out of range")
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.]+$`)

// Error is a field-attributable validation failure. Its message is safe to show
// to the caller verbatim.
type Error struct {
	Field   string
	Message string
	rule    error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the rule sentinel, so callers can use errors.Is.
func (e *Error) Unwrap() error {
	return e.rule
}

func fail(field string, rule error, format string, args ...any) error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...), rule: rule}
}

// MissionInput is the user-supplied description of a mission.
type MissionInput struct {
	Name              string
	Description       string
	Destination       catalog.Destination
	LaunchDate        time.Time
	// LaunchDateText is the submitted date when it could not be parsed.
	LaunchDateText    string
	DurationDays      int
	CrewSize          int
	SpacecraftType    catalog.SpacecraftType
	PayloadMassKg     *float64
	FuelRequirementKg *float64
}

// ValidateMission runs every check against the current date.
func ValidateMission(in MissionInput) error {
	return ValidateMissionAt(in, time.Now())
}

// ValidateMissionAt runs every check and returns the first failure. Fields are
// checked in a fixed order: name, destination, launch date, duration, crew size,
// spacecraft type, payload mass, fuel requirement, then description.
func ValidateMissionAt(in MissionInput, now time.Time) error {
	checks := []func() error{
		func() error { return ValidateName(in.Name) },
		func() error { return ValidateDestination(in.Destination) },
		func() error {
			if in.LaunchDate.IsZero() && strings.TrimSpace(in.LaunchDateText) != "" {
				return fail("launch_date", ErrLaunchDateFormat, "Launch date must be formatted as YYYY-MM-DD")
			}
			return ValidateLaunchDate(in.LaunchDate, now)
		},
		func() error { return ValidateDuration(in.DurationDays) },
		func() error { return ValidateCrewSize(in.CrewSize) },
		func() error { return ValidateSpacecraftType(in.SpacecraftType) },
		func() error { return ValidatePayloadMass(in.PayloadMassKg) },
		func() error { return ValidateFuelRequirement(in.FuelRequirementKg) },
		func() error { return ValidateDescription(in.Description) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// ParseLaunchDate accepts YYYY-MM-DD or RFC 3339. An empty string parses to
// the zero time so the missing-date rule reports it.
func ParseLaunchDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

func ValidateName(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < NameMinLength {
		return fail("name", ErrNameLength, "Mission name must be at least %d characters long", NameMinLength)
	}
	if utf8.RuneCountInString(name) > NameMaxLength {
		return fail("name", ErrNameLength, "Mission name cannot exceed %d characters", NameMaxLength)
	}
	if !namePattern.MatchString(name) {
		return fail("name", ErrNameCharacters, "Mission name contains invalid characters")
	}
	return nil
}

func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > DescriptionMaxLength {
		return fail("description", ErrDescriptionLength, "Description must be less than %d characters", DescriptionMaxLength)
	}
	return nil
}

func ValidateDestination(d catalog.Destination) error {
	if !d.Valid() {
		return fail("destination", ErrDestination, "Invalid destination. Must be one of: %s", joinDestinations())
	}
	return nil
}

// ValidateLaunchDate compares calendar days in UTC: today is allowed, yesterday is not.
func ValidateLaunchDate(launch time.Time, now time.Time) error {
	if launch.IsZero() {
		return fail("launch_date", ErrLaunchDateMissing, "Launch date is required")
	}
	day := truncateDay(launch)
	today := truncateDay(now)
	if day.Before(today) {
		return fail("launch_date", ErrLaunchDatePast, "Launch date cannot be in the past")
	}
	if day.After(today.AddDate(LaunchHorizonYears, 0, 0)) {
		return fail("launch_date", ErrLaunchDateTooFar, "Launch date cannot be more than %d years in the future", LaunchHorizonYears)
	}
	return nil
}

func ValidateDuration(days int) error {
	if days < DurationMinDays {
		return fail("mission_duration", ErrDurationRange, "Mission duration must be at least %d day", DurationMinDays)
	}
	if days > DurationMaxDays {
		return fail("mission_duration", ErrDurationRange, "Mission duration cannot exceed 10 years (%d days)", DurationMaxDays)
	}
	return nil
}

func ValidateCrewSize(size int) error {
	if size < CrewSizeMin {
		return fail("crew_size", ErrCrewSizeRange, "Crew size cannot be negative")
	}
	if size > CrewSizeMax {
		return fail("crew_size", ErrCrewSizeRange, "Crew size cannot exceed %d members", CrewSizeMax)
	}
	return nil
}

func ValidateSpacecraftType(s catalog.SpacecraftType) error {
	if !s.Valid() {
		names := make([]string, 0, len(catalog.SpacecraftTypes()))
		for _, t := range catalog.SpacecraftTypes() {
			names = append(names, string(t))
		}
		return fail("spacecraft_type", ErrSpacecraftType, "Invalid spacecraft type. Must be one of: %s", strings.Join(names, ", "))
	}
	return nil
}

// ValidatePayloadMass accepts a nil mass as "not specified".
func ValidatePayloadMass(mass *float64) error {
	if mass == nil {
		return nil
	}
	if *mass < 0 {
		return fail("payload_mass", ErrPayloadMassRange, "Payload mass cannot be negative")
	}
	if *mass > PayloadMassMaxKg {
		return fail("payload_mass", ErrPayloadMassRange, "Payload mass cannot exceed 100,000 kg")
	}
	return nil
}

// ValidateFuelRequirement accepts a nil requirement as "not specified".
func ValidateFuelRequirement(fuel *float64) error {
	if fuel == nil {
		return nil
	}
	if *fuel < 0 {
		return fail("fuel_requirements", ErrFuelRange, "Fuel requirements cannot be negative")
	}
	if *fuel > FuelRequirementMaxKg {
		return fail("fuel_requirements", ErrFuelRange, "Fuel requirements cannot exceed 1,000,000 kg")
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func joinDestinations() string {
	all := catalog.Destinations()
	names := make([]string, 0, len(all))
	for _, d := range all {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}
