// Package catalog holds the closed enumerations shared by validation, reference
// data, analysis and persistence: destinations, spacecraft types and risk levels.
package catalog

import "strings"

// Destination identifies one of the supported celestial bodies.
type Destination string

const (
	Mars         Destination = "mars"
	Moon         Destination = "moon"
	Venus        Destination = "venus"
	Jupiter      Destination = "jupiter"
	Saturn       Destination = "saturn"
	AsteroidBelt Destination = "asteroid_belt"
	Europa       Destination = "europa"
	Titan        Destination = "titan"
	Enceladus    Destination = "enceladus"
	Io           Destination = "io"
)

var destinations = []Destination{Mars, Moon, Venus, Jupiter, Saturn, AsteroidBelt, Europa, Titan, Enceladus, Io}

var destinationLabels = map[Destination]string{
	Mars:         "Mars",
	Moon:         "Moon",
	Venus:        "Venus",
	Jupiter:      "Jupiter",
	Saturn:       "Saturn",
	AsteroidBelt: "Asteroid Belt",
	Europa:       "Europa (Jupiter Moon)",
	Titan:        "Titan (Saturn Moon)",
	Enceladus:    "Enceladus (Saturn Moon)",
	Io:           "Io (Jupiter Moon)",
}

// Destinations returns the supported destinations in form display order.
func Destinations() []Destination {
	return append([]Destination(nil), destinations...)
}

// Valid reports whether d is a member of the destination set.
func (d Destination) Valid() bool {
	_, ok := destinationLabels[d]
	return ok
}

// Label returns the human-readable destination name.
func (d Destination) Label() string {
	if label, ok := destinationLabels[d]; ok {
		return label
	}
	return string(d)
}

// SpacecraftType identifies one of the supported vehicle classes.
type SpacecraftType string

const (
	Orion   SpacecraftType = "orion"
	Dragon  SpacecraftType = "dragon"
	Soyuz   SpacecraftType = "soyuz"
	Artemis SpacecraftType = "artemis"
	Custom  SpacecraftType = "custom"
)

var spacecraftTypes = []SpacecraftType{Orion, Dragon, Soyuz, Artemis, Custom}

var spacecraftLabels = map[SpacecraftType]string{
	Orion:   "Orion Multi-Purpose Crew Vehicle",
	Dragon:  "SpaceX Dragon",
	Soyuz:   "Soyuz",
	Artemis: "Artemis Lunar Lander",
	Custom:  "Custom Spacecraft",
}

// SpacecraftTypes returns the supported spacecraft types in form display order.
func SpacecraftTypes() []SpacecraftType {
	return append([]SpacecraftType(nil), spacecraftTypes...)
}

func (s SpacecraftType) Valid() bool {
	_, ok := spacecraftLabels[s]
	return ok
}

func (s SpacecraftType) Label() string {
	if label, ok := spacecraftLabels[s]; ok {
		return label
	}
	return string(s)
}

// RiskLevel is the ordinal risk category assigned by an analysis.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"

	// RiskUnknown is used for display and comparison of missions that were never assessed.
	RiskUnknown RiskLevel = "unknown"
)

var riskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}

// RiskLevels returns the four assessable risk levels, lowest first.
func RiskLevels() []RiskLevel {
	return append([]RiskLevel(nil), riskLevels...)
}

func (r RiskLevel) Valid() bool {
	for _, level := range riskLevels {
		if r == level {
			return true
		}
	}
	return false
}

// Elevated reports whether the level calls for extra safety planning.
func (r RiskLevel) Elevated() bool {
	return r == RiskHigh || r == RiskCritical
}

// ParseRiskLevel normalizes raw into a RiskLevel. Unrecognized values report false.
func ParseRiskLevel(raw string) (RiskLevel, bool) {
	level := RiskLevel(strings.ToLower(strings.TrimSpace(raw)))
	if !level.Valid() {
		return "", false
	}
	return level, true
}
