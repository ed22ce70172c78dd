package astro

import "mission-backend/internal/catalog"

// OrbitalParameters are the reference facts for one destination.
type OrbitalParameters struct {
	DistanceFromEarthKm float64 `json:"distance_from_earth"`
	VelocityKmS         float64 `json:"velocity_magnitude"`
	OrbitalPeriodDays   float64 `json:"orbital_period"`
	MassKg              float64 `json:"mass"`
	GravityMS2          float64 `json:"gravity"`
	RadiusKm            float64 `json:"radius"`
	EscapeVelocityKmS   float64 `json:"escape_velocity"`
}

// bodies is read-only after package init; lookups return copies.
var bodies = map[catalog.Destination]OrbitalParameters{
	catalog.Mars:         {225000000, 24.077, 687, 6.42e23, 3.71, 3389.5, 5.03},
	catalog.Moon:         {384400, 1.022, 27.3, 7.35e22, 1.62, 1737.4, 2.38},
	catalog.Venus:        {41400000, 35.02, 225, 4.87e24, 8.87, 6051.8, 10.36},
	catalog.Jupiter:      {628300000, 13.07, 4333, 1.898e27, 24.79, 69911, 59.5},
	catalog.Saturn:       {1275000000, 9.68, 10759, 5.68e26, 10.44, 58232, 35.5},
	catalog.Europa:       {628300000, 13.74, 3.55, 4.8e22, 1.314, 1560.8, 2.025},
	catalog.Titan:        {1275000000, 5.57, 15.95, 1.35e23, 1.352, 2574, 2.64},
	catalog.Enceladus:    {1275000000, 12.64, 1.37, 1.08e20, 0.0113, 252.1, 0.239},
	catalog.Io:           {628300000, 17.33, 1.77, 8.93e22, 1.796, 1821.6, 2.558},
	catalog.AsteroidBelt: {329000000, 20.0, 1460, 3.0e21, 0.0003, 473, 0.51}, // Ceres for surface values
}

// Orbit returns the orbital parameters for d, falling back to Mars for
// destinations outside the table.
func Orbit(d catalog.Destination) OrbitalParameters {
	if params, ok := bodies[d]; ok {
		return params
	}
	return bodies[catalog.Mars]
}

type windowConstants struct {
	DurationDays  int
	FrequencyDays int
}

var windows = map[catalog.Destination]windowConstants{
	catalog.Mars:  {DurationDays: 26, FrequencyDays: 780},
	catalog.Moon:  {DurationDays: 28, FrequencyDays: 28},
	catalog.Venus: {DurationDays: 19, FrequencyDays: 584},
}

func windowFor(d catalog.Destination) windowConstants {
	if w, ok := windows[d]; ok {
		return w
	}
	return windows[catalog.Mars]
}
