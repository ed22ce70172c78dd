package format

import (
	"fmt"

	"mission-backend/internal/analysis"
	"mission-backend/internal/astro"
)

type OrbitalView struct {
	DistanceFromEarth string `json:"distanceFromEarth"`
	Velocity          string `json:"velocity"`
	OrbitalPeriod     string `json:"orbitalPeriod"`
	Mass              string `json:"mass"`
	Gravity           string `json:"gravity"`
}

type WindowView struct {
	LaunchDate       string `json:"launchDate"`
	WindowDuration   string `json:"windowDuration"`
	NextWindowInDays string `json:"nextWindowInDays"`
	OptimalWindow    string `json:"optimalWindow"`
	Recommendation   string `json:"recommendation"`
}

// ReferenceView is the display form of reference data.
type ReferenceView struct {
	Destination       string      `json:"destination"`
	DataSource        string      `json:"dataSource"`
	RetrievedAt       string      `json:"retrievedAt"`
	Warning           string      `json:"warning,omitempty"`
	OrbitalParameters OrbitalView `json:"orbitalParameters"`
	MissionWindow     *WindowView `json:"missionWindow,omitempty"`
}

func Reference(ref astro.Reference) ReferenceView {
	p := ref.OrbitalParameters
	view := ReferenceView{
		Destination: ref.Destination.Label(),
		DataSource:  ref.DataSource,
		RetrievedAt: DateTime(ref.RetrievedAt),
		Warning:     ref.Warning,
		OrbitalParameters: OrbitalView{
			DistanceFromEarth: Distance(p.DistanceFromEarthKm),
			Velocity:          Velocity(p.VelocityKmS),
			OrbitalPeriod:     Duration(p.OrbitalPeriodDays),
			Mass:              Mass(p.MassKg),
			Gravity:           Gravity(p.GravityMS2),
		},
	}
	if view.DataSource == "" {
		view.DataSource = Unknown
	}
	w := ref.MissionWindow
	if w.Error != "" {
		view.MissionWindow = &WindowView{
			LaunchDate:     orDefault(w.LaunchDate, Unknown),
			Recommendation: w.Error,
		}
		return view
	}
	if w.LaunchDate != "" {
		optimal := "No"
		if w.OptimalWindow {
			optimal = "Yes"
		}
		view.MissionWindow = &WindowView{
			LaunchDate:       w.LaunchDate,
			WindowDuration:   fmt.Sprintf("%d days", w.WindowDuration),
			NextWindowInDays: fmt.Sprintf("%d days", w.NextWindowInDays),
			OptimalWindow:    optimal,
			Recommendation:   orDefault(w.Recommendation, "No recommendation"),
		}
	}
	return view
}

type TechnicalView struct {
	Trajectory    string `json:"trajectory"`
	Propulsion    string `json:"propulsion"`
	LifeSupport   string `json:"lifeSupport"`
	Communication string `json:"communication"`
	Landing       string `json:"landing"`
}

type RiskView struct {
	PrimaryRisks       []string `json:"primaryRisks"`
	RadiationExposure  string   `json:"radiationExposure"`
	MicrometeoriteRisk string   `json:"micrometeoriteRisk"`
	SystemFailures     string   `json:"systemFailures"`
}

type ResourceView struct {
	FuelEstimate string `json:"fuelEstimate"`
	Power        string `json:"power"`
	Water        string `json:"water"`
	Food         string `json:"food"`
}

type TimelineView struct {
	LaunchPreparation string `json:"launchPreparation"`
	TransitTime       string `json:"transitTime"`
	MissionOperations string `json:"missionOperations"`
	ReturnTime        string `json:"returnTime"`
}

// AssessmentView is the display form of a feasibility assessment.
type AssessmentView struct {
	FeasibilityScore  string        `json:"feasibilityScore"`
	Risk              Badge         `json:"risk"`
	Summary           string        `json:"summary"`
	Model             string        `json:"model"`
	AnalyzedAt        string        `json:"analyzedAt"`
	Fallback          bool          `json:"fallback"`
	TechnicalAnalysis TechnicalView `json:"technicalAnalysis"`
	RiskAssessment    RiskView      `json:"riskAssessment"`
	Resources         ResourceView  `json:"resources"`
	Timeline          TimelineView  `json:"timeline"`
	Recommendations   []string      `json:"recommendations"`
}

func Assessment(a analysis.Assessment) AssessmentView {
	const (
		notAvailable = "Not available"
		notAssessed  = "Not assessed"
		notEstimated = "Not estimated"
	)
	return AssessmentView{
		FeasibilityScore: Percentage(a.FeasibilityScore),
		Risk:             RiskBadge(string(a.RiskLevel)),
		Summary:          orDefault(string(a.Summary), "No summary available"),
		Model:            orDefault(a.Model, Unknown),
		AnalyzedAt:       DateTime(a.AnalyzedAt),
		Fallback:         a.Fallback,
		TechnicalAnalysis: TechnicalView{
			Trajectory:    orDefault(string(a.TechnicalAnalysis.Trajectory), notAvailable),
			Propulsion:    orDefault(string(a.TechnicalAnalysis.Propulsion), notAvailable),
			LifeSupport:   orDefault(string(a.TechnicalAnalysis.LifeSupport), notAvailable),
			Communication: orDefault(string(a.TechnicalAnalysis.Communication), notAvailable),
			Landing:       orDefault(string(a.TechnicalAnalysis.Landing), notAvailable),
		},
		RiskAssessment: RiskView{
			PrimaryRisks:       Texts(a.RiskAssessment.PrimaryRisks),
			RadiationExposure:  orDefault(string(a.RiskAssessment.RadiationExposure), notAssessed),
			MicrometeoriteRisk: orDefault(string(a.RiskAssessment.MicrometeoriteRisk), notAssessed),
			SystemFailures:     orDefault(string(a.RiskAssessment.SystemFailures), notAssessed),
		},
		Resources: ResourceView{
			FuelEstimate: orDefault(string(a.ResourceRequirements.FuelEstimate), notEstimated),
			Power:        orDefault(string(a.ResourceRequirements.Power), notEstimated),
			Water:        orDefault(string(a.ResourceRequirements.Water), notEstimated),
			Food:         orDefault(string(a.ResourceRequirements.Food), notEstimated),
		},
		Timeline: TimelineView{
			LaunchPreparation: orDefault(string(a.Timeline.LaunchPreparation), notEstimated),
			TransitTime:       orDefault(string(a.Timeline.TransitTime), notEstimated),
			MissionOperations: orDefault(string(a.Timeline.MissionOperations), notEstimated),
			ReturnTime:        orDefault(string(a.Timeline.ReturnTime), notEstimated),
		},
		Recommendations: Texts(a.Recommendations),
	}
}

// Texts converts model text fields to plain strings, never returning nil.
func Texts(in []analysis.Text) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		out = append(out, string(t))
	}
	return out
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
