package missions

import "mission-backend/internal/format"

// MissionView is the display form of a mission.
type MissionView struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Destination      string       `json:"destination"`
	LaunchDate       string       `json:"launchDate"`
	Duration         string       `json:"duration"`
	Crew             string       `json:"crew"`
	Spacecraft       string       `json:"spacecraft"`
	PayloadMass      string       `json:"payloadMass"`
	FuelRequirements string       `json:"fuelRequirements"`
	Status           format.Badge `json:"status"`
	Risk             format.Badge `json:"risk"`
	RiskLevel        string       `json:"riskLevel"`
	FeasibilityScore string       `json:"feasibilityScore"`
	CreatedAt        string       `json:"createdAt"`
	AnalyzedAt       string       `json:"analyzedAt"`
	LastError        string       `json:"lastError,omitempty"`
}

func NewMissionView(m Mission) MissionView {
	const (
		notSpecified = "Not specified"
		notAssessed  = "Not assessed"
	)
	v := MissionView{
		ID:               m.ID,
		Name:             m.Name,
		Description:      m.Description,
		Destination:      m.Destination.Label(),
		LaunchDate:       m.LaunchDate.Format("2006-01-02"),
		Duration:         format.Days(m.DurationDays),
		Crew:             format.People(m.CrewSize),
		Spacecraft:       m.SpacecraftType.Label(),
		PayloadMass:      notSpecified,
		FuelRequirements: notSpecified,
		Status:           format.StatusBadge(string(m.Status)),
		Risk:             format.RiskBadge(string(m.RiskOrUnknown())),
		RiskLevel:        notAssessed,
		FeasibilityScore: notAssessed,
		CreatedAt:        format.DateTime(m.CreatedAt),
		AnalyzedAt:       "Not analyzed",
	}
	if m.PayloadMassKg != nil {
		v.PayloadMass = format.Kilograms(*m.PayloadMassKg)
	}
	if m.FuelRequirementKg != nil {
		v.FuelRequirements = format.Kilograms(*m.FuelRequirementKg)
	}
	if m.RiskLevel != nil {
		v.RiskLevel = format.Title(string(*m.RiskLevel))
	}
	if m.FeasibilityScore != nil {
		v.FeasibilityScore = format.Percentage(*m.FeasibilityScore)
	}
	if m.AnalyzedAt != nil {
		v.AnalyzedAt = format.DateTime(*m.AnalyzedAt)
	}
	if m.LastError != nil {
		v.LastError = *m.LastError
	}
	return v
}

// AnalysisView is the display form of an analysis record.
type AnalysisView struct {
	ID                      string               `json:"id"`
	Technical               format.TechnicalView `json:"technicalAnalysis"`
	PrimaryRisks            []string             `json:"primaryRisks"`
	Recommendations         []string             `json:"recommendations"`
	OptimizationSuggestions []string             `json:"optimizationSuggestions"`
	Record                  MissionAnalysis      `json:"record"`
	CreatedAt               string               `json:"createdAt"`
}

func NewAnalysisView(a MissionAnalysis) AnalysisView {
	suggestions := a.OptimizationSuggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return AnalysisView{
		ID: a.ID,
		Technical: format.TechnicalView{
			Trajectory:    string(a.TrajectoryAnalysis.Trajectory),
			Propulsion:    string(a.TrajectoryAnalysis.Propulsion),
			LifeSupport:   string(a.TrajectoryAnalysis.LifeSupport),
			Communication: string(a.TrajectoryAnalysis.Communication),
			Landing:       string(a.TrajectoryAnalysis.Landing),
		},
		PrimaryRisks:            format.Texts(a.RiskAssessment.PrimaryRisks),
		Recommendations:         format.Texts(a.Recommendations),
		OptimizationSuggestions: suggestions,
		Record:                  a,
		CreatedAt:               format.DateTime(a.CreatedAt),
	}
}

// Detail is the full display payload for one mission.
type Detail struct {
	Mission    Mission                `json:"mission"`
	View       MissionView            `json:"view"`
	Analysis   *AnalysisView          `json:"analysis,omitempty"`
	Reference  *format.ReferenceView  `json:"referenceData,omitempty"`
	Assessment *format.AssessmentView `json:"assessment,omitempty"`
}

func NewDetail(m Mission, latest *MissionAnalysis) Detail {
	d := Detail{Mission: m, View: NewMissionView(m)}
	if latest != nil {
		v := NewAnalysisView(*latest)
		d.Analysis = &v
	}
	if m.ReferenceData != nil {
		v := format.Reference(*m.ReferenceData)
		d.Reference = &v
	}
	if m.Analysis != nil {
		v := format.Assessment(*m.Analysis)
		d.Assessment = &v
	}
	return d
}
