package missions

import (
	"encoding/json"
	"time"

	"mission-backend/internal/analysis"
	"mission-backend/internal/astro"
	"mission-backend/internal/catalog"
)

// Status is a mission lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusAnalyzing Status = "analyzing"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// CanTransition reports whether a mission in status s may move to next.
// Any status may start a new analysis; only an analysis in progress may finish.
func (s Status) CanTransition(next Status) bool {
	switch next {
	case StatusAnalyzing:
		return s == StatusDraft || s == StatusAnalyzing || s == StatusCompleted || s == StatusFailed
	case StatusCompleted, StatusFailed:
		return s == StatusAnalyzing
	default:
		return false
	}
}

// Mission is the root record.
type Mission struct {
	ID                string                 `json:"id"`
	Name              string                 `json:"name"`
	Description       string                 `json:"description"`
	Destination       catalog.Destination    `json:"destination"`
	LaunchDate        time.Time              `json:"launchDate"`
	DurationDays      int                    `json:"durationDays"`
	CrewSize          int                    `json:"crewSize"`
	SpacecraftType    catalog.SpacecraftType `json:"spacecraftType"`
	PayloadMassKg     *float64               `json:"payloadMassKg,omitempty"`
	FuelRequirementKg *float64               `json:"fuelRequirementKg,omitempty"`
	Status            Status                 `json:"status"`
	RiskLevel         *catalog.RiskLevel     `json:"riskLevel,omitempty"`
	FeasibilityScore  *float64               `json:"feasibilityScore,omitempty"`
	Analysis          *analysis.Assessment   `json:"analysis,omitempty"`
	ReferenceData     *astro.Reference       `json:"referenceData,omitempty"`
	LastError         *string                `json:"lastError,omitempty"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
	AnalyzedAt        *time.Time             `json:"analyzedAt,omitempty"`
}

// RiskOrUnknown returns the assessed risk level, or RiskUnknown before analysis.
func (m Mission) RiskOrUnknown() catalog.RiskLevel {
	if m.RiskLevel == nil || !m.RiskLevel.Valid() {
		return catalog.RiskUnknown
	}
	return *m.RiskLevel
}

func (m Mission) summary() analysis.MissionSummary {
	s := analysis.MissionSummary{
		Name:           m.Name,
		Destination:    m.Destination,
		LaunchDate:     m.LaunchDate,
		DurationDays:   m.DurationDays,
		CrewSize:       m.CrewSize,
		SpacecraftType: m.SpacecraftType,
		PayloadMassKg:  m.PayloadMassKg,
	}
	return s
}

func (m Mission) reportSummary() analysis.MissionSummary {
	s := m.summary()
	s.Status = string(m.Status)
	s.Score = m.FeasibilityScore
	s.RiskLevel = string(m.RiskOrUnknown())
	return s
}

// MissionAnalysis is one immutable record per completed analysis attempt.
type MissionAnalysis struct {
	ID                      string                        `json:"id"`
	MissionID               string                        `json:"missionId"`
	TrajectoryAnalysis      analysis.TechnicalAnalysis    `json:"trajectoryAnalysis"`
	RiskAssessment          analysis.RiskAssessment       `json:"riskAssessment"`
	ResourceRequirements    analysis.ResourceRequirements `json:"resourceRequirements"`
	TimelineAnalysis        analysis.Timeline             `json:"timelineAnalysis"`
	Recommendations         []analysis.Text               `json:"recommendations"`
	OptimizationSuggestions []string                      `json:"optimizationSuggestions"`
	CreatedAt               time.Time                     `json:"createdAt"`
}

// SimulationResult holds simulated trajectory and environment data for a mission.
type SimulationResult struct {
	ID                    string          `json:"id"`
	MissionID             string          `json:"missionId"`
	TrajectoryData        json.RawMessage `json:"trajectoryData,omitempty"`
	FuelConsumption       json.RawMessage `json:"fuelConsumption,omitempty"`
	MissionTimeline       json.RawMessage `json:"missionTimeline,omitempty"`
	SuccessProbability    *float64        `json:"successProbability,omitempty"`
	RadiationExposure     *float64        `json:"radiationExposure,omitempty"`
	TemperatureVariations json.RawMessage `json:"temperatureVariations,omitempty"`
	MicrometeoriteRisk    *float64        `json:"micrometeoriteRisk,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
}

// Tally is the raw aggregate behind Statistics.
type Tally struct {
	Total      int
	Completed  int
	Failed     int
	ByRisk     map[catalog.RiskLevel]int
	ScoreSum   float64
	ScoreCount int
}
