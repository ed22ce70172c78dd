package analysis

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"mission-backend/internal/catalog"
)

// Text is a free-text field from a model reply. Non-string JSON values are
// kept as their compact JSON text instead of failing the whole document.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return err
	}
	*t = Text(buf.String())
	return nil
}

func (t Text) String() string { return string(t) }

// TechnicalAnalysis covers the engineering sub-assessments.
type TechnicalAnalysis struct {
	Trajectory    Text `json:"trajectory,omitempty"`
	Propulsion    Text `json:"propulsion,omitempty"`
	LifeSupport   Text `json:"life_support,omitempty"`
	Communication Text `json:"communication,omitempty"`
	Landing       Text `json:"landing,omitempty"`
}

type RiskAssessment struct {
	PrimaryRisks       []Text `json:"primary_risks"`
	RadiationExposure  Text   `json:"radiation_exposure,omitempty"`
	MicrometeoriteRisk Text   `json:"micrometeorite_risk,omitempty"`
	SystemFailures     Text   `json:"system_failures,omitempty"`
}

type ResourceRequirements struct {
	FuelEstimate Text `json:"fuel_estimate,omitempty"`
	Power        Text `json:"power_requirements,omitempty"`
	Water        Text `json:"water_requirements,omitempty"`
	Food         Text `json:"food_requirements,omitempty"`
}

type Timeline struct {
	LaunchPreparation Text `json:"launch_preparation,omitempty"`
	TransitTime       Text `json:"transit_time,omitempty"`
	MissionOperations Text `json:"mission_operations,omitempty"`
	ReturnTime        Text `json:"return_time,omitempty"`
	AnalysisStatus    Text `json:"analysis_status,omitempty"`
}

// Assessment is a normalized feasibility assessment. Score is always within
// [0,100] and RiskLevel is always one of the four defined levels.
type Assessment struct {
	FeasibilityScore     float64              `json:"feasibility_score"`
	RiskLevel            catalog.RiskLevel    `json:"risk_level"`
	Summary              Text                 `json:"summary"`
	TechnicalAnalysis    TechnicalAnalysis    `json:"technical_analysis"`
	RiskAssessment       RiskAssessment       `json:"risk_assessment"`
	ResourceRequirements ResourceRequirements `json:"resource_requirements"`
	Recommendations      []Text               `json:"recommendations"`
	Timeline             Timeline             `json:"timeline"`
	Model                string               `json:"ai_model,omitempty"`
	AnalyzedAt           time.Time            `json:"analysis_timestamp"`
	Fallback             bool                 `json:"fallback,omitempty"`
	Error                string               `json:"error,omitempty"`
}

// HasFuelEstimate reports whether the resource section carries a fuel estimate.
func (a Assessment) HasFuelEstimate() bool {
	return strings.TrimSpace(string(a.ResourceRequirements.FuelEstimate)) != ""
}

// Report is a generated mission report. A failed generation carries only
// ExecutiveSummary and Error.
type Report struct {
	ExecutiveSummary        Text   `json:"executive_summary,omitempty"`
	MissionOverview         Text   `json:"mission_overview,omitempty"`
	TechnicalSpecifications Text   `json:"technical_specifications,omitempty"`
	RiskMitigation          Text   `json:"risk_mitigation,omitempty"`
	SuccessFactors          Text   `json:"success_factors,omitempty"`
	ContingencyPlans        Text   `json:"contingency_plans,omitempty"`
	ResourceAllocation      Text   `json:"resource_allocation,omitempty"`
	TimelineDetails         Text   `json:"timeline_details,omitempty"`
	Conclusion              Text   `json:"conclusion,omitempty"`
	Error                   string `json:"error,omitempty"`
}

func (r Report) Failed() bool { return r.Error != "" }

// MissionSummary is the subset of mission fields sent to the model.
type MissionSummary struct {
	Name           string                 `json:"name"`
	Destination    catalog.Destination    `json:"destination"`
	LaunchDate     time.Time              `json:"launch_date"`
	DurationDays   int                    `json:"mission_duration"`
	CrewSize       int                    `json:"crew_size"`
	SpacecraftType catalog.SpacecraftType `json:"spacecraft_type"`
	PayloadMassKg  *float64               `json:"payload_mass,omitempty"`
	Status         string                 `json:"status,omitempty"`
	Score          *float64               `json:"feasibility_score,omitempty"`
	RiskLevel      string                 `json:"risk_level,omitempty"`
}
