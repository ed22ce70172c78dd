package missions

import (
	"testing"

	"mission-backend/internal/analysis"
	"mission-backend/internal/catalog"
)

func TestNewMissionViewBeforeAnalysis(t *testing.T) {
	m := Mission{
		ID:             "m-1",
		Name:           "Ares I",
		Destination:    catalog.Mars,
		LaunchDate:     fixedNow,
		DurationDays:   500,
		CrewSize:       1,
		SpacecraftType: catalog.Orion,
		Status:         StatusDraft,
		CreatedAt:      fixedNow,
	}
	v := NewMissionView(m)
	if v.LaunchDate != "2026-03-01" || v.Duration != "500 days" || v.Crew != "1 person" {
		t.Fatalf("unexpected basics: %+v", v)
	}
	if v.PayloadMass != "Not specified" || v.FuelRequirements != "Not specified" {
		t.Fatalf("unexpected masses: %q %q", v.PayloadMass, v.FuelRequirements)
	}
	if v.RiskLevel != "Not assessed" || v.FeasibilityScore != "Not assessed" || v.AnalyzedAt != "Not analyzed" {
		t.Fatalf("unexpected assessment fields: %+v", v)
	}
	if v.Risk.Label != "Unknown" || v.Status.Label != "Draft" {
		t.Fatalf("unexpected badges: %+v %+v", v.Risk, v.Status)
	}
	if v.CreatedAt != "2026-03-01 12:00 UTC" {
		t.Fatalf("unexpected created at: %q", v.CreatedAt)
	}
}

func TestNewMissionViewAfterAnalysis(t *testing.T) {
	payload := 12500.4
	score := 72.5
	risk := catalog.RiskHigh
	at := fixedNow
	m := Mission{
		ID:               "m-1",
		Destination:      catalog.AsteroidBelt,
		CrewSize:         3,
		PayloadMassKg:    &payload,
		Status:           StatusCompleted,
		RiskLevel:        &risk,
		FeasibilityScore: &score,
		AnalyzedAt:       &at,
	}
	v := NewMissionView(m)
	if v.PayloadMass != "12,500 kg" {
		t.Fatalf("unexpected payload: %q", v.PayloadMass)
	}
	if v.RiskLevel != "High" || v.FeasibilityScore != "72.5%" {
		t.Fatalf("unexpected assessment: %q %q", v.RiskLevel, v.FeasibilityScore)
	}
	if v.Crew != "3 people" || v.AnalyzedAt == "Not analyzed" {
		t.Fatalf("unexpected view: %+v", v)
	}
}

func TestNewDetailIncludesLatestAnalysis(t *testing.T) {
	a := goodAssessment(80, catalog.RiskLow)
	m := Mission{ID: "m-1", Status: StatusCompleted, Analysis: &a}
	record := MissionAnalysis{
		ID:              "a-1",
		MissionID:       "m-1",
		RiskAssessment:  analysis.RiskAssessment{PrimaryRisks: []analysis.Text{"radiation"}},
		Recommendations: []analysis.Text{"add shielding"},
	}

	d := NewDetail(m, &record)
	if d.Analysis == nil || d.Analysis.ID != "a-1" {
		t.Fatalf("expected analysis view, got %+v", d.Analysis)
	}
	if len(d.Analysis.PrimaryRisks) != 1 || d.Analysis.PrimaryRisks[0] != "radiation" {
		t.Fatalf("unexpected risks: %v", d.Analysis.PrimaryRisks)
	}
	if d.Analysis.OptimizationSuggestions == nil {
		t.Fatalf("expected non-nil suggestions")
	}
	if d.Assessment == nil {
		t.Fatalf("expected assessment view")
	}
	if d.Reference != nil {
		t.Fatalf("expected no reference view")
	}

	if bare := NewDetail(m, nil); bare.Analysis != nil {
		t.Fatalf("expected no analysis view")
	}
}
