// Package analysis turns mission data into feasibility assessments and reports
// using a chat-completion model. Every provider failure becomes a flagged
// fallback document; no method returns an error.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"mission-backend/internal/astro"
	"mission-backend/internal/catalog"
	"mission-backend/internal/llm"
	"mission-backend/internal/shared/metrics"
	"mission-backend/internal/shared/telemetry"
)

const (
	defaultScore = 50.0

	feasibilityMaxTokens   = 2000
	feasibilityTemperature = 0.3
	reportMaxTokens        = 3000
	reportTemperature      = 0.2

	fallbackError       = "AI service unavailable - using fallback analysis"
	reportFailedSummary = "Report generation failed. Please try again."
)

// Provider wraps an llm.Client.
type Provider struct {
	Client llm.Client
	Now    func() time.Time
}

func NewProvider(client llm.Client) *Provider {
	if client == nil {
		client = llm.PlaceholderClient{}
	}
	return &Provider{Client: client}
}

// AssessFeasibility asks the model for a feasibility assessment and normalizes
// the reply. Any failure yields Fallback().
func (p *Provider) AssessFeasibility(ctx context.Context, mission MissionSummary, ref astro.Reference) Assessment {
	raw, err := p.client().Complete(ctx, llm.ChatRequest{
		System:      feasibilitySystem,
		Prompt:      buildFeasibilityPrompt(mission, ref),
		MaxTokens:   feasibilityMaxTokens,
		Temperature: feasibilityTemperature,
		JSON:        true,
	})
	if err == nil {
		var assessment Assessment
		assessment, err = normalizeAssessment(raw)
		if err == nil {
			assessment.Model = p.client().Model()
			assessment.AnalyzedAt = p.now()
			return assessment
		}
	}

	metrics.IncProviderFallback("llm")
	telemetry.Warn("analysis.fallback", map[string]any{
		"mission": mission.Name,
		"error":   err.Error(),
	})
	fallback := Fallback()
	fallback.AnalyzedAt = p.now()
	return fallback
}

// GenerateReport asks the model for a formal report. On failure the report
// carries only a failure note and the error description.
func (p *Provider) GenerateReport(ctx context.Context, mission MissionSummary, assessment Assessment) Report {
	raw, err := p.client().Complete(ctx, llm.ChatRequest{
		System:      reportSystem,
		Prompt:      buildReportPrompt(mission, assessment),
		MaxTokens:   reportMaxTokens,
		Temperature: reportTemperature,
		JSON:        true,
	})
	if err == nil {
		var report Report
		if err = json.Unmarshal(raw, &report); err == nil {
			// Error is reserved for generation failures.
			report.Error = ""
			return report
		}
		err = fmt.Errorf("decode report: %w", err)
	}

	metrics.IncProviderFallback("llm")
	telemetry.Warn("analysis.report_failed", map[string]any{
		"mission": mission.Name,
		"error":   err.Error(),
	})
	return Report{
		ExecutiveSummary: reportFailedSummary,
		Error:            err.Error(),
	}
}

// Fallback is the deterministic assessment used when the model is unavailable.
func Fallback() Assessment {
	return Assessment{
		FeasibilityScore: 65,
		RiskLevel:        catalog.RiskMedium,
		Summary:          "AI analysis unavailable. Basic assessment provided.",
		TechnicalAnalysis: TechnicalAnalysis{
			Trajectory:    "Trajectory analysis requires AI service",
			Propulsion:    "Propulsion analysis requires AI service",
			LifeSupport:   "Life support analysis requires AI service",
			Communication: "Communication analysis requires AI service",
		},
		RiskAssessment: RiskAssessment{
			PrimaryRisks:       []Text{"AI service unavailable"},
			RadiationExposure:  "Requires detailed analysis",
			MicrometeoriteRisk: "Requires detailed analysis",
		},
		ResourceRequirements: ResourceRequirements{
			FuelEstimate: "Requires AI analysis",
			Power:        "Requires AI analysis",
		},
		Recommendations: []Text{
			"Enable AI service for detailed analysis",
			"Consult mission planning experts",
			"Review historical mission data",
		},
		Timeline: Timeline{
			AnalysisStatus: "AI service required for timeline analysis",
		},
		Fallback: true,
		Error:    fallbackError,
	}
}

// normalizeAssessment decodes a model reply section by section so one
// malformed section does not discard the others.
func normalizeAssessment(raw json.RawMessage) (Assessment, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Assessment{}, fmt.Errorf("decode assessment: %w", err)
	}
	if fields == nil {
		return Assessment{}, fmt.Errorf("decode assessment: not an object")
	}

	out := Assessment{
		FeasibilityScore: parseScore(fields["feasibility_score"]),
		RiskLevel:        parseRisk(fields["risk_level"]),
		Summary:          "Analysis completed",
	}
	decodeSection(fields["summary"], &out.Summary)
	if strings.TrimSpace(string(out.Summary)) == "" {
		out.Summary = "Analysis completed"
	}
	decodeSection(fields["technical_analysis"], &out.TechnicalAnalysis)
	decodeSection(fields["risk_assessment"], &out.RiskAssessment)
	decodeSection(fields["resource_requirements"], &out.ResourceRequirements)
	decodeSection(fields["recommendations"], &out.Recommendations)
	decodeSection(fields["timeline"], &out.Timeline)

	if out.RiskAssessment.PrimaryRisks == nil {
		out.RiskAssessment.PrimaryRisks = []Text{}
	}
	if out.Recommendations == nil {
		out.Recommendations = []Text{}
	}
	return out, nil
}

func decodeSection[T any](raw json.RawMessage, dst *T) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

func parseScore(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return defaultScore
	}
	var score float64
	if err := json.Unmarshal(raw, &score); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return defaultScore
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return defaultScore
		}
		score = parsed
	}
	if math.IsNaN(score) {
		return defaultScore
	}
	return math.Min(100, math.Max(0, score))
}

func parseRisk(raw json.RawMessage) catalog.RiskLevel {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return catalog.RiskMedium
	}
	level, ok := catalog.ParseRiskLevel(s)
	if !ok {
		return catalog.RiskMedium
	}
	return level
}

func (p *Provider) client() llm.Client {
	if p == nil || p.Client == nil {
		return llm.PlaceholderClient{}
	}
	return p.Client
}

func (p *Provider) now() time.Time {
	if p != nil && p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}
