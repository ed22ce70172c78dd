package analysis

import (
	_ "embed"
	"encoding/json"
	"strconv"
	"strings"

	"mission-backend/internal/astro"
)

const (
	feasibilitySystem = "You are an expert space mission analyst with deep knowledge of orbital mechanics, spacecraft engineering, and mission planning. Respond with JSON only."
	reportSystem      = "You are a senior space mission analyst writing formal mission reports for space agencies. Respond with JSON only."
)

var (
	//go:embed prompts/feasibility.txt
	feasibilityTemplate string
	//go:embed prompts/report.txt
	reportTemplate string
)

func buildFeasibilityPrompt(m MissionSummary, ref astro.Reference) string {
	launch := "Unknown"
	if !m.LaunchDate.IsZero() {
		launch = m.LaunchDate.Format("2006-01-02")
	}
	payload := "Unknown"
	if m.PayloadMassKg != nil {
		payload = strconv.FormatFloat(*m.PayloadMassKg, 'f', -1, 64)
	}
	r := strings.NewReplacer(
		"{{name}}", m.Name,
		"{{destination}}", string(m.Destination),
		"{{launch_date}}", launch,
		"{{duration}}", strconv.Itoa(m.DurationDays),
		"{{crew_size}}", strconv.Itoa(m.CrewSize),
		"{{spacecraft}}", string(m.SpacecraftType),
		"{{payload_mass}}", payload,
		"{{reference}}", indentJSON(ref),
	)
	return r.Replace(feasibilityTemplate)
}

func buildReportPrompt(m MissionSummary, a Assessment) string {
	r := strings.NewReplacer(
		"{{name}}", m.Name,
		"{{mission}}", indentJSON(m),
		"{{analysis}}", indentJSON(a),
	)
	return r.Replace(reportTemplate)
}

func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
