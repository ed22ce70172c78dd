package missions

import "mission-backend/internal/analysis"

// OptimizationSuggestions derives follow-up suggestions from an assessment.
// Order is fixed: capacity review, safety, fuel, then the well-optimized default.
func OptimizationSuggestions(a analysis.Assessment) []string {
	suggestions := []string{}
	if a.FeasibilityScore < 70 {
		suggestions = append(suggestions,
			"Consider extending mission preparation time",
			"Review spacecraft specifications for better suitability",
		)
	}
	if a.RiskLevel.Elevated() {
		suggestions = append(suggestions,
			"Implement additional safety protocols",
			"Consider backup mission scenarios",
		)
	}
	if a.HasFuelEstimate() {
		suggestions = append(suggestions, "Optimize fuel consumption through trajectory planning")
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Mission parameters are well-optimized")
	}
	return suggestions
}
