package missions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"mission-backend/internal/analysis"
	"mission-backend/internal/astro"
	"mission-backend/internal/catalog"
	"mission-backend/internal/shared/metrics"
	"mission-backend/internal/shared/storage/object"
	"mission-backend/internal/shared/telemetry"
	"mission-backend/internal/validation"
)

const defaultHistoryLimit = 50

// ReferenceProvider supplies orbital data and launch windows. It never fails.
type ReferenceProvider interface {
	PlanetaryData(ctx context.Context, destination catalog.Destination, launchDate time.Time) astro.PlanetaryData
	MissionWindow(ctx context.Context, destination catalog.Destination, launchDate time.Time) astro.MissionWindow
}

// AnalysisProvider produces assessments and reports. Failures come back as
// flagged fallback documents.
type AnalysisProvider interface {
	AssessFeasibility(ctx context.Context, mission analysis.MissionSummary, ref astro.Reference) analysis.Assessment
	GenerateReport(ctx context.Context, mission analysis.MissionSummary, assessment analysis.Assessment) analysis.Report
}

// Service owns the mission lifecycle.
type Service struct {
	Repo         Repo
	Reference    ReferenceProvider
	Analysis     AnalysisProvider
	Archive      object.Store
	HistoryLimit int
	Now          func() time.Time
}

// AnalyzeResult is the terminal answer of Analyze.
type AnalyzeResult struct {
	Success  bool             `json:"success"`
	Mission  *Mission         `json:"mission,omitempty"`
	Analysis *MissionAnalysis `json:"analysis,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// ReportResult pairs a generated report with its mission.
type ReportResult struct {
	Success    bool             `json:"success"`
	Mission    *Mission         `json:"mission,omitempty"`
	Report     *analysis.Report `json:"report,omitempty"`
	Error      string           `json:"error,omitempty"`
	ArchiveKey string           `json:"archiveKey,omitempty"`
}

// Statistics summarizes all stored missions.
type Statistics struct {
	TotalMissions      int                       `json:"totalMissions"`
	CompletedMissions  int                       `json:"completedMissions"`
	FailedMissions     int                       `json:"failedMissions"`
	SuccessRate        float64                   `json:"successRate"`
	RiskDistribution   map[catalog.RiskLevel]int `json:"riskDistribution"`
	AverageFeasibility float64                   `json:"averageFeasibility"`
}

// ComparisonEntry is the compact projection of one compared mission.
type ComparisonEntry struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Destination      catalog.Destination `json:"destination"`
	FeasibilityScore *float64            `json:"feasibilityScore"`
	RiskLevel        catalog.RiskLevel   `json:"riskLevel"`
	DurationDays     int                 `json:"durationDays"`
	CrewSize         int                 `json:"crewSize"`
	Status           Status              `json:"status"`
}

// ComparisonMetrics holds arrays aligned with Comparison.Missions.
type ComparisonMetrics struct {
	FeasibilityScores []float64           `json:"feasibilityScores"`
	RiskLevels        []catalog.RiskLevel `json:"riskLevels"`
	Durations         []int               `json:"durations"`
	CrewSizes         []int               `json:"crewSizes"`
}

type Comparison struct {
	Missions []ComparisonEntry `json:"missions"`
	Metrics  ComparisonMetrics `json:"comparisonMetrics"`
}

// SimulationInput is a client-supplied simulation result.
type SimulationInput struct {
	TrajectoryData        json.RawMessage `json:"trajectoryData"`
	FuelConsumption       json.RawMessage `json:"fuelConsumption"`
	MissionTimeline       json.RawMessage `json:"missionTimeline"`
	SuccessProbability    *float64        `json:"successProbability"`
	RadiationExposure     *float64        `json:"radiationExposure"`
	TemperatureVariations json.RawMessage `json:"temperatureVariations"`
	MicrometeoriteRisk    *float64        `json:"micrometeoriteRisk"`
}

// Create persists a new draft mission from validated input.
func (s *Service) Create(ctx context.Context, in validation.MissionInput) (Mission, error) {
	now := s.now()
	mission := Mission{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(in.Name),
		Description:       strings.TrimSpace(in.Description),
		Destination:       in.Destination,
		LaunchDate:        in.LaunchDate.UTC(),
		DurationDays:      in.DurationDays,
		CrewSize:          in.CrewSize,
		SpacecraftType:    in.SpacecraftType,
		PayloadMassKg:     in.PayloadMassKg,
		FuelRequirementKg: in.FuelRequirementKg,
		Status:            StatusDraft,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.Repo.Create(ctx, mission); err != nil {
		telemetry.Error("mission.create_failed", map[string]any{
			"name":  mission.Name,
			"error": err,
		})
		return Mission{}, fmt.Errorf("%w: create mission: %v", ErrPersistence, err)
	}
	metrics.IncMissionCreated()
	telemetry.Info("mission.created", map[string]any{
		"mission_id":  mission.ID,
		"name":        mission.Name,
		"destination": string(mission.Destination),
	})
	return mission, nil
}

// Get returns a mission by ID.
func (s *Service) Get(ctx context.Context, id string) (Mission, error) {
	mission, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Mission{}, ErrNotFound
		}
		return Mission{}, fmt.Errorf("%w: get mission: %v", ErrPersistence, err)
	}
	return mission, nil
}

// LatestAnalysis returns the most recent analysis record, or nil when the
// mission has none.
func (s *Service) LatestAnalysis(ctx context.Context, missionID string) (*MissionAnalysis, error) {
	record, err := s.Repo.LatestAnalysis(ctx, missionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: latest analysis: %v", ErrPersistence, err)
	}
	return &record, nil
}

// Analyze runs one analysis attempt. Only a missing mission is returned as an
// error; every other outcome is a terminal AnalyzeResult and the mission ends
// in completed or failed.
func (s *Service) Analyze(ctx context.Context, id string) (result AnalyzeResult, err error) {
	mission, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AnalyzeResult{}, ErrNotFound
		}
		telemetry.Error("mission.lookup_failed", map[string]any{"mission_id": id, "error": err})
		return AnalyzeResult{Success: false, Error: sanitizeError(err)}, nil
	}

	startedAt := s.now()
	previous := mission.Status
	defer func() {
		if r := recover(); r != nil {
			result = s.failAnalysis(ctx, mission, fmt.Errorf("panic: %v", r), startedAt)
			err = nil
		}
	}()

	if !previous.CanTransition(StatusAnalyzing) {
		return s.failAnalysis(ctx, mission, ErrInvalidTransition, startedAt), nil
	}
	if err := s.Repo.UpdateStatus(ctx, id, StatusAnalyzing, nil, startedAt); err != nil {
		return s.failAnalysis(ctx, mission, fmt.Errorf("set analyzing: %w", err), startedAt), nil
	}
	mission.Status = StatusAnalyzing
	mission.AnalyzedAt = nil
	metrics.IncAnalysisStarted()
	telemetry.Info("mission.status", map[string]any{
		"request_id":        telemetry.RequestID(ctx),
		"mission_id":        id,
		"status":            StatusAnalyzing,
		"status_transition": string(previous) + "->" + string(StatusAnalyzing),
	})

	planetary := s.Reference.PlanetaryData(ctx, mission.Destination, mission.LaunchDate)
	window := s.Reference.MissionWindow(ctx, mission.Destination, mission.LaunchDate)
	reference := astro.Merge(planetary, window)

	assessment := s.Analysis.AssessFeasibility(ctx, mission.summary(), reference)

	completedAt := s.now()
	score := assessment.FeasibilityScore
	risk := assessment.RiskLevel
	mission.FeasibilityScore = &score
	mission.RiskLevel = &risk
	mission.Analysis = &assessment
	mission.ReferenceData = &reference
	mission.Status = StatusCompleted
	mission.LastError = nil
	mission.AnalyzedAt = &completedAt
	mission.UpdatedAt = completedAt

	record := MissionAnalysis{
		ID:                      uuid.NewString(),
		MissionID:               mission.ID,
		TrajectoryAnalysis:      assessment.TechnicalAnalysis,
		RiskAssessment:          assessment.RiskAssessment,
		ResourceRequirements:    assessment.ResourceRequirements,
		TimelineAnalysis:        assessment.Timeline,
		Recommendations:         assessment.Recommendations,
		OptimizationSuggestions: OptimizationSuggestions(assessment),
		CreatedAt:               completedAt,
	}
	if err := s.Repo.CompleteAnalysis(ctx, mission, record); err != nil {
		return s.failAnalysis(ctx, mission, fmt.Errorf("store analysis: %w", err), startedAt), nil
	}

	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDuration(completedAt.Sub(startedAt))
	telemetry.Info("mission.status", map[string]any{
		"request_id":        telemetry.RequestID(ctx),
		"mission_id":        id,
		"status":            StatusCompleted,
		"status_transition": "analyzing->completed",
		"feasibility_score": score,
		"risk_level":        string(risk),
		"fallback":          assessment.Fallback,
		"data_source":       reference.DataSource,
		"duration_ms":       durationMs(startedAt, completedAt),
	})
	return AnalyzeResult{Success: true, Mission: &mission, Analysis: &record}, nil
}

// failAnalysis marks the mission failed. It runs detached from ctx so a
// cancelled request still records the terminal state.
func (s *Service) failAnalysis(ctx context.Context, mission Mission, cause error, startedAt time.Time) AnalyzeResult {
	msg := sanitizeError(cause)
	completedAt := s.now()
	if updateErr := s.Repo.UpdateStatus(context.WithoutCancel(ctx), mission.ID, StatusFailed, &msg, completedAt); updateErr != nil {
		telemetry.Error("mission.fail_update_failed", map[string]any{
			"mission_id": mission.ID,
			"error":      updateErr,
			"cause":      msg,
		})
	}
	metrics.IncAnalysisFailed()
	metrics.ObserveAnalysisDuration(completedAt.Sub(startedAt))
	telemetry.Info("mission.status", map[string]any{
		"request_id":        telemetry.RequestID(ctx),
		"mission_id":        mission.ID,
		"status":            StatusFailed,
		"status_transition": string(mission.Status) + "->" + string(StatusFailed),
		"error":             msg,
		"duration_ms":       durationMs(startedAt, completedAt),
	})

	mission.Status = StatusFailed
	mission.LastError = &msg
	mission.AnalyzedAt = nil
	mission.UpdatedAt = completedAt
	return AnalyzeResult{Success: false, Mission: &mission, Error: msg}
}

// History returns the most recently created missions. Storage errors yield an
// empty slice.
func (s *Service) History(ctx context.Context, limit int) []Mission {
	return s.HistoryPage(ctx, limit, 0)
}

// HistoryPage is History with an offset.
func (s *Service) HistoryPage(ctx context.Context, limit, offset int) []Mission {
	if limit <= 0 {
		limit = s.historyLimit()
	}
	if offset < 0 {
		offset = 0
	}
	missions, err := s.Repo.ListRecent(ctx, limit, offset)
	if err != nil {
		telemetry.Error("mission.history_failed", map[string]any{"error": err})
		return []Mission{}
	}
	if missions == nil {
		return []Mission{}
	}
	return missions
}

// Statistics recomputes aggregate figures from storage. Storage errors yield
// zeroed statistics.
func (s *Service) Statistics(ctx context.Context) Statistics {
	stats := Statistics{RiskDistribution: make(map[catalog.RiskLevel]int)}
	for _, level := range catalog.RiskLevels() {
		stats.RiskDistribution[level] = 0
	}

	tally, err := s.Repo.Tally(ctx)
	if err != nil {
		telemetry.Error("mission.statistics_failed", map[string]any{"error": err})
		return stats
	}
	stats.TotalMissions = tally.Total
	stats.CompletedMissions = tally.Completed
	stats.FailedMissions = tally.Failed
	if tally.Total > 0 {
		stats.SuccessRate = float64(tally.Completed) / float64(tally.Total) * 100
	}
	for _, level := range catalog.RiskLevels() {
		stats.RiskDistribution[level] = tally.ByRisk[level]
	}
	if tally.ScoreCount > 0 {
		stats.AverageFeasibility = round2(tally.ScoreSum / float64(tally.ScoreCount))
	}
	return stats
}

// Compare projects two or more missions side by side, in the order given.
func (s *Service) Compare(ctx context.Context, ids []string) (Comparison, error) {
	missions, err := s.Repo.GetMany(ctx, ids)
	if err != nil {
		return Comparison{}, fmt.Errorf("%w: compare: %v", ErrPersistence, err)
	}
	if len(missions) < 2 {
		return Comparison{}, ErrTooFewMissions
	}

	out := Comparison{
		Missions: make([]ComparisonEntry, 0, len(missions)),
		Metrics: ComparisonMetrics{
			FeasibilityScores: make([]float64, 0, len(missions)),
			RiskLevels:        make([]catalog.RiskLevel, 0, len(missions)),
			Durations:         make([]int, 0, len(missions)),
			CrewSizes:         make([]int, 0, len(missions)),
		},
	}
	for _, m := range missions {
		risk := m.RiskOrUnknown()
		out.Missions = append(out.Missions, ComparisonEntry{
			ID:               m.ID,
			Name:             m.Name,
			Destination:      m.Destination,
			FeasibilityScore: m.FeasibilityScore,
			RiskLevel:        risk,
			DurationDays:     m.DurationDays,
			CrewSize:         m.CrewSize,
			Status:           m.Status,
		})
		score := 0.0
		if m.FeasibilityScore != nil {
			score = *m.FeasibilityScore
		}
		out.Metrics.FeasibilityScores = append(out.Metrics.FeasibilityScores, score)
		out.Metrics.RiskLevels = append(out.Metrics.RiskLevels, risk)
		out.Metrics.Durations = append(out.Metrics.Durations, m.DurationDays)
		out.Metrics.CrewSizes = append(out.Metrics.CrewSizes, m.CrewSize)
	}
	return out, nil
}

// Report generates a formal report for a completed mission. A successful
// report is archived best-effort when an archive store is configured.
func (s *Service) Report(ctx context.Context, id string) (ReportResult, error) {
	mission, err := s.Get(ctx, id)
	if err != nil {
		return ReportResult{}, err
	}
	if mission.Status != StatusCompleted {
		return ReportResult{Success: false, Mission: &mission, Error: errAnalysisNotCompleted}, nil
	}

	assessment, err := s.latestAssessment(ctx, mission)
	if err != nil {
		return ReportResult{Success: false, Mission: &mission, Error: sanitizeError(err)}, nil
	}
	report := s.Analysis.GenerateReport(ctx, mission.reportSummary(), assessment)

	result := ReportResult{Success: true, Mission: &mission, Report: &report}
	if !report.Failed() {
		result.ArchiveKey = s.archiveReport(ctx, mission, report)
	}
	telemetry.Info("mission.report", map[string]any{
		"request_id":  telemetry.RequestID(ctx),
		"mission_id":  mission.ID,
		"failed":      report.Failed(),
		"archive_key": result.ArchiveKey,
	})
	return result, nil
}

// latestAssessment prefers the assessment stored on the mission and falls back
// to rebuilding one from the latest analysis record.
func (s *Service) latestAssessment(ctx context.Context, mission Mission) (analysis.Assessment, error) {
	if mission.Analysis != nil {
		return *mission.Analysis, nil
	}
	record, err := s.LatestAnalysis(ctx, mission.ID)
	if err != nil {
		return analysis.Assessment{}, err
	}
	a := analysis.Assessment{
		RiskLevel:       mission.RiskOrUnknown(),
		Recommendations: []analysis.Text{},
		RiskAssessment:  analysis.RiskAssessment{PrimaryRisks: []analysis.Text{}},
	}
	if mission.FeasibilityScore != nil {
		a.FeasibilityScore = *mission.FeasibilityScore
	}
	if record != nil {
		a.TechnicalAnalysis = record.TrajectoryAnalysis
		a.RiskAssessment = record.RiskAssessment
		a.ResourceRequirements = record.ResourceRequirements
		a.Timeline = record.TimelineAnalysis
		a.Recommendations = record.Recommendations
		a.AnalyzedAt = record.CreatedAt
	}
	return a, nil
}

func (s *Service) archiveReport(ctx context.Context, mission Mission, report analysis.Report) string {
	if s.Archive == nil {
		return ""
	}
	payload, err := json.Marshal(struct {
		MissionID   string          `json:"missionId"`
		Name        string          `json:"name"`
		GeneratedAt time.Time       `json:"generatedAt"`
		Report      analysis.Report `json:"report"`
	}{
		MissionID:   mission.ID,
		Name:        mission.Name,
		GeneratedAt: s.now(),
		Report:      report,
	})
	if err != nil {
		telemetry.Warn("mission.report_archive_failed", map[string]any{"mission_id": mission.ID, "error": err})
		return ""
	}
	key := fmt.Sprintf("reports/%s/%d.json", mission.ID, s.now().UnixNano())
	if _, err := s.Archive.Put(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		telemetry.Warn("mission.report_archive_failed", map[string]any{"mission_id": mission.ID, "key": key, "error": err})
		return ""
	}
	return key
}

// RecordSimulation stores a simulation result for an existing mission.
func (s *Service) RecordSimulation(ctx context.Context, missionID string, in SimulationInput) (SimulationResult, error) {
	if _, err := s.Get(ctx, missionID); err != nil {
		return SimulationResult{}, err
	}
	if err := validateSimulation(in); err != nil {
		return SimulationResult{}, err
	}
	result := SimulationResult{
		ID:                    uuid.NewString(),
		MissionID:             missionID,
		TrajectoryData:        in.TrajectoryData,
		FuelConsumption:       in.FuelConsumption,
		MissionTimeline:       in.MissionTimeline,
		SuccessProbability:    in.SuccessProbability,
		RadiationExposure:     in.RadiationExposure,
		TemperatureVariations: in.TemperatureVariations,
		MicrometeoriteRisk:    in.MicrometeoriteRisk,
		CreatedAt:             s.now(),
	}
	if err := s.Repo.CreateSimulation(ctx, result); err != nil {
		if errors.Is(err, ErrNotFound) {
			return SimulationResult{}, ErrNotFound
		}
		return SimulationResult{}, fmt.Errorf("%w: create simulation: %v", ErrPersistence, err)
	}
	return result, nil
}

// Simulations lists simulation results for a mission, newest first.
func (s *Service) Simulations(ctx context.Context, missionID string) ([]SimulationResult, error) {
	if _, err := s.Get(ctx, missionID); err != nil {
		return nil, err
	}
	results, err := s.Repo.ListSimulations(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("%w: list simulations: %v", ErrPersistence, err)
	}
	return results, nil
}

// Delete removes a mission and everything it owns.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: delete mission: %v", ErrPersistence, err)
	}
	telemetry.Info("mission.deleted", map[string]any{
		"request_id": telemetry.RequestID(ctx),
		"mission_id": id,
	})
	return nil
}

func validateSimulation(in SimulationInput) error {
	if p := in.SuccessProbability; p != nil && (*p < 0 || *p > 1) {
		return fmt.Errorf("%w: successProbability must be between 0 and 1", ErrInvalidSimulation)
	}
	if r := in.MicrometeoriteRisk; r != nil && (*r < 0 || *r > 1) {
		return fmt.Errorf("%w: micrometeoriteRisk must be between 0 and 1", ErrInvalidSimulation)
	}
	if r := in.RadiationExposure; r != nil && *r < 0 {
		return fmt.Errorf("%w: radiationExposure must not be negative", ErrInvalidSimulation)
	}
	for name, raw := range map[string]json.RawMessage{
		"trajectoryData":        in.TrajectoryData,
		"fuelConsumption":       in.FuelConsumption,
		"missionTimeline":       in.MissionTimeline,
		"temperatureVariations": in.TemperatureVariations,
	} {
		if len(raw) > 0 && !json.Valid(raw) {
			return fmt.Errorf("%w: %s is not valid JSON", ErrInvalidSimulation, name)
		}
	}
	return nil
}

func (s *Service) historyLimit() int {
	if s.HistoryLimit > 0 {
		return s.HistoryLimit
	}
	return defaultHistoryLimit
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func durationMs(startedAt, completedAt time.Time) float64 {
	return float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	return strings.ToValidUTF8(msg, "")
}
