package missions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"mission-backend/internal/analysis"
	"mission-backend/internal/astro"
	"mission-backend/internal/catalog"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const missionColumns = `id, name, description, destination, launch_date, mission_duration, crew_size, spacecraft_type,
       payload_mass, fuel_requirements, status, risk_level, feasibility_score, ai_analysis, nasa_data,
       last_error, created_at, updated_at, analyzed_at`

// Create inserts a new mission.
func (r *PGRepo) Create(ctx context.Context, mission Mission) error {
	const query = `
INSERT INTO missions (
	id, name, description, destination, launch_date, mission_duration, crew_size, spacecraft_type,
	payload_mass, fuel_requirements, status, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.DB.ExecContext(ctx, query,
		mission.ID,
		mission.Name,
		mission.Description,
		string(mission.Destination),
		mission.LaunchDate,
		mission.DurationDays,
		mission.CrewSize,
		string(mission.SpacecraftType),
		nullFloat(mission.PayloadMassKg),
		nullFloat(mission.FuelRequirementKg),
		string(mission.Status),
		mission.CreatedAt,
		mission.UpdatedAt,
	)
	return err
}

// GetByID returns a mission by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions WHERE id = $1 LIMIT 1`
	mission, err := scanMission(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Mission{}, ErrNotFound
	}
	return mission, err
}

// GetMany returns existing missions in the order of ids.
func (r *PGRepo) GetMany(ctx context.Context, ids []string) ([]Mission, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return []Mission{}, nil
	}

	placeholders := make([]string, len(unique))
	args := make([]any, len(unique))
	for i, id := range unique {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `SELECT ` + missionColumns + ` FROM missions WHERE id IN (` + strings.Join(placeholders, ", ") + `)`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[string]Mission, len(unique))
	for rows.Next() {
		mission, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		found[mission.ID] = mission
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Mission, 0, len(found))
	for _, id := range unique {
		if mission, ok := found[id]; ok {
			out = append(out, mission)
		}
	}
	return out, nil
}

// UpdateStatus sets status and last_error; analyzed_at is cleared unless completed.
func (r *PGRepo) UpdateStatus(ctx context.Context, id string, status Status, lastError *string, at time.Time) error {
	const query = `
UPDATE missions
SET status = $2,
    last_error = $3,
    analyzed_at = CASE WHEN $2 = 'completed' THEN analyzed_at ELSE NULL END,
    updated_at = $4
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, string(status), nullString(lastError), at)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// CompleteAnalysis updates the mission and inserts the analysis record in one transaction.
func (r *PGRepo) CompleteAnalysis(ctx context.Context, mission Mission, record MissionAnalysis) error {
	aiAnalysis, err := marshalJSONB(mission.Analysis)
	if err != nil {
		return err
	}
	nasaData, err := marshalJSONB(mission.ReferenceData)
	if err != nil {
		return err
	}
	trajectory, err := marshalJSONB(record.TrajectoryAnalysis)
	if err != nil {
		return err
	}
	risk, err := marshalJSONB(record.RiskAssessment)
	if err != nil {
		return err
	}
	resources, err := marshalJSONB(record.ResourceRequirements)
	if err != nil {
		return err
	}
	timeline, err := marshalJSONB(record.TimelineAnalysis)
	if err != nil {
		return err
	}
	recommendations, err := marshalJSONB(record.Recommendations)
	if err != nil {
		return err
	}
	suggestions, err := marshalJSONB(record.OptimizationSuggestions)
	if err != nil {
		return err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var riskLevel sql.NullString
	if mission.RiskLevel != nil {
		riskLevel = sql.NullString{String: string(*mission.RiskLevel), Valid: true}
	}
	var analyzedAt sql.NullTime
	if mission.AnalyzedAt != nil {
		analyzedAt = sql.NullTime{Time: *mission.AnalyzedAt, Valid: true}
	}

	const updateQuery = `
UPDATE missions
SET status = $2, risk_level = $3, feasibility_score = $4, ai_analysis = $5, nasa_data = $6,
    last_error = NULL, analyzed_at = $7, updated_at = $8
WHERE id = $1`
	res, err := tx.ExecContext(ctx, updateQuery,
		mission.ID,
		string(mission.Status),
		riskLevel,
		nullFloat(mission.FeasibilityScore),
		aiAnalysis,
		nasaData,
		analyzedAt,
		mission.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if err := requireRow(res); err != nil {
		return err
	}

	const insertQuery = `
INSERT INTO mission_analyses (
	id, mission_id, trajectory_analysis, risk_assessment, resource_requirements, timeline_analysis,
	recommendations, optimization_suggestions, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := tx.ExecContext(ctx, insertQuery,
		record.ID,
		record.MissionID,
		trajectory,
		risk,
		resources,
		timeline,
		recommendations,
		suggestions,
		record.CreatedAt,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// ListRecent returns missions newest first with limit/offset.
func (r *PGRepo) ListRecent(ctx context.Context, limit, offset int) ([]Mission, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + missionColumns + ` FROM missions ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Mission{}
	for rows.Next() {
		mission, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, mission)
	}
	return out, rows.Err()
}

// Tally aggregates counts in a single pass over missions.
func (r *PGRepo) Tally(ctx context.Context) (Tally, error) {
	const query = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status = 'completed'),
       COUNT(*) FILTER (WHERE status = 'failed'),
       COUNT(*) FILTER (WHERE risk_level = 'low'),
       COUNT(*) FILTER (WHERE risk_level = 'medium'),
       COUNT(*) FILTER (WHERE risk_level = 'high'),
       COUNT(*) FILTER (WHERE risk_level = 'critical'),
       COALESCE(SUM(feasibility_score), 0),
       COUNT(feasibility_score)
FROM missions`
	var t Tally
	var low, medium, high, critical int
	if err := r.DB.QueryRowContext(ctx, query).Scan(
		&t.Total,
		&t.Completed,
		&t.Failed,
		&low,
		&medium,
		&high,
		&critical,
		&t.ScoreSum,
		&t.ScoreCount,
	); err != nil {
		return Tally{}, err
	}
	t.ByRisk = map[catalog.RiskLevel]int{
		catalog.RiskLow:      low,
		catalog.RiskMedium:   medium,
		catalog.RiskHigh:     high,
		catalog.RiskCritical: critical,
	}
	return t, nil
}

const analysisColumns = `id, mission_id, trajectory_analysis, risk_assessment, resource_requirements, timeline_analysis,
       recommendations, optimization_suggestions, created_at`

// LatestAnalysis returns the most recent analysis record for a mission.
func (r *PGRepo) LatestAnalysis(ctx context.Context, missionID string) (MissionAnalysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM mission_analyses WHERE mission_id = $1 ORDER BY created_at DESC LIMIT 1`
	record, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, missionID))
	if errors.Is(err, sql.ErrNoRows) {
		return MissionAnalysis{}, ErrNotFound
	}
	return record, err
}

// ListAnalyses returns analysis records newest first.
func (r *PGRepo) ListAnalyses(ctx context.Context, missionID string) ([]MissionAnalysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM mission_analyses WHERE mission_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, missionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []MissionAnalysis{}
	for rows.Next() {
		record, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// CreateSimulation inserts a simulation result.
func (r *PGRepo) CreateSimulation(ctx context.Context, result SimulationResult) error {
	const query = `
INSERT INTO simulation_results (
	id, mission_id, trajectory_data, fuel_consumption, mission_timeline, success_probability,
	radiation_exposure, temperature_variations, micrometeorite_risk, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		result.ID,
		result.MissionID,
		rawJSONB(result.TrajectoryData),
		rawJSONB(result.FuelConsumption),
		rawJSONB(result.MissionTimeline),
		nullFloat(result.SuccessProbability),
		nullFloat(result.RadiationExposure),
		rawJSONB(result.TemperatureVariations),
		nullFloat(result.MicrometeoriteRisk),
		result.CreatedAt,
	)
	return err
}

// ListSimulations returns simulation results newest first.
func (r *PGRepo) ListSimulations(ctx context.Context, missionID string) ([]SimulationResult, error) {
	const query = `
SELECT id, mission_id, trajectory_data, fuel_consumption, mission_timeline, success_probability,
       radiation_exposure, temperature_variations, micrometeorite_risk, created_at
FROM simulation_results
WHERE mission_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, missionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SimulationResult{}
	for rows.Next() {
		var s SimulationResult
		var trajectory, fuel, timeline, temperature sql.NullString
		var probability, radiation, micrometeorite sql.NullFloat64
		if err := rows.Scan(
			&s.ID,
			&s.MissionID,
			&trajectory,
			&fuel,
			&timeline,
			&probability,
			&radiation,
			&temperature,
			&micrometeorite,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		s.TrajectoryData = rawFromNull(trajectory)
		s.FuelConsumption = rawFromNull(fuel)
		s.MissionTimeline = rawFromNull(timeline)
		s.TemperatureVariations = rawFromNull(temperature)
		s.SuccessProbability = floatFromNull(probability)
		s.RadiationExposure = floatFromNull(radiation)
		s.MicrometeoriteRisk = floatFromNull(micrometeorite)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes a mission; owned rows go with it through ON DELETE CASCADE.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM missions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMission(row rowScanner) (Mission, error) {
	var m Mission
	var destination, spacecraft, status string
	var payload, fuel, score sql.NullFloat64
	var risk, aiAnalysis, nasaData, lastError sql.NullString
	var analyzedAt sql.NullTime
	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Description,
		&destination,
		&m.LaunchDate,
		&m.DurationDays,
		&m.CrewSize,
		&spacecraft,
		&payload,
		&fuel,
		&status,
		&risk,
		&score,
		&aiAnalysis,
		&nasaData,
		&lastError,
		&m.CreatedAt,
		&m.UpdatedAt,
		&analyzedAt,
	); err != nil {
		return Mission{}, err
	}
	m.Destination = catalog.Destination(destination)
	m.SpacecraftType = catalog.SpacecraftType(spacecraft)
	m.Status = Status(status)
	m.PayloadMassKg = floatFromNull(payload)
	m.FuelRequirementKg = floatFromNull(fuel)
	m.FeasibilityScore = floatFromNull(score)
	if risk.Valid {
		level := catalog.RiskLevel(risk.String)
		m.RiskLevel = &level
	}
	if lastError.Valid {
		msg := lastError.String
		m.LastError = &msg
	}
	if analyzedAt.Valid {
		t := analyzedAt.Time
		m.AnalyzedAt = &t
	}
	if aiAnalysis.Valid && aiAnalysis.String != "" && aiAnalysis.String != "null" {
		var a analysis.Assessment
		if err := json.Unmarshal([]byte(aiAnalysis.String), &a); err != nil {
			return Mission{}, fmt.Errorf("decode ai_analysis: %w", err)
		}
		m.Analysis = &a
	}
	if nasaData.Valid && nasaData.String != "" && nasaData.String != "null" {
		var ref astro.Reference
		if err := json.Unmarshal([]byte(nasaData.String), &ref); err != nil {
			return Mission{}, fmt.Errorf("decode nasa_data: %w", err)
		}
		m.ReferenceData = &ref
	}
	return m, nil
}

func scanAnalysis(row rowScanner) (MissionAnalysis, error) {
	var a MissionAnalysis
	var trajectory, risk, resources, timeline, recommendations, suggestions sql.NullString
	if err := row.Scan(
		&a.ID,
		&a.MissionID,
		&trajectory,
		&risk,
		&resources,
		&timeline,
		&recommendations,
		&suggestions,
		&a.CreatedAt,
	); err != nil {
		return MissionAnalysis{}, err
	}
	if err := unmarshalNull(trajectory, &a.TrajectoryAnalysis); err != nil {
		return MissionAnalysis{}, fmt.Errorf("decode trajectory_analysis: %w", err)
	}
	if err := unmarshalNull(risk, &a.RiskAssessment); err != nil {
		return MissionAnalysis{}, fmt.Errorf("decode risk_assessment: %w", err)
	}
	if err := unmarshalNull(resources, &a.ResourceRequirements); err != nil {
		return MissionAnalysis{}, fmt.Errorf("decode resource_requirements: %w", err)
	}
	if err := unmarshalNull(timeline, &a.TimelineAnalysis); err != nil {
		return MissionAnalysis{}, fmt.Errorf("decode timeline_analysis: %w", err)
	}
	if err := unmarshalNull(recommendations, &a.Recommendations); err != nil {
		return MissionAnalysis{}, fmt.Errorf("decode recommendations: %w", err)
	}
	if err := unmarshalNull(suggestions, &a.OptimizationSuggestions); err != nil {
		return MissionAnalysis{}, fmt.Errorf("decode optimization_suggestions: %w", err)
	}
	if a.Recommendations == nil {
		a.Recommendations = []analysis.Text{}
	}
	if a.OptimizationSuggestions == nil {
		a.OptimizationSuggestions = []string{}
	}
	return a, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalJSONB(value any) ([]byte, error) {
	if value == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(value)
}

func rawJSONB(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

func unmarshalNull(raw sql.NullString, dst any) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw.String), dst)
}

func rawFromNull(raw sql.NullString) json.RawMessage {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	return json.RawMessage(raw.String)
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatFromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
