package missions

import (
	"context"
	"time"
)

// Repo defines persistence operations for missions and their owned records.
type Repo interface {
	Create(ctx context.Context, mission Mission) error
	GetByID(ctx context.Context, id string) (Mission, error)
	// GetMany returns the missions that exist, in the order of ids, without duplicates.
	GetMany(ctx context.Context, ids []string) ([]Mission, error)
	// UpdateStatus sets status and last error. analyzed_at is cleared for any status but completed.
	UpdateStatus(ctx context.Context, id string, status Status, lastError *string, at time.Time) error
	// CompleteAnalysis persists the completed mission and its analysis record atomically.
	CompleteAnalysis(ctx context.Context, mission Mission, record MissionAnalysis) error
	ListRecent(ctx context.Context, limit, offset int) ([]Mission, error)
	Tally(ctx context.Context) (Tally, error)
	LatestAnalysis(ctx context.Context, missionID string) (MissionAnalysis, error)
	ListAnalyses(ctx context.Context, missionID string) ([]MissionAnalysis, error)
	CreateSimulation(ctx context.Context, result SimulationResult) error
	ListSimulations(ctx context.Context, missionID string) ([]SimulationResult, error)
	// Delete removes the mission with its analyses and simulations.
	Delete(ctx context.Context, id string) error
}
