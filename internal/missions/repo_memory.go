package missions

import (
	"context"
	"sort"
	"sync"
	"time"

	"mission-backend/internal/catalog"
)

// MemoryRepo stores missions in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu          sync.RWMutex
	byID        map[string]Mission
	analyses    map[string][]MissionAnalysis
	simulations map[string][]SimulationResult
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:        make(map[string]Mission),
		analyses:    make(map[string][]MissionAnalysis),
		simulations: make(map[string][]SimulationResult),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, mission Mission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[mission.ID] = mission
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Mission, error) {
	if err := ctx.Err(); err != nil {
		return Mission{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	mission, ok := r.byID[id]
	if !ok {
		return Mission{}, ErrNotFound
	}
	return mission, nil
}

func (r *MemoryRepo) GetMany(ctx context.Context, ids []string) ([]Mission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool, len(ids))
	out := make([]Mission, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if mission, ok := r.byID[id]; ok {
			out = append(out, mission)
		}
	}
	return out, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id string, status Status, lastError *string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	mission, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	mission.Status = status
	mission.LastError = lastError
	if status != StatusCompleted {
		mission.AnalyzedAt = nil
	}
	mission.UpdatedAt = at
	r.byID[id] = mission
	return nil
}

func (r *MemoryRepo) CompleteAnalysis(ctx context.Context, mission Mission, record MissionAnalysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[mission.ID]; !ok {
		return ErrNotFound
	}
	r.byID[mission.ID] = mission
	r.analyses[mission.ID] = append(r.analyses[mission.ID], record)
	return nil
}

// ListRecent returns missions newest first with limit/offset.
func (r *MemoryRepo) ListRecent(ctx context.Context, limit, offset int) ([]Mission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	all := make([]Mission, 0, len(r.byID))
	for _, m := range r.byID {
		all = append(all, m)
	}
	r.mu.RUnlock()

	if offset >= len(all) {
		return []Mission{}, nil
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (r *MemoryRepo) Tally(ctx context.Context) (Tally, error) {
	if err := ctx.Err(); err != nil {
		return Tally{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t := Tally{ByRisk: make(map[catalog.RiskLevel]int)}
	for _, m := range r.byID {
		t.Total++
		switch m.Status {
		case StatusCompleted:
			t.Completed++
		case StatusFailed:
			t.Failed++
		}
		if m.RiskLevel != nil {
			t.ByRisk[*m.RiskLevel]++
		}
		if m.FeasibilityScore != nil {
			t.ScoreSum += *m.FeasibilityScore
			t.ScoreCount++
		}
	}
	return t, nil
}

func (r *MemoryRepo) LatestAnalysis(ctx context.Context, missionID string) (MissionAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return MissionAnalysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := r.analyses[missionID]
	if len(records) == 0 {
		return MissionAnalysis{}, ErrNotFound
	}
	return records[len(records)-1], nil
}

// ListAnalyses returns analysis records newest first.
func (r *MemoryRepo) ListAnalyses(ctx context.Context, missionID string) ([]MissionAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := r.analyses[missionID]
	out := make([]MissionAnalysis, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		out = append(out, records[i])
	}
	return out, nil
}

func (r *MemoryRepo) CreateSimulation(ctx context.Context, result SimulationResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[result.MissionID]; !ok {
		return ErrNotFound
	}
	r.simulations[result.MissionID] = append(r.simulations[result.MissionID], result)
	return nil
}

// ListSimulations returns simulation results newest first.
func (r *MemoryRepo) ListSimulations(ctx context.Context, missionID string) ([]SimulationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := r.simulations[missionID]
	out := make([]SimulationResult, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		out = append(out, records[i])
	}
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.analyses, id)
	delete(r.simulations, id)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
