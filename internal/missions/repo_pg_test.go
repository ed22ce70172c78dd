package missions

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"mission-backend/internal/analysis"
	"mission-backend/internal/catalog"
)

var missionColumnNames = []string{
	"id", "name", "description", "destination", "launch_date", "mission_duration", "crew_size", "spacecraft_type",
	"payload_mass", "fuel_requirements", "status", "risk_level", "feasibility_score", "ai_analysis", "nasa_data",
	"last_error", "created_at", "updated_at", "analyzed_at",
}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	mission := Mission{
		ID:             "m-1",
		Name:           "Ares I",
		Destination:    catalog.Mars,
		LaunchDate:     fixedNow.AddDate(0, 2, 0),
		DurationDays:   500,
		CrewSize:       4,
		SpacecraftType: catalog.Orion,
		Status:         StatusDraft,
		CreatedAt:      fixedNow,
		UpdatedAt:      fixedNow,
	}

	mock.ExpectExec("INSERT INTO missions").
		WithArgs(
			"m-1",
			"Ares I",
			"",
			"mars",
			sqlmock.AnyArg(), // launch_date
			int64(500),
			int64(4),
			"orion",
			sqlmock.AnyArg(), // payload_mass
			sqlmock.AnyArg(), // fuel_requirements
			"draft",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), mission); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM missions WHERE id = ").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(missionColumnNames))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByIDDecodesRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	analyzedAt := fixedNow.Add(time.Hour)
	rows := sqlmock.NewRows(missionColumnNames).AddRow(
		"m-1", "Ares I", "crewed flyby", "mars", fixedNow, int64(500), int64(4), "orion",
		float64(1200), nil, "completed", "high", float64(72.5),
		`{"feasibility_score":72.5,"risk_level":"high","recommendations":["shielding"],"risk_assessment":{"primary_risks":[]}}`,
		`{}`,
		nil, fixedNow, fixedNow, analyzedAt,
	)
	mock.ExpectQuery("FROM missions WHERE id = ").WithArgs("m-1").WillReturnRows(rows)

	m, err := repo.GetByID(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if m.Status != StatusCompleted || m.RiskOrUnknown() != catalog.RiskHigh {
		t.Fatalf("unexpected status/risk: %s %s", m.Status, m.RiskOrUnknown())
	}
	if m.PayloadMassKg == nil || *m.PayloadMassKg != 1200 || m.FuelRequirementKg != nil {
		t.Fatalf("unexpected masses: %v %v", m.PayloadMassKg, m.FuelRequirementKg)
	}
	if m.Analysis == nil || m.Analysis.FeasibilityScore != 72.5 || len(m.Analysis.Recommendations) != 1 {
		t.Fatalf("unexpected analysis: %+v", m.Analysis)
	}
	if m.ReferenceData == nil {
		t.Fatalf("expected reference data")
	}
	if m.AnalyzedAt == nil || !m.AnalyzedAt.Equal(analyzedAt) {
		t.Fatalf("unexpected analyzed_at: %v", m.AnalyzedAt)
	}
	if m.LastError != nil {
		t.Fatalf("expected nil last error")
	}
}

func TestPGRepoGetManyKeepsRequestOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows(missionColumnNames).
		AddRow("m-1", "One", "", "mars", fixedNow, int64(10), int64(1), "orion", nil, nil, "draft", nil, nil, nil, nil, nil, fixedNow, fixedNow, nil).
		AddRow("m-2", "Two", "", "moon", fixedNow, int64(20), int64(2), "dragon", nil, nil, "draft", nil, nil, nil, nil, nil, fixedNow, fixedNow, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id IN ($1, $2)")).
		WithArgs("m-2", "m-1").
		WillReturnRows(rows)

	got, err := repo.GetMany(context.Background(), []string{"m-2", "m-1", "m-2"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 2 || got[0].ID != "m-2" || got[1].ID != "m-1" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestPGRepoUpdateStatusMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	msg := "boom"
	mock.ExpectExec("UPDATE missions").
		WithArgs("m-1", "failed", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "m-1", StatusFailed, &msg, fixedNow)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func completedFixture() (Mission, MissionAnalysis) {
	a := goodAssessment(80, catalog.RiskLow)
	score := a.FeasibilityScore
	risk := a.RiskLevel
	at := fixedNow
	mission := Mission{
		ID:               "m-1",
		Status:           StatusCompleted,
		FeasibilityScore: &score,
		RiskLevel:        &risk,
		Analysis:         &a,
		AnalyzedAt:       &at,
		UpdatedAt:        at,
	}
	record := MissionAnalysis{
		ID:                      "a-1",
		MissionID:               "m-1",
		Recommendations:         []analysis.Text{"add shielding"},
		OptimizationSuggestions: OptimizationSuggestions(a),
		CreatedAt:               at,
	}
	return mission, record
}

func TestPGRepoCompleteAnalysisCommits(t *testing.T) {
	repo, mock := newMockRepo(t)
	mission, record := completedFixture()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE missions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO mission_analyses").
		WithArgs("a-1", "m-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.CompleteAnalysis(context.Background(), mission, record); err != nil {
		t.Fatalf("CompleteAnalysis: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCompleteAnalysisRollsBackOnInsertError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mission, record := completedFixture()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE missions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO mission_analyses").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	if err := repo.CompleteAnalysis(context.Background(), mission, record); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoTally(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"total", "completed", "failed", "low", "medium", "high", "critical", "sum", "count"}).
		AddRow(int64(4), int64(2), int64(1), int64(1), int64(1), int64(0), int64(0), float64(150), int64(2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).WillReturnRows(rows)

	tally, err := repo.Tally(context.Background())
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if tally.Total != 4 || tally.Completed != 2 || tally.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", tally)
	}
	if tally.ByRisk[catalog.RiskLow] != 1 || tally.ByRisk[catalog.RiskMedium] != 1 || tally.ScoreSum != 150 || tally.ScoreCount != 2 {
		t.Fatalf("unexpected tally: %+v", tally)
	}
}

func TestPGRepoLatestAnalysisNone(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM mission_analyses WHERE mission_id").
		WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "mission_id", "trajectory_analysis", "risk_assessment", "resource_requirements", "timeline_analysis", "recommendations", "optimization_suggestions", "created_at"}))

	if _, err := repo.LatestAnalysis(context.Background(), "m-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDelete(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM missions").WithArgs("m-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM missions").WithArgs("m-1").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "m-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(context.Background(), "m-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
