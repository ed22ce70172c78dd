package health

import (
	"context"
	"time"
)

const (
	Version = "1.0.0"

	StateOperational   = "operational"
	StateDegraded      = "degraded"
	StateNotConfigured = "not_configured"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	DB Pinger
	// ReferenceURL is the live reference-data endpoint; empty means lookups
	// always use built-in tables.
	ReferenceURL string
	// Model is the configured language model, "none" when analysis runs on
	// fallbacks only.
	Model       string
	PingTimeout time.Duration
}

// Report is the status payload.
type Report struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
	Version  string            `json:"version"`
}

// NewService constructs a new health service.
func NewService(db Pinger, referenceURL, model string) *Service {
	return &Service{DB: db, ReferenceURL: referenceURL, Model: model, PingTimeout: 2 * time.Second}
}

// Status checks each dependency. The overall status is degraded when any
// configured dependency is unhealthy.
func (s *Service) Status(ctx context.Context) Report {
	services := map[string]string{
		"database":   s.databaseState(ctx),
		"nasa_api":   StateOperational,
		"ai_service": StateOperational,
	}
	if s.ReferenceURL == "" {
		services["nasa_api"] = StateNotConfigured
	}
	if s.Model == "" || s.Model == "none" {
		services["ai_service"] = StateNotConfigured
	}

	overall := StateOperational
	for _, state := range services {
		if state == StateDegraded {
			overall = StateDegraded
		}
	}
	return Report{Status: overall, Services: services, Version: Version}
}

func (s *Service) databaseState(ctx context.Context) string {
	if s.DB == nil {
		return StateNotConfigured
	}
	timeout := s.PingTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		return StateDegraded
	}
	return StateOperational
}
