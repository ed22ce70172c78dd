package health

import (
	"context"
	"errors"
	"testing"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

func TestStatusAllOperational(t *testing.T) {
	svc := NewService(stubPinger{}, "https://api.nasa.gov/planetary/apod", "gpt-4o")
	report := svc.Status(context.Background())
	if report.Status != StateOperational {
		t.Fatalf("expected operational, got %q", report.Status)
	}
	if report.Version != "1.0.0" {
		t.Fatalf("unexpected version %q", report.Version)
	}
	for _, name := range []string{"database", "nasa_api", "ai_service"} {
		if report.Services[name] != StateOperational {
			t.Fatalf("expected %s operational, got %q", name, report.Services[name])
		}
	}
}

func TestStatusDegradedOnPingFailure(t *testing.T) {
	svc := NewService(stubPinger{err: errors.New("down")}, "https://api.nasa.gov/planetary/apod", "gpt-4o")
	report := svc.Status(context.Background())
	if report.Status != StateDegraded {
		t.Fatalf("expected degraded, got %q", report.Status)
	}
	if report.Services["database"] != StateDegraded {
		t.Fatalf("expected database degraded, got %q", report.Services["database"])
	}
}

func TestStatusNotConfiguredIsStillOperational(t *testing.T) {
	svc := NewService(nil, "", "none")
	report := svc.Status(context.Background())
	if report.Status != StateOperational {
		t.Fatalf("expected operational, got %q", report.Status)
	}
	for _, name := range []string{"database", "nasa_api", "ai_service"} {
		if report.Services[name] != StateNotConfigured {
			t.Fatalf("expected %s not_configured, got %q", name, report.Services[name])
		}
	}
}
