// Package astro provides reference orbital data and launch-window estimates for
// mission destinations. A live lookup against the NASA API is attempted on each
// request; the orbital facts always come from the built-in table.
package astro

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mission-backend/internal/catalog"
	"mission-backend/internal/shared/metrics"
	"mission-backend/internal/shared/telemetry"
)

const (
	DefaultBaseURL = "https://api.nasa.gov/planetary/apod"
	DemoAPIKey     = "DEMO_KEY"

	SourceLiveAugmented = "live-augmented"
	SourceFallbackOnly  = "fallback-only"

	fallbackWarning = "Using fallback data - NASA API unavailable"
	windowError     = "Unable to calculate mission window"
)

// PlanetaryData is the reference payload for one destination.
type PlanetaryData struct {
	Destination       catalog.Destination `json:"destination"`
	OrbitalParameters OrbitalParameters   `json:"orbital_parameters"`
	DataSource        string              `json:"data_source"`
	RetrievedAt       time.Time           `json:"retrieved_at"`
	APIKeyUsed        bool                `json:"api_key_used"`
	Warning           string              `json:"warning,omitempty"`
}

// Live reports whether the live lookup succeeded for this payload.
func (p PlanetaryData) Live() bool {
	return p.DataSource == SourceLiveAugmented
}

// MissionWindow is a coarse launch-window estimate. When Error is set only the
// echoed inputs are meaningful.
type MissionWindow struct {
	Destination      catalog.Destination `json:"destination"`
	LaunchDate       string              `json:"launch_date"`
	WindowDuration   int                 `json:"window_duration,omitempty"`
	NextWindowInDays int                 `json:"next_window_in_days,omitempty"`
	OptimalWindow    bool                `json:"optimal_window"`
	Recommendation   string              `json:"recommendation,omitempty"`
	Error            string              `json:"error,omitempty"`
}

// Reference merges planetary data and the mission window into one payload.
type Reference struct {
	PlanetaryData
	MissionWindow MissionWindow `json:"mission_window"`
}

// Merge combines both lookups into a single reference payload.
func Merge(data PlanetaryData, window MissionWindow) Reference {
	return Reference{PlanetaryData: data, MissionWindow: window}
}

// Provider answers reference-data lookups. It never returns an error.
type Provider struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Now        func() time.Time
}

// NewProvider constructs a Provider with a bounded HTTP timeout.
func NewProvider(baseURL, apiKey string, timeout time.Duration) *Provider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(apiKey) == "" {
		apiKey = DemoAPIKey
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Provider{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// PlanetaryData attempts one live lookup and returns the orbital parameters for
// destination regardless of its outcome.
func (p *Provider) PlanetaryData(ctx context.Context, destination catalog.Destination, _ time.Time) PlanetaryData {
	data := PlanetaryData{
		Destination:       destination,
		OrbitalParameters: Orbit(destination),
		DataSource:        SourceFallbackOnly,
		RetrievedAt:       p.now(),
		APIKeyUsed:        p.APIKey != "" && p.APIKey != DemoAPIKey,
	}

	if err := p.lookupLive(ctx); err != nil {
		metrics.IncProviderFallback("reference")
		telemetry.Warn("reference.lookup_failed", map[string]any{
			"destination": string(destination),
			"error":       err.Error(),
		})
		data.Warning = fallbackWarning
		return data
	}
	data.DataSource = SourceLiveAugmented
	return data
}

// MissionWindow estimates the launch window. A launch on or before the 15th of
// the month is flagged optimal; the heuristic has no orbital derivation.
func (p *Provider) MissionWindow(_ context.Context, destination catalog.Destination, launchDate time.Time) MissionWindow {
	if launchDate.IsZero() {
		return MissionWindow{
			Destination: destination,
			Error:       windowError,
		}
	}

	w := windowFor(destination)
	optimal := launchDate.Day() <= 15
	recommendation := "Consider adjusting launch date"
	if optimal {
		recommendation = "Optimal launch window"
	}
	return MissionWindow{
		Destination:      destination,
		LaunchDate:       launchDate.Format("2006-01-02"),
		WindowDuration:   w.DurationDays,
		NextWindowInDays: w.FrequencyDays,
		OptimalWindow:    optimal,
		Recommendation:   recommendation,
	}
}

func (p *Provider) lookupLive(ctx context.Context) error {
	if p == nil || p.HTTPClient == nil || strings.TrimSpace(p.BaseURL) == "" {
		return fmt.Errorf("reference lookup not configured")
	}
	endpoint, err := url.Parse(p.BaseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	q := endpoint.Query()
	q.Set("api_key", p.APIKey)
	q.Set("count", "1")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("nasa request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("nasa http status %d", resp.StatusCode)
	}
	return nil
}

func (p *Provider) now() time.Time {
	if p != nil && p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}
