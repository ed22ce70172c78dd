package catalog

import "testing"

func TestDestinationsAreValid(t *testing.T) {
	got := Destinations()
	if len(got) != 10 {
		t.Fatalf("expected 10 destinations, got %d", len(got))
	}
	for _, d := range got {
		if !d.Valid() {
			t.Fatalf("destination %q should be valid", d)
		}
	}
	if Destination("pluto").Valid() {
		t.Fatalf("pluto should not be a valid destination")
	}
}

func TestDestinationLabel(t *testing.T) {
	if got := AsteroidBelt.Label(); got != "Asteroid Belt" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := Destination("pluto").Label(); got != "pluto" {
		t.Fatalf("unknown destination label should echo input, got %q", got)
	}
}

func TestSpacecraftTypes(t *testing.T) {
	if len(SpacecraftTypes()) != 5 {
		t.Fatalf("expected 5 spacecraft types")
	}
	if SpacecraftType("shuttle").Valid() {
		t.Fatalf("shuttle should not be valid")
	}
	if Dragon.Label() != "SpaceX Dragon" {
		t.Fatalf("unexpected label %q", Dragon.Label())
	}
}

func TestParseRiskLevel(t *testing.T) {
	tests := []struct {
		raw    string
		want   RiskLevel
		wantOK bool
	}{
		{raw: "low", want: RiskLow, wantOK: true},
		{raw: " HIGH ", want: RiskHigh, wantOK: true},
		{raw: "Critical", want: RiskCritical, wantOK: true},
		{raw: "severe", wantOK: false},
		{raw: "", wantOK: false},
		{raw: "unknown", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ParseRiskLevel(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("ParseRiskLevel(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRiskLevelElevated(t *testing.T) {
	for _, level := range RiskLevels() {
		want := level == RiskHigh || level == RiskCritical
		if level.Elevated() != want {
			t.Fatalf("Elevated(%q) = %v, want %v", level, level.Elevated(), want)
		}
	}
}
