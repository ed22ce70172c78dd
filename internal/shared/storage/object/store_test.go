package object

import "testing"

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "reports/abc/1.json", want: "reports/abc/1.json"},
		{key: "/reports//abc/1.json", want: "reports/abc/1.json"},
		{key: `reports\abc\1.json`, want: "reports/abc/1.json"},
		{key: "../etc/passwd", wantErr: true},
		{key: "reports/../../x", wantErr: true},
		{key: "  ", wantErr: true},
		{key: "/", wantErr: true},
	}
	for _, tt := range tests {
		got, err := CleanKey(tt.key)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("CleanKey(%q) expected error, got %q", tt.key, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("CleanKey(%q) = %q, %v; want %q", tt.key, got, err, tt.want)
		}
	}
}
