package ui

import (
	"bytes"
	"strings"
	"testing"

	"wingman/pkg/manager"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	pkg := manager.Package{ID: "Git.Git", Name: "Git", CurrentVersion: "2.41.0", Source: manager.SourceWinget}

	var js bytes.Buffer
	if err := Encode(&js, FormatJSON, []manager.Package{pkg}); err != nil {
		t.Fatalf("Encode(json) error: %v", err)
	}
	if !strings.Contains(js.String(), `"id": "Git.Git"`) {
		t.Errorf("unexpected json:\n%s", js.String())
	}

	var ym bytes.Buffer
	if err := Encode(&ym, FormatYAML, []manager.Package{pkg}); err != nil {
		t.Fatalf("Encode(yaml) error: %v", err)
	}
	if !strings.Contains(ym.String(), "id: Git.Git") || !strings.Contains(ym.String(), "source: winget") {
		t.Errorf("unexpected yaml:\n%s", ym.String())
	}

	if err := Encode(&js, FormatTable, pkg); err == nil {
		t.Error("Encode(table) should fail")
	}
}
