package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"wingman/pkg/manager"
	"wingman/pkg/tracker"
)

func init() {
	color.NoColor = true
}

func TestFprintPackages(t *testing.T) {
	var buf bytes.Buffer
	FprintPackages(&buf, []manager.Package{
		{ID: "Git.Git", Name: "Git", CurrentVersion: "2.41.0", AvailableVersion: "2.42.0", HasUpdate: true, Source: manager.SourceWinget, Category: manager.CategoryDeveloper},
		{ID: "7zip", Name: "7-Zip", CurrentVersion: "23.1.0", Source: manager.SourceChocolatey},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	for _, col := range []string{"SOURCE", "NAME", "ID", "VERSION", "AVAILABLE", "CATEGORY"} {
		if !strings.Contains(lines[0], col) {
			t.Errorf("header missing %s: %q", col, lines[0])
		}
	}
	if !strings.Contains(lines[1], "[winget]") || !strings.Contains(lines[1], "2.42.0") {
		t.Errorf("unexpected row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "[chocolatey]") || !strings.Contains(lines[2], "23.1.0") {
		t.Errorf("unexpected row: %q", lines[2])
	}
}

func TestFprintPackagesEmpty(t *testing.T) {
	var buf bytes.Buffer
	FprintPackages(&buf, nil)
	if !strings.Contains(buf.String(), "No packages found") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestProgressBar(t *testing.T) {
	UseUnicode = false
	BarFull, BarEmpty = "#", "-"

	tests := []struct {
		pct  int
		want string
	}{
		{0, "---------- 0%"},
		{50, "#####----- 50%"},
		{100, "########## 100%"},
		{150, "########## 100%"},
		{-5, "---------- 0%"},
	}

	for _, tt := range tests {
		got := strings.Join(strings.Fields(ProgressBar(tt.pct, 10)), " ")
		if got != tt.want {
			t.Errorf("ProgressBar(%d) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestPrintOperations(t *testing.T) {
	var buf bytes.Buffer
	old := Out
	Out = &buf
	defer func() { Out = old }()

	PrintOperations([]tracker.Operation{
		{Kind: tracker.KindInstall, PackageName: "Git", Source: manager.SourceWinget, Progress: 100, Status: tracker.StatusSuccess},
		{Kind: tracker.KindUpdate, PackageName: "7-Zip", Source: manager.SourceChocolatey, Progress: 100, Status: tracker.StatusError, Error: "exit 1618"},
	})

	out := buf.String()
	if !strings.Contains(out, "Git") || !strings.Contains(out, "exit 1618") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("Microsoft Visual Studio Code", 10); got != "Microso..." {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("ééééééééééééé", 5); got != "éé..." {
		t.Errorf("truncate() should count runes, got %q", got)
	}
}
