package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"wingman/pkg/manager"
	"wingman/pkg/tracker"
)

// Out is where tables and detail views are written.
var Out io.Writer = os.Stdout

// Table wraps tabwriter for consistent styling.
type Table struct {
	writer *tabwriter.Writer
}

// NewTable creates a new table on Out with a bold header row.
func NewTable(header []string) *Table {
	return NewTableWriter(Out, header)
}

// NewTableWriter creates a new table that writes to a specific writer.
func NewTableWriter(w io.Writer, header []string) *Table {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(header) > 0 {
		headerRow := make([]string, len(header))
		for i, h := range header {
			headerRow[i] = Bold(strings.ToUpper(h))
		}
		fmt.Fprintln(tw, strings.Join(headerRow, "\t"))
	}
	return &Table{writer: tw}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(row ...string) {
	fmt.Fprintln(t.writer, strings.Join(row, "\t"))
}

// Render flushes the table.
func (t *Table) Render() {
	t.writer.Flush()
}

// PrintPackages prints a list of packages in a formatted table.
func PrintPackages(packages []manager.Package) {
	FprintPackages(Out, packages)
}

// FprintPackages writes a package table to w.
func FprintPackages(w io.Writer, packages []manager.Package) {
	if len(packages) == 0 {
		fmt.Fprintln(w, Muted.Sprint("No packages found"))
		return
	}

	t := NewTableWriter(w, []string{"source", "name", "id", "version", "available", "category"})
	for _, pkg := range packages {
		available := ""
		if pkg.HasUpdate {
			available = PackageUpdate.Sprint(SymbolUpdate + " " + pkg.AvailableVersion)
		}
		t.AddRow(
			SourceLabel(pkg.Source),
			PackageName.Sprint(truncate(pkg.DisplayName(), 40)),
			pkg.ID,
			PackageVersion.Sprint(pkg.CurrentVersion),
			available,
			string(pkg.Category),
		)
	}
	t.Render()
}

// PrintPackageInfo prints detailed package information.
func PrintPackageInfo(info *manager.PackageInfo, versions []string) {
	if info == nil {
		ErrorMsg("No package information available")
		return
	}

	w := Out
	fmt.Fprintln(w, Header.Sprint("\nPackage Information"))

	printField(w, "Name", info.DisplayName())
	printField(w, "Id", info.ID)
	printField(w, "Source", string(info.Source))

	if info.CurrentVersion != "" {
		printField(w, "Version", info.CurrentVersion)
	}
	if info.HasUpdate {
		printField(w, "Available", info.AvailableVersion)
	}
	if info.Publisher != "" {
		printField(w, "Publisher", info.Publisher)
	}
	if info.Description != "" {
		printField(w, "Description", info.Description)
	}
	if info.Homepage != "" {
		printField(w, "Homepage", info.Homepage)
	}
	if info.License != "" {
		printField(w, "License", info.License)
	}
	if info.Category != "" {
		printField(w, "Category", string(info.Category))
	}
	if len(info.Tags) > 0 {
		printField(w, "Tags", strings.Join(info.Tags, ", "))
	}
	if len(versions) > 0 {
		printField(w, "Versions", strings.Join(versions, ", "))
	}
}

// printField prints a single field with formatting.
func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s: %s\n", Cyan(label), value)
}

// PrintSearchResults prints search results grouped by source.
func PrintSearchResults(packages []manager.Package) {
	if len(packages) == 0 {
		MutedMsg("No packages found")
		return
	}

	// Group by source
	grouped := make(map[manager.Source][]manager.Package)
	for _, pkg := range packages {
		grouped[pkg.Source] = append(grouped[pkg.Source], pkg)
	}
	sources := make([]manager.Source, 0, len(grouped))
	for s := range grouped {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })

	w := Out
	fmt.Fprintln(w, Header.Sprintf("\nFound %d results across %d sources", len(packages), len(grouped)))

	for _, source := range sources {
		pkgs := grouped[source]
		fmt.Fprintf(w, "\n%s (%d):\n", SourceLabel(source), len(pkgs))

		for _, pkg := range pkgs {
			version := ""
			if pkg.CurrentVersion != "" {
				version = " " + PackageVersion.Sprint(pkg.CurrentVersion)
			}
			fmt.Fprintf(w, "  %s %s%s\n", PackageName.Sprint(pkg.DisplayName()), Muted.Sprint(pkg.ID), version)
		}
	}
}

// PrintBulkResult prints per-package outcomes followed by the totals.
func PrintBulkResult(bulk manager.BulkResult) {
	w := Out
	for _, r := range bulk.Results {
		if r.Success {
			fmt.Fprintln(w, Success.Sprint(SymbolSuccess+" "+r.PackageID))
			continue
		}
		fmt.Fprintln(w, Error.Sprint(SymbolError+" "+r.PackageID)+" "+Muted.Sprint(r.Error))
	}
	fmt.Fprintf(w, "\n%d total, %s, %s\n",
		bulk.Total,
		Green(fmt.Sprintf("%d successful", bulk.Successful)),
		Red(fmt.Sprintf("%d failed", bulk.Failed)))
}

// PrintOperations prints tracked operations with their progress.
func PrintOperations(ops []tracker.Operation) {
	if len(ops) == 0 {
		MutedMsg("No operations")
		return
	}

	t := NewTable([]string{"kind", "package", "source", "progress", "status"})
	for _, op := range ops {
		status := string(op.Status)
		switch op.Status {
		case tracker.StatusSuccess:
			status = Green(status)
		case tracker.StatusError:
			status = Red(status) + " " + Muted.Sprint(op.Error)
		}
		t.AddRow(string(op.Kind), op.PackageName, string(op.Source), ProgressBar(op.Progress, 20), status)
	}
	t.Render()
}

// ProgressBar renders pct as a fixed width bar followed by the percentage.
func ProgressBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return strings.Repeat(BarFull, filled) + strings.Repeat(BarEmpty, width-filled) + fmt.Sprintf(" %3d%%", pct)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
