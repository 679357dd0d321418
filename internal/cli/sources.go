package cli

import (
	"strconv"

	"wingman/internal/ui"
	"wingman/pkg/manager"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show package sources and their status",
	Long: `Display every configured package source, whether its tool is
installed, and how many installed packages it reports.

Examples:
  wingman sources               # Show source status`,
	RunE: runSources,
}

// sourceStatus describes one package source.
type sourceStatus struct {
	Source    manager.Source `json:"source" yaml:"source"`
	Name      string         `json:"name" yaml:"name"`
	Enabled   bool           `json:"enabled" yaml:"enabled"`
	Installed bool           `json:"installed" yaml:"installed"`
	Packages  int            `json:"packages" yaml:"packages"`
	Updates   int            `json:"updates" yaml:"updates"`
}

func runSources(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	list := service.Packages(ctx, false)
	counts := manager.CountBySource(list.Packages)
	updates := manager.CountBySource(manager.Filter{OnlyUpdates: true}.Apply(list.Packages))

	statuses := []sourceStatus{
		{Source: manager.SourceWinget, Name: "Windows Package Manager"},
		{Source: manager.SourceMSStore, Name: "Microsoft Store (via winget)"},
		{Source: manager.SourceChocolatey, Name: "Chocolatey"},
	}
	for i := range statuses {
		s := &statuses[i]
		s.Enabled = cfg.ManagerEnabled(string(s.Source))
		if p, ok := registry.Get(s.Source); ok {
			s.Installed = p.IsInstalled(ctx)
		}
		s.Packages = counts[s.Source]
		s.Updates = updates[s.Source]
	}

	if structured() {
		return ui.Encode(cmd.OutOrStdout(), format, statuses)
	}

	t := ui.NewTable([]string{"source", "name", "status", "packages", "updates"})
	for _, s := range statuses {
		status := ui.Green("available")
		switch {
		case !s.Enabled:
			status = ui.Muted.Sprint("disabled")
		case !s.Installed:
			status = ui.Red("not installed")
		}
		t.AddRow(ui.SourceLabel(s.Source), s.Name, status, strconv.Itoa(s.Packages), strconv.Itoa(s.Updates))
	}
	t.Render()

	reportProviderErrors(list.Errors)
	return nil
}
