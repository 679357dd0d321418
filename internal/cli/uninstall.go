package cli

import (
	"context"
	"fmt"
	"strings"

	"wingman/internal/ui"
	"wingman/pkg/manager"
	"wingman/pkg/tracker"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:     "uninstall [packages...]",
	Aliases: []string{"remove", "rm"},
	Short:   "Remove one or more packages",
	Long: `Remove installed packages. Each package is removed through the source
it was installed from; use --source to choose when it is ambiguous.

Examples:
  wingman uninstall Git.Git           # Remove package
  wingman uninstall -y 7zip -s choco  # Remove without confirmation`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUninstall,
}

func runUninstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	src, err := sourceFlag()
	if err != nil {
		return err
	}
	if err := requireProviders(ctx); err != nil {
		return err
	}

	var pkgs []manager.Package
	for _, id := range resolvePackages(args) {
		matches := findInstalledAll(ctx, id, src)
		switch {
		case len(matches) == 1:
			pkgs = append(pkgs, matches[0])
		case len(matches) > 1:
			pkg, err := pickInstalled(id, matches)
			if err != nil {
				return err
			}
			pkgs = append(pkgs, pkg)
		case src != "":
			pkgs = append(pkgs, manager.Package{ID: id, Source: src})
		default:
			return fmt.Errorf("%w: %s is not installed (use --source to force)", ErrPackageNotFound, id)
		}
	}

	if !structured() {
		ui.InfoMsg("Removing %d package(s)", len(pkgs))
		for _, p := range pkgs {
			ui.MutedMsg("  - %s %s", p.DisplayName(), ui.SourceLabel(p.Source))
		}
	}
	if err := confirm("Proceed with removal?", false); err != nil {
		return err
	}

	return runActions(cmd, tracker.KindUninstall, pkgs, func(ctx context.Context, pkg manager.Package) (manager.Result, error) {
		return service.Uninstall(ctx, pkg)
	})
}

// pickInstalled asks which copy of id to remove when it is installed from
// more than one source.
func pickInstalled(id string, matches []manager.Package) (manager.Package, error) {
	if cfg.General.AutoConfirm || structured() {
		sources := make([]string, len(matches))
		for i, m := range matches {
			sources[i] = string(m.Source)
		}
		return manager.Package{}, fmt.Errorf("%w: %s is installed from %s", ErrAmbiguousPackage, id, strings.Join(sources, ", "))
	}

	pkg, err := ui.SelectPackage(matches, "Remove "+id+" from which source?")
	if err != nil {
		return manager.Package{}, ErrAborted
	}
	return *pkg, nil
}
