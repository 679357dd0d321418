package cli

import (
	"context"
	"errors"

	"wingman/internal/ui"
	"wingman/pkg/manager"
	"wingman/pkg/tracker"

	"github.com/spf13/cobra"
)

var (
	installVersion     string
	installInteractive bool
)

var installCmd = &cobra.Command{
	Use:     "install [packages...]",
	Aliases: []string{"add"},
	Short:   "Install one or more packages",
	Long: `Install packages by id from the preferred source, or from the source
given with --source. Packages are installed one at a time.

Examples:
  wingman install Git.Git                    # Install with winget
  wingman install 7zip -s choco              # Install from Chocolatey
  wingman install 9NBLGGH4NNS1 -s msstore    # Install from the Microsoft Store
  wingman install Git.Git --version 2.41.0   # Install a specific version
  wingman install -y code                    # Uses alias if configured`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installVersion, "version", "", "install a specific version")
	installCmd.Flags().BoolVarP(&installInteractive, "interactive", "i", false, "show the installer's own interface")
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ids := resolvePackages(args)
	if len(ids) == 0 {
		return ErrNoPackages
	}
	if installVersion != "" && len(ids) > 1 {
		return errors.New("--version applies to a single package")
	}

	src, err := preferredSource()
	if err != nil {
		return err
	}
	if err := requireProviders(ctx); err != nil {
		return err
	}

	pkgs := make([]manager.Package, 0, len(ids))
	for _, id := range ids {
		pkgs = append(pkgs, manager.Package{ID: id, Source: src, AvailableVersion: installVersion})
	}

	if !structured() {
		ui.InfoMsg("Installing %d package(s) from %s", len(pkgs), src)
		for _, p := range pkgs {
			ui.MutedMsg("  - %s", p.ID)
		}
	}
	if err := confirm("Proceed with installation?", true); err != nil {
		return err
	}

	opts := actionOpts(installInteractive, installVersion)
	return runActions(cmd, tracker.KindInstall, pkgs, func(ctx context.Context, pkg manager.Package) (manager.Result, error) {
		return service.Install(ctx, pkg, opts)
	})
}
