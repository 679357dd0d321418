package cli

import (
	"errors"
	"fmt"

	"wingman/internal/ui"
	"wingman/pkg/manager"

	"github.com/spf13/cobra"
)

var infoVersions bool

var infoCmd = &cobra.Command{
	Use:     "info [package]",
	Aliases: []string{"show"},
	Short:   "Show package information",
	Long: `Display detailed information about a package. Without --source the
package's installed source is used, falling back to the preferred source.

Examples:
  wingman info Git.Git               # Show winget details
  wingman info 7zip -s choco         # Show Chocolatey details
  wingman info Git.Git --versions    # Include available versions`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoVersions, "versions", false, "list available versions")
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := resolvePackages(args)[0]

	src, err := sourceFlag()
	if err != nil {
		return err
	}
	installed, isInstalled := findInstalled(ctx, id, src)
	if src == "" {
		if isInstalled {
			src = installed.Source
		} else if src, err = preferredSource(); err != nil {
			return err
		}
	}

	info, err := ui.Spin(fmt.Sprintf("Reading %s from %s...", id, src), func() (*manager.PackageInfo, error) {
		return service.Show(ctx, id, src, false)
	})
	if err != nil {
		return err
	}
	if info == nil {
		return fmt.Errorf("%w: %s", ErrPackageNotFound, id)
	}
	if isInstalled {
		info.CurrentVersion = installed.CurrentVersion
		info.AvailableVersion = installed.AvailableVersion
		info.HasUpdate = installed.HasUpdate
		info.Category = installed.Category
	}

	var versions []string
	if infoVersions {
		versions, err = service.Versions(ctx, info.ID, src, false)
		if errors.Is(err, manager.ErrNotSupported) {
			ui.WarningMsg("%s cannot list versions", src)
		} else if err != nil {
			return err
		}
	}

	if structured() {
		return ui.Encode(cmd.OutOrStdout(), format, struct {
			manager.PackageInfo `yaml:",inline"`
			Installed           bool     `json:"installed" yaml:"installed"`
			Versions            []string `json:"versions,omitempty" yaml:"versions,omitempty"`
		}{*info, isInstalled, versions})
	}

	ui.PrintPackageInfo(info, versions)

	if isInstalled {
		ui.SuccessMsg("Package is installed")
	} else {
		ui.MutedMsg("Package is not installed")
	}

	return nil
}
