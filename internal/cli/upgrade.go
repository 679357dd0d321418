package cli

import (
	"context"
	"fmt"
	"strings"

	"wingman/internal/history"
	"wingman/internal/ui"
	"wingman/pkg/manager"
	"wingman/pkg/tracker"

	"github.com/spf13/cobra"
)

var (
	upgradeAll         bool
	upgradeRefresh     bool
	upgradeInteractive bool
)

var upgradeCmd = &cobra.Command{
	Use:     "upgrade [packages...]",
	Aliases: []string{"update"},
	Short:   "Update installed packages",
	Long: `Update installed packages to their latest versions.

If no packages are specified, every package with an available update is
updated, one at a time. A failure never stops the remaining updates.

Examples:
  wingman upgrade                   # Update all packages
  wingman upgrade --all -s choco    # Update all Chocolatey packages
  wingman upgrade Git.Git 7zip      # Update specific packages
  wingman upgrade -y                # Update all without confirmation`,
	RunE: runUpgrade,
}

func init() {
	upgradeCmd.Flags().BoolVarP(&upgradeAll, "all", "a", false, "update every package with an update")
	upgradeCmd.Flags().BoolVarP(&upgradeRefresh, "refresh", "r", false, "check for updates again instead of using the cache")
	upgradeCmd.Flags().BoolVarP(&upgradeInteractive, "interactive", "i", false, "show the installers' own interface")
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	src, err := sourceFlag()
	if err != nil {
		return err
	}
	if err := requireProviders(ctx); err != nil {
		return err
	}
	if upgradeAll && len(args) > 0 {
		return fmt.Errorf("--all cannot be combined with package names")
	}

	list, _ := ui.Spin("Checking for updates...", func() (manager.PackageList, error) { //nolint:errcheck
		return service.Updates(ctx, upgradeRefresh), nil
	})
	reportProviderErrors(list.Errors)
	updates := manager.Filter{OnlyUpdates: true, Source: src}.Apply(list.Packages)

	opts := actionOpts(upgradeInteractive, "")

	if len(args) > 0 {
		pkgs, err := selectUpdates(updates, resolvePackages(args))
		if err != nil {
			return err
		}
		if err := confirm(fmt.Sprintf("Update %d package(s)?", len(pkgs)), true); err != nil {
			return err
		}
		return runActions(cmd, tracker.KindUpdate, pkgs, func(ctx context.Context, pkg manager.Package) (manager.Result, error) {
			return service.Update(ctx, pkg, opts)
		})
	}

	if len(updates) == 0 {
		if structured() {
			return ui.Encode(cmd.OutOrStdout(), format, manager.BulkResult{})
		}
		ui.SuccessMsg("Everything is up to date")
		return nil
	}

	if !structured() {
		ui.InfoMsg("%d package(s) can be updated:", len(updates))
		ui.PrintPackages(updates)
	}
	if err := confirm("Proceed with update?", true); err != nil {
		return err
	}

	bulk, _ := withProgress(fmt.Sprintf("Updating %d packages", len(updates)), func() (manager.BulkResult, error) { //nolint:errcheck
		return service.UpdateAll(ctx, updates, opts, nil), nil
	})
	recordHistory(history.FromBulk(bulk))

	if structured() {
		if err := ui.Encode(cmd.OutOrStdout(), format, bulk); err != nil {
			return err
		}
	} else {
		ui.PrintBulkResult(bulk)
	}

	if bulk.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrOperationFailed, bulk.Failed, bulk.Total)
	}
	return nil
}

// selectUpdates picks the named packages out of the available updates.
func selectUpdates(updates []manager.Package, ids []string) ([]manager.Package, error) {
	var pkgs []manager.Package
	var missing []string
	for _, id := range ids {
		found := false
		for _, p := range updates {
			if strings.EqualFold(p.ID, id) {
				pkgs = append(pkgs, p)
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		ui.WarningMsg("No update available for: %s", strings.Join(missing, ", "))
	}
	if len(pkgs) == 0 {
		return nil, ErrNoPackages
	}
	return pkgs, nil
}
