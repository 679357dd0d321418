package cli

import (
	"fmt"
	"sort"

	"wingman/internal/ui"
	"wingman/pkg/manager"

	"github.com/spf13/cobra"
)

var (
	listUpdates  bool
	listCategory string
	listFilter   string
	listRefresh  bool
	listLimit    int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List installed packages",
	Long: `List installed packages from every available source, merged and
sorted by source priority and name. Results are cached; use --refresh
to query the tools again.

Examples:
  wingman list                     # All installed packages
  wingman list -u                  # Only packages with an update
  wingman list -s choco            # Only Chocolatey packages
  wingman list --category media    # Only media packages
  wingman list -f git -o json      # Packages matching 'git' as JSON`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listUpdates, "updates", "u", false, "only packages with an update available")
	listCmd.Flags().StringVar(&listCategory, "category", "", "filter by category")
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "filter by name or id")
	listCmd.Flags().BoolVarP(&listRefresh, "refresh", "r", false, "bypass the cache")
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 0, "limit number of results")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := requireProviders(ctx); err != nil {
		return err
	}

	filter, err := listFilterFromFlags()
	if err != nil {
		return err
	}

	list, _ := ui.Spin("Reading installed packages...", func() (manager.PackageList, error) { //nolint:errcheck
		if listUpdates {
			return service.Updates(ctx, listRefresh), nil
		}
		return service.Packages(ctx, listRefresh), nil
	})
	reportProviderErrors(list.Errors)

	packages := filter.Apply(list.Packages)
	if listLimit > 0 && len(packages) > listLimit {
		packages = packages[:listLimit]
	}

	if structured() {
		return ui.Encode(cmd.OutOrStdout(), format, manager.PackageList{
			Packages:     packages,
			TotalUpdates: manager.Filter{OnlyUpdates: true}.Count(packages),
		})
	}

	ui.PrintPackages(packages)

	counts := manager.CountBySource(packages)
	sources := make([]string, 0, len(counts))
	for src, n := range counts {
		sources = append(sources, fmt.Sprintf("%s %d", src, n))
	}
	sort.Strings(sources)
	ui.MutedMsg("\nTotal: %d packages %v, %d with updates",
		len(packages), sources, manager.Filter{OnlyUpdates: true}.Count(packages))

	return nil
}

// listFilterFromFlags builds the display filter from the list flags.
func listFilterFromFlags() (manager.Filter, error) {
	src, err := sourceFlag()
	if err != nil {
		return manager.Filter{}, err
	}

	f := manager.Filter{OnlyUpdates: listUpdates, Query: listFilter, Source: src}
	if listCategory != "" {
		c, ok := manager.ParseCategory(listCategory)
		if !ok {
			return manager.Filter{}, fmt.Errorf("unknown category %q (want one of %v)", listCategory, manager.Categories)
		}
		f.Category = c
	}
	return f, nil
}

// reportProviderErrors warns about sources that failed while the others
// still answered.
func reportProviderErrors(errs map[manager.Source]error) {
	sources := make([]string, 0, len(errs))
	for src := range errs {
		sources = append(sources, string(src))
	}
	sort.Strings(sources)
	for _, src := range sources {
		ui.WarningMsg("%s: %v", src, errs[manager.Source(src)])
	}
}
