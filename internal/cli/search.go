package cli

import (
	"strings"

	"wingman/internal/ui"
	"wingman/pkg/manager"

	"github.com/spf13/cobra"
)

var (
	searchLimit   int
	searchRefresh bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for packages",
	Long: `Search winget, the Microsoft Store and Chocolatey at once. Sources
that fail are reported; the others still return results. Results are
cached for a short time; use --refresh to search again.

Examples:
  wingman search firefox           # Search every source
  wingman search vlc -s choco      # Search only Chocolatey
  wingman search -l 10 editor      # Limit to 10 results
  wingman search git -o yaml       # Results as YAML`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "limit results (0 = no limit)")
	searchCmd.Flags().BoolVarP(&searchRefresh, "refresh", "r", false, "bypass the cache")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	src, err := sourceFlag()
	if err != nil {
		return err
	}
	if err := requireProviders(ctx); err != nil {
		return err
	}

	list, err := ui.Spin("Searching for '"+query+"'...", func() (manager.PackageList, error) {
		return service.Search(ctx, query, searchRefresh)
	})
	if err != nil {
		return err
	}
	reportProviderErrors(list.Errors)

	results := manager.Filter{Source: src}.Apply(list.Packages)
	if searchLimit > 0 && len(results) > searchLimit {
		results = results[:searchLimit]
	}

	if structured() {
		return ui.Encode(cmd.OutOrStdout(), format, results)
	}

	ui.PrintSearchResults(results)
	return nil
}
