package cli

import (
	"strings"

	"wingman/internal/config"
	"wingman/internal/ui"
	"wingman/pkg/catalog"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the package list cache",
	Long: `Package listings, search results and package details are cached so
repeated commands do not run winget or Chocolatey again. Successful
installs, updates and removals invalidate the affected entries.

Examples:
  wingman cache clear               # Drop every cached entry
  wingman cache invalidate search   # Drop cached search results`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Cache.Enabled {
			ui.MutedMsg("Caching is disabled")
			return nil
		}
		n := service.ClearCache()
		ui.SuccessMsg("Removed %d cached entries from %s", n, config.CachePath())
		return nil
	},
}

var cacheInvalidateCmd = &cobra.Command{
	Use:       "invalidate [packages|search|show|versions]",
	Short:     "Remove one kind of cached entry",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"packages", "search", "show", "versions"},
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix, ok := cachePrefixes[strings.ToLower(args[0])]
		if !ok {
			return cobra.OnlyValidArgs(cmd, args)
		}
		n := service.Invalidate(prefix)
		ui.SuccessMsg("Removed %d cached %s entries", n, args[0])
		return nil
	},
}

var cachePrefixes = map[string]string{
	"packages": catalog.PrefixPackages,
	"search":   catalog.PrefixSearch,
	"show":     catalog.PrefixShow,
	"versions": catalog.PrefixVersions,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheInvalidateCmd)
}
