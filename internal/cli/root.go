// Package cli implements the command-line interface for wingman.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"wingman/internal/config"
	"wingman/internal/executor"
	"wingman/internal/history"
	"wingman/internal/ui"
	"wingman/pkg/cache"
	"wingman/pkg/catalog"
	"wingman/pkg/manager"
	"wingman/pkg/manager/native"
	"wingman/pkg/tracker"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile      string
	source       string
	dryRun       bool
	yes          bool
	verbose      bool
	noColor      bool
	outputFormat string

	// Global state
	cfg       *config.Config
	exec      *executor.Executor
	registry  *manager.Registry
	service   *catalog.Service
	format    ui.Format
	boltCache *cache.BoltStorage
)

// Build metadata - set at build time via ldflags
var (
	Version   = "0.1.0-dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "wingman",
	Short: "One front end for winget, the Microsoft Store and Chocolatey",
	Long: `Wingman lists, searches, installs, updates and removes Windows
software through winget and Chocolatey with a single set of commands.
Listings from every installed tool are merged, cached and shown together.

Examples:
  wingman list                        # Installed packages from every source
  wingman list --updates              # Only packages with an update
  wingman search vscode               # Search winget, msstore and Chocolatey
  wingman install Git.Git             # Install with the preferred source
  wingman install 7zip -s choco       # Install from Chocolatey
  wingman upgrade --all               # Update everything, one at a time
  wingman tui                         # Interactive interface`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeApp()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeApp()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&source, "source", "s", "", "package source (winget, msstore, chocolatey)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would happen without executing")
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "assume yes to all prompts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table, json or yaml")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(tuiCmd)
}

// Execute runs the root command. Interrupts cancel the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		ui.ErrorMsg("%v", err)
	}
	return err
}

// initializeApp sets up the application state.
func initializeApp() error {
	// Load configuration
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	// Apply global flag overrides
	if yes {
		cfg.General.AutoConfirm = true
	}
	if dryRun {
		cfg.General.DryRun = true
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if noColor {
		cfg.Output.Color = false
	}
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}

	format, err = ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	// Initialize UI
	ui.Init(cfg.ShouldUseColor(), cfg.Output.Unicode)

	// Execution gateway
	exec = executor.New(cfg.General.DryRun, cfg.Output.Verbose)
	exec.SetMaxOutput(cfg.MaxOutputBytes())
	if !cfg.Executor.Elevate {
		exec.SetElevator(nil)
	}

	// Providers
	registry = manager.NewRegistry(cfg)
	registerProviders()

	t := tracker.New(
		tracker.WithInterval(cfg.Tracker.TickInterval.Duration),
		tracker.WithCap(cfg.Tracker.ProgressCap),
		tracker.OnChange(reportProgress),
	)

	service = catalog.New(registry, openCache(), t,
		catalog.WithTTL(cfg.Cache.TTL.Duration),
		catalog.WithSearchTTL(cfg.Cache.SearchTTL.Duration),
	)

	return nil
}

// registerProviders registers the enabled providers.
func registerProviders() {
	if cfg.ManagerEnabled(string(manager.SourceWinget)) {
		registry.Register(native.NewWinget(exec))
	}
	if cfg.ManagerEnabled(string(manager.SourceChocolatey)) {
		registry.Register(native.NewChocolatey(exec))
	}
}

// openCache opens the on-disk cache, falling back to memory when the file
// is unavailable. It returns nil when caching is disabled.
func openCache() *cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}

	store, err := cache.OpenBolt(config.CachePath())
	if err != nil {
		if cfg.Output.Verbose {
			ui.WarningMsg("Cache unavailable, using memory: %v", err)
		}
		return cache.New(cache.NewMemoryStorage())
	}
	boltCache = store
	return cache.New(store)
}

// closeApp releases the cache database.
func closeApp() {
	if boltCache != nil {
		_ = boltCache.Close() //nolint:errcheck
		boltCache = nil
	}
}

// sourceFlag returns the source selected with --source, or "" for all.
func sourceFlag() (manager.Source, error) {
	if source == "" {
		return "", nil
	}
	s, ok := manager.ParseSource(source)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	return s, nil
}

// preferredSource returns --source, or the first enabled entry of the
// configured source priority.
func preferredSource() (manager.Source, error) {
	if s, err := sourceFlag(); err != nil || s != "" {
		return s, err
	}
	for _, name := range cfg.General.SourcePriority {
		if s, ok := manager.ParseSource(name); ok && cfg.ManagerEnabled(string(s)) {
			return s, nil
		}
	}
	return manager.SourceWinget, nil
}

// findInstalled looks id up in the merged listing. A non-empty src
// restricts the match to that source.
func findInstalled(ctx context.Context, id string, src manager.Source) (manager.Package, bool) {
	matches := findInstalledAll(ctx, id, src)
	if len(matches) == 0 {
		return manager.Package{}, false
	}
	return matches[0], true
}

// findInstalledAll returns every installed package with id, one per source.
func findInstalledAll(ctx context.Context, id string, src manager.Source) []manager.Package {
	var matches []manager.Package
	for _, p := range service.Packages(ctx, false).Packages {
		if !strings.EqualFold(p.ID, id) {
			continue
		}
		if src == "" || p.Source == src {
			matches = append(matches, p)
		}
	}
	return matches
}

// requireProviders fails when no provider tool is installed.
func requireProviders(ctx context.Context) error {
	if len(registry.InstalledProviders(ctx)) == 0 {
		return ErrNoProviders
	}
	return nil
}

// resolvePackages resolves aliases in package names.
func resolvePackages(packages []string) []string {
	return cfg.ResolveAliases(packages)
}

// structured reports whether output goes to JSON or YAML.
func structured() bool {
	return format != ui.FormatTable
}

// recordHistory stores entry; history failures never fail a command.
func recordHistory(entry *history.Entry) {
	store, err := history.Open()
	if err != nil {
		if cfg.Output.Verbose {
			ui.WarningMsg("Could not open history: %v", err)
		}
		return
	}
	defer store.Close()

	if err := store.Record(entry); err != nil && cfg.Output.Verbose {
		ui.WarningMsg("Could not record history: %v", err)
	}
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print wingman version",
	Run: func(cmd *cobra.Command, args []string) {
		ui.InfoMsg("wingman version %s", Version)
		if Commit != "unknown" {
			ui.MutedMsg("  Commit: %s", Commit)
		}
		if BuildTime != "unknown" {
			ui.MutedMsg("  Built:  %s", BuildTime)
		}
	},
}
