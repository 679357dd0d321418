package cli

import (
	"os"

	"wingman/internal/config"
	"wingman/internal/executor"
	"wingman/internal/history"
	"wingman/internal/sysinfo"
	"wingman/internal/ui"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose common problems",
	Long: `Report the operating system and check that the package tools are installed and working, that
elevation is possible, and that the configuration, cache and history
files are usable.

Examples:
  wingman doctor               # Run diagnostics`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	issues := 0

	ui.HeaderMsg("System")
	sys := sysinfo.Detect()
	if sys.IsWindows() {
		ui.SuccessMsg("%s", sys)
	} else {
		ui.WarningMsg("%s: winget and Chocolatey only run on Windows", sys)
	}

	ui.HeaderMsg("Package tools")

	providers := registry.All()
	if len(providers) == 0 {
		ui.ErrorMsg("Every source is disabled in the configuration")
		issues++
	}
	installed := 0
	for _, p := range providers {
		if p.IsInstalled(ctx) {
			ui.SuccessMsg("%s is available", p.DisplayName())
			installed++
		} else {
			ui.WarningMsg("%s is not installed", p.DisplayName())
		}
	}
	if len(providers) > 0 && installed == 0 {
		ui.ErrorMsg("%v", ErrNoProviders)
		issues++
	}

	ui.HeaderMsg("Privileges")
	switch {
	case exec.IsElevated():
		ui.SuccessMsg("Running with administrator rights")
	case !cfg.Executor.Elevate:
		ui.WarningMsg("Elevation is disabled; machine-wide installs may fail")
	default:
		if err := executor.CheckPrivileges(true); err != nil {
			ui.ErrorMsg("%v", err)
			issues++
		} else {
			ui.SuccessMsg("Elevation is available for privileged commands")
		}
	}

	ui.HeaderMsg("Configuration")
	if _, err := os.Stat(config.ConfigPath()); err == nil {
		ui.SuccessMsg("Config file: %s", config.ConfigPath())
	} else {
		ui.MutedMsg("No config file at %s, using defaults", config.ConfigPath())
	}
	ui.MutedMsg("  Source priority: %v", cfg.General.SourcePriority)

	if err := config.EnsureDataDir(); err != nil {
		ui.ErrorMsg("Data directory %s is not writable: %v", config.DataDir(), err)
		issues++
	} else {
		ui.SuccessMsg("Data directory: %s", config.DataDir())
	}

	if cfg.Cache.Enabled {
		if boltCache != nil {
			ui.SuccessMsg("Cache: %s (ttl %s)", config.CachePath(), cfg.Cache.TTL.Duration)
		} else {
			ui.WarningMsg("Cache file unavailable, using memory only")
			issues++
		}
	} else {
		ui.MutedMsg("Cache is disabled")
	}

	if store, err := history.Open(); err != nil {
		ui.ErrorMsg("History unavailable: %v", err)
		issues++
	} else {
		n, _ := store.Count()   //nolint:errcheck
		last, _ := store.Last() //nolint:errcheck
		store.Close()
		ui.SuccessMsg("History: %s (%d entries)", config.HistoryPath(), n)
		if last != nil {
			ui.MutedMsg("  Last: %s %s", last.FormatTime(), last.Summary())
		}
	}

	if installed > 0 {
		ui.HeaderMsg("Testing operations")
		list := service.Packages(ctx, true)
		if len(list.Errors) > 0 {
			reportProviderErrors(list.Errors)
			issues++
		} else {
			ui.SuccessMsg("Listed %d installed packages", len(list.Packages))
		}
	}

	// Summary
	ui.HeaderMsg("Summary")
	if issues == 0 {
		ui.SuccessMsg("No issues found! wingman is ready to use.")
	} else {
		ui.WarningMsg("Found %d issue(s). Some features may not work correctly.", issues)
	}

	return nil
}
