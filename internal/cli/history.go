package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"wingman/internal/history"
	"wingman/internal/ui"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyClear bool
	historyPrune string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show operation history",
	Long: `Display the installs, updates and removals performed by wingman.

Examples:
  wingman history              # Show recent history
  wingman history -l 20        # Show last 20 operations
  wingman history --clear      # Delete all entries
  wingman history --prune 30d  # Delete entries older than 30 days
  wingman history show ID      # Show one entry in full`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a single history entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "number of entries to show")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all history entries")
	historyCmd.Flags().StringVar(&historyPrune, "prune", "", "delete entries older than AGE (e.g. 30d, 12h)")
	historyCmd.AddCommand(historyShowCmd)
}

// parseAge accepts time.ParseDuration syntax plus a whole-day "Nd" form.
func parseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid age %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid age %q", s)
	}
	return d, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	if historyClear {
		if err := confirm("Delete all history entries?", false); err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		ui.SuccessMsg("History cleared")
		return nil
	}

	if historyPrune != "" {
		age, err := parseAge(historyPrune)
		if err != nil {
			return err
		}
		n, err := store.Prune(age)
		if err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
		ui.SuccessMsg("Removed %d entries older than %s", n, historyPrune)
		return nil
	}

	entries, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if structured() {
		return ui.Encode(cmd.OutOrStdout(), format, entries)
	}

	if len(entries) == 0 {
		ui.MutedMsg("No history entries found")
		return nil
	}

	ui.HeaderMsg("Operation History")

	for i, entry := range entries {
		status := ui.Green("success")
		if !entry.Success {
			status = ui.Red("failed")
		}

		target := formatPackages(entry.Packages)
		if entry.Operation == history.OpUpgradeAll {
			target = fmt.Sprintf("%d/%d packages", entry.Successful, entry.Successful+entry.Failed)
		}

		source := ""
		if entry.Source != "" {
			source = " " + ui.SourceLabel(entry.Source)
		}

		fmt.Printf("%2d. %s %s %s%s (%s) %s\n",
			i+1,
			ui.Muted.Sprint(entry.FormatTime()),
			ui.Bold(string(entry.Operation)),
			target,
			source,
			status,
			ui.Muted.Sprint(entry.ID),
		)

		if entry.Error != "" {
			ui.MutedMsg("    Error: %s", entry.Error)
		}
	}

	total, _ := store.Count() //nolint:errcheck
	ui.MutedMsg("\nShowing %d of %d total entries", len(entries), total)

	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := history.Open()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	entry, err := store.Get(args[0])
	if err != nil {
		return err
	}

	if structured() {
		return ui.Encode(cmd.OutOrStdout(), format, entry)
	}

	ui.HeaderMsg("History Entry")
	fmt.Printf("  ID:        %s\n", entry.ID)
	fmt.Printf("  Time:      %s\n", entry.FormatTime())
	fmt.Printf("  Operation: %s\n", entry.Operation)
	if entry.Source != "" {
		fmt.Printf("  Source:    %s\n", ui.SourceLabel(entry.Source))
	}
	for _, id := range entry.Packages {
		fmt.Printf("  Package:   %s\n", id)
	}
	if entry.Version != "" {
		fmt.Printf("  Version:   %s\n", entry.Version)
	}
	if entry.Success {
		fmt.Printf("  Status:    %s\n", ui.Green("success"))
	} else {
		fmt.Printf("  Status:    %s\n", ui.Red("failed"))
	}
	if entry.Operation == history.OpUpgradeAll {
		fmt.Printf("  Updated:   %d/%d\n", entry.Successful, entry.Successful+entry.Failed)
	}
	if entry.ExitCode != 0 {
		fmt.Printf("  Exit code: %d\n", entry.ExitCode)
	}
	if entry.Cause != "" {
		fmt.Printf("  Cause:     %s\n", entry.Cause)
	}
	if entry.Error != "" {
		fmt.Printf("  Error:     %s\n", entry.Error)
	}
	return nil
}

// formatPackages formats a list of packages for display.
func formatPackages(packages []string) string {
	if len(packages) == 0 {
		return ""
	}
	if len(packages) == 1 {
		return packages[0]
	}
	if len(packages) <= 3 {
		return fmt.Sprintf("%v", packages)
	}
	return fmt.Sprintf("%s (+%d more)", packages[0], len(packages)-1)
}
