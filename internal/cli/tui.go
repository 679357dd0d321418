package cli

import (
	"wingman/internal/history"
	"wingman/internal/tui"
	"wingman/internal/ui"

	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal user interface",
	Long: `Launch the interactive terminal user interface (TUI) for wingman.

The TUI provides a visual way to:
  - Browse installed packages from every source
  - Review and apply available updates
  - Search for new packages and install them
  - Follow running operations and their progress
  - View operation history

Navigation:
  - Use arrow keys or j/k to navigate
  - Press 1-5 to switch tabs
  - Press / to search, f to filter, s and c to cycle source and category
  - Press i to install, u to update, U to update all, r to remove
  - Press ? for help
  - Press q to quit`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Open history store
	historyStore, err := history.Open()
	if err != nil {
		ui.WarningMsg("Could not open history: %v", err)
		// Continue without history
		historyStore = nil
	}
	defer func() {
		if historyStore != nil {
			historyStore.Close()
		}
	}()

	return tui.Run(cmd.Context(), service, cfg, historyStore)
}
