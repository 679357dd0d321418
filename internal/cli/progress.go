package cli

import (
	"fmt"
	"sync"

	"wingman/internal/ui"
	"wingman/pkg/tracker"
)

// progress forwards tracker updates to the spinner of the running action.
var progress struct {
	mu      sync.Mutex
	spinner *ui.Spinner
	label   string
}

// reportProgress is the tracker change hook.
func reportProgress(op tracker.Operation) {
	progress.mu.Lock()
	defer progress.mu.Unlock()
	if progress.spinner == nil || op.Done() {
		return
	}
	progress.spinner.UpdateMessage(fmt.Sprintf("%s %s", progress.label, ui.ProgressBar(op.Progress, 20)))
}

// withProgress runs fn behind a spinner that shows tracked progress.
func withProgress[T any](label string, fn func() (T, error)) (T, error) {
	sp := ui.NewSpinner(label)

	progress.mu.Lock()
	progress.spinner, progress.label = sp, label
	progress.mu.Unlock()

	sp.Start()
	defer func() {
		progress.mu.Lock()
		progress.spinner = nil
		progress.mu.Unlock()
		sp.Stop()
	}()

	return fn()
}
