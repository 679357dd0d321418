package cli

import (
	"context"
	"fmt"

	"wingman/internal/history"
	"wingman/internal/ui"
	"wingman/pkg/manager"
	"wingman/pkg/tracker"

	"github.com/spf13/cobra"
)

// action performs one tracked package operation.
type action func(ctx context.Context, pkg manager.Package) (manager.Result, error)

// verbs holds the progressive and past forms used to report each kind.
var verbs = map[tracker.Kind][2]string{
	tracker.KindInstall:   {"Installing", "Installed"},
	tracker.KindUpdate:    {"Updating", "Updated"},
	tracker.KindUninstall: {"Removing", "Removed"},
}

// historyOps maps tracked kinds to history operations.
var historyOps = map[tracker.Kind]history.Operation{
	tracker.KindInstall:   history.OpInstall,
	tracker.KindUpdate:    history.OpUpdate,
	tracker.KindUninstall: history.OpUninstall,
}

// runActions applies act to each package in order, recording history and
// reporting each outcome. A validation error stops the run; tool failures
// are counted and reported as ErrOperationFailed at the end.
func runActions(cmd *cobra.Command, kind tracker.Kind, pkgs []manager.Package, act action) error {
	ctx := cmd.Context()
	results := make([]manager.Result, 0, len(pkgs))

	for _, pkg := range pkgs {
		label := fmt.Sprintf("%s %s [%s]", verbs[kind][0], pkg.DisplayName(), pkg.Source)
		res, err := withProgress(label, func() (manager.Result, error) {
			return act(ctx, pkg)
		})
		if err != nil {
			failed := history.NewEntry(historyOps[kind], pkg.Source, []string{pkg.ID})
			failed.MarkFailed(err)
			recordHistory(failed)
			return err
		}

		entry := history.FromResult(historyOps[kind], pkg.Source, res)
		entry.Version = pkg.AvailableVersion
		recordHistory(entry)

		results = append(results, res)
		if !structured() {
			printResult(kind, pkg, res)
		}
	}

	if structured() {
		if err := ui.Encode(cmd.OutOrStdout(), format, results); err != nil {
			return err
		}
	} else if len(pkgs) > 1 {
		ui.PrintOperations(service.Tracker().List())
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrOperationFailed, failed, len(results))
	}
	return nil
}

// printResult prints one action outcome with advice for known causes.
func printResult(kind tracker.Kind, pkg manager.Package, res manager.Result) {
	if res.Success {
		ui.SuccessMsg("%s %s %s", verbs[kind][1], pkg.DisplayName(), ui.SourceLabel(pkg.Source))
		return
	}

	ui.ErrorMsg("%s of %s failed (exit %d): %s", kind, pkg.DisplayName(), res.ExitCode, res.Error)
	if hint := ui.CauseHint(res.Cause); hint != "" {
		ui.MutedMsg("  %s", hint)
	}
	if cfg.Output.Verbose && res.Output != "" {
		ui.MutedMsg("%s", res.Output)
	}
}

// confirm asks for confirmation unless prompts are disabled.
func confirm(prompt string, defaultYes bool) error {
	if cfg.General.AutoConfirm || cfg.General.DryRun || structured() {
		return nil
	}
	ok, err := ui.Confirm(prompt, defaultYes)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}

// actionOpts builds the install and update options from flags and config.
func actionOpts(interactive bool, version string) manager.ActionOpts {
	return manager.ActionOpts{
		Interactive: interactive || cfg.General.Interactive,
		Version:     version,
	}
}
