package native

import (
	"context"
	"fmt"

	"wingman/pkg/command"
	"wingman/pkg/manager"
)

// Winget implements the Provider interface for Windows Package Manager (winget).
type Winget struct {
	*BaseProvider
}

var (
	_ manager.Provider      = (*Winget)(nil)
	_ manager.Searcher      = (*Winget)(nil)
	_ manager.Shower        = (*Winget)(nil)
	_ manager.VersionLister = (*Winget)(nil)
)

// NewWinget creates a new Winget provider running commands through gw.
func NewWinget(gw Gateway) *Winget {
	return &Winget{
		BaseProvider: NewBaseProvider(manager.SourceWinget, "Windows Package Manager", command.WingetProbe, gw, wingetDiagnostics),
	}
}

// GetPackages lists installed packages, or available upgrades.
func (w *Winget) GetPackages(ctx context.Context, onlyUpdates bool) ([]manager.Package, error) {
	if onlyUpdates {
		return w.list(ctx, command.WingetUpgradeList, nil, func(out string) []manager.Package {
			return parseWingetTable(out, tableUpgrade)
		})
	}
	return w.list(ctx, command.WingetList, nil, func(out string) []manager.Package {
		return parseWingetTable(out, tableList)
	})
}

// SearchPackages finds packages matching query.
func (w *Winget) SearchPackages(ctx context.Context, query string) ([]manager.Package, error) {
	return w.list(ctx, command.WingetSearch, command.Params{"query": query}, func(out string) []manager.Package {
		return parseWingetTable(out, tableSearch)
	})
}

// ShowPackage returns details about a package.
func (w *Winget) ShowPackage(ctx context.Context, id string) (*manager.PackageInfo, error) {
	res, err := w.query(ctx, command.WingetShow, command.Params{"id": id})
	if err != nil {
		return nil, err
	}
	if !res.Success {
		d := diagnose(w.diagnostics, "winget", res)
		return nil, fmt.Errorf("%w: %s", manager.ErrToolFailure, d.Message)
	}
	return parseWingetShow(res.Stdout, id), nil
}

// GetVersions lists every published version of a package.
func (w *Winget) GetVersions(ctx context.Context, id string) ([]string, error) {
	res, err := w.query(ctx, command.WingetShowVersions, command.Params{"id": id})
	if err != nil {
		return nil, err
	}
	if !res.Success {
		d := diagnose(w.diagnostics, "winget", res)
		return nil, fmt.Errorf("%w: %s", manager.ErrToolFailure, d.Message)
	}
	return parseWingetVersions(res.Stdout), nil
}

// InstallPackage installs a package, optionally pinned to a version or
// with the installer's own UI.
func (w *Winget) InstallPackage(ctx context.Context, id string, opts manager.ActionOpts) (manager.Result, error) {
	switch {
	case opts.Version != "":
		return w.action(ctx, command.WingetInstallVersion, command.Params{"id": id, "version": opts.Version}, id)
	case opts.Interactive:
		return w.action(ctx, command.WingetInstallInteractive, command.Params{"id": id}, id)
	default:
		return w.action(ctx, command.WingetInstall, command.Params{"id": id}, id)
	}
}

// UpdatePackage upgrades a package.
func (w *Winget) UpdatePackage(ctx context.Context, id string, opts manager.ActionOpts) (manager.Result, error) {
	if opts.Interactive {
		return w.action(ctx, command.WingetUpgradeInteractive, command.Params{"id": id}, id)
	}
	return w.action(ctx, command.WingetUpgrade, command.Params{"id": id}, id)
}

// UninstallPackage removes a package.
func (w *Winget) UninstallPackage(ctx context.Context, id string) (manager.Result, error) {
	return w.action(ctx, command.WingetUninstall, command.Params{"id": id}, id)
}
