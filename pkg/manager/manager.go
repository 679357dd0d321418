package manager

import "context"

// Provider is the uniform contract every package tool adapter implements.
//
// Action methods return a non-nil error only when the request is rejected
// before any process is started (validation). Tool failures are reported in
// the Result.
type Provider interface {
	// Name returns the source this provider serves.
	Name() Source

	// DisplayName returns a human-readable name.
	DisplayName() string

	// IsInstalled reports whether the underlying tool is present and runs.
	IsInstalled(ctx context.Context) bool

	// GetPackages lists installed packages, or only those with an update
	// available when onlyUpdates is set.
	GetPackages(ctx context.Context, onlyUpdates bool) ([]Package, error)

	// UpdatePackage upgrades one package.
	UpdatePackage(ctx context.Context, id string, opts ActionOpts) (Result, error)

	// InstallPackage installs one package.
	InstallPackage(ctx context.Context, id string, opts ActionOpts) (Result, error)

	// UninstallPackage removes one package.
	UninstallPackage(ctx context.Context, id string) (Result, error)
}

// Searcher is implemented by providers that can search their repository.
type Searcher interface {
	SearchPackages(ctx context.Context, query string) ([]Package, error)
}

// Shower is implemented by providers that can describe a single package.
type Shower interface {
	ShowPackage(ctx context.Context, id string) (*PackageInfo, error)
}

// VersionLister is implemented by providers that can list every published
// version of a package.
type VersionLister interface {
	GetVersions(ctx context.Context, id string) ([]string, error)
}
