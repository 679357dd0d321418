package cli

import "errors"

var (
	// ErrNoProviders is returned when neither winget nor Chocolatey is installed.
	ErrNoProviders = errors.New("no package tool found; install winget or Chocolatey")

	// ErrNoPackages is returned when no packages are specified.
	ErrNoPackages = errors.New("no packages specified")

	// ErrUnknownSource is returned when --source names no known source.
	ErrUnknownSource = errors.New("unknown package source")

	// ErrPackageNotFound is returned when a package cannot be found.
	ErrPackageNotFound = errors.New("package not found")

	// ErrAmbiguousPackage is returned when a package is installed from several
	// sources and no source was chosen.
	ErrAmbiguousPackage = errors.New("package installed from several sources; use --source")

	// ErrOperationFailed is returned when at least one package action failed.
	ErrOperationFailed = errors.New("one or more operations failed")

	// ErrAborted is returned when the user aborts an operation.
	ErrAborted = errors.New("operation aborted by user")
)
