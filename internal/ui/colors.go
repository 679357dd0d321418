// Package ui provides terminal output helpers for wingman.
package ui

import (
	"os"

	"wingman/pkg/manager"

	"github.com/fatih/color"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan)
	Header  = color.New(color.FgMagenta, color.Bold)
	Muted   = color.New(color.FgHiBlack)

	// Colors for specific elements
	PackageName    = color.New(color.FgWhite, color.Bold)
	PackageVersion = color.New(color.FgGreen)
	PackageUpdate  = color.New(color.FgYellow, color.Bold)
	PackageSource  = color.New(color.FgCyan)
	StoreSource    = color.New(color.FgBlue)
	ChocoSource    = color.New(color.FgMagenta)
)

// UseColors represents whether colors should be used.
var UseColors = true

// UseUnicode represents whether unicode symbols should be used.
var UseUnicode = true

// Symbols for status indicators
var (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "!"
	SymbolInfo    = "→"
	SymbolUpdate  = "↑"
	BarFull       = "█"
	BarEmpty      = "░"
)

// Init initializes the UI settings based on configuration.
func Init(useColors, useUnicode bool) {
	UseColors = useColors
	UseUnicode = useUnicode

	if !useColors || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	if !useUnicode {
		SymbolSuccess = "[OK]"
		SymbolError = "[ERROR]"
		SymbolWarning = "[WARN]"
		SymbolInfo = "->"
		SymbolUpdate = "^"
		BarFull = "#"
		BarEmpty = "-"
	}
}

// SuccessMsg prints a success message.
func SuccessMsg(format string, args ...interface{}) {
	Success.Printf(SymbolSuccess+" "+format+"\n", args...)
}

// ErrorMsg prints an error message.
func ErrorMsg(format string, args ...interface{}) {
	Error.Printf(SymbolError+" "+format+"\n", args...)
}

// WarningMsg prints a warning message.
func WarningMsg(format string, args ...interface{}) {
	Warning.Printf(SymbolWarning+" "+format+"\n", args...)
}

// InfoMsg prints an info message.
func InfoMsg(format string, args ...interface{}) {
	Info.Printf(SymbolInfo+" "+format+"\n", args...)
}

// HeaderMsg prints a header message.
func HeaderMsg(format string, args ...interface{}) {
	Header.Printf("\n"+format+"\n", args...)
}

// MutedMsg prints a muted (dim) message.
func MutedMsg(format string, args ...interface{}) {
	Muted.Printf(format+"\n", args...)
}

// SourceLabel returns the bracketed, colored source name.
func SourceLabel(source manager.Source) string {
	label := "[" + string(source) + "]"
	switch source {
	case manager.SourceChocolatey:
		return ChocoSource.Sprint(label)
	case manager.SourceMSStore:
		return StoreSource.Sprint(label)
	}
	return PackageSource.Sprint(label)
}

// CauseHint returns advice for a recognized failure cause, or "".
func CauseHint(cause manager.Cause) string {
	switch cause {
	case manager.CauseElevationRequired:
		return "Run wingman from an elevated terminal, or enable [executor] elevate"
	case manager.CauseRetryLater:
		return "Another installation is in progress; try again when it finishes"
	case manager.CauseInstallerCrashed:
		return "The installer crashed; try again with --interactive"
	case manager.CauseNotFound:
		return "Check the package id with 'wingman search'"
	}
	return ""
}

// Bold returns a bold string.
func Bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}

// Green returns a green string.
func Green(s string) string {
	return color.GreenString(s)
}

// Red returns a red string.
func Red(s string) string {
	return color.RedString(s)
}

// Cyan returns a cyan string.
func Cyan(s string) string {
	return color.CyanString(s)
}
