package native

import (
	"fmt"
	"regexp"
	"strings"

	"wingman/internal/executor"
	"wingman/pkg/manager"
)

// Diagnostic maps a recognizable piece of tool output to a cause.
type Diagnostic struct {
	Pattern *regexp.Regexp
	Cause   manager.Cause
	Message string
}

// Verdict is the translated explanation of a failed run.
type Verdict struct {
	Cause   manager.Cause
	Message string
}

// Installer exit codes are reported by winget as
// "Installer failed with exit code: N".
var wingetDiagnostics = []Diagnostic{
	{
		Pattern: regexp.MustCompile(`Installer failed with exit code: (3221226505|-1073740791)\b`),
		Cause:   manager.CauseInstallerCrashed,
		Message: "the installer terminated unexpectedly",
	},
	{
		Pattern: regexp.MustCompile(`Installer failed with exit code: 1603\b`),
		Cause:   manager.CauseElevationRequired,
		Message: "fatal error during installation; try running as administrator",
	},
	{
		Pattern: regexp.MustCompile(`Installer failed with exit code: 1618\b`),
		Cause:   manager.CauseRetryLater,
		Message: "another installation is already in progress; try again later",
	},
	{
		Pattern: regexp.MustCompile(`(?i)0x80070005|access is denied`),
		Cause:   manager.CauseElevationRequired,
		Message: "access denied; try running as administrator",
	},
	{
		Pattern: regexp.MustCompile(`(?i)no (installed )?package found matching input criteria`),
		Cause:   manager.CauseNotFound,
		Message: "no package found matching the given id",
	},
	{
		Pattern: regexp.MustCompile(`(?i)no applicable (upgrade|update) found|no available upgrade found|no newer package versions are available`),
		Cause:   manager.CauseNoUpgrade,
		Message: "no applicable upgrade found",
	},
}

var chocolateyDiagnostics = []Diagnostic{
	{
		Pattern: regexp.MustCompile(`(?i)unable to obtain lock file access|\.chocolateyPending`),
		Cause:   manager.CauseRetryLater,
		Message: "another Chocolatey operation is in progress; try again later",
	},
	{
		Pattern: regexp.MustCompile(`(?i)access to the path .* is denied|not running from an elevated command shell|administrative permissions`),
		Cause:   manager.CauseElevationRequired,
		Message: "administrator rights are required; try running as administrator",
	},
	{
		Pattern: regexp.MustCompile(`(?i)the package was not found with the source\(s\) listed|is not installed\. cannot uninstall`),
		Cause:   manager.CauseNotFound,
		Message: "package not found",
	},
	{
		Pattern: regexp.MustCompile(`(?i)installer .* exited with code 1618|exit code was '1618'`),
		Cause:   manager.CauseRetryLater,
		Message: "another installation is already in progress; try again later",
	},
}

// diagnose explains a failed run using the first matching entry of table.
// Unmatched failures get a generic message naming the exit code and the
// last meaningful line of output.
func diagnose(table []Diagnostic, program string, res executor.Result) Verdict {
	out := res.Output()
	for _, d := range table {
		if d.Pattern.MatchString(out) {
			return Verdict{Cause: d.Cause, Message: d.Message}
		}
	}

	msg := fmt.Sprintf("%s exited with code %d", program, res.ExitCode)
	if line := lastLine(out); line != "" {
		msg += ": " + line
	}
	return Verdict{Cause: manager.CauseUnknown, Message: msg}
}

// lastLine returns the last line of s that is not noise.
func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := cleanLine(lines[i])
		if len(line) > 1 && !spinnerPattern.MatchString(line) && !progressPattern.MatchString(line) {
			return line
		}
	}
	return ""
}
