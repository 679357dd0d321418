package sysinfo

import "strings"

// firstWindows11Build is the first build number released as Windows 11.
const firstWindows11Build = 22000

// fixProductName corrects the "Windows 10" product name that Windows 11
// keeps in the registry.
func fixProductName(name string, build int) string {
	if build >= firstWindows11Build && strings.HasPrefix(name, "Windows 10") {
		return "Windows 11" + strings.TrimPrefix(name, "Windows 10")
	}
	return name
}
