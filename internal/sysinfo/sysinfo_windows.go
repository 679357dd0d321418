//go:build windows

package sysinfo

import (
	"strconv"

	"golang.org/x/sys/windows/registry"
)

const currentVersionKey = `SOFTWARE\Microsoft\Windows NT\CurrentVersion`

func detect(info *Info) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, currentVersionKey, registry.QUERY_VALUE)
	if err != nil {
		info.ProductName = "Windows"
		return
	}
	defer k.Close()

	info.ProductName = stringValue(k, "ProductName", "Windows")
	info.Version = stringValue(k, "DisplayVersion", stringValue(k, "ReleaseId", ""))
	info.Build = stringValue(k, "CurrentBuildNumber", "")

	// Windows 11 still reports "Windows 10" as its product name.
	if n, err := strconv.Atoi(info.Build); err == nil {
		info.ProductName = fixProductName(info.ProductName, n)
	}
}

func stringValue(k registry.Key, name, fallback string) string {
	v, _, err := k.GetStringValue(name)
	if err != nil || v == "" {
		return fallback
	}
	return v
}
