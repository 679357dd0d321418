//go:build !windows

package sysinfo

import (
	"os"
	"strings"
)

func detect(info *Info) {
	switch info.OS {
	case "linux":
		info.ProductName = "Linux"
		if data, err := os.ReadFile("/etc/os-release"); err == nil {
			if name := osReleaseValue(string(data), "PRETTY_NAME"); name != "" {
				info.ProductName = name
			}
		}
	case "darwin":
		info.ProductName = "macOS"
	}
}

// osReleaseValue returns the value of key from os-release content.
func osReleaseValue(content, key string) string {
	for _, line := range strings.Split(content, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), "=")
		if ok && k == key {
			return strings.Trim(v, `"'`)
		}
	}
	return ""
}
