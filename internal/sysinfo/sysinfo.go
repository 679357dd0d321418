// Package sysinfo reports the operating system wingman runs on.
package sysinfo

import (
	"runtime"
	"strings"
)

// Info describes the host system.
type Info struct {
	OS          string `json:"os" yaml:"os"`
	Arch        string `json:"arch" yaml:"arch"`
	ProductName string `json:"productName" yaml:"productName"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Build       string `json:"build,omitempty" yaml:"build,omitempty"`
}

// Detect returns information about the current system. Fields that cannot
// be read are left empty.
func Detect() *Info {
	info := &Info{
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		ProductName: runtime.GOOS,
	}
	detect(info)
	return info
}

// IsWindows reports whether the package tools can exist on this system.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// String returns a one line description, e.g.
// "Windows 11 Pro 23H2 (build 22631, amd64)".
func (i *Info) String() string {
	var b strings.Builder
	b.WriteString(i.ProductName)
	if i.Version != "" {
		b.WriteString(" " + i.Version)
	}
	b.WriteString(" (")
	if i.Build != "" {
		b.WriteString("build " + i.Build + ", ")
	}
	b.WriteString(i.Arch + ")")
	return b.String()
}
