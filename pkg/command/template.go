package command

import (
	"fmt"
	"regexp"
	"sort"
)

// Key names an entry in the template table.
type Key string

// Template keys.
const (
	WingetProbe              Key = "winget.probe"
	WingetList               Key = "winget.list"
	WingetSearch             Key = "winget.search"
	WingetShow               Key = "winget.show"
	WingetShowVersions       Key = "winget.show.versions"
	WingetUpgradeList        Key = "winget.upgrade.list"
	WingetInstall            Key = "winget.install"
	WingetInstallVersion     Key = "winget.install.version"
	WingetInstallInteractive Key = "winget.install.interactive"
	WingetUpgrade            Key = "winget.upgrade"
	WingetUpgradeInteractive Key = "winget.upgrade.interactive"
	WingetUninstall          Key = "winget.uninstall"

	ChocoProbe          Key = "choco.probe"
	ChocoList           Key = "choco.list"
	ChocoOutdated       Key = "choco.outdated"
	ChocoSearch         Key = "choco.search"
	ChocoInfo           Key = "choco.info"
	ChocoVersions       Key = "choco.versions"
	ChocoInstall        Key = "choco.install"
	ChocoInstallVersion Key = "choco.install.version"
	ChocoUpgrade        Key = "choco.upgrade"
	ChocoUninstall      Key = "choco.uninstall"
)

// Role decides how a placeholder value is validated before substitution.
type Role int

const (
	// RoleIdentifier values must pass strict identifier validation.
	RoleIdentifier Role = iota
	// RoleQuery values must pass query validation and are sanitized.
	RoleQuery
	// RoleVersion values must pass strict identifier validation.
	RoleVersion
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleIdentifier:
		return "identifier"
	case RoleQuery:
		return "query"
	case RoleVersion:
		return "version"
	default:
		return "unknown"
	}
}

// Template is a fixed argument vector with named placeholders.
type Template struct {
	Key     Key
	Program string
	Args    []string
	// Params declares every placeholder the template uses and its role.
	Params map[string]Role
	// Mutating templates change installed software; dry-run applies to them.
	Mutating bool
	// Elevated templates need administrator rights.
	Elevated bool
}

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z]+)\}`)

var (
	idParam      = map[string]Role{"id": RoleIdentifier}
	queryParam   = map[string]Role{"query": RoleQuery}
	versionParam = map[string]Role{"id": RoleIdentifier, "version": RoleVersion}
)

const acceptSource = "--accept-source-agreements"
const acceptPackage = "--accept-package-agreements"

var defaultTemplates = []Template{
	{Key: WingetProbe, Program: "winget", Args: []string{"--version"}},
	{Key: WingetList, Program: "winget", Args: []string{"list", acceptSource}},
	{Key: WingetSearch, Program: "winget", Args: []string{"search", "{query}", acceptSource}, Params: queryParam},
	{Key: WingetShow, Program: "winget", Args: []string{"show", "--id", "{id}", acceptSource}, Params: idParam},
	{Key: WingetShowVersions, Program: "winget", Args: []string{"show", "--id", "{id}", "--versions", acceptSource}, Params: idParam},
	{Key: WingetUpgradeList, Program: "winget", Args: []string{"upgrade", acceptSource}},
	{Key: WingetInstall, Program: "winget", Args: []string{"install", "--id", "{id}", acceptSource, acceptPackage}, Params: idParam, Mutating: true},
	{Key: WingetInstallVersion, Program: "winget", Args: []string{"install", "--id", "{id}", "--version", "{version}", "--force", acceptSource, acceptPackage}, Params: versionParam, Mutating: true},
	{Key: WingetInstallInteractive, Program: "winget", Args: []string{"install", "{id}", "--interactive"}, Params: idParam, Mutating: true},
	{Key: WingetUpgrade, Program: "winget", Args: []string{"upgrade", "--id", "{id}", acceptSource, acceptPackage}, Params: idParam, Mutating: true},
	{Key: WingetUpgradeInteractive, Program: "winget", Args: []string{"upgrade", "--id", "{id}", "--interactive"}, Params: idParam, Mutating: true},
	{Key: WingetUninstall, Program: "winget", Args: []string{"uninstall", "--id", "{id}", acceptSource}, Params: idParam, Mutating: true},

	{Key: ChocoProbe, Program: "choco", Args: []string{"--version"}},
	{Key: ChocoList, Program: "choco", Args: []string{"list", "-lo", "-r"}},
	{Key: ChocoOutdated, Program: "choco", Args: []string{"outdated", "-r"}},
	{Key: ChocoSearch, Program: "choco", Args: []string{"search", "{query}", "-r"}, Params: queryParam},
	{Key: ChocoInfo, Program: "choco", Args: []string{"info", "{id}"}, Params: idParam},
	{Key: ChocoVersions, Program: "choco", Args: []string{"search", "{id}", "--exact", "--all-versions", "-r"}, Params: idParam},
	{Key: ChocoInstall, Program: "choco", Args: []string{"install", "{id}", "-y"}, Params: idParam, Mutating: true, Elevated: true},
	{Key: ChocoInstallVersion, Program: "choco", Args: []string{"install", "{id}", "--version", "{version}", "-y"}, Params: versionParam, Mutating: true, Elevated: true},
	{Key: ChocoUpgrade, Program: "choco", Args: []string{"upgrade", "{id}", "-y"}, Params: idParam, Mutating: true, Elevated: true},
	{Key: ChocoUninstall, Program: "choco", Args: []string{"uninstall", "{id}", "-y"}, Params: idParam, Mutating: true, Elevated: true},
}

// check verifies that the placeholders used in Args and the declared Params
// are the same set, and that no argument holds more than one placeholder.
func (t Template) check() error {
	used := make(map[string]bool)
	for _, arg := range t.Args {
		matches := placeholderPattern.FindAllStringSubmatch(arg, -1)
		if len(matches) > 1 {
			return fmt.Errorf("template %s: argument %q has %d placeholders", t.Key, arg, len(matches))
		}
		for _, m := range matches {
			if _, ok := t.Params[m[1]]; !ok {
				return fmt.Errorf("template %s: undeclared placeholder {%s}", t.Key, m[1])
			}
			used[m[1]] = true
		}
	}
	for name := range t.Params {
		if !used[name] {
			return fmt.Errorf("template %s: declared parameter %q is never used", t.Key, name)
		}
	}
	if t.Program == "" {
		return fmt.Errorf("template %s: empty program", t.Key)
	}
	return nil
}

// paramNames returns the declared parameter names in sorted order.
func (t Template) paramNames() []string {
	names := make([]string, 0, len(t.Params))
	for name := range t.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
