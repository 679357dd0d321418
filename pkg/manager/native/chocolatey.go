package native

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"wingman/pkg/command"
	"wingman/pkg/manager"
)

// Chocolatey implements the Provider interface for Chocolatey.
type Chocolatey struct {
	*BaseProvider
}

var (
	_ manager.Provider      = (*Chocolatey)(nil)
	_ manager.Searcher      = (*Chocolatey)(nil)
	_ manager.Shower        = (*Chocolatey)(nil)
	_ manager.VersionLister = (*Chocolatey)(nil)
)

// NewChocolatey creates a new Chocolatey provider running commands through gw.
func NewChocolatey(gw Gateway) *Chocolatey {
	return &Chocolatey{
		BaseProvider: NewBaseProvider(manager.SourceChocolatey, "Chocolatey", command.ChocoProbe, gw, chocolateyDiagnostics),
	}
}

// GetPackages lists installed packages, or outdated ones.
func (c *Chocolatey) GetPackages(ctx context.Context, onlyUpdates bool) ([]manager.Package, error) {
	if onlyUpdates {
		return c.list(ctx, command.ChocoOutdated, nil, func(out string) []manager.Package {
			return parseChocoRecords(out, true)
		})
	}
	return c.list(ctx, command.ChocoList, nil, func(out string) []manager.Package {
		return parseChocoRecords(out, false)
	})
}

// SearchPackages finds packages matching query.
func (c *Chocolatey) SearchPackages(ctx context.Context, query string) ([]manager.Package, error) {
	return c.list(ctx, command.ChocoSearch, command.Params{"query": query}, func(out string) []manager.Package {
		return parseChocoRecords(out, false)
	})
}

// ShowPackage returns details about a package.
func (c *Chocolatey) ShowPackage(ctx context.Context, id string) (*manager.PackageInfo, error) {
	res, err := c.query(ctx, command.ChocoInfo, command.Params{"id": id})
	if err != nil {
		return nil, err
	}
	if !res.Success {
		d := diagnose(c.diagnostics, "choco", res)
		return nil, fmt.Errorf("%w: %s", manager.ErrToolFailure, d.Message)
	}
	return parseChocoInfo(res.Stdout, id), nil
}

// GetVersions lists every published version of a package.
func (c *Chocolatey) GetVersions(ctx context.Context, id string) ([]string, error) {
	pkgs, err := c.list(ctx, command.ChocoVersions, command.Params{"id": id}, func(out string) []manager.Package {
		return parseChocoRecords(out, false)
	})
	if err != nil {
		return nil, err
	}
	var versions []string
	for _, p := range pkgs {
		if strings.EqualFold(p.ID, id) {
			versions = append(versions, p.CurrentVersion)
		}
	}
	return versions, nil
}

// InstallPackage installs a package, optionally pinned to a version.
// Chocolatey has no interactive mode; the flag is ignored.
func (c *Chocolatey) InstallPackage(ctx context.Context, id string, opts manager.ActionOpts) (manager.Result, error) {
	if opts.Version != "" {
		return c.action(ctx, command.ChocoInstallVersion, command.Params{"id": id, "version": opts.Version}, id)
	}
	return c.action(ctx, command.ChocoInstall, command.Params{"id": id}, id)
}

// UpdatePackage upgrades a package.
func (c *Chocolatey) UpdatePackage(ctx context.Context, id string, _ manager.ActionOpts) (manager.Result, error) {
	return c.action(ctx, command.ChocoUpgrade, command.Params{"id": id}, id)
}

// UninstallPackage removes a package.
func (c *Chocolatey) UninstallPackage(ctx context.Context, id string) (manager.Result, error) {
	return c.action(ctx, command.ChocoUninstall, command.Params{"id": id}, id)
}

// parseChocoRecords parses "-r" output: "id|version" for list and search,
// "id|current|available|pinned" for outdated.
func parseChocoRecords(output string, outdated bool) []manager.Package {
	var pkgs []manager.Package
	for _, raw := range strings.Split(output, "\n") {
		line := cleanLine(raw)
		if !strings.Contains(line, "|") {
			continue
		}
		p, ok := guard(func() (manager.Package, bool) {
			return parseChocoRecord(line, outdated)
		})
		if ok {
			pkgs = append(pkgs, p)
		}
	}
	return pkgs
}

func parseChocoRecord(line string, outdated bool) (manager.Package, bool) {
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	id := parts[0]
	if !command.ValidateIdentifier(id, true) || len(parts) < 2 || parts[1] == "" {
		return manager.Package{}, false
	}

	p := manager.Package{
		ID:               id,
		Name:             id,
		CurrentVersion:   parts[1],
		AvailableVersion: parts[1],
		Source:           manager.SourceChocolatey,
	}
	if outdated {
		if len(parts) < 3 || parts[2] == "" {
			return manager.Package{}, false
		}
		p.AvailableVersion = parts[2]
		p.HasUpdate = true
	}
	p.Category = manager.DetectCategory(p.Name, p.ID)
	return p, true
}

var chocoHeaderPattern = regexp.MustCompile(`^(\S+) (\S+)( \[.*\])?$`)

// parseChocoInfo parses "choco info" output.
func parseChocoInfo(output, id string) *manager.PackageInfo {
	info := &manager.PackageInfo{
		Package: manager.Package{
			ID:     id,
			Name:   id,
			Source: manager.SourceChocolatey,
		},
	}

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimRight(visible(raw), " ")
		trimmed := strings.TrimSpace(line)

		if !strings.HasPrefix(line, " ") {
			if m := chocoHeaderPattern.FindStringSubmatch(trimmed); m != nil && strings.EqualFold(m[1], id) {
				info.ID = m[1]
				info.CurrentVersion = m[2]
				info.AvailableVersion = m[2]
			}
			continue
		}

		key, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Title":
			title, _, _ := strings.Cut(value, " | ")
			info.Name = strings.TrimSpace(title)
		case "Summary":
			info.Description = value
		case "Software Site":
			info.Homepage = value
		case "Software License":
			info.License = value
		case "Tags":
			info.Tags = strings.Fields(value)
		case "Maintainer(s)", "Software Author(s)":
			if info.Publisher == "" {
				info.Publisher = value
			}
		}
	}

	info.Category = manager.DetectCategory(info.Name, info.ID)
	return info
}
