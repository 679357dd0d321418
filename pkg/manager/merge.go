package manager

import (
	"sort"
	"strings"
)

// MergeUpdates joins installed records with upgrade records on (source, id).
// Installed packages with a matching upgrade take its available version and
// are flagged; upgrade records with no installed counterpart are appended.
func MergeUpdates(installed, upgrades []Package) []Package {
	byKey := make(map[string]Package, len(upgrades))
	for _, u := range upgrades {
		byKey[u.Key()] = u
	}

	merged := make([]Package, 0, len(installed)+len(upgrades))
	seen := make(map[string]bool, len(installed))
	for _, p := range installed {
		key := p.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		if u, ok := byKey[key]; ok {
			p.AvailableVersion = u.AvailableVersion
			p.HasUpdate = true
			if p.CurrentVersion == "" {
				p.CurrentVersion = u.CurrentVersion
			}
		}
		merged = append(merged, p)
	}

	for _, u := range upgrades {
		key := u.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, u)
	}
	return merged
}

// Dedup drops repeated (source, id) records, keeping the first.
func Dedup(pkgs []Package) []Package {
	seen := make(map[string]bool, len(pkgs))
	out := pkgs[:0:0]
	for _, p := range pkgs {
		if seen[p.Key()] {
			continue
		}
		seen[p.Key()] = true
		out = append(out, p)
	}
	return out
}

// SortPackages orders packages by source priority, then name.
// Sources missing from priority sort last.
func SortPackages(pkgs []Package, priority []string) {
	rank := make(map[Source]int, len(priority))
	for i, name := range priority {
		if s, ok := ParseSource(name); ok {
			rank[s] = i
		}
	}
	// Store records travel with winget.
	if _, ok := rank[SourceMSStore]; !ok {
		if r, ok := rank[SourceWinget]; ok {
			rank[SourceMSStore] = r
		}
	}
	get := func(s Source) int {
		if r, ok := rank[s]; ok {
			return r
		}
		return len(priority)
	}

	sort.SliceStable(pkgs, func(i, j int) bool {
		pi, pj := get(pkgs[i].Source), get(pkgs[j].Source)
		if pi != pj {
			return pi < pj
		}
		return strings.ToLower(pkgs[i].DisplayName()) < strings.ToLower(pkgs[j].DisplayName())
	})
}

// Filter selects packages for display.
type Filter struct {
	OnlyUpdates bool
	Query       string
	Source      Source
	Category    Category
}

// Match reports whether p passes the filter.
func (f Filter) Match(p Package) bool {
	if f.OnlyUpdates && !p.HasUpdate {
		return false
	}
	if f.Source != "" && p.Source != f.Source {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.ID), q) {
			return false
		}
	}
	return true
}

// Apply returns the packages that pass the filter, in order.
func (f Filter) Apply(pkgs []Package) []Package {
	var out []Package
	for _, p := range pkgs {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Count returns how many packages pass the filter.
func (f Filter) Count(pkgs []Package) int {
	n := 0
	for _, p := range pkgs {
		if f.Match(p) {
			n++
		}
	}
	return n
}

// CountBySource tallies packages per source.
func CountBySource(pkgs []Package) map[Source]int {
	counts := make(map[Source]int)
	for _, p := range pkgs {
		counts[p.Source]++
	}
	return counts
}
