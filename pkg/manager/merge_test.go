package manager

import "testing"

func TestMergeUpdates(t *testing.T) {
	installed := []Package{
		pkg(SourceWinget, "A", "1.0", "1.0", false),
		pkg(SourceWinget, "B", "5.0", "5.0", false),
		pkg(SourceMSStore, "A", "1.0", "1.0", false),
	}
	upgrades := []Package{
		pkg(SourceWinget, "A", "1.0", "2.0", true),
		pkg(SourceChocolatey, "C", "0.1", "0.2", true),
	}

	merged := MergeUpdates(installed, upgrades)
	if len(merged) != 4 {
		t.Fatalf("MergeUpdates() returned %d packages, want 4", len(merged))
	}

	byKey := make(map[string]Package)
	for _, p := range merged {
		byKey[p.Key()] = p
	}

	a := byKey["winget:A"]
	if !a.HasUpdate || a.AvailableVersion != "2.0" || a.CurrentVersion != "1.0" {
		t.Errorf("winget:A = %+v, want hasUpdate with available 2.0", a)
	}
	if byKey["msstore:A"].HasUpdate {
		t.Error("msstore:A must not pick up the winget upgrade")
	}
	if byKey["winget:B"].HasUpdate {
		t.Error("winget:B should have no update")
	}
	if c, ok := byKey["chocolatey:C"]; !ok || !c.HasUpdate {
		t.Error("upgrade-only record should be kept")
	}
}

func TestMergeUpdatesIdempotent(t *testing.T) {
	installed := []Package{pkg(SourceWinget, "A", "1.0", "1.0", false)}
	upgrades := []Package{pkg(SourceWinget, "A", "1.0", "2.0", true)}

	once := MergeUpdates(installed, upgrades)
	twice := MergeUpdates(once, upgrades)
	if len(twice) != 1 || twice[0] != once[0] {
		t.Errorf("merging twice changed the result: %v vs %v", once, twice)
	}
}

func TestDedup(t *testing.T) {
	pkgs := []Package{
		pkg(SourceWinget, "A", "1", "1", false),
		pkg(SourceWinget, "A", "2", "2", false),
		pkg(SourceMSStore, "A", "1", "1", false),
	}
	got := Dedup(pkgs)
	if len(got) != 2 || got[0].CurrentVersion != "1" {
		t.Errorf("Dedup() = %v", got)
	}
}

func TestSortPackages(t *testing.T) {
	pkgs := []Package{
		{ID: "z", Name: "zeta", Source: SourceChocolatey},
		{ID: "b", Name: "Beta", Source: SourceWinget},
		{ID: "s", Name: "Store", Source: SourceMSStore},
		{ID: "a", Name: "alpha", Source: SourceWinget},
	}
	SortPackages(pkgs, []string{"winget", "chocolatey"})

	want := []string{"a", "b", "s", "z"}
	for i, id := range want {
		if pkgs[i].ID != id {
			t.Errorf("pkgs[%d] = %s, want %s", i, pkgs[i].ID, id)
		}
	}
}

func TestFilter(t *testing.T) {
	pkgs := []Package{
		{ID: "Mozilla.Firefox", Name: "Mozilla Firefox", Source: SourceWinget, Category: CategoryBrowser, HasUpdate: true},
		{ID: "7zip", Name: "7zip", Source: SourceChocolatey, Category: CategoryTools},
		{ID: "Git.Git", Name: "Git", Source: SourceWinget, Category: CategoryDeveloper},
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"empty", Filter{}, 3},
		{"updates", Filter{OnlyUpdates: true}, 1},
		{"source", Filter{Source: SourceWinget}, 2},
		{"category", Filter{Category: CategoryTools}, 1},
		{"query by name", Filter{Query: "firefox"}, 1},
		{"query by id", Filter{Query: "git.git"}, 1},
		{"combined", Filter{Source: SourceChocolatey, Query: "git"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Apply(pkgs); len(got) != tt.want {
				t.Errorf("Apply() = %d packages, want %d", len(got), tt.want)
			}
			if got := tt.filter.Count(pkgs); got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
		})
	}

	counts := CountBySource(pkgs)
	if counts[SourceWinget] != 2 || counts[SourceChocolatey] != 1 {
		t.Errorf("CountBySource() = %v", counts)
	}
}
