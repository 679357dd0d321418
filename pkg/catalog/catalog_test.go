package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"wingman/internal/config"
	"wingman/pkg/cache"
	"wingman/pkg/command"
	"wingman/pkg/manager"
	"wingman/pkg/tracker"
)

// stubProvider counts calls so cache hits can be told from misses.
type stubProvider struct {
	mu       sync.Mutex
	name     manager.Source
	packages []manager.Package
	upgrades []manager.Package
	listErr    error
	upgradeErr error
	searchErr  error
	fail     map[string]bool
	lists    int
	searches int
	shows    int
	actions  []string
}

func (p *stubProvider) Name() manager.Source             { return p.name }
func (p *stubProvider) DisplayName() string              { return string(p.name) }
func (p *stubProvider) IsInstalled(context.Context) bool { return true }

func (p *stubProvider) GetPackages(_ context.Context, onlyUpdates bool) ([]manager.Package, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lists++
	if p.listErr != nil {
		return nil, p.listErr
	}
	if onlyUpdates {
		if p.upgradeErr != nil {
			return nil, p.upgradeErr
		}
		return p.upgrades, nil
	}
	return p.packages, nil
}

func (p *stubProvider) act(kind, id string) (manager.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, kind+" "+id)
	if p.fail[id] {
		return manager.Result{PackageID: id, ExitCode: 1, Error: "exit 1", Err: manager.ErrToolFailure}, nil
	}
	return manager.Result{Success: true, PackageID: id}, nil
}

func (p *stubProvider) UpdatePackage(_ context.Context, id string, _ manager.ActionOpts) (manager.Result, error) {
	return p.act("update", id)
}

func (p *stubProvider) InstallPackage(_ context.Context, id string, _ manager.ActionOpts) (manager.Result, error) {
	return p.act("install", id)
}

func (p *stubProvider) UninstallPackage(_ context.Context, id string) (manager.Result, error) {
	return p.act("uninstall", id)
}

func (p *stubProvider) SearchPackages(_ context.Context, query string) ([]manager.Package, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.searches++
	if p.searchErr != nil {
		return nil, p.searchErr
	}
	return []manager.Package{{ID: "Hit." + query, Name: query, Source: p.name}}, nil
}

func (p *stubProvider) ShowPackage(_ context.Context, id string) (*manager.PackageInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shows++
	return &manager.PackageInfo{Package: manager.Package{ID: id, Name: id, Source: p.name}, License: "MIT"}, nil
}

// advancer is the part of the fake clock the tests drive.
type advancer interface {
	Advance(d time.Duration)
}

func newService(t *testing.T, p *stubProvider) (*Service, advancer) {
	t.Helper()
	reg := manager.NewRegistry(config.Default())
	reg.Register(p)
	clock := clockwork.NewFakeClock()
	c := cache.New(cache.NewMemoryStorage(), cache.WithClock(clock))
	return New(reg, c, tracker.New(), WithTTL(time.Hour), WithSearchTTL(time.Minute)), clock
}

func wingetStub() *stubProvider {
	return &stubProvider{
		name: manager.SourceWinget,
		packages: []manager.Package{
			{ID: "Git.Git", Name: "Git", CurrentVersion: "2.41.0", Source: manager.SourceWinget},
			{ID: "7zip.7zip", Name: "7-Zip", CurrentVersion: "23.01", Source: manager.SourceWinget},
		},
		upgrades: []manager.Package{
			{ID: "Git.Git", Name: "Git", CurrentVersion: "2.41.0", AvailableVersion: "2.42.0", HasUpdate: true, Source: manager.SourceWinget},
		},
		fail: map[string]bool{},
	}
}

func TestPackagesCached(t *testing.T) {
	p := wingetStub()
	svc, clock := newService(t, p)
	ctx := context.Background()

	first := svc.Packages(ctx, false)
	if len(first.Packages) != 2 || first.TotalUpdates != 1 {
		t.Fatalf("Packages() = %+v", first)
	}
	calls := p.lists

	second := svc.Packages(ctx, false)
	if p.lists != calls {
		t.Error("second Packages() should be served from cache")
	}
	if len(second.Packages) != 2 || second.TotalUpdates != 1 {
		t.Errorf("cached Packages() = %+v", second)
	}

	svc.Packages(ctx, true)
	if p.lists == calls {
		t.Error("refresh should bypass the cache")
	}

	calls = p.lists
	clock.Advance(time.Hour)
	svc.Packages(ctx, false)
	if p.lists == calls {
		t.Error("expired listing should be fetched again")
	}
}

func TestPartialListingNotCached(t *testing.T) {
	good := wingetStub()
	bad := &stubProvider{name: manager.SourceChocolatey, listErr: errors.New("locked")}

	reg := manager.NewRegistry(config.Default())
	reg.Register(good)
	reg.Register(bad)
	svc := New(reg, cache.New(cache.NewMemoryStorage()), nil)
	ctx := context.Background()

	list := svc.Packages(ctx, false)
	if len(list.Errors) != 1 || len(list.Packages) != 2 {
		t.Fatalf("Packages() = %+v", list)
	}

	calls := good.lists
	svc.Packages(ctx, false)
	if good.lists == calls {
		t.Error("listing with provider errors must not be cached")
	}
}

func TestFailedUpdateCheckNotCached(t *testing.T) {
	p := wingetStub()
	p.upgradeErr = manager.ErrToolFailure
	svc, _ := newService(t, p)
	ctx := context.Background()

	list := svc.Packages(ctx, false)
	if len(list.Packages) != 2 {
		t.Fatalf("Packages() = %+v, want the installed rows", list)
	}
	if !errors.Is(list.Errors[manager.SourceWinget], manager.ErrToolFailure) {
		t.Fatalf("Errors = %v, want the update check failure", list.Errors)
	}

	p.mu.Lock()
	p.upgradeErr = nil
	p.mu.Unlock()

	list = svc.Packages(ctx, false)
	if list.TotalUpdates != 1 || len(list.Errors) != 0 {
		t.Errorf("Packages() after recovery = %+v, want the update to show", list)
	}
}

func TestPartialSearchNotCached(t *testing.T) {
	winget := wingetStub()
	winget.searchErr = errors.New("source unreachable")
	choco := &stubProvider{name: manager.SourceChocolatey, fail: map[string]bool{}}

	reg := manager.NewRegistry(config.Default())
	reg.Register(winget)
	reg.Register(choco)
	svc := New(reg, cache.New(cache.NewMemoryStorage()), nil)
	ctx := context.Background()

	list, err := svc.Search(ctx, "vlc", false)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(list.Packages) != 1 || list.Errors[manager.SourceWinget] == nil {
		t.Fatalf("Search() = %+v, want chocolatey results and a winget error", list)
	}

	winget.mu.Lock()
	winget.searchErr = nil
	winget.mu.Unlock()

	list, err = svc.Search(ctx, "vlc", false)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(list.Packages) != 2 || winget.searches != 2 {
		t.Errorf("Search() = %+v after %d winget searches, want a fresh search", list, winget.searches)
	}
}

func TestSearchCached(t *testing.T) {
	p := wingetStub()
	svc, clock := newService(t, p)
	ctx := context.Background()

	if _, err := svc.Search(ctx, "firefox", false); err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if _, err := svc.Search(ctx, "  Firefox ", false); err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if p.searches != 1 {
		t.Errorf("searches = %d, want 1", p.searches)
	}

	clock.Advance(time.Minute)
	svc.Search(ctx, "firefox", false)
	if p.searches != 2 {
		t.Errorf("search ttl should have expired, searches = %d", p.searches)
	}

	if _, err := svc.Search(ctx, "foo;calc", false); !command.IsValidation(err) {
		t.Errorf("Search() error = %v, want validation error", err)
	}
}

func TestShowCached(t *testing.T) {
	p := wingetStub()
	svc, _ := newService(t, p)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		info, err := svc.Show(ctx, "Git.Git", manager.SourceWinget, false)
		if err != nil || info.License != "MIT" {
			t.Fatalf("Show() = %+v, %v", info, err)
		}
	}
	if p.shows != 1 {
		t.Errorf("shows = %d, want 1", p.shows)
	}

	if _, err := svc.Versions(ctx, "Git.Git", manager.SourceWinget, false); !errors.Is(err, manager.ErrNotSupported) {
		t.Errorf("Versions() error = %v, want ErrNotSupported", err)
	}
}

func TestActionTrackedAndInvalidates(t *testing.T) {
	p := wingetStub()
	svc, _ := newService(t, p)
	ctx := context.Background()

	svc.Packages(ctx, false)
	svc.Show(ctx, "Git.Git", manager.SourceWinget, false)
	listCalls, showCalls := p.lists, p.shows

	pkg := manager.Package{ID: "Git.Git", Name: "Git", Source: manager.SourceWinget}
	res, err := svc.Update(ctx, pkg, manager.ActionOpts{})
	if err != nil || !res.Success {
		t.Fatalf("Update() = %+v, %v", res, err)
	}

	ops := svc.Tracker().List()
	if len(ops) != 1 || ops[0].Status != tracker.StatusSuccess || ops[0].Progress != 100 || ops[0].Kind != tracker.KindUpdate {
		t.Errorf("tracked ops = %+v", ops)
	}

	svc.Packages(ctx, false)
	svc.Show(ctx, "Git.Git", manager.SourceWinget, false)
	if p.lists == listCalls || p.shows == showCalls {
		t.Error("successful update should invalidate cached listing and details")
	}
}

func TestFailedActionKeepsCache(t *testing.T) {
	p := wingetStub()
	p.fail["Git.Git"] = true
	svc, _ := newService(t, p)
	ctx := context.Background()

	svc.Packages(ctx, false)
	calls := p.lists

	res, err := svc.Uninstall(ctx, manager.Package{ID: "Git.Git", Source: manager.SourceWinget})
	if err != nil || res.Success {
		t.Fatalf("Uninstall() = %+v, %v", res, err)
	}
	if ops := svc.Tracker().List(); len(ops) != 1 || ops[0].Status != tracker.StatusError {
		t.Errorf("tracked ops = %+v", ops)
	}

	svc.Packages(ctx, false)
	if p.lists != calls {
		t.Error("failed action should leave the cache alone")
	}
}

func TestInvalidIDStartsNothing(t *testing.T) {
	p := wingetStub()
	svc, _ := newService(t, p)

	_, err := svc.Install(context.Background(), manager.Package{ID: "Git.Git && calc", Source: manager.SourceWinget}, manager.ActionOpts{})
	if !errors.Is(err, command.ErrInvalidParameter) {
		t.Errorf("Install() error = %v, want ErrInvalidParameter", err)
	}
	if len(p.actions) != 0 || len(svc.Tracker().List()) != 0 {
		t.Errorf("nothing should run: actions=%v ops=%v", p.actions, svc.Tracker().List())
	}
}

func TestUnknownSourceReturnsError(t *testing.T) {
	svc, _ := newService(t, wingetStub())

	_, err := svc.Install(context.Background(), manager.Package{ID: "7zip", Source: manager.SourceChocolatey}, manager.ActionOpts{})
	if !errors.Is(err, manager.ErrProviderNotFound) {
		t.Errorf("Install() error = %v, want ErrProviderNotFound", err)
	}
}

func TestUpdateAll(t *testing.T) {
	p := wingetStub()
	p.fail["B.B"] = true
	svc, _ := newService(t, p)

	pkgs := []manager.Package{
		{ID: "A.A", Source: manager.SourceWinget},
		{ID: "B.B", Source: manager.SourceWinget},
		{ID: "C.C", Source: manager.SourceWinget},
	}

	var order []string
	bulk := svc.UpdateAll(context.Background(), pkgs, manager.ActionOpts{}, func(i int, res manager.Result) {
		order = append(order, res.PackageID)
		if got := svc.Bulk(); !got.Active || got.Current != i+1 {
			t.Errorf("bulk progress after item %d = %+v", i, got)
		}
	})

	if bulk.Total != 3 || bulk.Successful != 2 || bulk.Failed != 1 {
		t.Errorf("UpdateAll() = %+v, want 3/2/1", bulk)
	}
	if len(order) != 3 || order[0] != "A.A" || order[1] != "B.B" || order[2] != "C.C" {
		t.Errorf("results order = %v", order)
	}

	final := svc.Bulk()
	if final.Active || final.Successful != 2 || final.Failed != 1 || final.Total != 3 {
		t.Errorf("Bulk() = %+v", final)
	}
	if ops := svc.Tracker().List(); len(ops) != 3 {
		t.Errorf("tracked ops = %d, want 3", len(ops))
	}
}

func TestNoCache(t *testing.T) {
	p := wingetStub()
	reg := manager.NewRegistry(config.Default())
	reg.Register(p)
	svc := New(reg, nil, nil)
	ctx := context.Background()

	svc.Packages(ctx, false)
	calls := p.lists
	svc.Packages(ctx, false)
	if p.lists == calls {
		t.Error("without a cache every call should reach the provider")
	}
	if svc.ClearCache() != 0 || svc.Invalidate(PrefixPackages) != 0 {
		t.Error("cache operations without a cache should be no-ops")
	}
}
