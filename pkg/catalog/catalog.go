// Package catalog is the service front end used by the CLI and TUI. It puts
// the cache in front of registry reads and runs every install, update and
// uninstall through the operation tracker.
package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"wingman/pkg/cache"
	"wingman/pkg/command"
	"wingman/pkg/manager"
	"wingman/pkg/tracker"
)

// Cache keys.
const (
	PrefixPackages = "packages:"
	PrefixSearch   = "search:"
	PrefixShow     = "show:"
	PrefixVersions = "versions:"

	keyMerged  = PrefixPackages + "merged"
	keyUpdates = PrefixPackages + "updates"
)

// DefaultSearchTTL is the lifetime of cached search results.
const DefaultSearchTTL = 30 * time.Minute

// listing is the cached form of a PackageList.
type listing struct {
	Packages []manager.Package `json:"packages"`
}

// BulkProgress describes the running or last finished bulk update.
type BulkProgress struct {
	Active     bool `json:"active" yaml:"active"`
	Total      int  `json:"total" yaml:"total"`
	Current    int  `json:"current" yaml:"current"`
	Successful int  `json:"successful" yaml:"successful"`
	Failed     int  `json:"failed" yaml:"failed"`
}

// Service composes the registry, cache and tracker.
type Service struct {
	registry  *manager.Registry
	cache     *cache.Cache
	tracker   *tracker.Tracker
	ttl       time.Duration
	searchTTL time.Duration

	mu   sync.Mutex
	bulk BulkProgress
}

// Option configures a Service.
type Option func(*Service)

// WithTTL sets the lifetime of cached package lists and details.
func WithTTL(d time.Duration) Option {
	return func(s *Service) { s.ttl = d }
}

// WithSearchTTL sets the lifetime of cached search results.
func WithSearchTTL(d time.Duration) Option {
	return func(s *Service) { s.searchTTL = d }
}

// New creates a Service. A nil cache disables caching; a nil tracker gets a
// default one.
func New(registry *manager.Registry, c *cache.Cache, t *tracker.Tracker, opts ...Option) *Service {
	if t == nil {
		t = tracker.New()
	}
	s := &Service{
		registry:  registry,
		cache:     c,
		tracker:   t,
		ttl:       cache.DefaultTTL,
		searchTTL: DefaultSearchTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the underlying registry.
func (s *Service) Registry() *manager.Registry { return s.registry }

// Tracker returns the operation tracker.
func (s *Service) Tracker() *tracker.Tracker { return s.tracker }

// Packages returns every installed package merged with its available
// update. Listings with provider failures are returned but not cached.
func (s *Service) Packages(ctx context.Context, refresh bool) manager.PackageList {
	return s.listing(ctx, keyMerged, refresh, s.registry.GetMergedPackages)
}

// Updates returns the packages that have an update available.
func (s *Service) Updates(ctx context.Context, refresh bool) manager.PackageList {
	return s.listing(ctx, keyUpdates, refresh, func(ctx context.Context) manager.PackageList {
		return s.registry.GetAllPackages(ctx, true)
	})
}

func (s *Service) listing(ctx context.Context, key string, refresh bool, fetch func(context.Context) manager.PackageList) manager.PackageList {
	if !refresh && s.cache != nil {
		if cached, ok := cache.Get[listing](s.cache, key); ok {
			return newList(cached.Packages)
		}
	}
	list := fetch(ctx)
	if s.cache != nil && len(list.Errors) == 0 {
		cache.Set(s.cache, key, listing{Packages: list.Packages}, s.ttl)
	}
	return list
}

// Search queries every provider that supports search. Results with
// provider failures are returned but not cached.
func (s *Service) Search(ctx context.Context, query string, refresh bool) (manager.PackageList, error) {
	key := PrefixSearch + strings.ToLower(strings.TrimSpace(query))
	if !refresh && s.cache != nil {
		if cached, ok := cache.Get[[]manager.Package](s.cache, key); ok {
			return newList(cached), nil
		}
	}
	list, err := s.registry.SearchPackages(ctx, query)
	if err != nil {
		return manager.PackageList{}, err
	}
	if s.cache != nil && len(list.Errors) == 0 {
		cache.Set(s.cache, key, list.Packages, s.searchTTL)
	}
	return list, nil
}

// Show returns details for one package.
func (s *Service) Show(ctx context.Context, id string, source manager.Source, refresh bool) (*manager.PackageInfo, error) {
	key := PrefixShow + string(source) + ":" + id
	if !refresh && s.cache != nil {
		if cached, ok := cache.Get[manager.PackageInfo](s.cache, key); ok {
			return &cached, nil
		}
	}
	info, err := s.registry.ShowPackage(ctx, id, source)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && info != nil {
		cache.Set(s.cache, key, *info, s.ttl)
	}
	return info, nil
}

// Versions lists the versions a source offers for id.
func (s *Service) Versions(ctx context.Context, id string, source manager.Source, refresh bool) ([]string, error) {
	key := PrefixVersions + string(source) + ":" + id
	if !refresh && s.cache != nil {
		if cached, ok := cache.Get[[]string](s.cache, key); ok {
			return cached, nil
		}
	}
	versions, err := s.registry.GetVersions(ctx, id, source)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		cache.Set(s.cache, key, versions, s.ttl)
	}
	return versions, nil
}

// Install installs pkg as a tracked operation.
func (s *Service) Install(ctx context.Context, pkg manager.Package, opts manager.ActionOpts) (manager.Result, error) {
	return s.track(ctx, pkg, tracker.KindInstall, func(ctx context.Context) (manager.Result, error) {
		return s.registry.InstallPackage(ctx, pkg.ID, pkg.Source, opts)
	})
}

// Update updates pkg as a tracked operation.
func (s *Service) Update(ctx context.Context, pkg manager.Package, opts manager.ActionOpts) (manager.Result, error) {
	return s.track(ctx, pkg, tracker.KindUpdate, func(ctx context.Context) (manager.Result, error) {
		return s.registry.UpdatePackage(ctx, pkg.ID, pkg.Source, opts)
	})
}

// Uninstall removes pkg as a tracked operation.
func (s *Service) Uninstall(ctx context.Context, pkg manager.Package) (manager.Result, error) {
	return s.track(ctx, pkg, tracker.KindUninstall, func(ctx context.Context) (manager.Result, error) {
		return s.registry.UninstallPackage(ctx, pkg.ID, pkg.Source)
	})
}

// track validates the id, runs action under the tracker and drops cached
// listings when it succeeds. An invalid id starts no operation.
func (s *Service) track(ctx context.Context, pkg manager.Package, kind tracker.Kind, action func(context.Context) (manager.Result, error)) (manager.Result, error) {
	if !command.ValidateIdentifier(pkg.ID, true) {
		return manager.Result{}, &command.ParamError{Template: command.Key(kind), Param: "id", Value: pkg.ID, Err: command.ErrInvalidParameter}
	}

	var actionErr error
	res := s.tracker.Run(ctx, pkg, kind, func(ctx context.Context) manager.Result {
		res, err := action(ctx)
		if err != nil {
			actionErr = err
			return manager.Result{PackageID: pkg.ID, ExitCode: -1, Error: err.Error(), Err: err}
		}
		return res
	})
	if actionErr != nil {
		return manager.Result{}, actionErr
	}

	if res.Success {
		s.invalidatePackage(pkg)
	}
	return res, nil
}

func (s *Service) invalidatePackage(pkg manager.Package) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidatePrefix(PrefixPackages)
	s.cache.Invalidate(PrefixShow + string(pkg.Source) + ":" + pkg.ID)
}

// UpdateAll updates pkgs one at a time, each as a tracked operation.
// Progress is published through Bulk.
func (s *Service) UpdateAll(ctx context.Context, pkgs []manager.Package, opts manager.ActionOpts, onResult func(i int, res manager.Result)) manager.BulkResult {
	s.mu.Lock()
	s.bulk = BulkProgress{Active: true, Total: len(pkgs)}
	s.mu.Unlock()

	bulk := manager.Batch(ctx, pkgs, func(ctx context.Context, pkg manager.Package) (manager.Result, error) {
		return s.Update(ctx, pkg, opts)
	}, func(i int, res manager.Result) {
		s.mu.Lock()
		s.bulk.Current++
		if res.Success {
			s.bulk.Successful++
		} else {
			s.bulk.Failed++
		}
		s.mu.Unlock()
		if onResult != nil {
			onResult(i, res)
		}
	})

	s.mu.Lock()
	s.bulk.Active = false
	s.mu.Unlock()
	return bulk
}

// Bulk returns the state of the current or last bulk update.
func (s *Service) Bulk() BulkProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bulk
}

// Invalidate drops cached entries under prefix and returns how many were
// removed.
func (s *Service) Invalidate(prefix string) int {
	if s.cache == nil {
		return 0
	}
	return s.cache.InvalidatePrefix(prefix)
}

// ClearCache drops every cached entry.
func (s *Service) ClearCache() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Clear()
}

func newList(pkgs []manager.Package) manager.PackageList {
	list := manager.PackageList{Packages: pkgs}
	for _, p := range pkgs {
		if p.HasUpdate {
			list.TotalUpdates++
		}
	}
	return list
}
