package manager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"wingman/internal/config"
	"wingman/pkg/command"
)

// Registry holds the providers and routes requests to them. Read operations
// fan out to every installed provider concurrently; a failing provider never
// affects the others' results.
type Registry struct {
	providers map[Source]Provider
	cfg       *config.Config
	mu        sync.RWMutex
}

// NewRegistry creates a new provider registry.
func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{
		providers: make(map[Source]Provider),
		cfg:       cfg,
	}
}

// Register adds a provider, replacing any previous provider for its source.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns the provider for source. Store packages are served by the
// winget provider.
func (r *Registry) Get(source Source) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.providers[source]; ok {
		return p, true
	}
	if source == SourceMSStore {
		p, ok := r.providers[SourceWinget]
		return p, ok
	}
	return nil, false
}

// All returns every registered provider in priority order.
func (r *Registry) All() []Provider {
	r.mu.RLock()
	providers := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		providers = append(providers, p)
	}
	r.mu.RUnlock()

	r.sortByPriority(providers)
	return providers
}

// InstalledProviders probes every provider concurrently and returns those
// whose tool is present, in priority order.
func (r *Registry) InstalledProviders(ctx context.Context) []Provider {
	all := r.All()
	ok := make([]bool, len(all))

	var g errgroup.Group
	for i, p := range all {
		i, p := i, p
		g.Go(func() error {
			ok[i] = p.IsInstalled(ctx)
			return nil
		})
	}
	_ = g.Wait()

	var installed []Provider
	for i, p := range all {
		if ok[i] {
			installed = append(installed, p)
		}
	}
	return installed
}

// GetAllPackages lists packages from every installed provider. Providers
// that fail are recorded in Errors; truncated listings keep what was parsed.
func (r *Registry) GetAllPackages(ctx context.Context, onlyUpdates bool) PackageList {
	return r.collect(ctx, func(ctx context.Context, p Provider) ([]Package, error) {
		return p.GetPackages(ctx, onlyUpdates)
	})
}

// GetMergedPackages lists installed packages and available upgrades from
// every installed provider and joins them, so each installed package carries
// its available version. A failed upgrade query keeps the installed rows
// and is reported in Errors.
func (r *Registry) GetMergedPackages(ctx context.Context) PackageList {
	return r.collect(ctx, func(ctx context.Context, p Provider) ([]Package, error) {
		var installed, upgrades []Package

		var installedErr, upgradeErr error

		var g errgroup.Group
		g.Go(func() error {
			installed, installedErr = p.GetPackages(ctx, false)
			return nil
		})
		g.Go(func() error {
			upgrades, upgradeErr = p.GetPackages(ctx, true)
			return nil
		})
		_ = g.Wait()

		if installedErr != nil && !errors.Is(installedErr, ErrIncomplete) {
			return nil, installedErr
		}
		// A failed upgrade query still leaves a usable installed listing.
		if upgradeErr == nil || errors.Is(upgradeErr, ErrIncomplete) {
			installed = MergeUpdates(installed, upgrades)
		}
		if installedErr == nil && upgradeErr != nil {
			installedErr = fmt.Errorf("checking updates: %w", upgradeErr)
		}
		return installed, installedErr
	})
}

// SearchPackages searches every installed provider that supports search.
// A query rejected by validation is returned as an error since no provider
// could run it; other provider failures are reported in the list's Errors.
func (r *Registry) SearchPackages(ctx context.Context, query string) (PackageList, error) {
	if !command.ValidateQuery(query) {
		return PackageList{}, &command.ParamError{Template: "search", Param: "query", Value: query, Err: command.ErrInvalidParameter}
	}
	list := r.collect(ctx, func(ctx context.Context, p Provider) ([]Package, error) {
		s, ok := p.(Searcher)
		if !ok {
			return nil, nil
		}
		return s.SearchPackages(ctx, query)
	})
	for _, err := range list.Errors {
		if command.IsValidation(err) {
			return PackageList{}, err
		}
	}
	return list, nil
}

// collect runs fetch against every installed provider concurrently.
func (r *Registry) collect(ctx context.Context, fetch func(context.Context, Provider) ([]Package, error)) PackageList {
	providers := r.InstalledProviders(ctx)
	results := make([][]Package, len(providers))
	errs := make([]error, len(providers))

	var g errgroup.Group
	for i, p := range providers {
		i, p := i, p
		g.Go(func() error {
			results[i], errs[i] = fetch(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	list := PackageList{Errors: make(map[Source]error)}
	for i, p := range providers {
		if errs[i] != nil {
			list.Errors[p.Name()] = &ProviderError{Source: p.Name(), Err: errs[i]}
		}
		// Failed branches contribute whatever rows they still produced.
		list.Packages = append(list.Packages, results[i]...)
	}
	list.Packages = Dedup(list.Packages)
	if r.cfg != nil {
		SortPackages(list.Packages, r.cfg.General.SourcePriority)
	}
	list.countUpdates()
	return list
}

// resolve returns the installed provider for source.
func (r *Registry) resolve(ctx context.Context, source Source) (Provider, error) {
	p, ok := r.Get(source)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotFound, source)
	}
	if !p.IsInstalled(ctx) {
		return nil, fmt.Errorf("%w: %s is not installed", ErrProviderNotFound, p.DisplayName())
	}
	return p, nil
}

// UpdatePackage upgrades id through the provider for source.
func (r *Registry) UpdatePackage(ctx context.Context, id string, source Source, opts ActionOpts) (Result, error) {
	p, err := r.resolve(ctx, source)
	if err != nil {
		return Result{PackageID: id}, err
	}
	return p.UpdatePackage(ctx, id, opts)
}

// InstallPackage installs id through the provider for source.
func (r *Registry) InstallPackage(ctx context.Context, id string, source Source, opts ActionOpts) (Result, error) {
	p, err := r.resolve(ctx, source)
	if err != nil {
		return Result{PackageID: id}, err
	}
	return p.InstallPackage(ctx, id, opts)
}

// UninstallPackage removes id through the provider for source.
func (r *Registry) UninstallPackage(ctx context.Context, id string, source Source) (Result, error) {
	p, err := r.resolve(ctx, source)
	if err != nil {
		return Result{PackageID: id}, err
	}
	return p.UninstallPackage(ctx, id)
}

// ShowPackage describes id using the provider for source.
func (r *Registry) ShowPackage(ctx context.Context, id string, source Source) (*PackageInfo, error) {
	p, err := r.resolve(ctx, source)
	if err != nil {
		return nil, err
	}
	s, ok := p.(Shower)
	if !ok {
		return nil, fmt.Errorf("%w: show on %s", ErrNotSupported, p.Name())
	}
	return s.ShowPackage(ctx, id)
}

// GetVersions lists published versions of id using the provider for source.
func (r *Registry) GetVersions(ctx context.Context, id string, source Source) ([]string, error) {
	p, err := r.resolve(ctx, source)
	if err != nil {
		return nil, err
	}
	v, ok := p.(VersionLister)
	if !ok {
		return nil, fmt.Errorf("%w: versions on %s", ErrNotSupported, p.Name())
	}
	return v.GetVersions(ctx, id)
}

// UpdateAll updates pkgs one at a time, in order. Each item is reported to
// onResult as soon as it finishes. Items not yet started when ctx is
// cancelled are reported as cancelled without running.
func (r *Registry) UpdateAll(ctx context.Context, pkgs []Package, opts ActionOpts, onResult func(i int, res Result)) BulkResult {
	return Batch(ctx, pkgs, func(ctx context.Context, pkg Package) (Result, error) {
		return r.UpdatePackage(ctx, pkg.ID, pkg.Source, opts)
	}, onResult)
}

// Batch runs action for each package sequentially and aggregates the
// outcomes. An error from action becomes a failed result for that item and
// the batch continues.
func Batch(ctx context.Context, pkgs []Package, action func(context.Context, Package) (Result, error), onResult func(i int, res Result)) BulkResult {
	var bulk BulkResult
	for i, pkg := range pkgs {
		var res Result
		if err := ctx.Err(); err != nil {
			res = Failed(pkg.ID, ErrExecution, "cancelled before start")
			res.Cause = CauseCancelled
		} else {
			var err error
			res, err = action(ctx, pkg)
			if err != nil {
				res = Result{ExitCode: -1, Error: err.Error(), Err: err}
			}
		}
		res.PackageID = pkg.ID
		bulk.Add(res)
		if onResult != nil {
			onResult(i, res)
		}
	}
	return bulk
}

// sortByPriority sorts providers based on the configured priority order.
func (r *Registry) sortByPriority(providers []Provider) {
	priority := make(map[Source]int)
	if r.cfg != nil {
		for i, name := range r.cfg.General.SourcePriority {
			if s, ok := ParseSource(name); ok {
				priority[s] = i
			}
		}
	}

	sort.SliceStable(providers, func(i, j int) bool {
		pi, iok := priority[providers[i].Name()]
		pj, jok := priority[providers[j].Name()]
		switch {
		case iok && jok:
			return pi < pj
		case iok != jok:
			return iok
		default:
			return providers[i].Name() < providers[j].Name()
		}
	})
}
