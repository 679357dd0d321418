package native

import (
	"context"
	"errors"
	"sync"
	"testing"

	"wingman/internal/executor"
	"wingman/pkg/command"
	"wingman/pkg/manager"
)

// fakeGateway returns canned results keyed by the rendered command line.
type fakeGateway struct {
	mu            sync.Mutex
	available     bool
	results       map[string]executor.Result
	calls         []command.Command
	versionChecks int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{available: true, results: make(map[string]executor.Result)}
}

func (f *fakeGateway) on(line string, res executor.Result) *fakeGateway {
	f.results[line] = res
	return f
}

func (f *fakeGateway) Execute(_ context.Context, cmd command.Command) executor.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmd)
	if res, ok := f.results[cmd.String()]; ok {
		return res
	}
	return executor.Result{Success: true}
}

func (f *fakeGateway) CheckAvailable(_ context.Context, _ command.Command) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versionChecks++
	return f.available
}

// TestProviderInterface verifies both providers implement the full contract.
func TestProviderInterface(t *testing.T) {
	providers := []manager.Provider{
		NewWinget(newFakeGateway()),
		NewChocolatey(newFakeGateway()),
	}

	for _, p := range providers {
		t.Run(string(p.Name()), func(t *testing.T) {
			if p.DisplayName() == "" {
				t.Error("DisplayName() should not be empty")
			}
			if _, ok := p.(manager.Searcher); !ok {
				t.Error("provider should implement Searcher")
			}
			if _, ok := p.(manager.Shower); !ok {
				t.Error("provider should implement Shower")
			}
		})
	}
}

func TestWingetGetPackages(t *testing.T) {
	gw := newFakeGateway().
		on("winget list --accept-source-agreements", executor.Result{Success: true, Stdout: wingetListOutput}).
		on("winget upgrade --accept-source-agreements", executor.Result{Success: true, Stdout: wingetUpgradeOutput})
	w := NewWinget(gw)
	ctx := context.Background()

	pkgs, err := w.GetPackages(ctx, false)
	if err != nil {
		t.Fatalf("GetPackages() error: %v", err)
	}
	if len(pkgs) != 4 {
		t.Errorf("GetPackages() = %d packages, want 4", len(pkgs))
	}

	ups, err := w.GetPackages(ctx, true)
	if err != nil {
		t.Fatalf("GetPackages(updates) error: %v", err)
	}
	if len(ups) != 2 {
		t.Errorf("GetPackages(updates) = %d packages, want 2", len(ups))
	}

	merged := manager.MergeUpdates(pkgs, ups)
	for _, p := range merged {
		if p.ID == "Mozilla.Firefox" && (!p.HasUpdate || p.AvailableVersion != "119.0") {
			t.Errorf("merged Firefox = %+v", p)
		}
	}
}

func TestAvailabilityRemembered(t *testing.T) {
	gw := newFakeGateway()
	w := NewWinget(gw)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !w.IsInstalled(ctx) {
			t.Fatal("IsInstalled() = false")
		}
	}
	if gw.versionChecks != 1 {
		t.Errorf("versionChecks = %d, want 1", gw.versionChecks)
	}
}

func TestToolUnavailable(t *testing.T) {
	gw := newFakeGateway()
	gw.available = false
	c := NewChocolatey(gw)
	ctx := context.Background()

	if _, err := c.GetPackages(ctx, false); !errors.Is(err, manager.ErrToolUnavailable) {
		t.Errorf("GetPackages() error = %v, want ErrToolUnavailable", err)
	}

	res, err := c.InstallPackage(ctx, "7zip", manager.ActionOpts{})
	if err != nil {
		t.Fatalf("InstallPackage() error = %v", err)
	}
	if res.Success || !errors.Is(res.Err, manager.ErrToolUnavailable) {
		t.Errorf("InstallPackage() = %+v, want ErrToolUnavailable result", res)
	}
	if len(gw.calls) != 0 {
		t.Errorf("no process should run, got %v", gw.calls)
	}
}

func TestActionValidationSpawnsNothing(t *testing.T) {
	gw := newFakeGateway()
	w := NewWinget(gw)

	_, err := w.InstallPackage(context.Background(), "Foo;calc", manager.ActionOpts{})
	if !errors.Is(err, command.ErrInvalidParameter) {
		t.Errorf("InstallPackage() error = %v, want ErrInvalidParameter", err)
	}
	if len(gw.calls) != 0 || gw.versionChecks != 0 {
		t.Errorf("validation failure must not spawn anything: calls=%v versionChecks=%d", gw.calls, gw.versionChecks)
	}
}

func TestActionTemplates(t *testing.T) {
	tests := []struct {
		name string
		run  func(ctx context.Context, w *Winget, c *Chocolatey) (manager.Result, error)
		want string
	}{
		{"winget install", func(ctx context.Context, w *Winget, _ *Chocolatey) (manager.Result, error) {
			return w.InstallPackage(ctx, "Git.Git", manager.ActionOpts{})
		}, "winget install --id Git.Git --accept-source-agreements --accept-package-agreements"},
		{"winget install version", func(ctx context.Context, w *Winget, _ *Chocolatey) (manager.Result, error) {
			return w.InstallPackage(ctx, "Git.Git", manager.ActionOpts{Version: "2.40.0"})
		}, "winget install --id Git.Git --version 2.40.0 --force --accept-source-agreements --accept-package-agreements"},
		{"winget install interactive", func(ctx context.Context, w *Winget, _ *Chocolatey) (manager.Result, error) {
			return w.InstallPackage(ctx, "Git.Git", manager.ActionOpts{Interactive: true})
		}, "winget install Git.Git --interactive"},
		{"winget upgrade interactive", func(ctx context.Context, w *Winget, _ *Chocolatey) (manager.Result, error) {
			return w.UpdatePackage(ctx, "Git.Git", manager.ActionOpts{Interactive: true})
		}, "winget upgrade --id Git.Git --interactive"},
		{"winget uninstall", func(ctx context.Context, w *Winget, _ *Chocolatey) (manager.Result, error) {
			return w.UninstallPackage(ctx, "Git.Git")
		}, "winget uninstall --id Git.Git --accept-source-agreements"},
		{"choco upgrade", func(ctx context.Context, _ *Winget, c *Chocolatey) (manager.Result, error) {
			return c.UpdatePackage(ctx, "7zip", manager.ActionOpts{Interactive: true})
		}, "choco upgrade 7zip -y"},
		{"choco install version", func(ctx context.Context, _ *Winget, c *Chocolatey) (manager.Result, error) {
			return c.InstallPackage(ctx, "7zip", manager.ActionOpts{Version: "19.0"})
		}, "choco install 7zip --version 19.0 -y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newFakeGateway()
			res, err := tt.run(context.Background(), NewWinget(gw), NewChocolatey(gw))
			if err != nil || !res.Success {
				t.Fatalf("action = %+v, %v", res, err)
			}
			if len(gw.calls) != 1 || gw.calls[0].String() != tt.want {
				t.Errorf("ran %v, want %q", gw.calls, tt.want)
			}
		})
	}
}

func TestActionFailureTranslated(t *testing.T) {
	gw := newFakeGateway().on(
		"winget upgrade --id Git.Git --accept-source-agreements --accept-package-agreements",
		executor.Result{ExitCode: 1, Stdout: "Installer failed with exit code: 1618"},
	)
	res, err := NewWinget(gw).UpdatePackage(context.Background(), "Git.Git", manager.ActionOpts{})
	if err != nil {
		t.Fatalf("UpdatePackage() error: %v", err)
	}
	if res.Success {
		t.Error("non-zero exit must not be reported as success")
	}
	if res.Cause != manager.CauseRetryLater || !errors.Is(res.Err, manager.ErrToolFailure) {
		t.Errorf("result = %+v", res)
	}
	if res.PackageID != "Git.Git" || res.ExitCode != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestTransportFailure(t *testing.T) {
	gw := newFakeGateway().on(
		"choco uninstall 7zip -y",
		executor.Result{ExitCode: -1, Err: executor.ErrTransport},
	)
	res, err := NewChocolatey(gw).UninstallPackage(context.Background(), "7zip")
	if err != nil {
		t.Fatalf("UninstallPackage() error: %v", err)
	}
	if res.Success || !errors.Is(res.Err, manager.ErrExecution) {
		t.Errorf("result = %+v, want ErrExecution", res)
	}
}

func TestListNonZeroExit(t *testing.T) {
	gw := newFakeGateway().
		on("winget search nothing --accept-source-agreements", executor.Result{ExitCode: 1, Stdout: "No package found matching input criteria."}).
		on("winget search broken --accept-source-agreements", executor.Result{ExitCode: 5, Stderr: "catalog unreachable"})
	w := NewWinget(gw)
	ctx := context.Background()

	pkgs, err := w.SearchPackages(ctx, "nothing")
	if err != nil || len(pkgs) != 0 {
		t.Errorf("SearchPackages(nothing) = %v, %v; want empty without error", pkgs, err)
	}

	_, err = w.SearchPackages(ctx, "broken")
	if !errors.Is(err, manager.ErrToolFailure) {
		t.Errorf("SearchPackages(broken) error = %v, want ErrToolFailure", err)
	}
}

func TestChocolateyVersions(t *testing.T) {
	gw := newFakeGateway().on(
		"choco search 7zip --exact --all-versions -r",
		executor.Result{Success: true, Stdout: "7zip|23.1.0\n7zip|22.1\n7zip.install|23.1.0\n"},
	)
	versions, err := NewChocolatey(gw).GetVersions(context.Background(), "7zip")
	if err != nil {
		t.Fatalf("GetVersions() error: %v", err)
	}
	if len(versions) != 2 || versions[0] != "23.1.0" {
		t.Errorf("GetVersions() = %v", versions)
	}
}

func TestTruncatedListIsIncomplete(t *testing.T) {
	gw := newFakeGateway().on("winget list --accept-source-agreements", executor.Result{
		Success:   true,
		Truncated: true,
		Stdout:    "Name  Id  Version  Source\n---------------------------------\nMozilla Firefox  Mozilla.Firefox  118.0.1  winget\nVLC media pla",
	})
	w := NewWinget(gw)

	pkgs, err := w.GetPackages(context.Background(), false)
	if !errors.Is(err, manager.ErrIncomplete) {
		t.Fatalf("GetPackages() error = %v, want ErrIncomplete", err)
	}
	if len(pkgs) != 1 || pkgs[0].ID != "Mozilla.Firefox" {
		t.Errorf("GetPackages() = %+v, want the complete line only", pkgs)
	}
}
