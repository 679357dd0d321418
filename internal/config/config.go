package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the complete wingman configuration.
type Config struct {
	General  GeneralConfig            `toml:"general"`
	Output   OutputConfig             `toml:"output"`
	Cache    CacheConfig              `toml:"cache"`
	Executor ExecutorConfig           `toml:"executor"`
	Tracker  TrackerConfig            `toml:"tracker"`
	Managers map[string]ManagerConfig `toml:"managers"`
	Aliases  map[string]string        `toml:"aliases"`
}

// GeneralConfig contains general wingman settings.
type GeneralConfig struct {
	// SourcePriority defines the order in which package sources are listed and preferred.
	// Valid values: "winget", "chocolatey"
	SourcePriority []string `toml:"source_priority"`

	// AutoConfirm skips confirmation prompts when true (like -y flag).
	AutoConfirm bool `toml:"auto_confirm"`

	// DryRun shows what would happen without executing when true.
	DryRun bool `toml:"dry_run"`

	// Interactive asks installers to show their own UI.
	Interactive bool `toml:"interactive"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	// Color enables colored output (respects NO_COLOR env var).
	Color bool `toml:"color"`

	// Unicode enables unicode symbols in output.
	Unicode bool `toml:"unicode"`

	// Verbose enables detailed output.
	Verbose bool `toml:"verbose"`

	// Format is the default output format: table, json or yaml.
	Format string `toml:"format"`
}

// CacheConfig controls the package list cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`

	// TTL is the lifetime of cached package lists and details.
	TTL Duration `toml:"ttl"`

	// SearchTTL is the lifetime of cached search results.
	SearchTTL Duration `toml:"search_ttl"`
}

// ExecutorConfig controls how external tools are run.
type ExecutorConfig struct {
	// MaxOutputMB caps captured output per stream. Values below 10 are raised to 10.
	MaxOutputMB int `toml:"max_output_mb"`

	// Elevate runs privileged commands through UAC or sudo when not elevated.
	Elevate bool `toml:"elevate"`
}

// TrackerConfig tunes synthetic operation progress.
type TrackerConfig struct {
	TickInterval Duration `toml:"tick_interval"`
	ProgressCap  int      `toml:"progress_cap"`
}

// ManagerConfig contains per-manager settings.
type ManagerConfig struct {
	// Enabled registers the manager. Managers absent from the map are enabled.
	Enabled bool `toml:"enabled"`
}

// Duration is a time.Duration written as a string such as "6h" or "500ms".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			SourcePriority: []string{"winget", "chocolatey"},
			AutoConfirm:    false,
			DryRun:         false,
			Interactive:    false,
		},
		Output: OutputConfig{
			Color:   true,
			Unicode: true,
			Verbose: false,
			Format:  "table",
		},
		Cache: CacheConfig{
			Enabled:   true,
			TTL:       Duration{6 * time.Hour},
			SearchTTL: Duration{30 * time.Minute},
		},
		Executor: ExecutorConfig{
			MaxOutputMB: 10,
			Elevate:     true,
		},
		Tracker: TrackerConfig{
			TickInterval: Duration{500 * time.Millisecond},
			ProgressCap:  90,
		},
		Managers: map[string]ManagerConfig{
			"winget":     {Enabled: true},
			"chocolatey": {Enabled: true},
		},
		Aliases: map[string]string{},
	}
}

// Load loads the configuration from the default path.
// If the config file doesn't exist, it returns the default configuration.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from a specific path.
// If the config file doesn't exist, it returns the default configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	// Parse the config file
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// ResolveAlias returns the package id for an alias, or the original name if no alias exists.
func (c *Config) ResolveAlias(pkg string) string {
	if alias, ok := c.Aliases[pkg]; ok {
		return alias
	}
	return pkg
}

// ResolveAliases resolves all aliases in a list of package names.
func (c *Config) ResolveAliases(packages []string) []string {
	resolved := make([]string, len(packages))
	for i, pkg := range packages {
		resolved[i] = c.ResolveAlias(pkg)
	}
	return resolved
}

// ManagerEnabled reports whether the named manager should be registered.
// Managers without a section are enabled.
func (c *Config) ManagerEnabled(name string) bool {
	if cfg, ok := c.Managers[name]; ok {
		return cfg.Enabled
	}
	return true
}

// MaxOutputBytes returns the per-stream capture cap in bytes.
func (c *Config) MaxOutputBytes() int {
	return c.Executor.MaxOutputMB << 20
}

// ShouldUseColor returns true if colored output should be used.
// Respects the NO_COLOR environment variable.
func (c *Config) ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return c.Output.Color
}
