// Package config provides hierarchical configuration management for chlog using koanf.
// Configuration is loaded with priority: environment variables > project config
// (.chlog/config.yml) > user config (~/.config/chlog/config.yml) > defaults. It
// supports both YAML and legacy JSON formats, with migration utilities for
// transitioning from JSON to YAML.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ariel-frischer/chlog/internal/changelog"
	"github.com/ariel-frischer/chlog/internal/lint"
)

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Configuration represents the chlog CLI tool configuration
type Configuration struct {
	// Changelog is the path to the rendered markdown changelog.
	// Can be set via CHLOG_CHANGELOG env var.
	Changelog string `koanf:"changelog" validate:"required"`

	// Source is the path to the YAML changelog source. When present it is
	// the canonical record and the markdown file is derived from it.
	Source string `koanf:"source"`

	// Repo overrides the repository URL used for comparison and PR links.
	// When empty the URL is derived from the changelog's own link
	// definitions or from the git remote.
	Repo string `koanf:"repo"`

	// Strict promotes lint warnings to errors for exit-code purposes.
	// Can be set via CHLOG_STRICT env var.
	Strict bool `koanf:"strict"`

	// RemoteTimeout bounds remote changelog fetches, e.g. "5s".
	RemoteTimeout string `koanf:"remote_timeout"`

	// Lint configures per-rule severity overrides.
	Lint LintConfig `koanf:"lint"`

	// GitHub configures the forge client used by verify and sync.
	GitHub GitHubConfig `koanf:"github"`

	// Watch configures the file-watching lint loop.
	Watch WatchConfig `koanf:"watch"`
}

// LintConfig holds lint rule tuning.
type LintConfig struct {
	// Severity maps a rule name to "error", "warning", or "off".
	Severity map[string]string `koanf:"severity"`
}

// GitHubConfig holds forge client settings.
type GitHubConfig struct {
	// Token authenticates API requests. Falls back to the GITHUB_TOKEN
	// environment variable when unset.
	Token string `koanf:"token"`
}

// WatchConfig holds watch command settings.
type WatchConfig struct {
	// Debounce is the quiet period after a file event before relinting,
	// e.g. "300ms".
	Debounce string `koanf:"debounce"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .chlog/config.yml)
	ProjectConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
//
// New YAML config paths:
//   - User config: ~/.config/chlog/config.yml (XDG compliant)
//   - Project config: .chlog/config.yml
//
// Legacy JSON config paths (deprecated, triggers migration warning):
//   - User config: ~/.chlog/config.json
//   - Project config: .chlog/config.json
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	defaults := GetDefaults()
	for key, value := range defaults {
		k.Set(key, value)
	}
}

// loadUserConfig loads user-level config (YAML preferred, legacy JSON supported).
// Priority: YAML (~/.config/chlog/config.yml) > JSON (~/.chlog/config.json).
// Warns if both exist (YAML used, JSON ignored) or if only legacy JSON exists.
func loadUserConfig(k *koanf.Koanf, warningWriter io.Writer, skipWarnings bool) error {
	userYAMLPath, _ := UserConfigPath()
	legacyUserPath, _ := LegacyUserConfigPath()

	userYAMLExists := fileExists(userYAMLPath)
	legacyUserExists := fileExists(legacyUserPath)

	if userYAMLExists {
		if err := loadYAMLConfig(k, userYAMLPath, "user"); err != nil {
			return fmt.Errorf("loading user YAML config: %w", err)
		}
		warnLegacyExists(warningWriter, legacyUserPath, userYAMLPath, legacyUserExists, skipWarnings, "--user")
	} else if legacyUserExists {
		if err := loadLegacyJSONConfig(k, legacyUserPath, "user", warningWriter, skipWarnings, "--user"); err != nil {
			return fmt.Errorf("loading legacy user JSON config: %w", err)
		}
	}
	return nil
}

// loadProjectConfig loads project-level config (YAML preferred, legacy JSON supported).
// Supports custom path override (for testing). Falls back to legacy JSON with warning.
// Same priority/warning logic as loadUserConfig.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	projectYAMLPath := ProjectConfigPath()
	if customPath != "" {
		projectYAMLPath = customPath
	}
	legacyProjectPath := LegacyProjectConfigPath()

	projectYAMLExists := fileExists(projectYAMLPath)
	legacyProjectExists := fileExists(legacyProjectPath)

	if projectYAMLExists {
		if err := loadYAMLConfig(k, projectYAMLPath, "project"); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		warnLegacyExists(warningWriter, legacyProjectPath, projectYAMLPath, legacyProjectExists, skipWarnings, "--project")
	} else if legacyProjectExists {
		if err := loadLegacyJSONConfig(k, legacyProjectPath, "project", warningWriter, skipWarnings, "--project"); err != nil {
			return fmt.Errorf("loading legacy project JSON config: %w", err)
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadLegacyJSONConfig loads legacy JSON and warns about migration
func loadLegacyJSONConfig(k *koanf.Koanf, path, configType string, warningWriter io.Writer, skipWarnings bool, migrateFlag string) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load legacy %s config %s: %w", configType, path, err)
	}
	if !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", path)
		fmt.Fprintf(warningWriter, "  Run 'chlog config migrate %s' to migrate to YAML format.\n\n", migrateFlag)
	}
	return nil
}

// warnLegacyExists warns if legacy JSON exists alongside new YAML
func warnLegacyExists(warningWriter io.Writer, legacyPath, yamlPath string, legacyExists, skipWarnings bool, migrateFlag string) {
	if legacyExists && !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyPath, yamlPath)
		fmt.Fprintf(warningWriter, "  Run 'chlog config migrate %s' to remove the legacy file.\n\n", migrateFlag)
	}
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider("CHLOG_", ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Changelog = expandHomePath(cfg.Changelog)
	cfg.Source = expandHomePath(cfg.Source)

	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}

	return &cfg, nil
}

// SeverityOverrides converts the configured lint severity map into rule
// overrides for the linter. Unknown severity strings were already rejected
// by ValidateConfigValues.
func (c *Configuration) SeverityOverrides() map[string]lint.Severity {
	if len(c.Lint.Severity) == 0 {
		return nil
	}
	overrides := make(map[string]lint.Severity, len(c.Lint.Severity))
	for rule, severity := range c.Lint.Severity {
		switch strings.ToLower(severity) {
		case "error":
			overrides[rule] = lint.Error
		case "warning", "warn":
			overrides[rule] = lint.Warning
		}
	}
	return overrides
}

// DisabledRules returns the rule names configured as "off".
func (c *Configuration) DisabledRules() map[string]bool {
	disabled := make(map[string]bool)
	for rule, severity := range c.Lint.Severity {
		if strings.ToLower(severity) == "off" {
			disabled[rule] = true
		}
	}
	return disabled
}

// RemoteTimeoutDuration parses the remote_timeout value, falling back to
// the default when unset or unparseable input slipped past validation.
func (c *Configuration) RemoteTimeoutDuration() time.Duration {
	if c.RemoteTimeout == "" {
		return changelog.DefaultRemoteTimeout
	}
	d, err := time.ParseDuration(c.RemoteTimeout)
	if err != nil || d <= 0 {
		return changelog.DefaultRemoteTimeout
	}
	return d
}

// DebounceDuration parses the watch debounce value with a sane floor.
func (c *Configuration) DebounceDuration() time.Duration {
	if c.Watch.Debounce == "" {
		return 300 * time.Millisecond
	}
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d < 50*time.Millisecond {
		return 300 * time.Millisecond
	}
	return d
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Single-segment keys stay flat; known nested prefixes map to dotted paths.
// Examples: CHLOG_CHANGELOG -> changelog, CHLOG_GITHUB_TOKEN -> github.token
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "CHLOG_"))
	for _, prefix := range []string{"lint_", "github_", "watch_"} {
		if strings.HasPrefix(key, prefix) {
			return strings.TrimSuffix(prefix, "_") + "." + strings.TrimPrefix(key, prefix)
		}
	}
	return key
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
