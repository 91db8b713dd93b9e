package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# Chlog Configuration
# See 'chlog config -h' for commands, 'chlog config keys' for all options

# Changelog files
changelog: CHANGELOG.md               # Rendered markdown changelog
source: ""                            # YAML source of record (empty = markdown only)

# Repository settings
repo: ""                              # Repository URL override (empty = derive from links or git remote)

# Lint settings
strict: false                         # Treat lint warnings as errors
lint:
  severity: {}                        # Per-rule overrides: rule: error | warning | off
  # severity:
  #   pr-reference: error
  #   compare-link: off

# Remote fetch settings
remote_timeout: 5s                    # Timeout for remote changelog fetches

# GitHub settings (verify and sync commands)
github:
  token: ""                           # API token (empty = GITHUB_TOKEN env var)

# Watch settings
watch:
  debounce: 300ms                     # Quiet period before relinting after a change
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"changelog": "CHANGELOG.md",
		// source: YAML source of record. Empty means the markdown file is
		// authoritative and commands that mutate the changelog rewrite it
		// in place.
		"source": "",
		// repo: Repository URL override for comparison and PR links.
		// Empty means derive from the changelog's link definitions or
		// from the origin git remote.
		"repo":   "",
		"strict": false,
		// remote_timeout: Timeout for fetching the remote changelog in the
		// 'changelog' command. Duration string, e.g. "5s", "500ms".
		"remote_timeout": "5s",
		// lint.severity: Per-rule severity overrides. Keys are rule names
		// ('chlog lint --list-rules'), values are error, warning, or off.
		"lint": map[string]interface{}{
			"severity": map[string]string{},
		},
		// github.token: API token for the verify and sync commands.
		// Falls back to the GITHUB_TOKEN environment variable.
		"github": map[string]interface{}{
			"token": "",
		},
		// watch.debounce: Quiet period after a file event before relinting.
		"watch": map[string]interface{}{
			"debounce": "300ms",
		},
	}
}
