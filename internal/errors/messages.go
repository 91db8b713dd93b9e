package errors

import "fmt"

// Common error messages for the chlog CLI.
// These templates ensure consistent, actionable error messages.

// ChangelogNotFound creates an error for a missing changelog file.
func ChangelogNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("changelog not found: %s", path),
		"Run 'chlog init' to create a starter changelog",
		"Or point at an existing file with --file <path>",
	)
}

// SourceNotFound creates an error for a missing YAML changelog source.
func SourceNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("changelog source not found: %s", path),
		"Run 'chlog init --source' to create a YAML source of record",
		"Or unset 'source' in .chlog/config.yml to edit the markdown directly",
	)
}

// MissingEntryText creates an error for a missing entry description argument.
func MissingEntryText() *CLIError {
	return NewArgumentErrorWithUsage(
		"entry text is required",
		"chlog add <category> \"<entry text>\"",
		"Provide the entry text in quotes",
		"Example: chlog add fixed \"Handle empty tag lists in sync\"",
	)
}

// InvalidCategory creates an error for an unknown change category.
func InvalidCategory(provided string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid change category: %s", provided),
		"Valid categories: added, changed, deprecated, removed, fixed, security, other",
		"Example: chlog add added \"New verify command\"",
	)
}

// InvalidVersion creates an error for a malformed version argument.
func InvalidVersion(provided string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid version: %s", provided),
		"chlog release <version>",
		"Versions must be semantic, e.g. 1.4.0 or v2.0.0-rc.1",
		"Or bump automatically: chlog release --bump minor",
	)
}

// VersionNotFound creates an error when a requested version has no section.
func VersionNotFound(version string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("version not found in changelog: %s", version),
		"List documented versions with: chlog show --list",
		"Versions match with or without a leading 'v'",
	)
}

// NothingToRelease creates an error when the unreleased section is empty.
func NothingToRelease() *CLIError {
	return NewPrerequisiteError(
		"no unreleased changes to promote",
		"Add entries first with: chlog add <category> \"<text>\"",
		"Or draft them from merged PRs: chlog draft",
	)
}

// ConfigFileNotFound creates an error for missing config file.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Run 'chlog init' to create default configuration",
		"Or create the file manually with required settings",
	)
}

// ConfigParseError creates an error for invalid config file format.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to parse config file: %s", path),
		"Check the file for YAML syntax errors",
		"Reset to defaults with: chlog init --force",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'chlog <command> --help' to see valid options",
	)
}

// RepoURLUnknown creates an error when no repository URL can be determined.
func RepoURLUnknown() *CLIError {
	return NewConfigError(
		"could not determine repository URL",
		"Set it in .chlog/config.yml: repo: https://github.com/owner/name",
		"Or add comparison link definitions to the changelog footer",
		"Or run inside a git repository with an 'origin' remote",
	)
}

// TokenRequired creates an error when a forge operation needs authentication.
func TokenRequired(operation string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("%s requires a GitHub token", operation),
		"Set the GITHUB_TOKEN environment variable",
		"Or set github.token in .chlog/config.yml",
	)
}

// TimeoutError creates an error when an operation times out.
func TimeoutError(duration string, operation string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("%s timed out after %s", operation, duration),
		"Check your network connection",
		"Increase the timeout: CHLOG_REMOTE_TIMEOUT=30s",
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}

// GitNotRepository creates an error when not in a git repository.
func GitNotRepository() *CLIError {
	return NewPrerequisiteError(
		"not a git repository",
		"Initialize with: git init",
		"Or navigate to an existing repository",
	)
}
