package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/chlog/internal/changelog"
	"github.com/ariel-frischer/chlog/internal/config"
	cerrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/ariel-frischer/chlog/internal/git"
)

// loadConfig loads configuration, honoring the --config persistent flag.
func loadConfig() (*config.Configuration, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, cerrors.WrapWithMessage(err, cerrors.Configuration,
			"failed to load configuration",
			"Check .chlog/config.yml for syntax errors",
			"Reset with: chlog init --force")
	}
	return cfg, nil
}

// changelogPath resolves the markdown changelog path. The --file flag wins
// over configuration.
func changelogPath(cfg *config.Configuration) string {
	if fileFlag != "" {
		return fileFlag
	}
	return cfg.Changelog
}

// loadDoc parses the markdown changelog into a tolerant positional document.
func loadDoc(cfg *config.Configuration) (*changelog.MarkdownDoc, string, error) {
	path := changelogPath(cfg)
	if _, err := os.Stat(path); err != nil {
		return nil, path, cerrors.ChangelogNotFound(path)
	}

	doc, err := changelog.ParseMarkdownFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, path, nil
}

// loadModel loads the semantic changelog model. When a YAML source is
// configured it is the source of record; otherwise the markdown file is
// parsed strictly.
func loadModel(cfg *config.Configuration) (*changelog.Changelog, string, error) {
	if cfg.Source != "" {
		if _, err := os.Stat(cfg.Source); err != nil {
			return nil, cfg.Source, cerrors.SourceNotFound(cfg.Source)
		}
		log, err := changelog.Load(cfg.Source)
		if err != nil {
			return nil, cfg.Source, fmt.Errorf("loading %s: %w", cfg.Source, err)
		}
		applyRepoOverride(log, cfg)
		return log, cfg.Source, nil
	}

	doc, path, err := loadDoc(cfg)
	if err != nil {
		return nil, path, err
	}

	log, err := doc.ToChangelog(projectName())
	if err != nil {
		return nil, path, fmt.Errorf("interpreting %s: %w", path, err)
	}
	applyRepoOverride(log, cfg)
	return log, path, nil
}

// saveModel persists the semantic model back to its origin. A YAML source
// is written as YAML and the markdown is regenerated alongside it; a
// markdown-only setup rewrites the markdown in place.
func saveModel(cfg *config.Configuration, log *changelog.Changelog) error {
	if cfg.Source != "" {
		if err := changelog.Save(cfg.Source, log); err != nil {
			return fmt.Errorf("writing %s: %w", cfg.Source, err)
		}
	}

	content, err := changelog.RenderMarkdownString(log)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}

	path := changelogPath(cfg)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return cerrors.FileNotWritable(path)
	}
	return nil
}

// applyRepoOverride forces the configured repository URL onto the model
// so that footer links are generated against the right repo.
func applyRepoOverride(log *changelog.Changelog, cfg *config.Configuration) {
	if cfg.Repo != "" {
		log.Repo = cfg.Repo
	}
}

// resolveRepoURL determines the repository URL for link generation and
// forge lookups. Priority: config override > model > changelog link
// definitions > git origin remote.
func resolveRepoURL(cfg *config.Configuration, log *changelog.Changelog, doc *changelog.MarkdownDoc) (string, error) {
	if cfg.Repo != "" {
		return cfg.Repo, nil
	}
	if log != nil && log.Repo != "" {
		return log.Repo, nil
	}
	if doc != nil {
		if url := doc.RepoURL(); url != "" {
			return url, nil
		}
	}

	if git.IsRepository(".") {
		remote, err := git.RemoteURL(".", "origin")
		if err == nil && remote != "" {
			return remote, nil
		}
	}

	return "", cerrors.RepoURLUnknown()
}

// projectName derives a display name for the changelog title from the
// working directory.
func projectName() string {
	wd, err := os.Getwd()
	if err != nil {
		return "Changelog"
	}
	base := filepath.Base(wd)
	if base == "." || base == string(os.PathSeparator) {
		return "Changelog"
	}
	return base
}

// debugf prints debug output when --debug is set.
func debugf(format string, args ...any) {
	if debugFlag {
		fmt.Fprintf(os.Stderr, "debug: "+format+"\n", args...)
	}
}
