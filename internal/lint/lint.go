// Package lint validates CHANGELOG.md documents against the
// Keep a Changelog and Semantic Versioning conventions.
//
// The linter operates on the position-aware changelog.MarkdownDoc parse
// so every finding carries the line it refers to. Rules are independent
// and individually addressable by name, which lets configuration raise
// or lower their severity.
package lint

import (
	"fmt"
	"sort"

	"github.com/ariel-frischer/chlog/internal/changelog"
)

// Severity classifies a finding.
type Severity int

const (
	// Warning findings indicate style or convention drift that does not
	// make the document unusable.
	Warning Severity = iota
	// Error findings indicate the document violates the format.
	Error
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Finding is a single diagnostic produced by a rule.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"-"`
	Line     int      `json:"line"`
	Message  string   `json:"message"`
}

// Rule checks one aspect of a changelog document.
type Rule interface {
	// Name identifies the rule in findings and configuration,
	// e.g. "semver-heading".
	Name() string
	// Check inspects the document and returns zero or more findings.
	Check(doc *changelog.MarkdownDoc, opts Options) []Finding
}

// Options carries cross-rule inputs.
type Options struct {
	// Strict promotes warnings to errors for exit-code purposes.
	Strict bool
	// Tags, when non-nil, enables the tag cross-check rule. Each tag
	// should be a normalized semver string (no "v" prefix).
	Tags []string
	// SeverityOverrides maps rule name to severity, overriding the
	// rule's default classification.
	SeverityOverrides map[string]Severity
	// Disabled names rules whose findings are dropped entirely.
	Disabled map[string]bool
}

// Result aggregates the findings of a linter run over one document.
type Result struct {
	Path     string    `json:"path"`
	Findings []Finding `json:"findings"`
}

// Errors returns the number of error-severity findings.
func (r *Result) Errors() int {
	return r.count(Error)
}

// Warnings returns the number of warning-severity findings.
func (r *Result) Warnings() int {
	return r.count(Warning)
}

func (r *Result) count(sev Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

// Failed reports whether the run should fail: any error, or any warning
// under strict mode.
func (r *Result) Failed(strict bool) bool {
	if r.Errors() > 0 {
		return true
	}
	return strict && r.Warnings() > 0
}

// Linter runs a rule set over parsed changelog documents.
type Linter struct {
	rules []Rule
}

// New creates a Linter with the given rules. With no rules it uses
// DefaultRules.
func New(rules ...Rule) *Linter {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Linter{rules: rules}
}

// Run checks the document and returns the aggregated result, findings
// sorted by line then rule name.
func (l *Linter) Run(path string, doc *changelog.MarkdownDoc, opts Options) *Result {
	result := &Result{Path: path, Findings: []Finding{}}

	for _, rule := range l.rules {
		if opts.Disabled[rule.Name()] {
			continue
		}
		for _, f := range rule.Check(doc, opts) {
			if sev, ok := opts.SeverityOverrides[f.Rule]; ok {
				f.Severity = sev
			}
			result.Findings = append(result.Findings, f)
		}
	}

	sort.SliceStable(result.Findings, func(i, j int) bool {
		if result.Findings[i].Line != result.Findings[j].Line {
			return result.Findings[i].Line < result.Findings[j].Line
		}
		return result.Findings[i].Rule < result.Findings[j].Rule
	})

	return result
}

// LintFile parses and lints a CHANGELOG.md in one step using the
// default rules.
func LintFile(path string, opts Options) (*Result, error) {
	doc, err := changelog.ParseMarkdownFile(path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return New().Run(path, doc, opts), nil
}
