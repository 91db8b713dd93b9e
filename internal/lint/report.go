package lint

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold).SprintFunc()
	warningLabel = color.New(color.FgYellow, color.Bold).SprintFunc()
	ruleLabel    = color.New(color.FgCyan).SprintFunc()
	okLabel      = color.New(color.FgGreen, color.Bold).SprintFunc()
	pathLabel    = color.New(color.Bold).SprintFunc()
)

// WriteReport renders findings for the terminal, one line per finding:
//
//	CHANGELOG.md:17 error [semver-heading] heading "0.1" is not a valid semantic version
//
// Findings without a line (e.g. missing-tag checks) omit the number.
func WriteReport(w io.Writer, result *Result, plain bool) error {
	if len(result.Findings) == 0 {
		if plain {
			_, err := fmt.Fprintf(w, "%s: no issues found\n", result.Path)
			return err
		}
		_, err := fmt.Fprintf(w, "%s %s: no issues found\n", okLabel("✓"), pathLabel(result.Path))
		return err
	}

	for _, f := range result.Findings {
		location := result.Path
		if f.Line > 0 {
			location = fmt.Sprintf("%s:%d", result.Path, f.Line)
		}

		if plain {
			if _, err := fmt.Fprintf(w, "%s %s [%s] %s\n", location, f.Severity, f.Rule, f.Message); err != nil {
				return err
			}
			continue
		}

		label := warningLabel(f.Severity.String())
		if f.Severity == Error {
			label = errorLabel(f.Severity.String())
		}
		if _, err := fmt.Fprintf(w, "%s %s [%s] %s\n", location, label, ruleLabel(f.Rule), f.Message); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n%d error(s), %d warning(s)\n", result.Errors(), result.Warnings())
	return err
}

// jsonFinding mirrors Finding with a readable severity field.
type jsonFinding struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

type jsonResult struct {
	Path     string        `json:"path"`
	Errors   int           `json:"errors"`
	Warnings int           `json:"warnings"`
	Findings []jsonFinding `json:"findings"`
}

// WriteJSON renders the result as an indented JSON document, for CI
// consumers.
func WriteJSON(w io.Writer, result *Result) error {
	out := jsonResult{
		Path:     result.Path,
		Errors:   result.Errors(),
		Warnings: result.Warnings(),
		Findings: make([]jsonFinding, 0, len(result.Findings)),
	}
	for _, f := range result.Findings {
		out.Findings = append(out.Findings, jsonFinding{
			Rule:     f.Rule,
			Severity: f.Severity.String(),
			Line:     f.Line,
			Message:  f.Message,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
