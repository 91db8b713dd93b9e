package lint

import (
	"fmt"
	"strings"
	"time"

	"github.com/ariel-frischer/chlog/internal/changelog"
	"github.com/ariel-frischer/chlog/internal/semver"
)

// DefaultRules returns the standard rule set in reporting order.
func DefaultRules() []Rule {
	return []Rule{
		ruleFunc{"title", checkTitle},
		ruleFunc{"semver-heading", checkSemverHeadings},
		ruleFunc{"release-date", checkReleaseDates},
		ruleFunc{"version-order", checkVersionOrder},
		ruleFunc{"duplicate-version", checkDuplicateVersions},
		ruleFunc{"unreleased-section", checkUnreleased},
		ruleFunc{"category", checkCategories},
		ruleFunc{"entry", checkEntries},
		ruleFunc{"pr-reference", checkPRReferences},
		ruleFunc{"link-definition", checkLinkDefinitions},
		ruleFunc{"compare-link", checkCompareLinks},
		ruleFunc{"tag-match", checkTags},
	}
}

// ruleFunc adapts a plain function to the Rule interface.
type ruleFunc struct {
	name string
	fn   func(doc *changelog.MarkdownDoc, opts Options) []Finding
}

func (r ruleFunc) Name() string { return r.name }

func (r ruleFunc) Check(doc *changelog.MarkdownDoc, opts Options) []Finding {
	findings := r.fn(doc, opts)
	for i := range findings {
		findings[i].Rule = r.name
	}
	return findings
}

// checkTitle verifies the document opens with a "# Changelog" title.
func checkTitle(doc *changelog.MarkdownDoc, _ Options) []Finding {
	if doc.Title == "" {
		return []Finding{{Severity: Warning, Line: 1, Message: "missing top-level '# Changelog' title"}}
	}
	if !strings.EqualFold(doc.Title, "Changelog") {
		return []Finding{{
			Severity: Warning,
			Line:     doc.TitleLine,
			Message:  fmt.Sprintf("title is %q (conventionally 'Changelog')", doc.Title),
		}}
	}
	return nil
}

// checkSemverHeadings verifies every version heading carries a valid
// semantic version (or Unreleased) in bracketed link-reference form.
func checkSemverHeadings(doc *changelog.MarkdownDoc, _ Options) []Finding {
	var findings []Finding

	for _, v := range doc.Versions {
		if v.Name == "" {
			findings = append(findings, Finding{
				Severity: Error,
				Line:     v.Line,
				Message:  "version heading has no version identifier",
			})
			continue
		}

		if !v.IsUnreleased() && !semver.IsValid(v.Name) {
			findings = append(findings, Finding{
				Severity: Error,
				Line:     v.Line,
				Message:  fmt.Sprintf("heading %q is not a valid semantic version", v.Name),
			})
		}

		if !v.Bracketed {
			findings = append(findings, Finding{
				Severity: Warning,
				Line:     v.Line,
				Message:  fmt.Sprintf("heading %q should use link-reference form [%s]", v.Raw, v.Name),
			})
		}
	}

	return findings
}

// checkReleaseDates verifies released versions carry a valid
// YYYY-MM-DD calendar date and Unreleased carries none.
func checkReleaseDates(doc *changelog.MarkdownDoc, _ Options) []Finding {
	var findings []Finding

	for _, v := range doc.Versions {
		if v.IsUnreleased() {
			if v.Date != "" {
				findings = append(findings, Finding{
					Severity: Warning,
					Line:     v.Line,
					Message:  "unreleased section should not carry a date",
				})
			}
			continue
		}

		if v.Date == "" {
			findings = append(findings, Finding{
				Severity: Error,
				Line:     v.Line,
				Message:  fmt.Sprintf("released version %q has no date", v.Name),
			})
			continue
		}

		if _, err := time.Parse("2006-01-02", v.Date); err != nil {
			findings = append(findings, Finding{
				Severity: Error,
				Line:     v.Line,
				Message:  fmt.Sprintf("invalid date %q (expected: YYYY-MM-DD)", v.Date),
			})
		}
	}

	return findings
}

// checkVersionOrder verifies versions appear newest-first, both by
// semver precedence and by date.
func checkVersionOrder(doc *changelog.MarkdownDoc, _ Options) []Finding {
	var findings []Finding

	var prevVer *semver.Version
	var prevName string
	var prevDate time.Time
	havePrevDate := false

	for _, v := range doc.Versions {
		if v.IsUnreleased() {
			continue
		}

		cur, err := semver.Parse(v.Name)
		if err == nil {
			if prevVer != nil && semver.Compare(*prevVer, cur) <= 0 {
				findings = append(findings, Finding{
					Severity: Error,
					Line:     v.Line,
					Message:  fmt.Sprintf("version %q is not older than %q above it (expected newest-first order)", v.Name, prevName),
				})
			}
			prevVer = &cur
			prevName = v.Name
		}

		if date, err := time.Parse("2006-01-02", v.Date); err == nil {
			if havePrevDate && date.After(prevDate) {
				findings = append(findings, Finding{
					Severity: Error,
					Line:     v.Line,
					Message:  fmt.Sprintf("date %s is later than the version above it", v.Date),
				})
			}
			prevDate = date
			havePrevDate = true
		}
	}

	return findings
}

// checkDuplicateVersions flags repeated version identifiers.
func checkDuplicateVersions(doc *changelog.MarkdownDoc, _ Options) []Finding {
	var findings []Finding
	seen := make(map[string]int)

	for _, v := range doc.Versions {
		key := changelog.NormalizeVersion(v.Name)
		if firstLine, ok := seen[key]; ok {
			findings = append(findings, Finding{
				Severity: Error,
				Line:     v.Line,
				Message:  fmt.Sprintf("duplicate version %q (first seen at line %d)", v.Name, firstLine),
			})
			continue
		}
		seen[key] = v.Line
	}

	return findings
}

// checkUnreleased verifies at most one unreleased section exists and
// that it appears first.
func checkUnreleased(doc *changelog.MarkdownDoc, _ Options) []Finding {
	var findings []Finding
	count := 0

	for i, v := range doc.Versions {
		if !v.IsUnreleased() {
			continue
		}
		count++
		if count > 1 {
			findings = append(findings, Finding{
				Severity: Error,
				Line:     v.Line,
				Message:  "only one 'Unreleased' section is allowed",
			})
			continue
		}
		if i != 0 {
			findings = append(findings, Finding{
				Severity: Error,
				Line:     v.Line,
				Message:  "'Unreleased' must be the first section",
			})
		}
	}

	return findings
}

// categoryOrder maps canonical category names to their rendering rank.
var categoryOrder = func() map[string]int {
	order := make(map[string]int)
	for i, name := range changelog.ValidCategories() {
		order[name] = i
	}
	return order
}()

// checkCategories verifies category headings are known, canonically
// capitalized, ordered, and non-empty, and that no entries appear
// outside a category.
func checkCategories(doc *changelog.MarkdownDoc, _ Options) []Finding {
	var findings []Finding

	for _, v := range doc.Versions {
		lastRank := -1
		for _, sec := range v.Sections {
			if sec.Name == "" {
				findings = append(findings, Finding{
					Severity: Error,
					Line:     sec.Line,
					Message:  "entries appear before any category heading",
				})
				continue
			}

			lower := strings.ToLower(sec.Name)
			rank, known := categoryOrder[lower]
			if !known {
				findings = append(findings, Finding{
					Severity: Error,
					Line:     sec.Line,
					Message:  fmt.Sprintf("unknown category %q (valid: %s)", sec.Name, strings.Join(canonicalCategories(), ", ")),
				})
				continue
			}

			if canonical := capitalize(lower); sec.Name != canonical {
				findings = append(findings, Finding{
					Severity: Warning,
					Line:     sec.Line,
					Message:  fmt.Sprintf("category %q should be written %q", sec.Name, canonical),
				})
			}

			if rank < lastRank {
				findings = append(findings, Finding{
					Severity: Warning,
					Line:     sec.Line,
					Message:  fmt.Sprintf("category %q is out of standard order", sec.Name),
				})
			}
			lastRank = rank

			if len(sec.Entries) == 0 {
				findings = append(findings, Finding{
					Severity: Warning,
					Line:     sec.Line,
					Message:  fmt.Sprintf("category %q has no entries", sec.Name),
				})
			}
		}
	}

	return findings
}

// checkEntries flags empty bullet entries.
func checkEntries(doc *changelog.MarkdownDoc, _ Options) []Finding {
	var findings []Finding

	for _, v := range doc.Versions {
		for _, sec := range v.Sections {
			for _, e := range sec.Entries {
				if strings.TrimSpace(e.Text) == "" {
					findings = append(findings, Finding{
						Severity: Error,
						Line:     e.Line,
						Message:  "empty change entry",
					})
				}
			}
		}
	}

	return findings
}

// checkPRReferences verifies every entry referencing a pull request
// carries a well-formed URL whose number agrees with the link text.
func checkPRReferences(doc *changelog.MarkdownDoc, _ Options) []Finding {
	var findings []Finding

	for _, v := range doc.Versions {
		for _, sec := range v.Sections {
			for _, e := range sec.Entries {
				for _, ref := range changelog.FindPRRefs(e.Text) {
					findings = append(findings, checkPRRef(ref, e.Line)...)
				}
			}
		}
	}

	return findings
}

func checkPRRef(ref changelog.PRRef, line int) []Finding {
	if !ref.IsLinked() {
		return []Finding{{
			Severity: Warning,
			Line:     line,
			Message:  fmt.Sprintf("pull request #%d is referenced without a link", ref.Number),
		}}
	}

	if !changelog.IsWellFormedPRURL(ref.URL) {
		return []Finding{{
			Severity: Error,
			Line:     line,
			Message:  fmt.Sprintf("malformed pull request URL %q for #%d", ref.URL, ref.Number),
		}}
	}

	if urlNum := changelog.PRURLNumber(ref.URL); urlNum != ref.Number {
		return []Finding{{
			Severity: Error,
			Line:     line,
			Message:  fmt.Sprintf("pull request link text #%d does not match URL number %d", ref.Number, urlNum),
		}}
	}

	return nil
}

// checkLinkDefinitions verifies bracketed headings resolve to footer
// link definitions and that no definitions dangle or repeat.
func checkLinkDefinitions(doc *changelog.MarkdownDoc, _ Options) []Finding {
	var findings []Finding

	headings := make(map[string]bool)
	for _, v := range doc.Versions {
		if v.Name == "" {
			continue
		}
		headings[strings.ToLower(v.Name)] = true

		if v.Bracketed && doc.LinkDef(v.Name) == nil {
			findings = append(findings, Finding{
				Severity: Warning,
				Line:     v.Line,
				Message:  fmt.Sprintf("no link definition for [%s]", v.Name),
			})
		}
	}

	seen := make(map[string]int)
	for _, def := range doc.LinkDefs {
		key := strings.ToLower(def.Label)

		if firstLine, ok := seen[key]; ok {
			findings = append(findings, Finding{
				Severity: Warning,
				Line:     def.Line,
				Message:  fmt.Sprintf("duplicate link definition for [%s] (first seen at line %d)", def.Label, firstLine),
			})
			continue
		}
		seen[key] = def.Line

		if !headings[key] {
			findings = append(findings, Finding{
				Severity: Warning,
				Line:     def.Line,
				Message:  fmt.Sprintf("link definition [%s] matches no version heading", def.Label),
			})
		}
	}

	return findings
}

// checkCompareLinks verifies footer comparison URLs span the expected
// adjacent versions: vPrev...vCur for releases, vLatest...HEAD for
// Unreleased, and a release tag link for the oldest version.
func checkCompareLinks(doc *changelog.MarkdownDoc, _ Options) []Finding {
	var findings []Finding

	for i, v := range doc.Versions {
		def := doc.LinkDef(v.Name)
		if def == nil {
			continue
		}

		expected := expectedLinkSuffix(doc.Versions, i)
		if expected == "" {
			continue
		}

		if !strings.HasSuffix(def.URL, expected) {
			findings = append(findings, Finding{
				Severity: Warning,
				Line:     def.Line,
				Message:  fmt.Sprintf("link for [%s] should end in %q", v.Name, expected),
			})
		}
	}

	return findings
}

// expectedLinkSuffix computes the conventional compare-link suffix for
// the version at index i, or empty when no expectation applies (e.g.
// the version below it is malformed).
func expectedLinkSuffix(versions []changelog.MarkdownVersion, i int) string {
	v := versions[i]

	// Find the nearest valid released version below.
	var below string
	for j := i + 1; j < len(versions); j++ {
		if !versions[j].IsUnreleased() && semver.IsValid(versions[j].Name) {
			below = semver.Normalize(versions[j].Name)
			break
		}
	}

	if v.IsUnreleased() {
		if below == "" {
			return ""
		}
		return fmt.Sprintf("/compare/v%s...HEAD", below)
	}

	if !semver.IsValid(v.Name) {
		return ""
	}
	cur := semver.Normalize(v.Name)

	if below == "" {
		return fmt.Sprintf("/releases/tag/v%s", cur)
	}
	return fmt.Sprintf("/compare/v%s...v%s", below, cur)
}

// checkTags cross-checks released versions against git tags. Inactive
// unless Options.Tags is provided.
func checkTags(doc *changelog.MarkdownDoc, opts Options) []Finding {
	if opts.Tags == nil {
		return nil
	}

	var findings []Finding

	tags := make(map[string]bool, len(opts.Tags))
	for _, tag := range opts.Tags {
		tags[changelog.NormalizeVersion(tag)] = true
	}

	documented := make(map[string]bool)
	for _, v := range doc.Versions {
		if v.IsUnreleased() || !semver.IsValid(v.Name) {
			continue
		}
		name := changelog.NormalizeVersion(v.Name)
		documented[name] = true

		if !tags[name] {
			findings = append(findings, Finding{
				Severity: Error,
				Line:     v.Line,
				Message:  fmt.Sprintf("version %q has no matching git tag v%s", v.Name, name),
			})
		}
	}

	for _, tag := range opts.Tags {
		if !documented[changelog.NormalizeVersion(tag)] {
			findings = append(findings, Finding{
				Severity: Error,
				Line:     0,
				Message:  fmt.Sprintf("git tag %q has no changelog entry", tag),
			})
		}
	}

	return findings
}

func canonicalCategories() []string {
	names := changelog.ValidCategories()
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = capitalize(name)
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
