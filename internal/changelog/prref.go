package changelog

import (
	"regexp"
	"strconv"
)

// PRRef is a pull-request reference found in an entry's text.
// Linked references carry the markdown link target in URL; bare
// references ("#798" with no link) leave URL empty.
type PRRef struct {
	Number int
	URL    string
}

// IsLinked reports whether the reference carries a markdown link.
func (r PRRef) IsLinked() bool {
	return r.URL != ""
}

var (
	// linkedPRPattern matches markdown-linked references like
	// "[#798](https://github.com/org/repo/pull/798)".
	linkedPRPattern = regexp.MustCompile(`\[#(\d+)\]\(([^)\s]+)\)`)

	// barePRPattern matches unlinked references like "#798". The
	// look-behind-free boundary check happens in FindPRRefs so that
	// numbers inside linked references are not double counted.
	barePRPattern = regexp.MustCompile(`#(\d+)`)

	// prURLPattern recognizes a well-formed pull-request or merge-request
	// URL: https scheme, a host, and a pull/merge_requests/pulls path
	// segment ending in the PR number.
	prURLPattern = regexp.MustCompile(`^https://[^/\s]+/\S*(?:pull|pulls|merge_requests)/(\d+)$`)
)

// FindPRRefs extracts all pull-request references from entry text,
// in order of appearance. Linked references take precedence: a bare
// "#N" inside a markdown link is reported once, with its URL.
func FindPRRefs(text string) []PRRef {
	var refs []PRRef

	linked := linkedPRPattern.FindAllStringSubmatchIndex(text, -1)
	for _, m := range linked {
		num, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		refs = append(refs, PRRef{Number: num, URL: text[m[4]:m[5]]})
	}

	for _, m := range barePRPattern.FindAllStringSubmatchIndex(text, -1) {
		if insideAny(m[0], m[1], linked) {
			continue
		}
		num, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		refs = append(refs, PRRef{Number: num})
	}

	return refs
}

// insideAny reports whether the span [start,end) falls inside any of the
// match index pairs.
func insideAny(start, end int, matches [][]int) bool {
	for _, m := range matches {
		if start >= m[0] && end <= m[1] {
			return true
		}
	}
	return false
}

// IsWellFormedPRURL reports whether url looks like a valid pull-request
// URL: https, a host, and a recognized PR path segment.
func IsWellFormedPRURL(url string) bool {
	return prURLPattern.MatchString(url)
}

// PRURLNumber extracts the trailing PR number from a well-formed PR URL.
// Returns 0 if the URL is not well formed.
func PRURLNumber(url string) int {
	m := prURLPattern.FindStringSubmatch(url)
	if m == nil {
		return 0
	}
	num, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return num
}
