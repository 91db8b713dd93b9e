// Package forge talks to the GitHub API on behalf of chlog: verifying
// that pull requests referenced by a changelog actually exist, and
// listing merged pull requests to draft unreleased entries from.
//
// All operations are context-aware and rate limited. Rate limit state
// is updated from GitHub response headers on every request, with a
// proactive token bucket keeping request bursts polite.
package forge
