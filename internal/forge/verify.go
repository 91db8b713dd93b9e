package forge

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/chlog/internal/changelog"
)

// maxConcurrentChecks bounds parallel PR lookups during verification.
const maxConcurrentChecks = 4

// VerifyStatus classifies the outcome of a single PR check.
type VerifyStatus int

const (
	// StatusOK means the pull request exists and is merged.
	StatusOK VerifyStatus = iota
	// StatusMissing means the pull request does not exist.
	StatusMissing
	// StatusUnmerged means the pull request exists but was never merged.
	StatusUnmerged
	// StatusFailed means the check itself failed (network, auth, quota).
	StatusFailed
)

// String returns a short human-readable status label.
func (s VerifyStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusUnmerged:
		return "unmerged"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// VerifyResult is the outcome of checking one referenced pull request.
type VerifyResult struct {
	Number int
	Status VerifyStatus
	Title  string
	Err    error
}

// VerifyPRs checks that every pull request referenced by the changelog
// exists in the given repository. Checks run concurrently, bounded by
// maxConcurrentChecks; results come back sorted by PR number. A quota
// or network failure on one PR does not abort the others unless the
// context is cancelled.
func (c *Client) VerifyPRs(ctx context.Context, log *changelog.Changelog, owner, repo string) ([]VerifyResult, error) {
	numbers := uniquePRNumbers(log)
	if len(numbers) == 0 {
		return nil, nil
	}

	results := make([]VerifyResult, len(numbers))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentChecks)

	for i, number := range numbers {
		g.Go(func() error {
			result := c.verifyOne(ctx, owner, repo, number)

			mu.Lock()
			results[i] = result
			mu.Unlock()

			// Abort the whole run only on context cancellation; other
			// failures are per-PR results.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verifying pull requests: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Number < results[j].Number
	})
	return results, nil
}

func (c *Client) verifyOne(ctx context.Context, owner, repo string, number int) VerifyResult {
	pr, err := c.GetPullRequest(ctx, owner, repo, number)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return VerifyResult{Number: number, Status: StatusMissing}
		}
		return VerifyResult{Number: number, Status: StatusFailed, Err: err}
	}

	if !pr.Merged {
		return VerifyResult{Number: number, Status: StatusUnmerged, Title: pr.Title}
	}
	return VerifyResult{Number: number, Status: StatusOK, Title: pr.Title}
}

// uniquePRNumbers collects the distinct PR numbers referenced anywhere
// in the changelog, in ascending order.
func uniquePRNumbers(log *changelog.Changelog) []int {
	seen := make(map[int]bool)
	var numbers []int
	for _, ref := range log.PRReferences() {
		if ref.Number <= 0 || seen[ref.Number] {
			continue
		}
		seen[ref.Number] = true
		numbers = append(numbers, ref.Number)
	}
	sort.Ints(numbers)
	return numbers
}
