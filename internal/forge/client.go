package forge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Client wraps the go-github client with rate limiting and the small
// surface chlog needs.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClient creates a GitHub client. With an empty token the client is
// unauthenticated (60 requests/hour), which is enough to verify a small
// changelog.
func NewClient(ctx context.Context, token string) *Client {
	httpClient := &http.Client{Timeout: DefaultTimeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = DefaultTimeout
	}

	return &Client{
		gh:          gh.NewClient(httpClient),
		rateLimiter: NewRateLimiter(),
	}
}

// NewClientWithHTTPClient creates a client over a custom http.Client.
// Used by tests to point at a stub server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("setting base URL: %w", err)
		}
	}
	return &Client{gh: client, rateLimiter: NewRateLimiter()}, nil
}

// RateLimiter returns the client's rate limiter.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// PullRequest is the subset of pull-request metadata chlog uses.
type PullRequest struct {
	Number   int
	Title    string
	Merged   bool
	MergedAt time.Time
	URL      string
}

// GetPullRequest fetches a single pull request.
// Returns NotFoundError when the PR does not exist.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, fmt.Sprintf("get pull request #%d", number))
	}

	result := &PullRequest{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		Merged: pr.GetMerged(),
		URL:    pr.GetHTMLURL(),
	}
	if mergedAt := pr.GetMergedAt(); !mergedAt.IsZero() {
		result.MergedAt = mergedAt.Time
	}
	return result, nil
}

// MergedPRsSince lists pull requests merged after the given time,
// newest first. A zero time lists all merged pull requests.
func (c *Client) MergedPRsSince(ctx context.Context, owner, repo string, since time.Time) ([]PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:       "closed",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var merged []PullRequest
	for {
		select {
		case <-ctx.Done():
			return merged, ctx.Err()
		default:
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		c.updateRateLimitFromResponse(resp)
		if err != nil {
			return nil, c.wrapError(err, "list pull requests")
		}

		done := false
		for _, pr := range prs {
			// The listing is sorted by update time, so once updates
			// predate the cutoff no later page can hold a newer merge.
			// Merge time alone is not a stop signal: an old merge can
			// surface early through a recent update.
			if !since.IsZero() && pr.GetUpdatedAt().Time.Before(since) {
				done = true
				break
			}
			mergedAt := pr.GetMergedAt()
			if mergedAt.IsZero() {
				continue
			}
			if !since.IsZero() && mergedAt.Time.Before(since) {
				continue
			}
			merged = append(merged, PullRequest{
				Number:   pr.GetNumber(),
				Title:    pr.GetTitle(),
				Merged:   true,
				MergedAt: mergedAt.Time,
				URL:      pr.GetHTMLURL(),
			})
		}

		if done || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return merged, nil
}

// ParseRepoURL splits a repository URL like
// "https://github.com/org/repo" into owner and repo name.
func ParseRepoURL(url string) (owner, repo string, err error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(url), "/")
	for _, prefix := range []string{"https://", "http://"} {
		trimmed = strings.TrimPrefix(trimmed, prefix)
	}

	parts := strings.Split(trimmed, "/")
	if len(parts) < 3 {
		return "", "", fmt.Errorf("cannot determine owner/repo from URL %q", url)
	}
	return parts[1], parts[2], nil
}

func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to forge error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		if ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return &NotFoundError{Operation: operation}
		}
		return &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   c.rateLimiter.ResetTime(),
			Remaining: c.rateLimiter.Remaining(),
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}
