package changelog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultRemoteTimeout is the default timeout for remote changelog fetches.
const DefaultRemoteTimeout = 5 * time.Second

// RemoteChangelogURL is the URL for fetching chlog's own changelog from
// the main branch. Can be overridden for testing.
var RemoteChangelogURL = "https://raw.githubusercontent.com/ariel-frischer/chlog/main/internal/changelog/changelog.yaml"

// FetchRemote fetches the changelog from the remote repository.
// The context can be used to control timeout and cancellation.
func FetchRemote(ctx context.Context) (*Changelog, error) {
	log, err := fetchFromURL(ctx, RemoteChangelogURL)
	if err != nil {
		return nil, fmt.Errorf("fetching remote changelog: %w", err)
	}
	return log, nil
}

// FetchRemoteWithFallback fetches the changelog from the remote repository.
// Falls back to the embedded changelog if the remote fetch fails.
// Returns the changelog and a boolean indicating if it's from remote.
func FetchRemoteWithFallback(ctx context.Context) (*Changelog, bool, error) {
	log, err := FetchRemote(ctx)
	if err == nil {
		return log, true, nil
	}

	embedded, embErr := LoadEmbedded()
	if embErr != nil {
		return nil, false, fmt.Errorf("remote failed (%v) and embedded failed: %w", err, embErr)
	}

	return embedded, false, nil
}

// fetchFromURL fetches and parses a changelog from a URL.
func fetchFromURL(ctx context.Context, url string) (*Changelog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return LoadFromReader(bytes.NewReader(body))
}
