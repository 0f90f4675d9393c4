package healthcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Probe sends a GET request to the /health endpoint under baseURL and
// returns nil only when it answers 200 OK within timeout.
func Probe(ctx context.Context, baseURL string, timeout time.Duration) error {
	base, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}

	client := &http.Client{
		Timeout: timeout,
	}

	healthURL := base.ResolveReference(&url.URL{Path: "/health"})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", healthURL, err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("probe %s: unexpected status %d", healthURL, res.StatusCode)
	}

	return nil
}

// LocalURL returns the base URL a process on the same host uses to reach a
// service listening on port.
func LocalURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d", port)
}
