package tools

import (
	"context"
	"net/http"
	"time"
)

// Prober decides, per operation, whether the remote model is worth trying.
type Prober interface {
	IsOnline(ctx context.Context) bool
}

// HTTPProber issues a single HEAD request with a short timeout.
// Any error, timeout or non-2xx status counts as offline. No retries, no caching.
type HTTPProber struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

func NewHTTPProber(url string, timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPProber{
		URL:     url,
		Timeout: timeout,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProber) IsOnline(ctx context.Context) bool {
	if p == nil || p.URL == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.URL, nil)
	if err != nil {
		return false
	}

	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: p.Timeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// StaticProber always answers the same thing. Used by the CLI and tests.
type StaticProber bool

func (s StaticProber) IsOnline(context.Context) bool {
	return bool(s)
}
