package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://radio.garden/api/ara/content"
	defaultTimeout = 10 * time.Second
)

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Config configures the upstream content client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Upstream fetches station catalogue data and audio from the content
// provider.
type Upstream struct {
	baseURL string
	timeout time.Duration
	client  httpDoer
}

// StatusError reports a non-2xx response from the content provider.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.URL, e.StatusCode)
}

func NewUpstream(cfg Config) *Upstream {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Upstream{
		baseURL: normalizeBaseURL(cfg.BaseURL),
		timeout: timeout,
		client:  resolveHTTPClient(cfg.HTTPClient, timeout),
	}
}

// Timeout bounds each JSON fetch and the wait for stream response headers.
func (u *Upstream) Timeout() time.Duration {
	return u.timeout
}

// Open issues a GET for path below the base URL. The caller owns the body of
// a successful response. Non-2xx responses are returned as *StatusError.
func (u *Upstream) Open(ctx context.Context, path string) (*http.Response, error) {
	endpoint := u.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{URL: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return resp, nil
}

// Fetch reads the whole body of path, bounded by the upstream timeout.
func (u *Upstream) Fetch(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	resp, err := u.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upstream body: %w", err)
	}
	return body, nil
}

// Check reports whether the places index is reachable.
func (u *Upstream) Check(ctx context.Context) error {
	resp, err := u.Open(ctx, "/places")
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// resolveHTTPClient builds a client without an overall deadline so audio
// streams can stay open; only the wait for response headers is bounded.
func resolveHTTPClient(client *http.Client, timeout time.Duration) httpDoer {
	if client != nil {
		return client
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout
	return &http.Client{Transport: transport}
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		return defaultBaseURL
	}
	return strings.TrimRight(raw, "/")
}
