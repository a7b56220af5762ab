// Package catalog reads station data through the content gateway.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/playperu/radioguessr/internal/game"
)

const defaultBaseURL = "http://localhost:8080"

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Config configures the gateway client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client implements game.Source against a content gateway.
type Client struct {
	baseURL string
	client  httpDoer
}

var _ game.Source = (*Client)(nil)

func NewClient(cfg Config) *Client {
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: normalizeBaseURL(cfg.BaseURL),
		client:  client,
	}
}

func (c *Client) Places(ctx context.Context) (*game.PlacesResponse, error) {
	var out game.PlacesResponse
	if err := c.getJSON(ctx, "/api/places", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Page(ctx context.Context, placeID string) (*game.PageResponse, error) {
	var out game.PageResponse
	if err := c.getJSON(ctx, "/api/page/"+url.PathEscape(placeID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListenURL(stationID string) string {
	return c.baseURL + "/api/listen/" + url.PathEscape(stationID) + "/channel.mp3"
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &game.NetworkError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &game.NetworkError{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("body: %s", strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return &game.NetworkError{URL: endpoint, Err: err}
		}
		return &game.DataError{Reason: "decoding " + path, Err: err}
	}
	return nil
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		return defaultBaseURL
	}
	return strings.TrimRight(raw, "/")
}
