// Package playback checks that a station stream actually starts.
package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/playperu/radioguessr/internal/game"
)

const defaultStartupTimeout = 10 * time.Second

var errEmptyStream = errors.New("stream ended before any audio")

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Probe implements game.Player by opening the stream and waiting for the
// first bytes of audio.
type Probe struct {
	client  httpDoer
	timeout time.Duration
}

var _ game.Player = (*Probe)(nil)

func NewProbe(client *http.Client, startupTimeout time.Duration) *Probe {
	if client == nil {
		client = http.DefaultClient
	}
	if startupTimeout <= 0 {
		startupTimeout = defaultStartupTimeout
	}
	return &Probe{client: client, timeout: startupTimeout}
}

func (p *Probe) Play(ctx context.Context, streamURL string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return &game.PlaybackError{StreamURL: streamURL, Err: err}
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return &game.PlaybackError{StreamURL: streamURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &game.PlaybackError{
			StreamURL: streamURL,
			Err:       fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var first [1]byte
	if _, err := io.ReadFull(resp.Body, first[:]); err != nil {
		if errors.Is(err, io.EOF) {
			err = errEmptyStream
		}
		return &game.PlaybackError{StreamURL: streamURL, Err: err}
	}
	return nil
}
