package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/playperu/radioguessr/internal/game"
	"github.com/playperu/radioguessr/internal/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// stubSource serves one location with one station, or fails when err is set.
type stubSource struct {
	mu  sync.Mutex
	err error
}

func (s *stubSource) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *stubSource) Places(ctx context.Context) (*game.PlacesResponse, error) {
	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &game.PlacesResponse{Data: &game.PlacesData{List: []game.Place{
		{ID: "lima", Title: "Lima", Country: "Peru", Geo: game.UpstreamGeo{-77.0428, -12.0464}},
	}}}, nil
}

func (s *stubSource) Page(ctx context.Context, placeID string) (*game.PageResponse, error) {
	return &game.PageResponse{Data: &game.PageData{Content: []game.PageSection{{
		ItemsType: "channel",
		Items: []game.PageItem{
			{Page: &game.ItemPage{Title: "Radio Capital", URL: "/listen/radio-capital/AbCd1234"}},
		},
	}}}}, nil
}

func (s *stubSource) ListenURL(id string) string {
	return "http://gateway.test/api/listen/" + id + "/channel.mp3"
}

type okPlayer struct{}

func (okPlayer) Play(context.Context, string) error { return nil }

type testEnv struct {
	source   *stubSource
	sessions *Sessions
	recorder *metrics.Recorder
	handler  http.Handler
}

func newTestEnv(t *testing.T, maxSessions int) *testEnv {
	t.Helper()
	src := &stubSource{}
	rec := metrics.NewRecorder()
	logger := discardLogger()

	sessions := NewSessions(maxSessions, func(id string, n game.Notifier) *game.Engine {
		return game.NewEngine(game.NewSelector(src, time.Second), okPlayer{}, game.Config{
			MaxAttempts:    2,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     time.Millisecond,
			Notifier:       n,
		}, logger.With("session", id))
	}, rec, logger)
	t.Cleanup(func() { sessions.Close() })

	return &testEnv{
		source:   src,
		sessions: sessions,
		recorder: rec,
		handler:  NewRouter(logger, Options{Sessions: sessions, Recorder: rec}),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createSession(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/game/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp CreateSessionResponse
	decode(t, rec, &resp)
	return resp.SessionID
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

var errUpstreamDown = errors.New("upstream down")
