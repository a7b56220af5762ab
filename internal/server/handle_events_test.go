package server

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandleEvents(t *testing.T) {
	env := newTestEnv(t, 10)
	id := env.createSession(t)

	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/game/sessions/"+id+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET events: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content-type = %q, want text/event-stream", got)
	}

	events := make(chan string, 16)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			if name, ok := strings.CutPrefix(sc.Text(), "event: "); ok {
				events <- name
			}
		}
		close(events)
	}()

	if got := <-events; got != "state" {
		t.Fatalf("first event = %q, want state", got)
	}

	startResp, err := http.Post(srv.URL+"/api/game/sessions/"+id+"/round", "application/json", nil)
	if err != nil {
		t.Fatalf("POST round: %v", err)
	}
	startResp.Body.Close()

	want := []string{"round_loading", "round_playing"}
	for _, w := range want {
		select {
		case got, ok := <-events:
			if !ok {
				t.Fatalf("stream closed before %q", w)
			}
			if got != w {
				t.Fatalf("event = %q, want %q", got, w)
			}
		case <-ctx.Done():
			t.Fatalf("timed out waiting for %q", w)
		}
	}
}

func TestBroker(t *testing.T) {
	b := NewBroker()
	a := b.Subscribe("s1")
	other := b.Subscribe("s2")

	b.Publish("s1", EventMessage{Type: "round_loading", Round: 1})

	select {
	case data := <-a:
		if !strings.Contains(string(data), `"round_loading"`) {
			t.Errorf("data = %s", data)
		}
	default:
		t.Fatal("subscriber of s1 got nothing")
	}
	select {
	case data := <-other:
		t.Fatalf("subscriber of s2 got %s", data)
	default:
	}

	// A full buffer drops instead of blocking.
	for range 32 {
		b.Publish("s1", EventMessage{Type: "round_retrying"})
	}

	b.Close("s1")
	drained := 0
	for range a {
		drained++
	}
	if drained != 16 {
		t.Errorf("drained %d events, want 16", drained)
	}

	// Unsubscribing after close is a no-op.
	b.Unsubscribe("s1", a)
	b.Unsubscribe("s2", other)
	if _, ok := <-other; ok {
		t.Error("s2 channel still open after unsubscribe")
	}
}
