package game

import (
	"context"
	"log/slog"
	"sync"
)

type fakeSource struct {
	mu          sync.Mutex
	places      *PlacesResponse
	placesErr   error
	pages       map[string]*PageResponse
	pageErr     error
	placesCalls int
	// beforePlaces runs on every Places call with the call number.
	beforePlaces func(ctx context.Context, call int) error
}

func (f *fakeSource) Places(ctx context.Context) (*PlacesResponse, error) {
	f.mu.Lock()
	f.placesCalls++
	call := f.placesCalls
	hook := f.beforePlaces
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, call); err != nil {
			return nil, err
		}
	}
	if f.placesErr != nil {
		return nil, f.placesErr
	}
	return f.places, nil
}

func (f *fakeSource) Page(_ context.Context, id string) (*PageResponse, error) {
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	return f.pages[id], nil
}

func (f *fakeSource) ListenURL(id string) string {
	return "http://gateway.test/api/listen/" + id + "/channel.mp3"
}

func (f *fakeSource) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.placesCalls
}

type playerFunc func(ctx context.Context, streamURL string) error

func (p playerFunc) Play(ctx context.Context, streamURL string) error { return p(ctx, streamURL) }

var playOK = playerFunc(func(context.Context, string) error { return nil })

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// limaSource serves one location (Lima) with one channel.
func limaSource() *fakeSource {
	return &fakeSource{
		places: &PlacesResponse{Data: &PlacesData{List: []Place{
			{ID: "lima", Title: "Lima", Country: "Peru", Geo: UpstreamGeo{-77.0428, -12.0464}},
		}}},
		pages: map[string]*PageResponse{
			"lima": {Data: &PageData{Content: []PageSection{
				{ItemsType: "page", Items: []PageItem{{Page: &ItemPage{Title: "Nearby", URL: "/visit/lima/x"}}}},
				{ItemsType: "channel", Items: []PageItem{
					{Page: &ItemPage{Title: "Radio Capital", URL: "/listen/radio-capital/AbCd1234"}},
				}},
			}}},
		},
	}
}
