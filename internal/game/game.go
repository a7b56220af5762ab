// Package game implements the round engine of the radio guessing game:
// station selection, great-circle scoring and the per-session round state
// machine. It depends on no transport; content arrives through Source and
// playback is delegated to Player.
package game

import "context"

// Placeholders used when the provider omits a descriptive field.
const (
	UnknownStation = "Unknown Station"
	UnknownCity    = "Unknown City"
	UnknownCountry = "Unknown Country"
)

// Location is a place that hosts radio stations.
type Location struct {
	ID          string
	Name        string
	Country     string
	Coordinates GeoPoint
}

// Station is a playable radio channel. A new Station value is produced for
// every round.
type Station struct {
	ID        string
	Title     string
	Location  Location
	StreamURL string
}

// Source provides the provider's location list and location pages, and
// knows how to address a station's audio stream.
type Source interface {
	Places(ctx context.Context) (*PlacesResponse, error)
	Page(ctx context.Context, placeID string) (*PageResponse, error)
	ListenURL(stationID string) string
}

// Player starts playback of a stream and returns once audio is flowing or
// playback has failed.
type Player interface {
	Play(ctx context.Context, streamURL string) error
}

// Notifier receives engine events. Implementations must not block.
type Notifier interface {
	Notify(Event)
}

// PlacesResponse is the provider's location list payload.
type PlacesResponse struct {
	Data *PlacesData `json:"data"`
}

type PlacesData struct {
	List []Place `json:"list"`
}

type Place struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Country string      `json:"country"`
	Geo     UpstreamGeo `json:"geo"`
	URL     string      `json:"url,omitempty"`
	Size    int         `json:"size,omitempty"`
}

// PageResponse is the provider's page payload for one location.
type PageResponse struct {
	Data *PageData `json:"data"`
}

type PageData struct {
	Title   string        `json:"title,omitempty"`
	Content []PageSection `json:"content"`
}

type PageSection struct {
	ItemsType string     `json:"itemsType"`
	Title     string     `json:"title,omitempty"`
	Items     []PageItem `json:"items"`
}

type PageItem struct {
	Page *ItemPage `json:"page"`
}

type ItemPage struct {
	Type  string `json:"type,omitempty"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

const channelItemsType = "channel"
