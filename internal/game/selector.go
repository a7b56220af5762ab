package game

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"
)

// Selector picks a random station from the provider's catalogue.
type Selector struct {
	source  Source
	timeout time.Duration
	intn    func(n int) int
}

// NewSelector returns a Selector reading from source. Each fetch is bounded
// by timeout when it is positive.
func NewSelector(source Source, timeout time.Duration) *Selector {
	return &Selector{
		source:  source,
		timeout: timeout,
		intn:    rand.IntN,
	}
}

// Select fetches the location list, picks a location, fetches its page and
// picks one of its channels. Both picks are uniform.
func (s *Selector) Select(ctx context.Context) (Station, error) {
	places, err := s.places(ctx)
	if err != nil {
		return Station{}, err
	}
	if places == nil || places.Data == nil || len(places.Data.List) == 0 {
		return Station{}, dataErr("location list is empty")
	}
	place := places.Data.List[s.intn(len(places.Data.List))]

	page, err := s.page(ctx, place.ID)
	if err != nil {
		return Station{}, err
	}
	section := channelSection(page)
	if section == nil {
		return Station{}, dataErr("no channel section for location " + place.ID)
	}
	if len(section.Items) == 0 {
		return Station{}, dataErr("no channels for location " + place.ID)
	}
	item := section.Items[s.intn(len(section.Items))]

	if item.Page == nil || item.Page.URL == "" {
		return Station{}, dataErr("channel without page url")
	}
	id := lastSegment(item.Page.URL)
	if id == "" {
		return Station{}, dataErr("channel url " + item.Page.URL + " has no id")
	}

	return Station{
		ID:        id,
		Title:     orDefault(item.Page.Title, UnknownStation),
		Location:  locationFrom(place),
		StreamURL: s.source.ListenURL(id),
	}, nil
}

func (s *Selector) places(ctx context.Context) (*PlacesResponse, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	return s.source.Places(ctx)
}

func (s *Selector) page(ctx context.Context, id string) (*PageResponse, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	return s.source.Page(ctx, id)
}

func (s *Selector) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func channelSection(page *PageResponse) *PageSection {
	if page == nil || page.Data == nil {
		return nil
	}
	for i := range page.Data.Content {
		if page.Data.Content[i].ItemsType == channelItemsType {
			return &page.Data.Content[i]
		}
	}
	return nil
}

func locationFrom(p Place) Location {
	return Location{
		ID:          p.ID,
		Name:        orDefault(p.Title, UnknownCity),
		Country:     orDefault(p.Country, UnknownCountry),
		Coordinates: p.Geo.Point(),
	}
}

// lastSegment returns what follows the final slash, so "/listen/x/abc"
// yields "abc" and "/listen/x/" yields "".
func lastSegment(u string) string {
	return u[strings.LastIndex(u, "/")+1:]
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
