package server

import (
	"github.com/playperu/radioguessr/internal/game"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type LocationResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Country     string   `json:"country"`
	Coordinates GeoPoint `json:"coordinates"`
}

type StationResponse struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	StreamURL string           `json:"streamUrl"`
	Location  LocationResponse `json:"location"`
}

// StationBrief is what a player may see while the round is still open: the
// location stays hidden until a guess resolves the round.
type StationBrief struct {
	ID        string `json:"id"`
	StreamURL string `json:"streamUrl"`
}

type RoundResultResponse struct {
	Round      int             `json:"round"`
	Station    StationResponse `json:"station"`
	Guess      GeoPoint        `json:"guess"`
	DistanceKm float64         `json:"distanceKm"`
	RoundedKm  int             `json:"roundedKm"`
	Score      int             `json:"score"`
	TotalScore int             `json:"totalScore"`
	Summary    string          `json:"summary"`
}

type StateResponse struct {
	Phase      string               `json:"phase"`
	Round      int                  `json:"round"`
	Score      int                  `json:"score"`
	Station    *StationBrief        `json:"station,omitempty"`
	LastResult *RoundResultResponse `json:"lastResult,omitempty"`
	Failures   int                  `json:"failures,omitempty"`
	LastError  string               `json:"lastError,omitempty"`
}

type CreateSessionResponse struct {
	SessionID string        `json:"sessionId"`
	State     StateResponse `json:"state"`
}

// GuessRequest uses pointers so a missing coordinate is rejected rather
// than read as zero.
type GuessRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type PlaybackErrorRequest struct {
	Round  int    `json:"round"`
	Reason string `json:"reason,omitempty"`
}

// EventMessage is the JSON form of a game event pushed over SSE and
// WebSocket.
type EventMessage struct {
	Type    string               `json:"type"`
	Round   int                  `json:"round"`
	Attempt int                  `json:"attempt,omitempty"`
	Score   int                  `json:"score"`
	Station *StationBrief        `json:"station,omitempty"`
	Result  *RoundResultResponse `json:"result,omitempty"`
	Error   string               `json:"error,omitempty"`
}

func newGeoPoint(p game.GeoPoint) GeoPoint {
	return GeoPoint{Lat: p.Lat, Lon: p.Lon}
}

func newStationResponse(s game.Station) StationResponse {
	return StationResponse{
		ID:        s.ID,
		Title:     s.Title,
		StreamURL: s.StreamURL,
		Location: LocationResponse{
			ID:          s.Location.ID,
			Name:        s.Location.Name,
			Country:     s.Location.Country,
			Coordinates: newGeoPoint(s.Location.Coordinates),
		},
	}
}

func newStationBrief(s *game.Station) *StationBrief {
	if s == nil {
		return nil
	}
	return &StationBrief{ID: s.ID, StreamURL: s.StreamURL}
}

func newRoundResultResponse(r *game.RoundResult) *RoundResultResponse {
	if r == nil {
		return nil
	}
	return &RoundResultResponse{
		Round:      r.Round,
		Station:    newStationResponse(r.Station),
		Guess:      newGeoPoint(r.Guess),
		DistanceKm: r.DistanceKm,
		RoundedKm:  r.RoundedKm(),
		Score:      r.Score,
		TotalScore: r.TotalScore,
		Summary:    r.Summary(),
	}
}

func newStateResponse(s game.State) StateResponse {
	return StateResponse{
		Phase:      string(s.Phase),
		Round:      s.Round,
		Score:      s.Score,
		Station:    newStationBrief(s.Station),
		LastResult: newRoundResultResponse(s.LastResult),
		Failures:   s.Failures,
		LastError:  s.LastError,
	}
}

func newEventMessage(ev game.Event) EventMessage {
	msg := EventMessage{
		Type:    string(ev.Type),
		Round:   ev.Round,
		Attempt: ev.Attempt,
		Score:   ev.Score,
		Station: newStationBrief(ev.Station),
		Result:  newRoundResultResponse(ev.Result),
	}
	if ev.Err != nil {
		msg.Error = ev.Err.Error()
	}
	return msg
}
