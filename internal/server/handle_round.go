package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/playperu/radioguessr/internal/game"
)

// Rounds outlive the request that started them: a client that disconnects
// still receives the outcome over its event stream.
func roundContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func handleStartRound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := sessionFrom(r).Engine.StartRound(roundContext(r))
		writeRoundOutcome(w, st, err)
	}
}

func handleGuess() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GuessRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		guess, err := req.point()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := sessionFrom(r).Engine.SubmitGuess(guess)
		if errors.Is(err, game.ErrNotPlaying) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, newRoundResultResponse(&res))
	}
}

func handlePlaybackError() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlaybackErrorRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Round < 1 {
			writeError(w, http.StatusBadRequest, "round is required")
			return
		}

		st, err := sessionFrom(r).Engine.ReportPlaybackFailure(roundContext(r), req.Round, req.cause())
		writeRoundOutcome(w, st, err)
	}
}

// writeRoundOutcome reports a started round. A round that ended in the
// failed phase is still a 200: the state carries the reason.
func writeRoundOutcome(w http.ResponseWriter, st game.State, err error) {
	if errors.Is(err, game.ErrSuperseded) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(st))
}

var (
	errMissingCoordinates = errors.New("lat and lon are required")
	errInvalidCoordinates = errors.New("lat must be within [-90, 90] and lon within [-180, 180]")
)

func (g GuessRequest) point() (game.GeoPoint, error) {
	if g.Lat == nil || g.Lon == nil {
		return game.GeoPoint{}, errMissingCoordinates
	}
	p := game.GeoPoint{Lat: *g.Lat, Lon: *g.Lon}
	if !p.Valid() {
		return game.GeoPoint{}, errInvalidCoordinates
	}
	return p, nil
}

func (p PlaybackErrorRequest) cause() error {
	if p.Reason == "" {
		return nil
	}
	return errors.New(p.Reason)
}
