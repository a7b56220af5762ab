package game

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPlaying is returned when a guess arrives outside the Playing phase.
	ErrNotPlaying = errors.New("no round is accepting guesses")

	// ErrSuperseded is returned by a load that a newer StartRound replaced.
	ErrSuperseded = errors.New("round superseded by a newer start")

	errStreamUnplayable = errors.New("stream could not be played")
)

// NetworkError reports a failed fetch or a non-2xx response.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DataError reports a payload that is missing, empty or structurally invalid.
type DataError struct {
	Reason string
	Err    error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid data: %s: %v", e.Reason, e.Err)
	}
	return "invalid data: " + e.Reason
}

func (e *DataError) Unwrap() error { return e.Err }

// PlaybackError reports a stream that could not be started.
type PlaybackError struct {
	StreamURL string
	Err       error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playing %s: %v", e.StreamURL, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

func dataErr(reason string) error {
	return &DataError{Reason: reason}
}

