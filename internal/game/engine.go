package game

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLoading  Phase = "loading"
	PhasePlaying  Phase = "playing"
	PhaseResolved Phase = "resolved"
	PhaseFailed   Phase = "failed"
)

const (
	defaultMaxAttempts    = 5
	defaultInitialBackoff = 200 * time.Millisecond
	defaultMaxBackoff     = 5 * time.Second
)

// RoundResult is the outcome of one accepted guess.
type RoundResult struct {
	Round      int
	Station    Station
	Guess      GeoPoint
	DistanceKm float64
	Score      int
	TotalScore int
}

// RoundedKm is the distance shown to the player.
func (r RoundResult) RoundedKm() int {
	return int(math.Round(r.DistanceKm))
}

// Summary renders the result the way the game announces it.
func (r RoundResult) Summary() string {
	return fmt.Sprintf("Now playing: %s\nActual Location: %s, %s\nDistance: %d km\nRound Score: %d",
		r.Station.Title, r.Station.Location.Name, r.Station.Location.Country, r.RoundedKm(), r.Score)
}

// State is a snapshot of a session's round state.
type State struct {
	Phase          Phase
	Round          int
	Station        *Station
	Score          int
	LastGuess      *GeoPoint
	LastDistanceKm *float64
	LastResult     *RoundResult
	Failures       int
	LastError      string
}

type EventType string

const (
	EventRoundLoading   EventType = "round_loading"
	EventRoundRetrying  EventType = "round_retrying"
	EventRoundPlaying   EventType = "round_playing"
	EventRoundResolved  EventType = "round_resolved"
	EventRoundFailed    EventType = "round_failed"
	EventPlaybackFailed EventType = "playback_failed"
)

// Event describes a state transition.
type Event struct {
	Type    EventType
	Round   int
	Attempt int
	Station *Station
	Result  *RoundResult
	Score   int
	Err     error
}

// Config controls the retry policy applied when a round fails to load.
type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Notifier       Notifier
}

// Engine owns one game session. It is safe for concurrent use; network work
// runs outside the lock and only the newest round may write its result.
type Engine struct {
	selector *Selector
	player   Player
	cfg      Config
	logger   *slog.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	// consecutive playback failures reported since the last resolved round
	playbackFailures int
}

func NewEngine(selector *Selector, player Player, cfg Config, logger *slog.Logger) *Engine {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaultInitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	return &Engine{
		selector: selector,
		player:   player,
		cfg:      cfg,
		logger:   logger,
		state:    State{Phase: PhaseIdle},
	}
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// StartRound loads a new station and starts playing it. Any load still in
// flight is cancelled. Failed loads are retried with exponential backoff;
// once the attempts are used up the session moves to PhaseFailed and the
// last failure is returned. ErrSuperseded is returned when a later call
// replaced this one.
func (e *Engine) StartRound(ctx context.Context) (State, error) {
	e.mu.Lock()
	e.playbackFailures = 0
	e.mu.Unlock()
	return e.startRound(ctx)
}

func (e *Engine) startRound(ctx context.Context) (State, error) {
	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.cancel = cancel
	e.state.Round++
	round := e.state.Round
	e.state.Phase = PhaseLoading
	e.state.Station = nil
	e.state.LastGuess = nil
	e.state.LastDistanceKm = nil
	e.state.LastResult = nil
	e.state.Failures = 0
	e.state.LastError = ""
	score := e.state.Score
	e.mu.Unlock()

	e.logger.Info("round loading", "round", round)
	e.notify(Event{Type: EventRoundLoading, Round: round, Score: score})

	station, err := e.load(loadCtx, round)

	e.mu.Lock()
	if e.state.Round != round {
		e.mu.Unlock()
		e.logger.Debug("discarding stale round", "round", round)
		return e.State(), ErrSuperseded
	}
	e.cancel = nil

	if err != nil {
		e.state.Phase = PhaseFailed
		e.state.LastError = err.Error()
		snap := e.snapshot()
		e.mu.Unlock()

		e.logger.Error("round failed", "round", round, "attempts", snap.Failures, "error", err)
		e.notify(Event{Type: EventRoundFailed, Round: round, Score: snap.Score, Err: err})
		return snap, fmt.Errorf("starting round %d: %w", round, err)
	}

	e.state.Phase = PhasePlaying
	e.state.Station = &station
	snap := e.snapshot()
	e.mu.Unlock()

	e.logger.Info("round playing", "round", round, "station", station.ID, "location", station.Location.ID)
	e.notify(Event{Type: EventRoundPlaying, Round: round, Station: &station, Score: snap.Score})
	return snap, nil
}

func (e *Engine) load(ctx context.Context, round int) (Station, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.cfg.InitialBackoff
	b.MaxInterval = e.cfg.MaxBackoff
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(e.cfg.MaxAttempts-1)), ctx)

	var (
		station Station
		attempt int
	)
	op := func() error {
		attempt++
		s, err := e.selector.Select(ctx)
		if err == nil {
			err = e.player.Play(ctx, s.StreamURL)
		}
		if err != nil {
			e.recordFailure(round, attempt, err)
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		station = s
		return nil
	}
	notify := func(err error, wait time.Duration) {
		e.logger.Warn("round load failed, retrying",
			"round", round, "attempt", attempt, "max_attempts", e.cfg.MaxAttempts,
			"wait_ms", wait.Milliseconds(), "error", err)
		e.notify(Event{Type: EventRoundRetrying, Round: round, Attempt: attempt, Err: err})
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return Station{}, err
	}
	return station, nil
}

func (e *Engine) recordFailure(round, attempt int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Round != round {
		return
	}
	e.state.Failures = attempt
	e.state.LastError = err.Error()
}

// SubmitGuess scores a guess against the current station and resolves the
// round. It returns ErrNotPlaying, leaving the state untouched, unless the
// session is in PhasePlaying.
func (e *Engine) SubmitGuess(guess GeoPoint) (RoundResult, error) {
	e.mu.Lock()
	if e.state.Phase != PhasePlaying || e.state.Station == nil {
		e.mu.Unlock()
		return RoundResult{}, ErrNotPlaying
	}

	station := *e.state.Station
	distance := Distance(guess, station.Location.Coordinates)
	score := Score(distance)

	e.state.Score += score
	e.state.Phase = PhaseResolved
	e.state.LastGuess = &guess
	e.state.LastDistanceKm = &distance
	result := RoundResult{
		Round:      e.state.Round,
		Station:    station,
		Guess:      guess,
		DistanceKm: distance,
		Score:      score,
		TotalScore: e.state.Score,
	}
	e.state.LastResult = &result
	e.playbackFailures = 0
	e.mu.Unlock()

	e.logger.Info("round resolved",
		"round", result.Round, "distance_km", result.RoundedKm(), "score", score, "total", result.TotalScore)
	e.notify(Event{Type: EventRoundResolved, Round: result.Round, Result: &result, Score: result.TotalScore})
	return result, nil
}

// ReportPlaybackFailure tells the engine the stream of round could not be
// played. The engine starts a new round in its place. Reports for any round
// other than the one currently playing return ErrSuperseded. After
// MaxAttempts consecutive reports the session fails instead of restarting.
func (e *Engine) ReportPlaybackFailure(ctx context.Context, round int, cause error) (State, error) {
	e.mu.Lock()
	if e.state.Phase != PhasePlaying || e.state.Round != round {
		snap := e.snapshot()
		e.mu.Unlock()
		return snap, ErrSuperseded
	}
	if cause == nil {
		cause = errStreamUnplayable
	}
	e.playbackFailures++
	streak := e.playbackFailures
	streamURL := e.state.Station.StreamURL
	score := e.state.Score
	e.mu.Unlock()

	playErr := &PlaybackError{StreamURL: streamURL, Err: cause}
	e.logger.Warn("playback failed", "round", round, "streak", streak, "error", playErr)
	e.notify(Event{Type: EventPlaybackFailed, Round: round, Attempt: streak, Score: score, Err: playErr})

	if streak >= e.cfg.MaxAttempts {
		e.mu.Lock()
		if e.state.Round != round {
			snap := e.snapshot()
			e.mu.Unlock()
			return snap, ErrSuperseded
		}
		e.state.Phase = PhaseFailed
		e.state.Failures = streak
		e.state.LastError = playErr.Error()
		snap := e.snapshot()
		e.mu.Unlock()

		e.notify(Event{Type: EventRoundFailed, Round: round, Score: score, Err: playErr})
		return snap, fmt.Errorf("giving up after %d playback failures: %w", streak, playErr)
	}

	return e.startRound(ctx)
}

// Close cancels any load in flight.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) notify(ev Event) {
	if e.cfg.Notifier != nil {
		e.cfg.Notifier.Notify(ev)
	}
}

// snapshot copies the state; callers hold e.mu.
func (e *Engine) snapshot() State {
	s := e.state
	if s.Station != nil {
		st := *s.Station
		s.Station = &st
	}
	if s.LastGuess != nil {
		g := *s.LastGuess
		s.LastGuess = &g
	}
	if s.LastDistanceKm != nil {
		d := *s.LastDistanceKm
		s.LastDistanceKm = &d
	}
	if s.LastResult != nil {
		r := *s.LastResult
		s.LastResult = &r
	}
	return s
}

