package metrics

import (
	"sync"
	"time"
)

type upstreamStats struct {
	calls           int
	errors          int
	lastCallLatency time.Duration
}

// Recorder keeps in-memory counters for upstream relays and game rounds and
// forwards them to OpenTelemetry instruments when those are configured.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	mu       sync.Mutex
	upstream map[string]*upstreamStats
	rounds   roundStats
	otel     *otelInstruments
}

type roundStats struct {
	started          int
	resolved         int
	failed           int
	retries          int
	playbackFailures int
	points           int
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		upstream: make(map[string]*upstreamStats),
		otel:     otel,
	}
}

// RecordUpstreamAttempt counts one relay to the content provider for route.
func (r *Recorder) RecordUpstreamAttempt(route string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.upstream[route]
	if !ok {
		stats = &upstreamStats{}
		r.upstream[route] = stats
	}
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordUpstreamAttempt(route, duration, err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, route, status, duration)
}

// RecordRoundStarted counts a round that reached the playing phase.
func (r *Recorder) RecordRoundStarted() {
	r.updateRounds(func(s *roundStats) { s.started++ })
	if r != nil && r.otel != nil {
		r.otel.recordRound("started", 0)
	}
}

// RecordRoundResolved counts a scored guess.
func (r *Recorder) RecordRoundResolved(score int) {
	r.updateRounds(func(s *roundStats) {
		s.resolved++
		s.points += score
	})
	if r != nil && r.otel != nil {
		r.otel.recordRound("resolved", score)
	}
}

// RecordRoundFailed counts a round that exhausted its retries.
func (r *Recorder) RecordRoundFailed() {
	r.updateRounds(func(s *roundStats) { s.failed++ })
	if r != nil && r.otel != nil {
		r.otel.recordRound("failed", 0)
	}
}

// RecordRoundRetry counts a failed load attempt that will be retried.
func (r *Recorder) RecordRoundRetry() {
	r.updateRounds(func(s *roundStats) { s.retries++ })
	if r != nil && r.otel != nil {
		r.otel.recordRound("retry", 0)
	}
}

// RecordPlaybackFailure counts a stream the player could not play.
func (r *Recorder) RecordPlaybackFailure() {
	r.updateRounds(func(s *roundStats) { s.playbackFailures++ })
	if r != nil && r.otel != nil {
		r.otel.recordRound("playback_failed", 0)
	}
}

// Snapshot is a copy of the stats recorded for one upstream route.
type Snapshot struct {
	Calls           int
	Errors          int
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(route string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.upstream[route]
	if !ok {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RoundSnapshot is a copy of the round counters.
type RoundSnapshot struct {
	Started          int
	Resolved         int
	Failed           int
	Retries          int
	PlaybackFailures int
	Points           int
}

func (r *Recorder) Rounds() RoundSnapshot {
	if r == nil {
		return RoundSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoundSnapshot{
		Started:          r.rounds.started,
		Resolved:         r.rounds.resolved,
		Failed:           r.rounds.failed,
		Retries:          r.rounds.retries,
		PlaybackFailures: r.rounds.playbackFailures,
		Points:           r.rounds.points,
	}
}

func (r *Recorder) updateRounds(fn func(*roundStats)) {
	if r == nil {
		return
	}
	r.mu.Lock()
	fn(&r.rounds)
	r.mu.Unlock()
}
