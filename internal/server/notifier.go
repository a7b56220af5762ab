package server

import (
	"github.com/playperu/radioguessr/internal/game"
	"github.com/playperu/radioguessr/internal/metrics"
)

// sessionNotifier forwards engine events to the session's subscribers and
// the metrics recorder.
type sessionNotifier struct {
	id       string
	broker   *Broker
	recorder *metrics.Recorder
}

func (n *sessionNotifier) Notify(ev game.Event) {
	switch ev.Type {
	case game.EventRoundPlaying:
		n.recorder.RecordRoundStarted()
	case game.EventRoundRetrying:
		n.recorder.RecordRoundRetry()
	case game.EventRoundResolved:
		if ev.Result != nil {
			n.recorder.RecordRoundResolved(ev.Result.Score)
		}
	case game.EventRoundFailed:
		n.recorder.RecordRoundFailed()
	case game.EventPlaybackFailed:
		n.recorder.RecordPlaybackFailure()
	}
	n.broker.Publish(n.id, newEventMessage(ev))
}
