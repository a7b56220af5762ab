package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/playperu/radioguessr/internal/game"
)

var errSessionClosed = errors.New("session closed")

// wsCommand is a message sent by the client.
type wsCommand struct {
	Type   string   `json:"type"`
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
	Round  int      `json:"round,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

// wsReply answers a command. Engine events are pushed as EventMessage.
type wsReply struct {
	Type   string               `json:"type"`
	State  *StateResponse       `json:"state,omitempty"`
	Result *RoundResultResponse `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

func handleWS(broker *Broker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ch := broker.Subscribe(sess.ID)
		defer broker.Unsubscribe(sess.ID, ch)

		g, ctx := errgroup.WithContext(r.Context())

		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case data, ok := <-ch:
					if !ok {
						conn.Close(websocket.StatusGoingAway, "session closed")
						return errSessionClosed
					}
					if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
						return err
					}
				}
			}
		})

		g.Go(func() error {
			if err := replyState(ctx, conn, sess.Engine.State()); err != nil {
				return err
			}
			for {
				var cmd wsCommand
				if err := wsjson.Read(ctx, conn, &cmd); err != nil {
					return err
				}
				dispatch(ctx, g, conn, sess, cmd)
			}
		})

		if err := g.Wait(); !errors.Is(err, errSessionClosed) {
			logger.Debug("websocket read ended", "session", sess.ID, "error", err)
		}
	}
}

// dispatch runs one client command. Round starts run in the group so a
// newer start can supersede one still loading.
func dispatch(ctx context.Context, g *errgroup.Group, conn *websocket.Conn, sess *Session, cmd wsCommand) {
	switch cmd.Type {
	case "start":
		g.Go(func() error {
			st, err := sess.Engine.StartRound(context.WithoutCancel(ctx))
			replyRound(ctx, conn, st, err)
			return nil
		})
	case "guess":
		guess, err := GuessRequest{Lat: cmd.Lat, Lon: cmd.Lon}.point()
		if err != nil {
			replyError(ctx, conn, err)
			return
		}
		res, err := sess.Engine.SubmitGuess(guess)
		if err != nil {
			replyError(ctx, conn, err)
			return
		}
		wsjson.Write(ctx, conn, wsReply{Type: "result", Result: newRoundResultResponse(&res)})
	case "playback-error":
		req := PlaybackErrorRequest{Round: cmd.Round, Reason: cmd.Reason}
		g.Go(func() error {
			st, err := sess.Engine.ReportPlaybackFailure(context.WithoutCancel(ctx), req.Round, req.cause())
			replyRound(ctx, conn, st, err)
			return nil
		})
	case "state":
		replyState(ctx, conn, sess.Engine.State())
	default:
		replyError(ctx, conn, errors.New("unknown command "+cmd.Type))
	}
}

func replyRound(ctx context.Context, conn *websocket.Conn, st game.State, err error) {
	if errors.Is(err, game.ErrSuperseded) {
		replyError(ctx, conn, err)
		return
	}
	replyState(ctx, conn, st)
}

func replyState(ctx context.Context, conn *websocket.Conn, st game.State) error {
	resp := newStateResponse(st)
	return wsjson.Write(ctx, conn, wsReply{Type: "state", State: &resp})
}

func replyError(ctx context.Context, conn *websocket.Conn, err error) {
	wsjson.Write(ctx, conn, wsReply{Type: "error", Error: err.Error()})
}
