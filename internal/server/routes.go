package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, opts Options) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("RadioGuessr API", "/openapi.json", "/docs"))
	if opts.Health != nil {
		r.Mount("/healthz", opts.Health)
	}
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	if s := opts.Sessions; s != nil {
		r.Route("/api/game/sessions", func(r chi.Router) {
			r.Post("/", handleCreateSession(s))

			r.Route("/{session}", func(r chi.Router) {
				r.Use(sessionMiddleware(s))
				r.Get("/", handleSessionState())
				r.Delete("/", handleDeleteSession(s))
				r.Post("/round", handleStartRound())
				r.Post("/guess", handleGuess())
				r.Post("/playback-error", handlePlaybackError())
				r.Get("/events", handleEvents(s.broker))
				r.Get("/ws", handleWS(s.broker, logger))
			})
		})
	}

	// Everything else is the content gateway, including its 404.
	if opts.Gateway != nil {
		r.Mount("/", opts.Gateway)
	}
}
