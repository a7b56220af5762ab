package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// HealthCheck is one entry of the /healthz response.
type HealthCheck struct {
	Status    string `json:"status" enum:"ok,error"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latencyMs"`
}

type HealthResponse map[string]HealthCheck

type SessionPath struct {
	Session string `path:"session" format:"uuid"`
}

type PagePath struct {
	ID string `path:"id"`
}

type GuessInput struct {
	SessionPath
	GuessRequest
}

type PlaybackErrorInput struct {
	SessionPath
	PlaybackErrorRequest
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "RadioGuessr API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Content gateway and round engine for the RadioGuessr geography game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Reports whether the content provider is reachable and sessions can be created.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/places
	getPlaces, _ := r.NewOperationContext(http.MethodGet, "/api/places")
	getPlaces.SetTags("gateway")
	getPlaces.SetSummary("List locations")
	getPlaces.SetDescription("Relays the provider's location list unchanged. Coordinates are [lon, lat].")
	getPlaces.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType("application/json"))
	getPlaces.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(getPlaces)

	// GET /api/page/{id}
	getPage, _ := r.NewOperationContext(http.MethodGet, "/api/page/{id}")
	getPage.SetTags("gateway")
	getPage.SetSummary("Location page")
	getPage.SetDescription("Relays the provider's page for one location, including its channel list.")
	getPage.AddReqStructure(PagePath{})
	getPage.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType("application/json"))
	getPage.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(getPage)

	// GET /api/listen/{id}/channel.mp3
	getListen, _ := r.NewOperationContext(http.MethodGet, "/api/listen/{id}/channel.mp3")
	getListen.SetTags("gateway")
	getListen.SetSummary("Station audio")
	getListen.SetDescription("Streams a station's audio from the provider.")
	getListen.AddReqStructure(PagePath{})
	getListen.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType("audio/mpeg"))
	getListen.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(getListen)

	// POST /api/game/sessions
	postSession, _ := r.NewOperationContext(http.MethodPost, "/api/game/sessions")
	postSession.SetTags("game")
	postSession.SetSummary("Create session")
	postSession.SetDescription("Starts a new game session in the idle phase.")
	postSession.AddRespStructure(CreateSessionResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(postSession)

	// GET /api/game/sessions/{session}
	getSession, _ := r.NewOperationContext(http.MethodGet, "/api/game/sessions/{session}")
	getSession.SetTags("game")
	getSession.SetSummary("Session state")
	getSession.AddReqStructure(SessionPath{})
	getSession.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSession)

	// DELETE /api/game/sessions/{session}
	deleteSession, _ := r.NewOperationContext(http.MethodDelete, "/api/game/sessions/{session}")
	deleteSession.SetTags("game")
	deleteSession.SetSummary("End session")
	deleteSession.SetDescription("Drops the session and cancels any round still loading.")
	deleteSession.AddReqStructure(SessionPath{})
	deleteSession.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteSession)

	// POST /api/game/sessions/{session}/round
	postRound, _ := r.NewOperationContext(http.MethodPost, "/api/game/sessions/{session}/round")
	postRound.SetTags("game")
	postRound.SetSummary("Start round")
	postRound.SetDescription("Picks a random station and starts it. Failed loads are retried; the phase is playing or failed.")
	postRound.AddReqStructure(SessionPath{})
	postRound.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postRound)

	// POST /api/game/sessions/{session}/guess
	postGuess, _ := r.NewOperationContext(http.MethodPost, "/api/game/sessions/{session}/guess")
	postGuess.SetTags("game")
	postGuess.SetSummary("Submit guess")
	postGuess.SetDescription("Scores a guess against the playing station and resolves the round.")
	postGuess.AddReqStructure(GuessInput{})
	postGuess.AddRespStructure(RoundResultResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postGuess)

	// POST /api/game/sessions/{session}/playback-error
	postPlayback, _ := r.NewOperationContext(http.MethodPost, "/api/game/sessions/{session}/playback-error")
	postPlayback.SetTags("game")
	postPlayback.SetSummary("Report playback failure")
	postPlayback.SetDescription("Tells the engine the stream of a round could not be played; a new round starts in its place.")
	postPlayback.AddReqStructure(PlaybackErrorInput{})
	postPlayback.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postPlayback.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postPlayback.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postPlayback)

	// GET /api/game/sessions/{session}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/sessions/{session}/events")
	getEvents.SetTags("game")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of the session's round transitions.")
	getEvents.AddReqStructure(SessionPath{})
	getEvents.AddRespStructure(EventMessage{}, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/game/sessions/{session}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/game/sessions/{session}/ws")
	getWS.SetTags("game")
	getWS.SetSummary("WebSocket")
	getWS.SetDescription("Upgrades to a WebSocket. Accepts start, guess and playback-error commands and pushes round events.")
	getWS.AddReqStructure(SessionPath{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
