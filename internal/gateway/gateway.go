// Package gateway relays the content provider's catalogue and audio streams
// to browsers, adding permissive CORS and security headers.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const welcomeText = "API RadioGuessr - use the endpoints /api/places, /api/page/:id or /api/listen/:id/channel.mp3"

// Recorder receives one observation per upstream relay.
type Recorder interface {
	RecordUpstreamAttempt(route string, duration time.Duration, err error)
}

type Handler struct {
	upstream *Upstream
	logger   *slog.Logger
	recorder Recorder
}

func NewHandler(upstream *Upstream, logger *slog.Logger, recorder Recorder) *Handler {
	return &Handler{upstream: upstream, logger: logger, recorder: recorder}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(Headers)

	r.Get("/", h.welcome)
	r.Get("/api/places", h.places)
	r.Get("/api/page/{id}", h.page)
	r.Get("/api/listen/{id}/channel.mp3", h.listen)
	r.NotFound(NotFound)
	r.MethodNotAllowed(NotFound)
	return r
}

// NotFound writes the plain text 404 used for every unknown path.
func NotFound(w http.ResponseWriter, r *http.Request) {
	for k, v := range corsHeaders {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusNotFound)
	io.WriteString(w, "Not Found")
}

func (h *Handler) welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	io.WriteString(w, welcomeText)
}

func (h *Handler) places(w http.ResponseWriter, r *http.Request) {
	h.relayJSON(w, r, "places", "/places")
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	h.relayJSON(w, r, "page", "/page/"+chi.URLParam(r, "id"))
}

func (h *Handler) relayJSON(w http.ResponseWriter, r *http.Request, route, path string) {
	start := time.Now()
	body, err := h.upstream.Fetch(r.Context(), path)
	if err == nil && !json.Valid(body) {
		err = errors.New("upstream returned invalid JSON")
	}
	h.record(route, start, err)
	if err != nil {
		h.badGateway(w, route, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *Handler) listen(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	resp, err := h.upstream.Open(r.Context(), "/listen/"+chi.URLParam(r, "id")+"/channel.mp3")
	h.record("listen", start, err)
	if err != nil {
		h.badGateway(w, "listen", err)
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)

	n, err := copyFlush(w, resp.Body)
	if err != nil && !errors.Is(err, context.Canceled) {
		h.logger.Debug("listen stream ended", "id", chi.URLParam(r, "id"), "bytes", n, "error", err)
	}
}

// copyFlush copies src to w, flushing after every chunk so audio reaches
// the client as it arrives.
func copyFlush(w http.ResponseWriter, src io.Reader) (int64, error) {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, 32*1024)
	var total int64
	for {
		n, err := src.Read(buf)
		if n > 0 {
			written, werr := w.Write(buf[:n])
			total += int64(written)
			if werr != nil {
				return total, werr
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

func (h *Handler) badGateway(w http.ResponseWriter, route string, err error) {
	h.logger.Error("upstream relay failed", "route", route, "error", err)

	status := 0
	var se *StatusError
	if errors.As(err, &se) {
		status = se.StatusCode
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusBadGateway)
	json.NewEncoder(w).Encode(map[string]any{
		"error":          "upstream unavailable",
		"upstreamStatus": status,
	})
}

func (h *Handler) record(route string, start time.Time, err error) {
	if h.recorder != nil {
		h.recorder.RecordUpstreamAttempt(route, time.Since(start), err)
	}
}
