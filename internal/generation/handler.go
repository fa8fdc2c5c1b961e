package generation

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/pkg/handlers"
	"github.com/JaimeStill/quill/pkg/routes"
)

// Handler provides HTTP endpoints for story generation.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxBodySize int64
}

// NewHandler creates a Handler with the given system, logger, and request body limit.
func NewHandler(sys System, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "generation"),
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for generation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/generate",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.FromState},
			{Method: "POST", Pattern: "/output", Handler: h.FromOutput},
		},
	}
}

// FromState validates and builds an editing State, then generates a story from it.
func (h *Handler) FromState(w http.ResponseWriter, r *http.Request) {
	var s prompts.State
	if err := json.NewDecoder(h.limit(w, r)).Decode(&s); err != nil {
		handlers.RespondError(w, h.logger, handlers.BodyStatus(err), err)
		return
	}

	if err := prompts.Validate(s); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.generate(w, r, prompts.Build(s))
}

// FromOutput generates a story from an already built output document.
func (h *Handler) FromOutput(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(h.limit(w, r))
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.BodyStatus(err), err)
		return
	}

	out, err := prompts.ValidateOutput(data)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.generate(w, r, out)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request, out prompts.Output) {
	result, err := h.sys.Generate(r.Context(), out)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) limit(w http.ResponseWriter, r *http.Request) io.Reader {
	if h.maxBodySize <= 0 {
		return r.Body
	}
	return http.MaxBytesReader(w, r.Body, h.maxBodySize)
}
