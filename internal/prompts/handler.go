package prompts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/quill/pkg/export"
	"github.com/JaimeStill/quill/pkg/handlers"
	"github.com/JaimeStill/quill/pkg/pagination"
	"github.com/JaimeStill/quill/pkg/routes"
)

// Handler provides HTTP endpoints for prompt operations.
type Handler struct {
	sys         System
	logger      *slog.Logger
	pagination  pagination.Config
	export      export.Config
	maxBodySize int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, pagination, and export defaults.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	export export.Config,
	maxBodySize int64,
) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "prompts"),
		pagination:  pagination,
		export:      export,
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for prompt endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/prompts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/output", Handler: h.Output},
			{Method: "GET", Pattern: "/{id}/curl", Handler: h.CurlSaved},
			{Method: "GET", Pattern: "/{id}/download", Handler: h.DownloadSaved},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/build", Handler: h.Build},
			{Method: "POST", Pattern: "/curl", Handler: h.Curl},
			{Method: "POST", Pattern: "/download", Handler: h.Download},
		},
	}
}

// List returns a paginated list of prompts with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single prompt by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	prompt, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, prompt)
}

// Output returns the JSON output projection of a saved prompt.
func (h *Handler) Output(w http.ResponseWriter, r *http.Request) {
	out, ok := h.savedOutput(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, out)
}

// CurlSaved renders a cURL command for a saved prompt.
// The optional endpoint query parameter overrides the configured endpoint;
// shell=true escapes single quotes in the body.
func (h *Handler) CurlSaved(w http.ResponseWriter, r *http.Request) {
	out, ok := h.savedOutput(w, r)
	if !ok {
		return
	}
	h.respondCurl(w, r, out)
}

// DownloadSaved streams a saved prompt's output as a .json attachment.
// The optional filename query parameter overrides the configured filename.
func (h *Handler) DownloadSaved(w http.ResponseWriter, r *http.Request) {
	out, ok := h.savedOutput(w, r)
	if !ok {
		return
	}
	h.respondDownload(w, r, out, r.URL.Query().Get("filename"))
}

// Create processes a JSON body to save a new prompt draft.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := h.decode(w, r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, handlers.BodyStatus(err), err)
		return
	}

	prompt, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, prompt)
}

// Update processes a JSON body to replace an existing prompt draft.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var cmd UpdateCommand
	if err := h.decode(w, r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, handlers.BodyStatus(err), err)
		return
	}

	prompt, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, prompt)
}

// Delete removes a prompt by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching prompts.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := h.decode(w, r, &req); err != nil {
		handlers.RespondError(w, h.logger, handlers.BodyStatus(err), err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Build accepts an editing State and returns its validated Output.
func (h *Handler) Build(w http.ResponseWriter, r *http.Request) {
	var s State
	if err := h.decode(w, r, &s); err != nil {
		handlers.RespondError(w, h.logger, handlers.BodyStatus(err), err)
		return
	}

	if err := Validate(s); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Build(s))
}

// Curl accepts an Output document and returns its cURL template as text.
func (h *Handler) Curl(w http.ResponseWriter, r *http.Request) {
	out, ok := h.decodeOutput(w, r)
	if !ok {
		return
	}
	h.respondCurl(w, r, out)
}

// Download accepts an Output document and echoes it back as a .json attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	out, ok := h.decodeOutput(w, r)
	if !ok {
		return
	}
	h.respondDownload(w, r, out, r.URL.Query().Get("filename"))
}

func (h *Handler) respondCurl(w http.ResponseWriter, r *http.Request, out Output) {
	endpoint := r.URL.Query().Get("endpoint")
	if endpoint == "" {
		endpoint = h.export.Endpoint
	}
	if err := export.ValidateEndpoint(endpoint); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	render := export.Curl
	if r.URL.Query().Get("shell") == "true" {
		render = export.CurlShell
	}

	cmd, err := render(out, endpoint)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondText(w, http.StatusOK, cmd)
}

func (h *Handler) respondDownload(w http.ResponseWriter, r *http.Request, out Output, filename string) {
	if filename == "" {
		filename = h.export.Filename
	}

	name, err := export.CleanFilename(filename)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	saver := export.SaverFunc(func(_ context.Context, data []byte, filename string) error {
		handlers.RespondAttachment(w, filename, export.ContentType, data)
		return nil
	})

	if _, err := export.Download(r.Context(), saver, out, name); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
	}
}

func (h *Handler) savedOutput(w http.ResponseWriter, r *http.Request) (Output, bool) {
	id, ok := h.pathID(w, r)
	if !ok {
		return Output{}, false
	}

	out, err := h.sys.Output(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return Output{}, false
	}

	return out, true
}

func (h *Handler) decodeOutput(w http.ResponseWriter, r *http.Request) (Output, bool) {
	data, err := io.ReadAll(h.limit(w, r))
	if err != nil {
		handlers.RespondError(w, h.logger, handlers.BodyStatus(err), err)
		return Output{}, false
	}

	out, err := ValidateOutput(data)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return Output{}, false
	}

	return out, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: invalid id", ErrNotFound))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(h.limit(w, r)).Decode(v)
}

func (h *Handler) limit(w http.ResponseWriter, r *http.Request) io.Reader {
	if h.maxBodySize <= 0 {
		return r.Body
	}
	return http.MaxBytesReader(w, r.Body, h.maxBodySize)
}
