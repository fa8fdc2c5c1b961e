package exports_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/quill/internal/exports"
	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/pkg/export"
	"github.com/JaimeStill/quill/pkg/pagination"
	"github.com/JaimeStill/quill/pkg/storage"
)

type mockSystem struct {
	listFn     func(ctx context.Context, page pagination.PageRequest, filters exports.Filters) (*pagination.PageResult[exports.Export], error)
	findFn     func(ctx context.Context, id uuid.UUID) (*exports.Export, error)
	createFn   func(ctx context.Context, cmd exports.CreateCommand) (*exports.Export, error)
	downloadFn func(ctx context.Context, id uuid.UUID) (*exports.Export, *storage.Blob, error)
	deleteFn   func(ctx context.Context, id uuid.UUID) error
	cleanupFn  func(ctx context.Context, before time.Time) (*exports.CleanupResult, error)
}

func (m *mockSystem) Handler(maxBodySize int64) *exports.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters exports.Filters) (*pagination.PageResult[exports.Export], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*exports.Export, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd exports.CreateCommand) (*exports.Export, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Download(ctx context.Context, id uuid.UUID) (*exports.Export, *storage.Blob, error) {
	return m.downloadFn(ctx, id)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func (m *mockSystem) Cleanup(ctx context.Context, before time.Time) (*exports.CleanupResult, error) {
	return m.cleanupFn(ctx, before)
}

func newTestHandler(sys exports.System) *exports.Handler {
	return exports.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		export.Config{Filename: "prompt.json", Prefix: "exports", Retention: "24h"},
		1<<20,
	)
}

func setupMux(h *exports.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func serve(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, reader))
	return rec
}

var (
	sampleID       = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	samplePromptID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
)

func sampleExport() exports.Export {
	return exports.Export{
		ID:         sampleID,
		PromptID:   &samplePromptID,
		Filename:   "quest.json",
		StorageKey: "exports/" + sampleID.String() + "/quest.json",
		SizeBytes:  312,
		CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestHandlerList(t *testing.T) {
	var got exports.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f exports.Filters) (*pagination.PageResult[exports.Export], error) {
			got = f
			r := pagination.NewPageResult([]exports.Export{sampleExport()}, 1, page.Page, page.PageSize)
			return &r, nil
		},
	}

	mux := setupMux(newTestHandler(sys))
	rec := serve(mux, "GET", "/exports?prompt_id="+samplePromptID.String()+"&filename=quest", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got.PromptID == nil || *got.PromptID != samplePromptID {
		t.Errorf("prompt_id filter = %v", got.PromptID)
	}
	if got.Filename == nil || *got.Filename != "quest" {
		t.Errorf("filename filter = %v", got.Filename)
	}

	var result pagination.PageResult[exports.Export]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Total != 1 || len(result.Data) != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestHandlerFind(t *testing.T) {
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*exports.Export, error) {
			if id != sampleID {
				return nil, exports.ErrNotFound
			}
			e := sampleExport()
			return &e, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"found", "/exports/" + sampleID.String(), http.StatusOK},
		{"missing", "/exports/" + uuid.NewString(), http.StatusNotFound},
		{"bad id", "/exports/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := serve(mux, "GET", tt.target, ""); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerCreate(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		want   int
		verify func(t *testing.T, cmd exports.CreateCommand)
	}{
		{
			name: "from prompt",
			body: `{"prompt_id":"` + samplePromptID.String() + `","filename":"quest"}`,
			want: http.StatusCreated,
			verify: func(t *testing.T, cmd exports.CreateCommand) {
				if cmd.PromptID == nil || *cmd.PromptID != samplePromptID {
					t.Errorf("prompt_id = %v", cmd.PromptID)
				}
				if cmd.Filename != "quest" {
					t.Errorf("filename = %q", cmd.Filename)
				}
			},
		},
		{
			name: "inline output is passed raw",
			body: `{"output":{"task":"t"}}`,
			want: http.StatusCreated,
			verify: func(t *testing.T, cmd exports.CreateCommand) {
				if string(cmd.Output) != `{"task":"t"}` {
					t.Errorf("output = %s", cmd.Output)
				}
			},
		},
		{"malformed body", `{`, nil, http.StatusBadRequest, nil},
		{"prompt missing", `{"prompt_id":"` + samplePromptID.String() + `"}`, fmt.Errorf("resolve: %w", prompts.ErrNotFound), http.StatusNotFound, nil},
		{"invalid output", `{"output":{}}`, prompts.ErrInvalidState, http.StatusUnprocessableEntity, nil},
		{"bad filename", `{"prompt_id":"` + samplePromptID.String() + `","filename":"../x"}`, export.ErrInvalidFilename, http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{
				createFn: func(_ context.Context, cmd exports.CreateCommand) (*exports.Export, error) {
					if tt.verify != nil {
						tt.verify(t, cmd)
					}
					if tt.err != nil {
						return nil, tt.err
					}
					e := sampleExport()
					return &e, nil
				},
			}

			rec := serve(setupMux(newTestHandler(sys)), "POST", "/exports", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestHandlerDownload(t *testing.T) {
	content := []byte("{\n  \"task\": \"t\"\n}")
	body := &closeTracker{Reader: bytes.NewReader(content)}

	sys := &mockSystem{
		downloadFn: func(_ context.Context, id uuid.UUID) (*exports.Export, *storage.Blob, error) {
			e := sampleExport()
			return &e, &storage.Blob{
				Body:          body,
				ContentType:   export.ContentType,
				ContentLength: int64(len(content)),
			}, nil
		},
	}

	rec := serve(setupMux(newTestHandler(sys)), "GET", "/exports/"+sampleID.String()+"/download", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="quest.json"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Content-Length"); got != fmt.Sprint(len(content)) {
		t.Errorf("Content-Length = %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), content) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if !body.closed {
		t.Error("blob body was not closed")
	}
}

func TestHandlerDownloadMissingBlob(t *testing.T) {
	sys := &mockSystem{
		downloadFn: func(context.Context, uuid.UUID) (*exports.Export, *storage.Blob, error) {
			return nil, nil, fmt.Errorf("%w: blob gone", exports.ErrNotFound)
		},
	}

	rec := serve(setupMux(newTestHandler(sys)), "GET", "/exports/"+sampleID.String()+"/download", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerDelete(t *testing.T) {
	var deleted uuid.UUID
	sys := &mockSystem{
		deleteFn: func(_ context.Context, id uuid.UUID) error {
			deleted = id
			return nil
		},
	}

	rec := serve(setupMux(newTestHandler(sys)), "DELETE", "/exports/"+sampleID.String(), "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if deleted != sampleID {
		t.Errorf("deleted = %s", deleted)
	}
}

func TestHandlerCleanup(t *testing.T) {
	var cutoff time.Time
	sys := &mockSystem{
		cleanupFn: func(_ context.Context, before time.Time) (*exports.CleanupResult, error) {
			cutoff = before
			return &exports.CleanupResult{Before: before, Removed: 3, FreedBytes: 2048}, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	t.Run("retention default", func(t *testing.T) {
		start := time.Now()
		rec := serve(mux, "POST", "/exports/cleanup", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		want := start.Add(-24 * time.Hour)
		if cutoff.Before(want.Add(-time.Minute)) || cutoff.After(want.Add(time.Minute)) {
			t.Errorf("cutoff = %v, want about %v", cutoff, want)
		}

		var result exports.CleanupResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Removed != 3 || result.FreedBytes != 2048 {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("explicit cutoff", func(t *testing.T) {
		rec := serve(mux, "POST", "/exports/cleanup?before=2026-01-02T03:04:05Z", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !cutoff.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
			t.Errorf("cutoff = %v", cutoff)
		}
	})

	t.Run("bad cutoff", func(t *testing.T) {
		rec := serve(mux, "POST", "/exports/cleanup?before=yesterday", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{exports.ErrNotFound, http.StatusNotFound},
		{prompts.ErrNotFound, http.StatusNotFound},
		{exports.ErrDuplicate, http.StatusConflict},
		{exports.ErrInvalidExport, http.StatusBadRequest},
		{fmt.Errorf("save: %w", export.ErrInvalidFilename), http.StatusBadRequest},
		{prompts.ErrInvalidState, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := exports.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
