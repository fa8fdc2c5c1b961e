package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/quill/pkg/handlers"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type detailedErr struct{}

func (detailedErr) Error() string { return "invalid state" }
func (detailedErr) Details() any  { return map[string]string{"task": "required"} }

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusCreated, map[string]int{"id": 42})

	if rec.Code != http.StatusCreated {
		t.Errorf("status: got %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type: got %s", ct)
	}

	var parsed map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if parsed["id"] != 42 {
		t.Errorf("id: got %d, want 42", parsed["id"])
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantDetails bool
	}{
		{"plain", errors.New("invalid input"), false},
		{"with details", detailedErr{}, true},
		{"wrapped details", fmt.Errorf("create: %w", detailedErr{}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondError(rec, discard(), http.StatusBadRequest, tt.err)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rec.Code)
			}

			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if body["error"] != tt.err.Error() {
				t.Errorf("error: got %v, want %s", body["error"], tt.err.Error())
			}

			_, hasDetails := body["details"]
			if hasDetails != tt.wantDetails {
				t.Errorf("details present: got %v, want %v", hasDetails, tt.wantDetails)
			}
		})
	}
}

func TestRespondText(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondText(rec, http.StatusOK, "curl -X POST")

	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("content-type: got %s", ct)
	}
	if rec.Body.String() != "curl -X POST" {
		t.Errorf("body: got %q", rec.Body.String())
	}
}

func TestRespondAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	data := []byte(`{"task":"t"}`)
	handlers.RespondAttachment(rec, "prompt.json", "application/json", data)

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="prompt.json"` {
		t.Errorf("disposition: got %s", got)
	}
	if got := rec.Header().Get("Content-Length"); got != fmt.Sprint(len(data)) {
		t.Errorf("content-length: got %s", got)
	}
	if rec.Body.String() != string(data) {
		t.Errorf("body: got %s", rec.Body.String())
	}
}

func TestBodyStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	body := http.MaxBytesReader(rec, io.NopCloser(strings.NewReader(`{"name":"too long"}`)), 4)
	_, readErr := io.ReadAll(body)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"body over limit", readErr, http.StatusRequestEntityTooLarge},
		{"wrapped over limit", fmt.Errorf("decode: %w", readErr), http.StatusRequestEntityTooLarge},
		{"malformed json", errors.New("unexpected EOF"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := handlers.BodyStatus(tt.err); got != tt.want {
				t.Errorf("BodyStatus = %d, want %d", got, tt.want)
			}
		})
	}
}
