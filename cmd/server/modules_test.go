package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeStill/quill/internal/config"
	"github.com/JaimeStill/quill/internal/infrastructure"
	"github.com/JaimeStill/quill/pkg/lifecycle"
)

func testInfra() *infrastructure.Infrastructure {
	return &infrastructure.Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func get(t *testing.T, h http.Handler, path string) (int, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return rec.Code, body
}

func TestHealthz(t *testing.T) {
	router := buildRouter(testInfra(), &config.Config{Version: "0.1.0"})

	code, body := get(t, router, "/healthz")
	if code != http.StatusOK {
		t.Errorf("status: got %d, want %d", code, http.StatusOK)
	}
	if body["status"] != "ok" {
		t.Errorf("body status: got %v, want ok", body["status"])
	}
}

func TestReadyz(t *testing.T) {
	t.Run("not started", func(t *testing.T) {
		router := buildRouter(testInfra(), &config.Config{})

		code, body := get(t, router, "/readyz")
		if code != http.StatusServiceUnavailable {
			t.Errorf("status: got %d, want %d", code, http.StatusServiceUnavailable)
		}
		if body["status"] != "not ready" {
			t.Errorf("body status: got %v, want not ready", body["status"])
		}
	})

	t.Run("all checks pass", func(t *testing.T) {
		infra := testInfra()
		infra.Lifecycle.RegisterCheck("database", func(context.Context) error { return nil })
		infra.Lifecycle.WaitForStartup()
		router := buildRouter(infra, &config.Config{})

		code, body := get(t, router, "/readyz")
		if code != http.StatusOK {
			t.Errorf("status: got %d, want %d", code, http.StatusOK)
		}
		checks, _ := body["checks"].(map[string]any)
		if checks["database"] != "ok" {
			t.Errorf("database check: got %v, want ok", checks["database"])
		}
	})

	t.Run("failing check degrades", func(t *testing.T) {
		infra := testInfra()
		infra.Lifecycle.RegisterCheck("database", func(context.Context) error { return nil })
		infra.Lifecycle.RegisterCheck("storage", func(context.Context) error {
			return errors.New("container unreachable")
		})
		infra.Lifecycle.WaitForStartup()
		router := buildRouter(infra, &config.Config{})

		code, body := get(t, router, "/readyz")
		if code != http.StatusServiceUnavailable {
			t.Errorf("status: got %d, want %d", code, http.StatusServiceUnavailable)
		}
		if body["status"] != "degraded" {
			t.Errorf("body status: got %v, want degraded", body["status"])
		}
		checks, _ := body["checks"].(map[string]any)
		if checks["storage"] != "container unreachable" {
			t.Errorf("storage check: got %v", checks["storage"])
		}
	})
}

func TestVersion(t *testing.T) {
	t.Setenv(config.EnvQuillEnv, "staging")
	router := buildRouter(testInfra(), &config.Config{Version: "1.2.3"})

	code, body := get(t, router, "/version")
	if code != http.StatusOK {
		t.Errorf("status: got %d, want %d", code, http.StatusOK)
	}
	if body["version"] != "1.2.3" {
		t.Errorf("version: got %v, want 1.2.3", body["version"])
	}
	if body["env"] != "staging" {
		t.Errorf("env: got %v, want staging", body["env"])
	}
	if body["generation"] != false {
		t.Errorf("generation: got %v, want false", body["generation"])
	}
}

func TestHTTPServerStartFailsOnBoundPort(t *testing.T) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.ServerConfig{
		Host:              "127.0.0.1",
		Port:              0,
		ReadTimeout:       "1s",
		ReadHeaderTimeout: "1s",
		WriteTimeout:      "1s",
		IdleTimeout:       "1s",
		ShutdownTimeout:   "1s",
	}

	first := newHTTPServer(cfg, http.NotFoundHandler(), logger)
	first.http.Addr = "127.0.0.1:0"
	if err := first.Start(lc); err != nil {
		t.Fatalf("first Start() error = %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	second := newHTTPServer(cfg, http.NotFoundHandler(), logger)
	second.http.Addr = ln.Addr().String()
	if err := second.Start(lc); err == nil {
		t.Error("expected error binding an address already in use")
	}

	if err := lc.Shutdown(2 * time.Second); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
