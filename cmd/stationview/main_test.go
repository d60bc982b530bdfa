package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/stationview/internal/config"
	"github.com/kailas-cloud/stationview/internal/fixture"
	logpkg "github.com/kailas-cloud/stationview/internal/logger"
)

func TestJSONRecoverer(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := jsonRecoverer(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/schema", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["code"] != "internal_error" {
		t.Errorf("body = %v", body)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Error("expected the panic to be logged")
	}
}

func TestWideEventMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	var fromCtx *zap.Logger
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(zap.New(core)))
	r.Get("/schema", func(w http.ResponseWriter, r *http.Request) {
		fromCtx = logpkg.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/schema", http.NoBody))

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	if fromCtx == nil {
		t.Fatal("expected a request logger in context")
	}

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one canonical line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("status field = %v", fields["status"])
	}
	if fields["request_id"] == "" {
		t.Error("expected request_id field")
	}
}

func TestBuildHandler_ServesData(t *testing.T) {
	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(fixture.StationsJSON())
	}))
	defer upstreamSrv.Close()

	cfg := config.Config{
		HTTP:     config.HTTPConfig{Port: 8080},
		Upstream: config.UpstreamConfig{URL: upstreamSrv.URL},
	}
	cfg.ApplyDefaults()

	h, err := buildHandler(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("buildHandler: %v", err)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/data",
		strings.NewReader(`{"where":{"status":{"eq":"MAINTENANCE"}}}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	if !strings.Contains(rr.Body.String(), `"totalRecords":4`) {
		t.Errorf("expected 4 maintenance stations, got %s", rr.Body)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Errorf("health status = %d", rr.Code)
	}
}

func TestBuildHandler_InvalidThresholds(t *testing.T) {
	cfg := config.Config{Schema: config.SchemaConfig{OptionAbsoluteThreshold: 0, OptionRelativeThreshold: 0.2}}
	if _, err := buildHandler(cfg, zap.NewNop()); err == nil {
		t.Error("expected error for zero absolute threshold")
	}
}
