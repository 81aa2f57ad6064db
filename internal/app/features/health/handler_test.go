package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/rentalhub/internal/app/features/health"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type dbPing struct{ err error }

func (p dbPing) Ping(context.Context, *readpref.ReadPref) error { return p.err }

type cachePing struct{ err error }

func (p cachePing) Ping(context.Context) error { return p.err }

type response struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Message  string `json:"message"`
	Error    string `json:"error"`
}

func serve(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, response) {
	t.Helper()
	rec := httptest.NewRecorder()
	health.Routes(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec, resp
}

func TestServe_DatabaseConnected_NoCache(t *testing.T) {
	rec, resp := serve(t, health.NewHandler(dbPing{}, nil, zap.NewNop()))
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if resp.Status != "ok" || resp.Database != "connected" {
		t.Errorf("response = %+v", resp)
	}
	if resp.Cache != "" {
		t.Errorf("cache = %q, want omitted", resp.Cache)
	}
}

func TestServe_DatabaseDown(t *testing.T) {
	rec, resp := serve(t, health.NewHandler(dbPing{err: errors.New("no reachable servers")}, cachePing{}, zap.NewNop()))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if resp.Status != "error" || resp.Database != "disconnected" || resp.Message != "Database unavailable" {
		t.Errorf("response = %+v", resp)
	}
}

func TestServe_CacheStates(t *testing.T) {
	rec, resp := serve(t, health.NewHandler(dbPing{}, cachePing{}, zap.NewNop()))
	if rec.Code != http.StatusOK || resp.Cache != "connected" || resp.Status != "ok" {
		t.Errorf("healthy cache: code %d, response %+v", rec.Code, resp)
	}

	rec, resp = serve(t, health.NewHandler(dbPing{}, cachePing{err: errors.New("connection refused")}, zap.NewNop()))
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if resp.Status != "degraded" || resp.Cache != "disconnected" {
		t.Errorf("response = %+v", resp)
	}
}
