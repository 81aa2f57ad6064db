package respond_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/rentalhub/internal/app/system/respond"
)

func TestError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Error(rec, http.StatusNotFound, "Property not found")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if body["error"] != "Property not found" {
		t.Errorf("error: got %v", body["error"])
	}
	if _, ok := body["details"]; ok {
		t.Error("details should be omitted")
	}
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"a","extra":1}`))
	rec := httptest.NewRecorder()
	var dst struct {
		Name string `json:"name"`
	}
	if err := respond.Decode(rec, req, &dst, 1024); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestDecode_RejectsLargeBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 100)+`"}`))
	rec := httptest.NewRecorder()
	var dst struct {
		Name string `json:"name"`
	}
	if err := respond.Decode(rec, req, &dst, 16); err == nil {
		t.Fatal("expected error for oversized body")
	}
}
