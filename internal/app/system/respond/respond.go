// Package respond writes the JSON envelopes used by every /api route.
//
// Success bodies are the resource itself (or a small wrapper object).
// Failures are always {"error": "..."} with an optional "details" member.
package respond

import (
	"encoding/json"
	"net/http"
)

// errorBody is the envelope for every non-2xx API response.
type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}

// ErrorDetails writes {"error": msg, "details": details}.
func ErrorDetails(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, errorBody{Error: msg, Details: details})
}

// Decode reads a JSON body into dst, rejecting unknown fields and bodies
// larger than maxBytes.
func Decode(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
