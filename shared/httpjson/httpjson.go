package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"
)

// maxBodyBytes caps request bodies to keep malformed clients from buffering
// unbounded payloads.
const maxBodyBytes = 1 << 20

// Respond writes v as a JSON response with the given status code.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes a generic JSON error body with the given status code.
func Error(w http.ResponseWriter, status int, message string) {
	Respond(w, status, map[string]string{"error": message})
}

// ErrorCode writes a JSON error body carrying a machine-readable code.
func ErrorCode(w http.ResponseWriter, status int, message, code string) {
	Respond(w, status, map[string]string{"error": message, "code": code})
}

// FieldErrors writes a 400 response with per-field validation messages.
func FieldErrors(w http.ResponseWriter, fields map[string]string) {
	Respond(w, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": fields,
	})
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	return json.NewDecoder(r.Body).Decode(v)
}
