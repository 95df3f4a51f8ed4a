// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package proxy

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const headerAllowOrigin = "Access-Control-Allow-Origin"

// httpError pairs a status code with the error whose message becomes the
// response body.
type httpError struct {
	Status int   // Status preserves the HTTP status to emit downstream.
	Err    error // Err is surfaced to the caller as the error message.
}

// Error implements the error interface for httpError.
func (e *httpError) Error() string {
	return fmt.Sprintf("status %d: %v", e.Status, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As checks.
func (e *httpError) Unwrap() error {
	return e.Err
}

type errorBody struct {
	Error string `json:"error"`
}

// writeJSONError writes {"error": message} with permissive CORS.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		payload = []byte(`{"error":"failed to encode response"}`)
	}

	h := w.Header()
	h.Set(headerAllowOrigin, "*")
	h.Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func writeText(w http.ResponseWriter, status int, message string) {
	h := w.Header()
	h.Set(headerAllowOrigin, "*")
	h.Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, message)
}
