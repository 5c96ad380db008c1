// Package handler implements the HTTP endpoints of the API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/readstash/readstash/internal/handler/dto"
)

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the {success:false, error} envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.Response{Success: false, Error: message})
}

// decodeJSON parses the request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// Root answers the bare path with a service banner.
func Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dto.Response{Success: true, Message: "readstash api"})
}

// NotFound keeps unknown routes on the JSON envelope.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

// MethodNotAllowed keeps bad methods on the JSON envelope.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
