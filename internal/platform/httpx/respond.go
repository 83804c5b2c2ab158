// Package httpx provides JSON request/response utilities.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Message is the error body shape used across the API.
type Message struct {
	Msg string `json:"msg"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends a {msg} error body with the given status code.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Message{Msg: msg})
}

// DecodeJSON decodes the JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
