// Package httpx holds small helpers shared by all HTTP handlers: JSON
// response writing and the mapping from internal errors to status codes.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint returns. Extra payload fields
// are added by embedding it in handler-local structs.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// OK writes a {success:true} envelope with the given message.
func OK(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Response{Success: true, Message: message})
}

// Fail writes a {success:false} envelope with the given message. The
// message must never carry store internals; callers log the real error.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Response{Success: false, Message: message})
}
