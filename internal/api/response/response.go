package response

import (
	"encoding/json"
	"net/http"
)

// errorBody is the wire shape for every failure: a short machine-readable
// code plus an optional human-readable detail string.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// OK sends a 200 OK response with data
func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

// Error sends an error response with a code only
func Error(w http.ResponseWriter, status int, code string) {
	JSON(w, status, errorBody{Error: code})
}

// ErrorDetails sends an error response with a code and detail string
func ErrorDetails(w http.ResponseWriter, status int, code, details string) {
	JSON(w, status, errorBody{Error: code, Details: details})
}

// BadRequest sends a 400 Bad Request response
func BadRequest(w http.ResponseWriter, code string) {
	Error(w, http.StatusBadRequest, code)
}

// NotFound sends a 404 Not Found response
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "not_found")
}

// InternalError sends a 500 Internal Server Error response
func InternalError(w http.ResponseWriter, code, details string) {
	ErrorDetails(w, http.StatusInternalServerError, code, details)
}
