package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/rentora/rentora-backend/pkg/errors"
)

// JSON sends a JSON response with the given payload as-is.
// The verification API's response bodies are fixed shapes consumed by the
// mobile client, so there is no success envelope.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// ErrorBody is the wire shape for all error responses.
type ErrorBody struct {
	Error string `json:"error"`
}

// Error sends an error response. AppErrors carry their own status code;
// anything else becomes a 500 with a generic message.
func Error(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		JSON(w, appErr.StatusCode, ErrorBody{Error: appErr.Message})
		return
	}

	JSON(w, http.StatusInternalServerError, ErrorBody{Error: "an unexpected error occurred"})
}

// BadRequest sends a 400 response with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, ErrorBody{Error: message})
}
