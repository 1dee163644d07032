package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse represents the standardized failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// RespondError writes a standardized error response to the HTTP response writer
func RespondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   status,
		Message: message,
	})
}

// RespondBadRequest writes a 400 envelope.
func RespondBadRequest(w http.ResponseWriter) {
	RespondError(w, http.StatusBadRequest, MsgBadRequest)
}

// RespondNotFound writes a 404 envelope.
func RespondNotFound(w http.ResponseWriter) {
	RespondError(w, http.StatusNotFound, MsgNotFound)
}

// RespondMethodNotAllowed writes a 405 envelope.
func RespondMethodNotAllowed(w http.ResponseWriter) {
	RespondError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}

// RespondUnprocessable writes a 422 envelope.
func RespondUnprocessable(w http.ResponseWriter) {
	RespondError(w, http.StatusUnprocessableEntity, MsgUnprocessable)
}

// RespondInternalError writes a 500 envelope.
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, MsgInternalError)
}
