package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// ErrorResponse is the body of every non-2xx API response. Error is an
// UpperCamelCase code clients can switch on; Message is for humans.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes an ErrorResponse with statusCode
func WriteError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: errorType, Message: message}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// WriteInternalError logs err under scope and answers 500 without leaking it.
func WriteInternalError(w http.ResponseWriter, scope string, err error) {
	log.Printf("%s error: %v", scope, err)
	WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
}

// WriteBodyError answers a request whose JSON body could not be decoded.
func WriteBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteError(w, http.StatusRequestEntityTooLarge, "PayloadTooLarge", "Request body too large")
		return
	}
	WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
}
