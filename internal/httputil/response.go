package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// APIError is the error object nested inside failed response envelopes.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the standardized response body used by every endpoint:
// success -> {success:true, data, message?}
// error   -> {success:false, error:{code, message}}
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Message string    `json:"message,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// RespondData sends a success envelope with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondData(w http.ResponseWriter, data any, message string, statusCode int) {
	writeJSON(w, Envelope{Success: true, Data: data, Message: message}, statusCode)
}

// RespondError sends an error envelope with a machine-readable code.
func RespondError(w http.ResponseWriter, code, message string, statusCode int) {
	writeJSON(w, Envelope{Success: false, Error: &APIError{Code: code, Message: message}}, statusCode)
}

func writeJSON(w http.ResponseWriter, body Envelope, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}
