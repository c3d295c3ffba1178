package apierr

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Error body `json:"error"`
}

type body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Write renders err as the JSON error envelope {"error":{code,message}}.
// Anything that is not a structured *Error becomes a 500 http_error; domain
// details never leak for unanticipated failures.
func Write(w http.ResponseWriter, err error) {
	apiErr := From(err)
	if apiErr == nil {
		apiErr = New("http_error", "Internal server error", http.StatusInternalServerError)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(envelope{Error: body{Code: apiErr.Code, Message: apiErr.Message}})
}

// WriteHTTP renders a transport-level failure with the generic http_error
// code, mirroring errors raised outside the domain core.
func WriteHTTP(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Error: body{Code: "http_error", Message: message}})
}
