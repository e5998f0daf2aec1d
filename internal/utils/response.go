package utils

import (
	"encoding/json"
	"net/http"
)

type Payload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"` // machine-readable failure code, e.g. TARGET_KEY_NOT_FOUND
	Data    any    `json:"data,omitempty"`
}

// JSONResponse sends a JSON response with given status, success flag, and payload
func JSONResponse(w http.ResponseWriter, status int, payload Payload) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// JSONError is the loud-fail shorthand: the message carries the
// human-readable reason, the code the typed failure.
func JSONError(w http.ResponseWriter, status int, code, message string) {
	JSONResponse(w, status, Payload{
		Success: false,
		Message: message,
		Code:    code,
	})
}
