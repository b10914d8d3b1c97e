package handler

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Messages returned verbatim in error bodies.
const (
	msgFeatureNotFound    = "Feature not found"
	msgCollectionNotFound = "Collection not found"
	msgProcessNotFound    = "Process not found"
	msgInvalidInput       = `Invalid input. Must contain "features" and "buffer_distance".`
	msgNotCollection      = "Input must be a FeatureCollection"
	msgFeaturesNotArray   = `FeatureCollection must contain a "features" array`
	msgDistanceNotNumber  = "buffer_distance must be a number"
	msgInvalidJSON        = "Invalid JSON body"
	msgBodyTooLarge       = "Request body too large"
	msgInternal           = "internal server error"
)

// ErrorResponse is the structured body of every 4xx/5xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body with the given status.
// Encoding errors are ignored: the status line is already on the wire.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// writeError writes an ErrorResponse with the given status and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "validation error: Input must be a FeatureCollection" → "Input must be a FeatureCollection"
// and "service.BufferService.Buffer: feature 2: geometry error: ..." → "feature 2: geometry error: ..."
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, prefix := range []string{
		"service.BufferService.Buffer: ",
		"service.FeatureService.GetByID: ",
		"service.FeatureService.List: ",
		"validation error: ",
	} {
		if rest, ok := strings.CutPrefix(msg, prefix); ok && rest != "" {
			return rest
		}
	}
	return msg
}
