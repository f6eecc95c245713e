// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// jsonError represents a JSON error payload.
type jsonError struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, jsonError{Error: message, Details: details})
}

// writeFieldErrors reports per-field validation failures.
func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, jsonError{Error: "validation_error", Fields: fields})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var errUnsupportedMedia = errors.New("expected application/json")

// decodeJSON reads a JSON body into v, rejecting unknown fields. An empty
// body leaves v untouched when allowEmpty is set.
func decodeJSON(r *http.Request, v any, allowEmpty bool) error {
	ct := r.Header.Get("Content-Type")
	if r.ContentLength != 0 && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		return errUnsupportedMedia
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// writeDecodeError maps a decodeJSON failure to a response.
func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errUnsupportedMedia) {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", err.Error())
		return
	}
	WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
}
