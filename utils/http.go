package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Response status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// timestampLayout renders UTC timestamps with millisecond precision,
// e.g. 2024-05-01T08:00:00.000Z
const timestampLayout = "2006-01-02T15:04:05.000Z"

// maxBodyBytes caps request bodies accepted by DecodeJSON
const maxBodyBytes = 1 << 20

// now is replaced in tests
var now = time.Now

// Envelope is the body of every API response
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Details    interface{} `json:"details,omitempty"`
	Timestamp  string      `json:"timestamp"`
}

// NewEnvelope builds a response envelope; status is derived from the code
func NewEnvelope(statusCode int, message string, data, details interface{}) Envelope {
	status := StatusSuccess
	if statusCode >= http.StatusBadRequest {
		status = StatusError
	}
	return Envelope{
		StatusCode: statusCode,
		Status:     status,
		Message:    message,
		Data:       data,
		Details:    details,
		Timestamp:  now().UTC().Format(timestampLayout),
	}
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteEnvelope writes an envelope with the given status code
func WriteEnvelope(w http.ResponseWriter, statusCode int, message string, data, details interface{}) error {
	return WriteJSON(w, statusCode, NewEnvelope(statusCode, message, data, details))
}

// WriteOK writes a 200 OK success envelope
func WriteOK(w http.ResponseWriter, message string, data interface{}) error {
	return WriteEnvelope(w, http.StatusOK, message, data, nil)
}

// WriteCreated writes a 201 Created success envelope
func WriteCreated(w http.ResponseWriter, message string, data interface{}) error {
	return WriteEnvelope(w, http.StatusCreated, message, data, nil)
}

// WriteError writes an error envelope. details may be nil.
func WriteError(w http.ResponseWriter, status int, message string, details interface{}) error {
	return WriteEnvelope(w, status, message, nil, details)
}

// WriteBadRequest writes a 400 Bad Request envelope
func WriteBadRequest(w http.ResponseWriter, message string, details interface{}) error {
	return WriteError(w, http.StatusBadRequest, message, details)
}

// WriteUnauthorized writes a 401 Unauthorized envelope
func WriteUnauthorized(w http.ResponseWriter, message string, details interface{}) error {
	if message == "" {
		message = "Authentication required"
	}
	return WriteError(w, http.StatusUnauthorized, message, details)
}

// WriteForbidden writes a 403 Forbidden envelope
func WriteForbidden(w http.ResponseWriter, message string, details interface{}) error {
	if message == "" {
		message = "Access denied"
	}
	return WriteError(w, http.StatusForbidden, message, details)
}

// WriteNotFound writes a 404 Not Found envelope
func WriteNotFound(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return WriteError(w, http.StatusNotFound, message, nil)
}

// WriteConflict writes a 409 Conflict envelope
func WriteConflict(w http.ResponseWriter, message string, details interface{}) error {
	return WriteError(w, http.StatusConflict, message, details)
}

// WriteTooManyRequests writes a 429 Too Many Requests envelope
func WriteTooManyRequests(w http.ResponseWriter, message string, details interface{}) error {
	if message == "" {
		message = "Too many requests"
	}
	return WriteError(w, http.StatusTooManyRequests, message, details)
}

// WriteInternalServerError writes a 500 Internal Server Error envelope
func WriteInternalServerError(w http.ResponseWriter, message string, details interface{}) error {
	if message == "" {
		message = "Internal server error"
	}
	return WriteError(w, http.StatusInternalServerError, message, details)
}

// DecodeJSON decodes a JSON request body into dst.
// Empty bodies, trailing data and oversized bodies are rejected.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes+1))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("malformed JSON: %w", err)
	}
	if dec.InputOffset() > maxBodyBytes {
		return errors.New("request body too large")
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
