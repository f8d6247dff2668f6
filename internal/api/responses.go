package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	app_errors "article-agent/backend/internal/errors"
	"article-agent/backend/internal/model"
)

// This file contains shared DTOs (Data Transfer Objects) for API responses
// and helper functions for sending consistent HTTP responses.

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse defines a generic success response, typically for operations
// like POST and DELETE that don't need to return a full resource.
type StatusResponse struct {
	Status string `json:"status"`
}

// respondWithError is the centralized error handling function for the API layer.
// It maps business-layer errors to HTTP status codes and writes a standard
// JSON error body.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		// Validation messages are written for end users already.
		message = err.Error()
	case errors.Is(err, app_errors.ErrConflict):
		statusCode = http.StatusConflict
		message = "A conflict occurred with the current state of the resource."
	case errors.Is(err, app_errors.ErrUnauthenticated):
		statusCode = http.StatusUnauthorized
		message = "Authentication is required."
	case errors.Is(err, app_errors.ErrPermission):
		statusCode = http.StatusForbidden
		message = "You do not have permission to perform this action."
	default:
		// Anything unmapped is an internal error; details stay in the log.
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondWithJSON marshals payload and writes it with the given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// setStreamHeaders prepares w for a server-sent events response. Proxies such
// as nginx buffer responses unless told otherwise.
func setStreamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// writeFrame writes one frame as a `data:` line followed by a blank line and
// flushes it. A write error means the client has gone.
func writeFrame(w http.ResponseWriter, frame model.Frame) error {
	jsonData, err := json.Marshal(frame)
	if err != nil {
		slog.Error("Failed to marshal stream frame, sending arguments as a string", "type", frame.Type, "error", err)
		jsonData, err = json.Marshal(withQuotedArguments(frame))
		if err != nil {
			return fmt.Errorf("failed to encode stream frame: %w", err)
		}
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", jsonData); err != nil {
		return fmt.Errorf("failed to write data to stream: %w", err)
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// withQuotedArguments turns invalid tool arguments into a JSON string. The
// arguments are the only field of a frame that can fail to encode.
func withQuotedArguments(frame model.Frame) model.Frame {
	if len(frame.Arguments) > 0 && !json.Valid(frame.Arguments) {
		quoted, _ := json.Marshal(string(frame.Arguments))
		frame.Arguments = quoted
	}
	return frame
}

// streamFrames starts produce in its own goroutine and writes every frame it
// sends, in order, until the channel is closed. produce must close the channel
// and must stop sending once the request context is done.
func streamFrames(w http.ResponseWriter, r *http.Request, produce func(chan<- model.Frame)) {
	setStreamHeaders(w)
	w.WriteHeader(http.StatusOK)

	frames := make(chan model.Frame)
	go produce(frames)

	for frame := range frames {
		if err := writeFrame(w, frame); err != nil {
			slog.Info("Client disconnected during stream.", "error", err)
			// Keep draining so the producer can finish; it stops on its own
			// once the request context is canceled.
			for range frames {
			}
			return
		}
	}
}
