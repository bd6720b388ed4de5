package httpapi

import (
	"errors"
	"net/http"

	"pulsewatch/internal/domain"
)

// Result is the uniform response envelope.
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Ok wraps a successful payload.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// OkMessage wraps a successful payload with a human-readable message.
func OkMessage[T any](message string, data T) Result[T] {
	return Result[T]{Success: true, Message: message, Data: data}
}

// Fail wraps an error message.
func Fail(message string) Result[any] {
	return Result[any]{Success: false, Error: message}
}

// writeError maps domain errors onto HTTP status codes and writes the
// failure envelope: validation 400, unknown reference 404, deadline 504,
// everything else 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case domain.IsNotFound(err), errors.Is(err, domain.ErrAlertNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSyncTimeout):
		status = http.StatusGatewayTimeout
	}
	writeJSON(w, status, Fail(err.Error()))
}
