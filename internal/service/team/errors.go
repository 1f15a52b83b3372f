package teamService

import "net/http"

// apiError is a terminal, non-retryable operation failure carrying the HTTP
// status class it surfaces as. Every failed operation leaves the store
// untouched: checks always precede writes.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return e.message
}

func notFound(message string) *apiError {
	return &apiError{status: http.StatusNotFound, message: message}
}

func forbidden(message string) *apiError {
	return &apiError{status: http.StatusForbidden, message: message}
}

func badRequest(message string) *apiError {
	return &apiError{status: http.StatusBadRequest, message: message}
}
