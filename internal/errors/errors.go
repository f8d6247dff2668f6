package errors

import "errors"

// Sentinel errors shared by the service layer. Services wrap them with %w and the
// API layer maps them to HTTP status codes with errors.Is, so business code never
// has to know about transport details.

var (
	// ErrNotFound signifies that a requested article or user does not exist.
	// Mapped to 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that client input broke a business rule, such as an
	// unknown provider name or an empty model identifier.
	// Mapped to 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that a write clashes with existing state, such as a
	// slug taken between the uniqueness check and the insert.
	// Mapped to 409 Conflict.
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthenticated signifies that no known user is attached to the request.
	// Mapped to 401 Unauthorized.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrPermission signifies that the current user may not touch the resource,
	// e.g. a regular user opening someone else's article.
	// Mapped to 403 Forbidden.
	ErrPermission = errors.New("permission denied")
)
