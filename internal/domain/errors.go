package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist — or exists but belongs to another owner. The two
// cases are deliberately indistinguishable so a caller can never confirm the
// existence of someone else's event. Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (missing required field, empty step list).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrUnauthenticated is returned when an operation requires a resolved
// caller identity and none is present. Handlers map this to HTTP 401.
var ErrUnauthenticated = errors.New("authentication required")
