package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist, or exists but belongs to another owner.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing trip name).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrDuplicate is returned when a trip with the same name already exists
// for the same owner. Repos produce it from the storage layer's unique
// constraint on (owner, name).
// Handlers should map this to HTTP 409 Conflict.
var ErrDuplicate = errors.New("duplicate")

// ErrUnauthorized is returned by service functions called without a
// resolved caller identity. No storage access happens in that case.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUpstream is returned when a third-party data feed (e.g. the country
// feed) fails or returns an unusable response.
// Handlers should map this to HTTP 502 Bad Gateway.
var ErrUpstream = errors.New("upstream error")
