// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to operate on a resource owned by someone else, while
// ErrDatesUnavailable signals that a requested stay collides with an
// existing booking on the same property.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrDatesUnavailable is returned by the booking admission path when the
// requested [check-in, check-out) range overlaps an existing booking for
// the same property. Handlers should translate this into an HTTP 409
// response; the client must resubmit with different dates.
var ErrDatesUnavailable = errors.New("dates unavailable")
