// Package apperr defines the error kinds shared by repositories, services
// and handlers. Callers classify failures with errors.Is and map them to
// transport status codes at the edge.
package apperr

import "errors"

var (
	// ErrNotFound indicates a referenced user, photo or message does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness or state conflict: a duplicate like
	// edge, deleting a main photo, or re-promoting an already-main photo.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized indicates the acting user is not the owning party for
	// the operation.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates malformed input, such as a gender outside the
	// known set or an inverted age range.
	ErrValidation = errors.New("validation failed")

	// ErrStorage indicates a blob store failure. The cause is carried in the
	// wrapped message but is otherwise opaque to callers.
	ErrStorage = errors.New("storage failure")
)
