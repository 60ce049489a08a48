package domain

import "errors"

// Sentinel errors forming the service-wide failure taxonomy. Usecases wrap
// them with fmt.Errorf("%w: ...") and the transport layer maps errors.Is
// results to HTTP status codes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")

	// ErrInternalInconsistency marks stored state that should never be
	// unreadable (e.g. a corrupt credential payload). Loggable, not a
	// client error.
	ErrInternalInconsistency = errors.New("internal inconsistency")
)
