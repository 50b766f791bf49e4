package typedevent

import (
	"errors"
	"fmt"
)

// Sentinel errors for manifest construction and kind lookup.
var (
	// ErrUnknownEventKind indicates an operation named a kind absent from the manifest.
	ErrUnknownEventKind = errors.New("unknown event kind")

	// ErrPayloadTypeMismatch indicates the kind is declared with a different payload type.
	ErrPayloadTypeMismatch = errors.New("payload type does not match declared kind")

	// ErrDuplicateKind indicates a manifest declares the same kind name twice.
	ErrDuplicateKind = errors.New("duplicate event kind")

	// ErrInvalidKind indicates a nil declaration or an empty kind name.
	ErrInvalidKind = errors.New("invalid event kind")

	// ErrManifestMismatch indicates the declared kinds differ from the configured ones.
	ErrManifestMismatch = errors.New("manifest does not match settings")

	// ErrNilListener indicates a nil *Listener was passed to a registration call.
	ErrNilListener = errors.New("nil listener")
)

// KindError wraps a failure tied to one event kind.
type KindError struct {
	Op   string // Operation that failed: on, once, off, emit, event, clear, count, declare
	Kind string // Kind name as given by the caller
	Err  error  // One of the sentinel errors above
}

// Error implements error interface.
func (e *KindError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *KindError) Unwrap() error {
	return e.Err
}
