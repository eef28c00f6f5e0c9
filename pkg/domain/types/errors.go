package types

import "errors"

var (
	// ErrInvalidConfig indicates missing or invalid run settings. Raised before any processing.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrPermissionDenied indicates the token is not allowed to mutate labels (HTTP 403)
	ErrPermissionDenied = errors.New("permission denied")

	// ErrLabelUndefined indicates a label is not defined in the repository (HTTP 422 after re-read)
	ErrLabelUndefined = errors.New("label is not defined in repository")

	// ErrUnsupportedEvent indicates an event that the automation does not handle
	ErrUnsupportedEvent = errors.New("unsupported event")

	// ErrInvalidPayload indicates a webhook or workflow payload that cannot be converted to an event
	ErrInvalidPayload = errors.New("invalid event payload")
)
