package metadata

import "github.com/codetrack/codetrack/pkg/errors"

var (
	// ErrNotFound is returned when the service has no record of the repository
	ErrNotFound = errors.New("repository not found by metadata service")

	// ErrUnavailable is returned when the service cannot be reached
	ErrUnavailable = errors.New("metadata service unavailable")

	// ErrAPI is returned when the service answers with an error status
	ErrAPI = errors.New("metadata service error")

	// ErrInvalidResponse is returned when the service answers with an unexpected payload
	ErrInvalidResponse = errors.New("invalid response from metadata service")
)
