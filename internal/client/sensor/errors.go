package sensor

import "errors"

var (
	// ErrNilLogger is returned when the logger is nil during client construction.
	ErrNilLogger = errors.New("logger cannot be nil")

	// ErrInvalidTimeout is returned when the timeout is negative during client construction.
	ErrInvalidTimeout = errors.New("timeout must not be negative")

	// ErrFetchNetwork is returned when the reading endpoint cannot be reached.
	ErrFetchNetwork = errors.New("network error: failed to reach sensor API")

	// ErrFetchStatus is returned when the reading endpoint answers with a non-2xx status.
	ErrFetchStatus = errors.New("sensor API returned an error status")

	// ErrFetchBody is returned when the response body cannot be read.
	ErrFetchBody = errors.New("failed to read sensor API response body")
)
