package ctlog

import "errors"

var (
	// ErrUnexpectedStatus is returned when the search service answers
	// with a status other than 200.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrMalformedResponse is returned when the body is not a JSON array
	// of objects.
	ErrMalformedResponse = errors.New("malformed response")
)
