package transactions

import "errors"

var (
	// ErrUnexpectedShape is returned when the list endpoint does not return a JSON array
	ErrUnexpectedShape = errors.New("unexpected response shape: expected a JSON array")
	// ErrMalformedRecord is returned when a record lacks an id or amount
	ErrMalformedRecord = errors.New("malformed transaction record")
	// ErrDeleteNotConfirmed is returned when a delete gets a 2xx other than 200/204
	ErrDeleteNotConfirmed = errors.New("delete not confirmed by backend")
	// ErrInvalidID is returned for non-positive transaction ids
	ErrInvalidID = errors.New("invalid transaction id")
)
