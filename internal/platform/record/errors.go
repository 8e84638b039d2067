package record

import "errors"

var (
	ErrRecordNotFound = errors.New("transaction not found")
	ErrInvalidID      = errors.New("invalid transaction id")
)
