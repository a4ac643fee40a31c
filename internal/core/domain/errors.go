package domain

import "errors"

var (
	// ErrMalformedRecord signals a source record missing a
	// structurally required field, e.g. the product id.
	ErrMalformedRecord = errors.New("malformed source record")

	// ErrSourceUnavailable signals a failed fetch from the active
	// data source after the fallback policy has been exhausted.
	ErrSourceUnavailable = errors.New("data source unavailable")

	// ErrUnknownSource signals a source value outside local|sanity|backend.
	ErrUnknownSource = errors.New("unknown data source")

	// ErrInvalidQuery signals malformed facade arguments, a programmer
	// error that fails fast.
	ErrInvalidQuery = errors.New("invalid query")
)
