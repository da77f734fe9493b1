package instrument

import "errors"

var (
	// ErrNilFunc indicates a nil function was wrapped.
	ErrNilFunc = errors.New("instrument: nil function")
)
