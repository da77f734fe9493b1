package sink

import "errors"

var (
	// ErrNoTargets indicates Append was called with an empty target list.
	ErrNoTargets = errors.New("sink: no targets")

	// ErrAllTargetsFailed indicates no target accepted the batch.
	ErrAllTargetsFailed = errors.New("sink: all targets failed")
)
