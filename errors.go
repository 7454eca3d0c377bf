package coop

import "errors"

var (
	// ErrCanceled is the rejection error of a [Promise] that was canceled
	// before its host callback fired.
	ErrCanceled = errors.New("coop: promise canceled")

	// ErrClosed is returned when receiving from a closed [Listener].
	ErrClosed = errors.New("coop: listener closed")

	// ErrNoEvent is returned by [Listener.Recv] when no event is buffered.
	ErrNoEvent = errors.New("coop: no event buffered")

	// ErrPending is returned when reading a result that has not settled yet.
	ErrPending = errors.New("coop: not settled")
)
