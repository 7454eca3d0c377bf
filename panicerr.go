package coop

import "fmt"

// A PanicError carries the value and stack trace of a panic captured
// inside a [Task] function.
type PanicError struct {
	value any
	stack []byte
}

// Value returns the value the task panicked with.
func (e *PanicError) Value() any {
	return e.value
}

// Stack returns the stack trace recorded when the panic was captured.
func (e *PanicError) Stack() []byte {
	return e.stack
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v\n\n%s", e.value, e.stack)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
