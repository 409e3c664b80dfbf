package errors

import "fmt"

// Error annotates a failure with the operation that produced it and,
// when known, the exit code of the underlying system tool. The code is
// consulted at the top level to select the process exit status.
type Error struct {
	Op   string
	Code int
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("operation %q failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func E(op string, err error) error {
	return &Error{Op: op, Err: err}
}

// WithCode is E with an explicit exit code carried over from a failed
// external tool.
func WithCode(op string, code int, err error) error {
	return &Error{Op: op, Code: code, Err: err}
}
