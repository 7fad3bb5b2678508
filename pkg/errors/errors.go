// Package errors augments the standard errors
// with sentinel values that can be wrapped around a cause
// without losing their identity.
//
// A sentinel is declared once with New:
//
//	var ErrNotFound = errors.New("not found")
//
// and returned with some context:
//
//	return ErrNotFound.Wrap(err)
//
// The wrapped error matches the sentinel with Is, and unwraps to its cause.
package errors

import (
	stderr "errors"
)

var _ error = New("")

// New declares a sentinel error
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error augments the standard error interface with a Wrap method.
//
// The main difference with github.com/pkg/errors is that we are wrapping
// errors from errors, not from text.
type Error struct {
	msg    string
	err    error
	origin *Error
}

// Error message, followed by the message of the wrapped cause if any
func (e *Error) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

// Unwrap nested error
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap a nested error.
//
// The receiver is left untouched: a new error is returned, which still matches the receiver.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:    e.msg,
		err:    err,
		origin: e.sentinel(),
	}
}

// Wrapf wraps an error built from the message
func (e *Error) Wrapf(msg string) *Error {
	return e.Wrap(stderr.New(msg))
}

func (e *Error) sentinel() *Error {
	if e.origin != nil {
		return e.origin
	}
	return e
}

// Is of some error type?
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t == e || t == e.origin
}

// As finds the first error in err's chain that matches target, and if so, sets target to that error value and returns true.
// (a shortcut to standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
