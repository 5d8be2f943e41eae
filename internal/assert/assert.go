// Package assert provides guard helpers that turn a failed condition into a
// typed error. Without an explicit failure the error is ErrBadRequest.
package assert

import "errors"

var ErrBadRequest = errors.New("bad request")

// Failure produces the error returned by a failed assertion.
type Failure func() error

// Message fails with a bad request carrying msg.
func Message(msg string) Failure {
	return func() error { return &badRequestError{msg: msg} }
}

// Err fails with err unchanged.
func Err(err error) Failure {
	return func() error { return err }
}

// Lazy defers building the error until the assertion actually fails.
func Lazy(factory func() error) Failure {
	return Failure(factory)
}

// True returns nil when cond holds.
func True(cond bool, failure ...Failure) error {
	if cond {
		return nil
	}
	return fail(failure)
}

// False returns nil when cond does not hold.
func False(cond bool, failure ...Failure) error {
	return True(!cond, failure...)
}

// Empty returns nil when items has no elements.
func Empty[T any](items []T, failure ...Failure) error {
	return True(len(items) == 0, failure...)
}

func fail(failure []Failure) error {
	for _, f := range failure {
		if f == nil {
			continue
		}
		if err := f(); err != nil {
			return err
		}
	}
	return ErrBadRequest
}

type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func (e *badRequestError) Unwrap() error { return ErrBadRequest }
