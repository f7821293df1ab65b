// Package errors provides constant errors and cause wrapping for the header
// transformation packages. It shadows the standard library package so callers
// only need a single import.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Separator splits an error message from the message of its cause.
const Separator = " -- "

// Error is a string based error so packages can declare const sentinels.
type Error string

func (s Error) Error() string {
	return string(s)
}

// Is reports whether target carries the same message, either directly or as the
// leading message of a wrapped error.
func (s Error) Is(target error) bool {
	if target == nil {
		return false
	}
	msg := target.Error()
	return msg == string(s) || strings.HasPrefix(msg, string(s)+Separator)
}

// Wrap attaches cause to this Error.
func (s Error) Wrap(cause error) error {
	return wrappedError{msg: string(s), cause: cause}
}

// Wrapf attaches a cause built from format and args.
func (s Error) Wrapf(format string, args ...any) error {
	return wrappedError{msg: string(s), cause: fmt.Errorf(format, args...)}
}

type wrappedError struct {
	msg   string
	cause error
}

func (w wrappedError) Error() string {
	if w.cause == nil {
		return w.msg
	}
	return w.msg + Separator + w.cause.Error()
}

func (w wrappedError) Is(target error) bool {
	return Error(w.msg).Is(target)
}

func (w wrappedError) As(target any) bool {
	if e, ok := target.(*Error); ok {
		*e = Error(w.msg)
		return true
	}
	return false
}

func (w wrappedError) Unwrap() error {
	return w.cause
}

// Is, As, Unwrap, New and Join forward to the standard library.

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func New(message string) error {
	return errors.New(message)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}

// UnwrapErrors flattens an error produced by Join into its parts.
func UnwrapErrors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
