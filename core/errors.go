package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every recoverable failure the engine reports. All of
// these are surfaced to the caller as structured results; none should abort
// the host application.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrSyntax
	ErrUnknownIdentifier
	ErrUnknownProperty
	ErrArityMismatch
	ErrDivisionByZero
	ErrCircularFunction
	ErrExpansionDepth
	ErrForwardOutputRef
	ErrTypeMismatch
	ErrCircularLink
	ErrBrokenLink
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "None"
	case ErrSyntax:
		return "SyntaxError"
	case ErrUnknownIdentifier:
		return "UnknownIdentifier"
	case ErrUnknownProperty:
		return "UnknownProperty"
	case ErrArityMismatch:
		return "ArityMismatch"
	case ErrDivisionByZero:
		return "DivisionByZero"
	case ErrCircularFunction:
		return "CircularFunctionReference"
	case ErrExpansionDepth:
		return "ExcessiveExpansionDepth"
	case ErrForwardOutputRef:
		return "ForwardOutputReference"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrCircularLink:
		return "CircularLink"
	case ErrBrokenLink:
		return "BrokenLink"
	default:
		return "Unknown"
	}
}

// Error carries an ErrorKind alongside a human-readable message.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Errorf builds a kinded error.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ErrorKind from an error chain. Errors that carry no
// kind report ErrNone.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrNone
}
