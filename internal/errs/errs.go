// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package errs defines the error taxonomy shared by the collapsers,
// the differential merger, and the flame-graph renderer.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure so callers (and the CLI's exit-code logic)
// can distinguish expected, user-facing failures from bugs.
type Kind int

const (
	// IoError means a reader or writer failed.
	IoError Kind = iota
	// MalformedInput means a parser detected a structural violation
	// it could not recover from locally.
	MalformedInput
	// UnknownFormat means the guess collapser found no applicable format.
	UnknownFormat
	// EmptyProfile means a render input had zero total sample weight.
	EmptyProfile
	// OverflowError means count*factor exceeded the 64-bit accumulator.
	OverflowError
	// ConfigurationError means an option combination is invalid.
	ConfigurationError
)

func (k Kind) String() string {
	switch k {
	case IoError:
		return "IoError"
	case MalformedInput:
		return "MalformedInput"
	case UnknownFormat:
		return "UnknownFormat"
	case EmptyProfile:
		return "EmptyProfile"
	case OverflowError:
		return "OverflowError"
	case ConfigurationError:
		return "ConfigurationError"
	default:
		return "UnknownError"
	}
}

// Error is a Kind-tagged error, optionally carrying a byte-offset or
// line-number hint and a wrapped cause.
type Error struct {
	Kind  Kind
	Msg   string
	Line  int // 0 means "no line hint available"
	cause error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s (line %d)", e.Kind, e.Msg, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// New builds a Kind-tagged error with no line hint and no cause.
func New(kind Kind, msg string) error {
	return errors.WithStack(&Error{Kind: kind, Msg: msg})
}

// Newf builds a Kind-tagged error from a format string.
func Newf(kind Kind, format string, args ...any) error {
	return errors.WithStack(&Error{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

// AtLine builds a Kind-tagged error carrying a 1-based line number hint.
func AtLine(kind Kind, line int, msg string) error {
	return errors.WithStack(&Error{Kind: kind, Msg: msg, Line: line})
}

// Wrap attaches a Kind and message to an underlying cause, preserving
// it for errors.Is/As/Unwrap the way pkg/errors.Wrap preserves a stack.
func Wrap(cause error, kind Kind, msg string) error {
	if cause == nil {
		return nil
	}
	return errors.WithStack(&Error{Kind: kind, Msg: msg, cause: cause})
}

// WrapAtLine is Wrap plus a 1-based line-number hint, for parsers that
// can cheaply attribute a failure to a source line (spec.md §7,
// "source-location hint when cheaply available").
func WrapAtLine(cause error, kind Kind, line int, msg string) error {
	if cause == nil {
		return nil
	}
	return errors.WithStack(&Error{Kind: kind, Msg: msg, Line: line, cause: cause})
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
