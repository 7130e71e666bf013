// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package failure defines the errors raised while resolving a plot
// specification.
//
// Every error in this package describes a problem with the user's
// specification or data. Resolution code raises them eagerly at the
// point of detection and callers add context with errors.Wrapf from
// github.com/pkg/errors. Any error whose cause is not a *Error is
// treated as an internal bug by the plot package.
package failure

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a resolution failure.
type Kind int

const (
	// MissingOption means a required option is absent from both
	// the option node and its defaults.
	MissingOption Kind = 1 + iota

	// TypeMismatch means an option's value has the wrong shape
	// for the requested type.
	TypeMismatch

	// UnknownFeatureName means a named feature (coord, position,
	// sampling, ...) is not one of the accepted names.
	UnknownFeatureName

	// UndefinedVariable means a mapping refers to a column that
	// is not in the layer's data.
	UndefinedVariable

	// UnconvertibleConstant means a constant aesthetic value
	// could not be converted to the aesthetic's value type.
	UnconvertibleConstant

	// EmptyGeometryResult means geo extraction produced no
	// coordinates.
	EmptyGeometryResult

	// AlreadyDiscrete means a variable name was marked discrete
	// twice.
	AlreadyDiscrete

	// NotDiscrete means a variable name without the discrete
	// marker was unmarked.
	NotDiscrete

	// UnsupportedGeometryForTarget means a geom cannot consume
	// geographic data.
	UnsupportedGeometryForTarget

	// InvalidOption means an option is present and well-typed
	// but its value is not allowed.
	InvalidOption
)

var kindNames = map[Kind]string{
	MissingOption:                "missing option",
	TypeMismatch:                 "type mismatch",
	UnknownFeatureName:           "unknown feature name",
	UndefinedVariable:            "undefined variable",
	UnconvertibleConstant:        "unconvertible constant",
	EmptyGeometryResult:          "empty geometry result",
	AlreadyDiscrete:              "already discrete",
	NotDiscrete:                  "not discrete",
	UnsupportedGeometryForTarget: "unsupported geometry",
	InvalidOption:                "invalid option",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a user-facing resolution failure. Msg is quoted verbatim
// to the end user.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// New returns an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{kind, fmt.Sprintf(format, args...)}
}

// As returns the *Error at the root of err's cause chain, or nil if
// err was not caused by a resolution failure.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	if fe, ok := errors.Cause(err).(*Error); ok {
		return fe
	}
	return nil
}

// Is reports whether err was caused by a failure of the given kind.
func Is(err error, kind Kind) bool {
	fe := As(err)
	return fe != nil && fe.Kind == kind
}
