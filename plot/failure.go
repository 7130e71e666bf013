// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/spec"
)

// Warning is the logger for non-fatal advisories, such as
// computation messages and internal errors caught by Process.
var Warning = log.New(os.Stderr, "[plotspec] ", log.Lshortfile)

// Quiet silences Warning.
func Quiet() {
	Warning.SetOutput(io.Discard)
}

// ErrorMessageKey is the key of the message in a failure
// specification.
const ErrorMessageKey = "__error_message"

// FailureInfo is the classification of a resolution error.
type FailureInfo struct {
	// Message is the message to show the end user.
	Message string

	// Internal is set if the error is a bug rather than a problem
	// with the specification.
	Internal bool
}

// Classify classifies err. Errors caused by a *failure.Error are
// user errors and keep their message verbatim. Anything else is
// internal and its message names the cause's type.
func Classify(err error) FailureInfo {
	if fe := failure.As(err); fe != nil {
		return FailureInfo{Message: fe.Msg}
	}
	cause := errors.Cause(err)
	if p, ok := cause.(*panicError); ok {
		return FailureInfo{Message: fmt.Sprintf("Internal error: %T: %v", p.val, p.val), Internal: true}
	}
	return FailureInfo{Message: fmt.Sprintf("Internal error: %T: %v", cause, cause), Internal: true}
}

// FailureSpec returns the specification that replaces a plot that
// failed to resolve.
func FailureSpec(err error) spec.Node {
	return spec.Map(ErrorMessageKey, Classify(err).Message)
}

// IsFailure reports whether n is a failure specification.
func IsFailure(n spec.Node) bool {
	_, ok := n.Get(ErrorMessageKey)
	return ok && n.Kind() == spec.KindMap
}

// panicError is a panic recovered during resolution.
type panicError struct {
	val interface{}
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.val)
}

// catch runs f, turning a panic into an error.
func catch(f func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			if e, ok := v.(error); ok {
				// Keep failure errors panicked from deep in
				// a resolver user-facing.
				if failure.As(e) != nil {
					err = e
					return
				}
			}
			err = &panicError{v}
		}
	}()
	return f()
}
