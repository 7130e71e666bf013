// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package failure

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	err := New(UndefinedVariable, "Variable not found: '%s'", "x")
	wrapped := errors.Wrapf(err, "layer %d", 1)

	if got, want := wrapped.Error(), "layer 1: Variable not found: 'x'"; got != want {
		t.Fatalf("want %q; got %q", want, got)
	}
	if !Is(wrapped, UndefinedVariable) {
		t.Fatalf("Is(wrapped, UndefinedVariable) = false")
	}
	if Is(wrapped, MissingOption) {
		t.Fatalf("Is(wrapped, MissingOption) = true")
	}
	if fe := As(wrapped); fe == nil || fe.Msg != "Variable not found: 'x'" {
		t.Fatalf("As(wrapped) = %v", fe)
	}
	if fe := As(fmt.Errorf("plain")); fe != nil {
		t.Fatalf("As(plain) should be nil; got %v", fe)
	}
	if fe := As(nil); fe != nil {
		t.Fatalf("As(nil) should be nil; got %v", fe)
	}
}

func TestKindString(t *testing.T) {
	if got := EmptyGeometryResult.String(); got != "empty geometry result" {
		t.Fatalf("want %q; got %q", "empty geometry result", got)
	}
	if got := Kind(99).String(); got != "Kind(99)" {
		t.Fatalf("want %q; got %q", "Kind(99)", got)
	}
}
