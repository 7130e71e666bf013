// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"strings"

	"github.com/aclements/go-plotspec/failure"
)

// A Variable names a column of a Frame.
//
// Two variables are the same variable if they have the same Name.
// Stat variables are produced by a statistic rather than read from
// the input data, and their names are bracketed by "..".
type Variable struct {
	Name  string
	Label string
	Stat  bool
}

// Var returns the raw variable with the given name.
func Var(name string) Variable {
	return Variable{Name: name, Label: name}
}

// StatVar returns a stat variable for the computed quantity q. Its
// name is "..q..".
func StatVar(q, label string) Variable {
	return Variable{Name: ".." + q + "..", Label: label, Stat: true}
}

// IsStatName reports whether name is a stat variable name.
func IsStatName(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "..") && strings.HasSuffix(name, "..")
}

func (v Variable) String() string {
	return v.Name
}

// discretePrefix marks a variable whose values must be treated as
// categories even if they are numbers.
const discretePrefix = "@as_discrete@"

// ToDiscrete returns the discrete-marked version of name. It fails
// if name is already marked.
func ToDiscrete(name string) (string, error) {
	if IsDiscreteName(name) {
		return "", failure.New(failure.AlreadyDiscrete, "Variable '%s' is already discrete.", name)
	}
	return discretePrefix + name, nil
}

// FromDiscrete is the inverse of ToDiscrete. It fails if name is not
// discrete-marked.
func FromDiscrete(name string) (string, error) {
	if !IsDiscreteName(name) {
		return "", failure.New(failure.NotDiscrete, "Variable '%s' is not discrete.", name)
	}
	return name[len(discretePrefix):], nil
}

// IsDiscreteName reports whether name carries the discrete marker.
func IsDiscreteName(name string) bool {
	return strings.HasPrefix(name, discretePrefix)
}

// Unmarked returns name without its discrete marker, if any.
func Unmarked(name string) string {
	return strings.TrimPrefix(name, discretePrefix)
}
