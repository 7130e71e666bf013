// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package data implements the data frames that plot layers bind to
// aesthetics.
//
// A Frame is an immutable table of equal-length columns stored in a
// go-gg table. Every column is a []interface{} whose elements are
// nil (a missing value), float64, string or bool. Frames also record
// per-variable metadata: whether a variable is computed by a stat,
// whether it holds date-times, and whether it must be treated as
// discrete.
package data

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-plotspec/failure"
	"github.com/aclements/go-plotspec/spec"
)

// Frame is an immutable set of named, equal-length columns.
type Frame struct {
	t        *table.Table
	vars     map[string]Variable
	dateTime map[string]bool
	discrete map[string]bool
	levels   map[string][]interface{}
}

// Empty is the frame with no columns.
var Empty = NewBuilder(nil).Done()

// Len returns the number of rows in f.
func (f *Frame) Len() int {
	return f.t.Len()
}

// IsEmpty reports whether f has no columns.
func (f *Frame) IsEmpty() bool {
	return len(f.t.Columns()) == 0
}

// Names returns the column names of f in insertion order.
func (f *Frame) Names() []string {
	return f.t.Columns()
}

// Variables returns the variables of f in column order.
func (f *Frame) Variables() []Variable {
	cols := f.t.Columns()
	vs := make([]Variable, len(cols))
	for i, c := range cols {
		vs[i] = f.vars[c]
	}
	return vs
}

// Has reports whether f has a column named name.
func (f *Frame) Has(name string) bool {
	_, ok := f.vars[name]
	return ok
}

// Var returns the variable named name.
func (f *Frame) Var(name string) (Variable, bool) {
	v, ok := f.vars[name]
	return v, ok
}

// Find returns the variable named name. It fails with
// failure.UndefinedVariable, listing the variables of f, if there is
// no such column.
func (f *Frame) Find(name string) (Variable, error) {
	if v, ok := f.vars[name]; ok {
		return v, nil
	}
	quoted := make([]string, 0, len(f.vars))
	for _, c := range f.Names() {
		quoted = append(quoted, "'"+c+"'")
	}
	return Variable{}, failure.New(failure.UndefinedVariable,
		"Variable not found: '%s'. Variables in data frame: [%s]", name, strings.Join(quoted, ", "))
}

// Column returns the values of column name, or nil if there is no
// such column. The caller must not modify the result.
func (f *Frame) Column(name string) []interface{} {
	c := f.t.Column(name)
	if c == nil {
		return nil
	}
	return c.([]interface{})
}

// MustColumn is like Column but panics if there is no such column.
func (f *Frame) MustColumn(name string) []interface{} {
	return f.t.MustColumn(name).([]interface{})
}

// Table returns the underlying go-gg table.
func (f *Frame) Table() *table.Table {
	return f.t
}

// IsDateTime reports whether name holds date-time values.
func (f *Frame) IsDateTime(name string) bool {
	return f.dateTime[name]
}

// IsDiscrete reports whether name was marked discrete, either by its
// name or by metadata.
func (f *Frame) IsDiscrete(name string) bool {
	return IsDiscreteName(name) || f.discrete[name]
}

// Levels returns the declared factor levels of name, if any.
func (f *Frame) Levels(name string) []interface{} {
	return f.levels[name]
}

// IsNumeric reports whether every non-missing value of column name
// is a number. A column with no values is numeric.
func (f *Frame) IsNumeric(name string) bool {
	for _, v := range f.Column(name) {
		if v == nil {
			continue
		}
		if _, ok := v.(float64); !ok {
			return false
		}
	}
	return true
}

// Distinct returns the distinct non-missing values of column name in
// first-seen order.
func (f *Frame) Distinct(name string) []interface{} {
	col := f.Column(name)
	vals := make([]interface{}, 0, len(col))
	for _, v := range col {
		if v == nil {
			continue
		}
		if x, ok := v.(float64); ok && math.IsNaN(x) {
			continue
		}
		vals = append(vals, v)
	}
	return slice.Nub(vals).([]interface{})
}

// Floats returns the finite numeric values of column name.
func (f *Frame) Floats(name string) []float64 {
	col := f.Column(name)
	xs := make([]float64, 0, len(col))
	for _, v := range col {
		if x, ok := v.(float64); ok && !math.IsNaN(x) && !math.IsInf(x, 0) {
			xs = append(xs, x)
		}
	}
	return xs
}

// Range returns the bounds of the finite numeric values of column
// name. ok is false if there are none.
func (f *Frame) Range(name string) (lo, hi float64, ok bool) {
	xs := f.Floats(name)
	if len(xs) == 0 {
		return 0, 0, false
	}
	lo, hi = stats.Bounds(xs)
	return lo, hi, true
}

// Select returns a frame containing the rows of f at the given
// indexes, in order.
func (f *Frame) Select(rows []int) *Frame {
	// The go-gg builder must start empty because the row count
	// changes.
	b := NewBuilder(f)
	b.tb = table.NewBuilder(nil)
	for _, name := range f.Names() {
		b.Put(f.vars[name], slice.Select(f.Column(name), rows).([]interface{}))
	}
	return b.Done()
}

// Filter returns the rows of f for which pred returns true.
func (f *Frame) Filter(pred func(row int) bool) *Frame {
	var rows []int
	for i := 0; i < f.Len(); i++ {
		if pred(i) {
			rows = append(rows, i)
		}
	}
	return f.Select(rows)
}

// String summarizes the shape of f.
func (f *Frame) String() string {
	return fmt.Sprintf("Frame[%d rows: %s]", f.Len(), strings.Join(f.Names(), ", "))
}

// A Builder constructs a Frame.
type Builder struct {
	tb       *table.Builder
	vars     map[string]Variable
	dateTime map[string]bool
	discrete map[string]bool
	levels   map[string][]interface{}
}

// NewBuilder returns a Builder initialized with the columns and
// metadata of f. f may be nil.
func NewBuilder(f *Frame) *Builder {
	b := &Builder{
		vars:     map[string]Variable{},
		dateTime: map[string]bool{},
		discrete: map[string]bool{},
		levels:   map[string][]interface{}{},
	}
	if f == nil {
		b.tb = table.NewBuilder(nil)
		return b
	}
	b.tb = table.NewBuilder(f.t)
	for k, v := range f.vars {
		b.vars[k] = v
	}
	for k, v := range f.dateTime {
		b.dateTime[k] = v
	}
	for k, v := range f.discrete {
		b.discrete[k] = v
	}
	for k, v := range f.levels {
		b.levels[k] = v
	}
	return b
}

// Put adds or replaces the column for v. Put panics if col's length
// differs from the length of the other columns.
func (b *Builder) Put(v Variable, col []interface{}) *Builder {
	if col == nil {
		col = []interface{}{}
	}
	b.tb.Add(v.Name, col)
	b.vars[v.Name] = v
	return b
}

// Has reports whether the builder has a column named name.
func (b *Builder) Has(name string) bool {
	_, ok := b.vars[name]
	return ok
}

// Remove removes column name and its metadata.
func (b *Builder) Remove(name string) *Builder {
	if !b.Has(name) {
		return b
	}
	b.tb.Add(name, nil)
	delete(b.vars, name)
	delete(b.dateTime, name)
	delete(b.discrete, name)
	delete(b.levels, name)
	return b
}

// DateTime marks column name as holding date-times.
func (b *Builder) DateTime(name string) *Builder {
	b.dateTime[name] = true
	return b
}

// Discrete marks column name as discrete.
func (b *Builder) Discrete(name string) *Builder {
	b.discrete[name] = true
	return b
}

// Levels records the declared factor levels of column name.
func (b *Builder) Levels(name string, levels []interface{}) *Builder {
	b.levels[name] = levels
	return b
}

// Done returns the constructed Frame.
func (b *Builder) Done() *Frame {
	f := &Frame{
		t:        b.tb.Done(),
		vars:     b.vars,
		dateTime: b.dateTime,
		discrete: b.discrete,
		levels:   b.levels,
	}
	*b = Builder{}
	return f
}

// FromMap builds a frame from a map of column names to values. Every
// column must have the same length. Columns are added in sorted name
// order.
func FromMap(cols map[string][]interface{}) (*Frame, error) {
	names := make([]string, 0, len(cols))
	for k := range cols {
		names = append(names, k)
	}
	sort.Strings(names)
	b := NewBuilder(nil)
	n := -1
	for _, name := range names {
		col := cols[name]
		if n >= 0 && len(col) != n {
			return nil, failure.New(failure.InvalidOption,
				"Column '%s' has %d values but other columns have %d", name, len(col), n)
		}
		n = len(col)
		b.Put(Var(name), col)
	}
	return b.Done(), nil
}

// FromSpec builds a frame from a specification's data option, a map
// from column names to lists of scalars. A null node gives the empty
// frame. Columns keep their document order.
func FromSpec(n spec.Node) (*Frame, error) {
	switch n.Kind() {
	case spec.KindNull:
		return Empty, nil
	case spec.KindMap:
	default:
		return nil, failure.New(failure.TypeMismatch, "Data must be a map of columns but was: %s", n.Kind())
	}
	b := NewBuilder(nil)
	rows := -1
	for _, name := range n.Keys() {
		v, _ := n.Get(name)
		l, ok := v.AsList()
		if !ok {
			if v.IsNull() {
				l = nil
			} else {
				l = []spec.Node{v}
			}
		}
		if rows >= 0 && len(l) != rows {
			return nil, failure.New(failure.InvalidOption,
				"Column '%s' has %d values but other columns have %d", name, len(l), rows)
		}
		rows = len(l)
		col := make([]interface{}, len(l))
		for i, x := range l {
			switch x.Kind() {
			case spec.KindList, spec.KindMap:
				return nil, failure.New(failure.TypeMismatch,
					"Column '%s' element [%d] must be a scalar but was: %s", name, i, x)
			}
			col[i] = x.Scalar()
		}
		b.Put(Var(name), col)
	}
	return b.Done(), nil
}

// ToSpec converts f back to a specification data node.
func ToSpec(f *Frame) spec.Node {
	n := spec.Map()
	for _, name := range f.Names() {
		n = spec.Patch(n, name, f.Column(name))
	}
	return n
}

// Merge combines a shared frame with a layer's own frame.
//
// If both frames have columns and the same number of rows, the
// result has the columns of both, with own's columns replacing
// shared columns of the same name. Otherwise Merge returns own if it
// has any columns, and shared if not.
func Merge(shared, own *Frame) *Frame {
	switch {
	case !shared.IsEmpty() && !own.IsEmpty() && shared.Len() == own.Len():
		b := NewBuilder(shared)
		for _, v := range own.Variables() {
			b.Put(v, own.Column(v.Name))
			if own.IsDateTime(v.Name) {
				b.DateTime(v.Name)
			}
			if own.discrete[v.Name] {
				b.Discrete(v.Name)
			}
			if l := own.Levels(v.Name); l != nil {
				b.Levels(v.Name, l)
			}
		}
		return b.Done()
	case !own.IsEmpty():
		return own
	}
	return shared
}
