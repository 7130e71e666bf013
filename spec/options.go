// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spec

import (
	"sort"

	"github.com/aclements/go-plotspec/failure"
)

// Options is a typed, read-only view of a map node with default
// values.
//
// Every getter prefers the node's own value over the default value.
// A null value is treated the same as an absent value. Getters fail
// with a failure.TypeMismatch error when the value has the wrong
// shape, and the "Safe" getters fail with failure.MissingOption when
// the value is absent from both sources.
type Options struct {
	own      Node
	defaults map[string]Node
}

// NewOptions returns Options over the map node own. own may be null.
// defaults may be nil; its values are converted with FromValue.
func NewOptions(own Node, defaults map[string]interface{}) *Options {
	if own.kind != KindMap && own.kind != KindNull {
		panic("spec.NewOptions: own options must be a map, not " + own.kind.String())
	}
	o := &Options{own: own}
	if len(defaults) > 0 {
		o.defaults = make(map[string]Node, len(defaults))
		for k, v := range defaults {
			o.defaults[k] = FromValue(v)
		}
	}
	return o
}

// Own returns the node's own options, without defaults.
func (o *Options) Own() Node {
	return o.own
}

// OwnKeys returns the keys present in the node itself, in document
// order.
func (o *Options) OwnKeys() []string {
	var keys []string
	for _, k := range o.own.Keys() {
		if v, _ := o.own.Get(k); !v.IsNull() {
			keys = append(keys, k)
		}
	}
	return keys
}

// Keys returns the node's own keys in document order followed by
// default keys not present in the node, sorted.
func (o *Options) Keys() []string {
	keys := o.OwnKeys()
	var extra []string
	for k, v := range o.defaults {
		if !v.IsNull() && !o.HasOwn(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// HasOwn reports whether key has a non-null value in the node
// itself, ignoring defaults.
func (o *Options) HasOwn(key string) bool {
	v, ok := o.own.Get(key)
	return ok && !v.IsNull()
}

// Has reports whether key has a non-null value either in the node or
// in the defaults.
func (o *Options) Has(key string) bool {
	return !o.Get(key).IsNull()
}

// Get returns the value of key, or Null.
func (o *Options) Get(key string) Node {
	if v, ok := o.own.Get(key); ok && !v.IsNull() {
		return v
	}
	return o.defaults[key]
}

// Update returns a copy of o with key set to value in the node's own
// options. o is unchanged.
func (o *Options) Update(key string, value interface{}) *Options {
	return &Options{Patch(o.own, key, value), o.defaults}
}

// GetString returns the value of key formatted as a string. Numbers
// and bools are formatted; lists and maps are a type mismatch.
func (o *Options) GetString(key string) (string, bool, error) {
	v := o.Get(key)
	switch v.kind {
	case KindNull:
		return "", false, nil
	case KindString:
		return v.str, true, nil
	case KindNumber, KindBool:
		return v.String(), true, nil
	}
	return "", false, failure.New(failure.TypeMismatch,
		"The option '%s' requires a string but was: %s", key, v)
}

// GetStringDef is like GetString but returns def if key is absent.
func (o *Options) GetStringDef(key, def string) (string, error) {
	s, ok, err := o.GetString(key)
	if err != nil || !ok {
		return def, err
	}
	return s, nil
}

// GetStringSafe is like GetString but fails if key is absent.
func (o *Options) GetStringSafe(key string) (string, error) {
	s, ok, err := o.GetString(key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", failure.New(failure.MissingOption,
			"Can't get string value: option '%s' is not present.", key)
	}
	return s, nil
}

// GetDouble returns the numeric value of key.
func (o *Options) GetDouble(key string) (float64, bool, error) {
	v := o.Get(key)
	if v.IsNull() {
		return 0, false, nil
	}
	if x, ok := v.AsNumber(); ok {
		return x, true, nil
	}
	return 0, false, failure.New(failure.TypeMismatch,
		"The option '%s' requires a number but was: %s", key, v)
}

// GetDoubleDef is like GetDouble but returns def if key is absent.
func (o *Options) GetDoubleDef(key string, def float64) (float64, error) {
	x, ok, err := o.GetDouble(key)
	if err != nil || !ok {
		return def, err
	}
	return x, nil
}

// GetInt returns the value of key truncated to an integer.
func (o *Options) GetInt(key string) (int, bool, error) {
	x, ok, err := o.GetDouble(key)
	return int(x), ok, err
}

// GetIntDef is like GetInt but returns def if key is absent.
func (o *Options) GetIntDef(key string, def int) (int, error) {
	x, ok, err := o.GetInt(key)
	if err != nil || !ok {
		return def, err
	}
	return x, nil
}

// GetBool returns the boolean value of key, or def if key is absent.
func (o *Options) GetBool(key string, def bool) (bool, error) {
	v := o.Get(key)
	if v.IsNull() {
		return def, nil
	}
	if b, ok := v.AsBool(); ok {
		return b, nil
	}
	return def, failure.New(failure.TypeMismatch,
		"The option '%s' requires a boolean but was: %s", key, v)
}

// GetList returns the elements of list option key, or nil if key is
// absent.
func (o *Options) GetList(key string) ([]Node, error) {
	v := o.Get(key)
	if v.IsNull() {
		return nil, nil
	}
	if l, ok := v.AsList(); ok {
		return l, nil
	}
	return nil, failure.New(failure.TypeMismatch, "Not a List: %s: %s", key, v.kind)
}

// GetAsList is like GetList, but wraps a scalar value in a one
// element list.
func (o *Options) GetAsList(key string) []Node {
	v := o.Get(key)
	switch v.kind {
	case KindNull:
		return nil
	case KindList:
		return v.list
	}
	return []Node{v}
}

// GetMap returns the map option key as Options without defaults. If
// key is absent it returns empty Options.
func (o *Options) GetMap(key string) (*Options, error) {
	v := o.Get(key)
	switch v.kind {
	case KindNull:
		return NewOptions(Null, nil), nil
	case KindMap:
		return NewOptions(v, nil), nil
	}
	return nil, failure.New(failure.TypeMismatch, "Not a Map: %s: %s", key, v.kind)
}

// GetDoubleList returns list option key as numbers.
func (o *Options) GetDoubleList(key string) ([]float64, error) {
	l, err := o.GetList(key)
	if err != nil || l == nil {
		return nil, err
	}
	return numberList(key, l)
}

func numberList(key string, l []Node) ([]float64, error) {
	xs := make([]float64, len(l))
	for i, v := range l {
		x, ok := v.AsNumber()
		if !ok {
			return nil, failure.New(failure.TypeMismatch,
				"The option '%s' requires a list of numbers but element [%d] is: %s", key, i, v)
		}
		xs[i] = x
	}
	return xs, nil
}

// GetBoundedDoubleList is like GetDoubleList but also requires every
// element to be in [lo, hi].
func (o *Options) GetBoundedDoubleList(key string, lo, hi float64) ([]float64, error) {
	xs, err := o.GetDoubleList(key)
	if err != nil {
		return nil, err
	}
	for _, x := range xs {
		if x < lo || x > hi {
			return nil, failure.New(failure.InvalidOption,
				"The option '%s' requires a list of numbers in range [%g, %g] but was: %s", key, lo, hi, o.Get(key))
		}
	}
	return xs, nil
}

// GetRange returns the [min, max] pair at key. The value must be a
// list of exactly two numbers. The result is ordered so lo <= hi.
func (o *Options) GetRange(key string) (lo, hi float64, err error) {
	if !o.Has(key) {
		return 0, 0, failure.New(failure.MissingOption, "'Range' value is expected in form: [min, max]")
	}
	r, err := o.GetRangeOrNull(key)
	if err != nil {
		return 0, 0, err
	}
	return r[0], r[1], nil
}

// GetRangeOrNull is like GetRange but returns nil if key is absent.
func (o *Options) GetRangeOrNull(key string) (*[2]float64, error) {
	l, err := o.GetList(key)
	if err != nil || l == nil {
		return nil, err
	}
	if len(l) != 2 {
		return nil, failure.New(failure.TypeMismatch,
			"'range' value is expected in form: [min, max] but was: %s", o.Get(key))
	}
	xs, err := numberList(key, l)
	if err != nil {
		return nil, err
	}
	if xs[0] > xs[1] {
		xs[0], xs[1] = xs[1], xs[0]
	}
	return &[2]float64{xs[0], xs[1]}, nil
}

// GetPair returns the first two elements of list option key. Either
// element may be null.
func (o *Options) GetPair(key string) (a, b Node, err error) {
	l, err := o.GetList(key)
	if err != nil {
		return Null, Null, err
	}
	if len(l) < 2 {
		return Null, Null, failure.New(failure.TypeMismatch,
			"'%s' value is expected in form: [a, b] but was: %s", key, o.Get(key))
	}
	return l[0], l[1], nil
}

// GetNumberPair is like GetPair but both elements must be numbers or
// null. A null element is returned as nil.
func (o *Options) GetNumberPair(key string) (a, b *float64, err error) {
	na, nb, err := o.GetPair(key)
	if err != nil {
		return nil, nil, err
	}
	conv := func(i int, n Node) (*float64, error) {
		if n.IsNull() {
			return nil, nil
		}
		x, ok := n.AsNumber()
		if !ok {
			return nil, failure.New(failure.TypeMismatch,
				"The option '%s' requires a list of numbers but element [%d] is: %s", key, i, n)
		}
		return &x, nil
	}
	if a, err = conv(0, na); err != nil {
		return nil, nil, err
	}
	if b, err = conv(1, nb); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// GetOrderedDistinctPair returns a numeric pair whose elements must
// be distinct and in ascending order.
func (o *Options) GetOrderedDistinctPair(key string) (lo, hi float64, err error) {
	l, err := o.GetList(key)
	if err != nil {
		return 0, 0, err
	}
	if len(l) != 2 {
		return 0, 0, failure.New(failure.TypeMismatch,
			"The option '%s' requires a list of two numbers but was: %s", key, o.Get(key))
	}
	xs, err := numberList(key, l)
	if err != nil {
		return 0, 0, err
	}
	if !(xs[0] < xs[1]) {
		return 0, 0, failure.New(failure.InvalidOption,
			"The option '%s' requires two distinct numbers in ascending order but was: %s", key, o.Get(key))
	}
	return xs[0], xs[1], nil
}
